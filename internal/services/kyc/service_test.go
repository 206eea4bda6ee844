package kyc

import (
	"testing"

	"agromart/internal/models"
	"agromart/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockKYCRepo struct{ mock.Mock }

func (m *MockKYCRepo) Create(doc *models.KYCDocument) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *MockKYCRepo) GetByID(id uint) (*models.KYCDocument, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCDocument), args.Error(1)
}

func (m *MockKYCRepo) GetLatestByUser(userID uint) (*models.KYCDocument, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KYCDocument), args.Error(1)
}

func (m *MockKYCRepo) ListPending(limit, offset int) ([]models.KYCDocument, int64, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]models.KYCDocument), args.Get(1).(int64), args.Error(2)
}

func (m *MockKYCRepo) Review(docID, reviewerID uint, status, reason string) error {
	args := m.Called(docID, reviewerID, status, reason)
	return args.Error(0)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByCustomerCode(code string) (*models.User, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepo) List(offset, limit int) ([]*models.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) ListByAgent(agentID uint) ([]*models.User, error) {
	args := m.Called(agentID)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepo) SetKYCState(userID uint, status string, verified bool) error {
	args := m.Called(userID, status, verified)
	return args.Error(0)
}

func TestSubmit(t *testing.T) {
	input := SubmitInput{
		DocumentType:   models.DocumentNIN,
		DocumentNumber: "12345678901",
		FileKey:        "kyc/4/nin.jpg",
	}

	t.Run("puts user under review", func(t *testing.T) {
		docs := new(MockKYCRepo)
		users := new(MockUserRepo)

		users.On("GetByID", uint(4)).Return(&models.User{KYCStatus: models.KYCUnsubmitted}, nil)
		docs.On("Create", mock.MatchedBy(func(d *models.KYCDocument) bool {
			return d.UserID == 4 && d.Status == models.KYCPending && d.DocumentType == models.DocumentNIN
		})).Return(nil)
		users.On("SetKYCState", uint(4), models.KYCPending, false).Return(nil)

		svc := NewService(docs, users, nil)
		doc, err := svc.Submit(4, input)

		assert.NoError(t, err)
		assert.Equal(t, models.KYCPending, doc.Status)
		users.AssertExpectations(t)
	})

	t.Run("rejects a second submission while one is pending", func(t *testing.T) {
		docs := new(MockKYCRepo)
		users := new(MockUserRepo)
		users.On("GetByID", uint(4)).Return(&models.User{KYCStatus: models.KYCPending}, nil)

		svc := NewService(docs, users, nil)
		_, err := svc.Submit(4, input)

		assert.ErrorIs(t, err, ErrAlreadyPending)
		docs.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("resubmission after rejection is allowed", func(t *testing.T) {
		docs := new(MockKYCRepo)
		users := new(MockUserRepo)
		users.On("GetByID", uint(4)).Return(&models.User{KYCStatus: models.KYCRejected}, nil)
		docs.On("Create", mock.Anything).Return(nil)
		users.On("SetKYCState", uint(4), models.KYCPending, false).Return(nil)

		svc := NewService(docs, users, nil)
		_, err := svc.Submit(4, input)
		assert.NoError(t, err)
	})

	t.Run("unknown document type", func(t *testing.T) {
		docs := new(MockKYCRepo)
		users := new(MockUserRepo)

		svc := NewService(docs, users, nil)
		_, err := svc.Submit(4, SubmitInput{DocumentType: "driving_licence"})

		assert.ErrorIs(t, err, ErrInvalidDocument)
		users.AssertNotCalled(t, "GetByID", mock.Anything)
	})
}

func TestReview(t *testing.T) {
	pendingDoc := func() *models.KYCDocument {
		d := &models.KYCDocument{UserID: 4, Status: models.KYCPending}
		d.ID = 77
		return d
	}

	t.Run("approval verifies the user", func(t *testing.T) {
		docs := new(MockKYCRepo)
		users := new(MockUserRepo)

		docs.On("GetByID", uint(77)).Return(pendingDoc(), nil)
		docs.On("Review", uint(77), uint(1), models.KYCApproved, "").Return(nil)
		users.On("SetKYCState", uint(4), models.KYCApproved, true).Return(nil)

		svc := NewService(docs, users, nil)
		assert.NoError(t, svc.Approve(77, 1))
		users.AssertExpectations(t)
	})

	t.Run("rejection clears verification", func(t *testing.T) {
		docs := new(MockKYCRepo)
		users := new(MockUserRepo)

		docs.On("GetByID", uint(77)).Return(pendingDoc(), nil)
		docs.On("Review", uint(77), uint(1), models.KYCRejected, "document unreadable").Return(nil)
		users.On("SetKYCState", uint(4), models.KYCRejected, false).Return(nil)

		svc := NewService(docs, users, nil)
		assert.NoError(t, svc.Reject(77, 1, "document unreadable"))
		users.AssertExpectations(t)
	})

	t.Run("unknown document", func(t *testing.T) {
		docs := new(MockKYCRepo)
		docs.On("GetByID", uint(99)).Return(nil, repositories.ErrKYCNotFound)

		svc := NewService(docs, new(MockUserRepo), nil)
		assert.ErrorIs(t, svc.Approve(99, 1), ErrDocumentNotFound)
	})
}
