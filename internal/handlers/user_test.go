package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"agromart/internal/models"
	"agromart/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, input *models.CreateUserInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) GetProfile(userID uint) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) UpdateProfile(userID uint, name, phone string) (*models.User, error) {
	args := m.Called(userID, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) AttachAgent(farmerID, agentID uint) error {
	return m.Called(farmerID, agentID).Error(0)
}

func TestRegisterStatusCodes(t *testing.T) {
	const body = `{"name":"Ada Obi","email":"ada@example.com","phone":"+2348012345678","password":"Sup3rSecret!","role":"farmer"}`

	newApp := func(svc *mockUserService) *fiber.App {
		app := fiber.New()
		handler := NewUserHandler(svc, nil)
		app.Post("/api/auth/register", handler.Register)
		return app
	}

	post := func(app *fiber.App) int {
		req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		assert.NoError(t, err)
		return resp.StatusCode
	}

	t.Run("new account", func(t *testing.T) {
		svc := new(mockUserService)
		created := &models.User{Email: "ada@example.com", Name: "Ada Obi"}
		created.ID = 11
		svc.On("Register", mock.Anything, mock.Anything).Return(created, nil)

		assert.Equal(t, fiber.StatusCreated, post(newApp(svc)))
	})

	t.Run("duplicate email is a bad request", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, repositories.ErrEmailTaken)

		assert.Equal(t, fiber.StatusBadRequest, post(newApp(svc)))
	})

	t.Run("duplicate phone is a bad request", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, repositories.ErrPhoneTaken)

		assert.Equal(t, fiber.StatusBadRequest, post(newApp(svc)))
	})
}
