// Package kyc handles identity document submission and admin review.
// Approval flips the user's verification flags, which gates selling.
package kyc

import (
	"errors"
	"fmt"

	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services/notification"
)

var (
	ErrDocumentNotFound = errors.New("kyc document not found")
	ErrAlreadyPending   = errors.New("a submission is already under review")
	ErrInvalidDocument  = errors.New("unsupported document type")
)

var allowedDocuments = map[string]bool{
	models.DocumentNIN:          true,
	models.DocumentBVN:          true,
	models.DocumentCACCert:      true,
	models.DocumentVotersCard:   true,
	models.DocumentPassport:     true,
	models.DocumentFarmRegistry: true,
}

type SubmitInput struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	FileKey        string `json:"file_key"`
}

type Service interface {
	Submit(userID uint, input SubmitInput) (*models.KYCDocument, error)
	Status(userID uint) (*models.KYCDocument, error)
	ListPending(limit, offset int) ([]models.KYCDocument, int64, error)
	Approve(docID, reviewerID uint) error
	Reject(docID, reviewerID uint, reason string) error
}

type service struct {
	kycRepo  repositories.KYCRepository
	userRepo repositories.UserRepository
	notifier notification.Service
}

func NewService(kycRepo repositories.KYCRepository, userRepo repositories.UserRepository, notifier notification.Service) Service {
	if kycRepo == nil || userRepo == nil {
		panic("kyc repositories are required")
	}
	return &service{kycRepo: kycRepo, userRepo: userRepo, notifier: notifier}
}

func (s *service) Submit(userID uint, input SubmitInput) (*models.KYCDocument, error) {
	if !allowedDocuments[input.DocumentType] {
		return nil, ErrInvalidDocument
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.KYCStatus == models.KYCPending {
		return nil, ErrAlreadyPending
	}

	doc := &models.KYCDocument{
		UserID:         userID,
		DocumentType:   input.DocumentType,
		DocumentNumber: input.DocumentNumber,
		FileKey:        input.FileKey,
		Status:         models.KYCPending,
	}
	if err := s.kycRepo.Create(doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	if err := s.userRepo.SetKYCState(userID, models.KYCPending, false); err != nil {
		return nil, fmt.Errorf("failed to update verification state: %w", err)
	}
	return doc, nil
}

func (s *service) Status(userID uint) (*models.KYCDocument, error) {
	doc, err := s.kycRepo.GetLatestByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *service) ListPending(limit, offset int) ([]models.KYCDocument, int64, error) {
	return s.kycRepo.ListPending(limit, offset)
}

func (s *service) Approve(docID, reviewerID uint) error {
	return s.review(docID, reviewerID, models.KYCApproved, "")
}

func (s *service) Reject(docID, reviewerID uint, reason string) error {
	return s.review(docID, reviewerID, models.KYCRejected, reason)
}

func (s *service) review(docID, reviewerID uint, status, reason string) error {
	doc, err := s.kycRepo.GetByID(docID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	if err := s.kycRepo.Review(docID, reviewerID, status, reason); err != nil {
		return fmt.Errorf("failed to review document: %w", err)
	}
	if err := s.userRepo.SetKYCState(doc.UserID, status, status == models.KYCApproved); err != nil {
		return fmt.Errorf("failed to update verification state: %w", err)
	}

	if s.notifier != nil {
		switch status {
		case models.KYCApproved:
			s.notifier.Notify(doc.UserID, "kyc", "Verification approved",
				"Your identity has been verified. You can now list products for sale.", nil)
		case models.KYCRejected:
			s.notifier.Notify(doc.UserID, "kyc", "Verification rejected",
				fmt.Sprintf("Your submission was rejected: %s. Please submit again.", reason), nil)
		}
	}
	return nil
}
