package notification

import (
	"log"

	"agromart/internal/models"
	"agromart/internal/repositories"
)

// Service records in-app notifications. Delivery is best-effort: callers
// treat notification failures as non-fatal.
type Service interface {
	Notify(userID uint, notifType, title, body string, meta models.JSON)
	List(userID uint, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(notificationID, userID uint) error
	MarkAllRead(userID uint) error
}

type service struct {
	repo repositories.NotificationRepository
}

func NewService(repo repositories.NotificationRepository) Service {
	return &service{repo: repo}
}

func (s *service) Notify(userID uint, notifType, title, body string, meta models.JSON) {
	n := &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Meta:   meta,
	}
	if err := s.repo.Create(n); err != nil {
		log.Printf("Failed to create notification for user %d: %v", userID, err)
	}
}

func (s *service) List(userID uint, limit, offset int) ([]models.Notification, int64, error) {
	return s.repo.ListByUser(userID, limit, offset)
}

func (s *service) MarkRead(notificationID, userID uint) error {
	return s.repo.MarkRead(notificationID, userID)
}

func (s *service) MarkAllRead(userID uint) error {
	return s.repo.MarkAllRead(userID)
}
