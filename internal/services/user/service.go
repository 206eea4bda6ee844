package user

import (
	"context"
	"errors"

	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services/wallet"
	"agromart/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotAnAgent = errors.New("user is not an agent")
	ErrNotAFarmer = errors.New("only farmers can be attached to an agent")
)

type Service interface {
	Register(ctx context.Context, input *models.CreateUserInput) (*models.User, error)
	GetProfile(userID uint) (*models.User, error)
	UpdateProfile(userID uint, name, phone string) (*models.User, error)

	// AttachAgent links a farmer to a managing agent. Agent commission on
	// order settlement only applies to attached farmers.
	AttachAgent(farmerID, agentID uint) error
}

type service struct {
	userRepo  repositories.UserRepository
	walletSvc wallet.Service
}

func NewService(userRepo repositories.UserRepository, walletSvc wallet.Service) Service {
	return &service{
		userRepo:  userRepo,
		walletSvc: walletSvc,
	}
}

func (s *service) Register(ctx context.Context, input *models.CreateUserInput) (*models.User, error) {
	v := validation.New()
	v.UserRegistration(input)
	if !v.Valid() {
		return nil, errors.New(v.First())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("password hashing failed")
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: string(hashedPassword),
		Role:     input.Role,
		Status:   "active",
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	w, err := s.walletSvc.CreateWallet(ctx, user.ID, "NGN")
	if err != nil {
		return nil, err
	}

	user.WalletID = &w.ID
	user.Wallet = w
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (s *service) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *service) UpdateProfile(userID uint, name, phone string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if phone != "" {
		v := validation.New()
		v.Phone("phone", phone)
		if !v.Valid() {
			return nil, errors.New(v.First())
		}
		user.Phone = phone
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *service) AttachAgent(farmerID, agentID uint) error {
	agent, err := s.userRepo.GetByID(agentID)
	if err != nil {
		return err
	}
	if agent.Role != models.RoleAgent {
		return ErrNotAnAgent
	}

	farmer, err := s.userRepo.GetByID(farmerID)
	if err != nil {
		return err
	}
	if farmer.Role != models.RoleFarmer {
		return ErrNotAFarmer
	}

	farmer.AgentID = &agentID
	return s.userRepo.Update(farmer)
}
