package product

import (
	"context"
	"errors"
	"fmt"
	"log"

	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/repositories/cache"
	"agromart/internal/validation"
)

var (
	ErrNotSeller      = errors.New("only verified farmers and businesses can list products")
	ErrNotOwner       = errors.New("product belongs to another seller")
	ErrProductMissing = errors.New("product not found")
)

type ListResult struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

type Service interface {
	Create(ctx context.Context, sellerID uint, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, sellerID uint, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, sellerID, productID uint) error
	Get(ctx context.Context, productID uint) (*models.Product, error)
	List(ctx context.Context, filter repositories.ProductFilter, limit, offset int) (*ListResult, error)
}

type service struct {
	repo     repositories.ProductRepository
	userRepo repositories.UserRepository
	cache    *cache.CacheService
}

func NewService(repo repositories.ProductRepository, userRepo repositories.UserRepository, cacheSvc *cache.CacheService) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
		cache:    cacheSvc,
	}
}

func (s *service) Create(ctx context.Context, sellerID uint, product *models.Product) (*models.Product, error) {
	seller, err := s.userRepo.GetByID(sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.CanSell() {
		return nil, ErrNotSeller
	}

	product.SellerID = sellerID
	if product.Status == "" {
		product.Status = models.ProductActive
	}

	v := validation.New()
	v.Product(product)
	if !v.Valid() {
		return nil, errors.New(v.First())
	}

	if err := s.repo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidateListings(ctx)
	return product, nil
}

func (s *service) Update(ctx context.Context, sellerID uint, product *models.Product) (*models.Product, error) {
	existing, err := s.repo.GetByID(product.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, ErrProductMissing
		}
		return nil, err
	}
	if existing.SellerID != sellerID {
		return nil, ErrNotOwner
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Category = product.Category
	existing.Price = product.Price
	existing.Unit = product.Unit
	existing.QuantityAvailable = product.QuantityAvailable
	existing.MinOrderQuantity = product.MinOrderQuantity
	existing.ImageKeys = product.ImageKeys
	existing.Status = product.Status
	existing.Location = product.Location

	v := validation.New()
	v.Product(existing)
	if !v.Valid() {
		return nil, errors.New(v.First())
	}

	if err := s.repo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidateListings(ctx)
	return existing, nil
}

func (s *service) Delete(ctx context.Context, sellerID, productID uint) error {
	existing, err := s.repo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return ErrProductMissing
		}
		return err
	}
	if existing.SellerID != sellerID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(productID); err != nil {
		return err
	}

	s.invalidateListings(ctx)
	return nil
}

func (s *service) Get(ctx context.Context, productID uint) (*models.Product, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, ErrProductMissing
		}
		return nil, err
	}
	return product, nil
}

func (s *service) List(ctx context.Context, filter repositories.ProductFilter, limit, offset int) (*ListResult, error) {
	// Only the unfiltered public listing is cached; filtered queries go to
	// the database.
	cacheable := filter.Category == "" && filter.SellerID == 0 && filter.Search == "" && offset == 0

	cacheKey := fmt.Sprintf("products:list:%d", limit)
	if cacheable && s.cache != nil {
		var cached ListResult
		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	products, total, err := s.repo.List(filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result := &ListResult{Products: products, Total: total}
	if cacheable && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result); err != nil {
			log.Printf("Failed to cache product listing: %v", err)
		}
	}
	return result, nil
}

func (s *service) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		log.Printf("Failed to invalidate product cache: %v", err)
	}
}
