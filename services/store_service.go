package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/repositories"
	"github.com/esportsfed/platform/utils"
)

type StoreService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProductByID(ctx context.Context, id int) (*models.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]models.Product, error)
	// PlaceOrder reserves stock and records the order atomically.
	PlaceOrder(ctx context.Context, userID, productID, quantity int) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int) ([]models.Order, error)
}

type CreateProductInput struct {
	Name        string
	Description *string
	PriceCents  int
	Stock       int
}

type storeService struct {
	txRunner    repositories.TxRunner
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
}

func NewStoreService(
	txRunner repositories.TxRunner,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
) StoreService {
	return &storeService{
		txRunner:    txRunner,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (s *storeService) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidationFailed)
	}
	if input.PriceCents < 0 || input.Stock < 0 {
		return nil, fmt.Errorf("%w: price and stock must be non-negative", ErrValidationFailed)
	}

	product := &models.Product{
		Name:        input.Name,
		Slug:        utils.Slugify(input.Name),
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrProductSlugConflict) {
			return nil, ErrProductSlugConflict
		}
		return nil, err
	}
	return product, nil
}

func (s *storeService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *storeService) ListProducts(ctx context.Context, limit, offset int) ([]models.Product, error) {
	return s.productRepo.List(ctx, limit, offset)
}

// PlaceOrder decrements stock with a conditional update (the stock >= qty
// guard lives inside the UPDATE, same shape as the championship slot
// counter) and inserts the order in the same transaction.
func (s *storeService) PlaceOrder(ctx context.Context, userID, productID, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var order *models.Order
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		product, err := s.productRepo.GetByID(ctx, exec, productID)
		if err != nil {
			if errors.Is(err, repositories.ErrProductNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if err := s.productRepo.DecrementStock(ctx, exec, productID, quantity); err != nil {
			if errors.Is(err, repositories.ErrProductOutOfStock) {
				return ErrProductOutOfStock
			}
			return err
		}

		order = &models.Order{
			UserID:     userID,
			ProductID:  productID,
			Quantity:   quantity,
			TotalCents: product.PriceCents * quantity,
			Status:     models.OrderPlaced,
		}
		return s.orderRepo.Create(ctx, exec, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *storeService) ListOrdersByUser(ctx context.Context, userID int) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}
