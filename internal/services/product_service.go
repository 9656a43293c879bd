package services

import (
	"context"

	"github.com/shopspring/decimal"

	"pasar/internal/models"
	"pasar/internal/repositories"
)

// Catalog is the read-only product interface the cart side consumes. It
// never mutates stock or price.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	IsPurchasable(product *models.Product) bool
	CurrentPrice(product *models.Product) decimal.Decimal
}

// ProductService handles business logic related to products. It implements
// Catalog for the cart and checkout services.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// IsPurchasable reports whether the product can be added to a cart.
func (s *ProductService) IsPurchasable(product *models.Product) bool {
	return product.Purchasable()
}

// CurrentPrice returns the product's current catalog price. Cart lines
// snapshot this value at add time.
func (s *ProductService) CurrentPrice(product *models.Product) decimal.Decimal {
	return product.Price
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	return s.repo.Update(ctx, product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
