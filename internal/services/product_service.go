package services

import (
	"context"
	"strings"
	"time"

	"warung-pos/internal/domain/catalog"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"

	"github.com/google/uuid"
)

type ProductService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

type ProductInput struct {
	Name        string
	Category    string
	Description string
	Price       float64
	CostPrice   float64
	Stock       int
	MinStock    int
	Unit        string
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (catalog.Product, error) {
	if err := validateProduct(in); err != nil {
		return catalog.Product{}, err
	}

	now := time.Now()
	p := &catalog.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Description: toNullString(in.Description),
		Price:       in.Price,
		CostPrice:   in.CostPrice,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		Unit:        in.Unit,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Unit == "" {
		p.Unit = "pcs"
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return catalog.Product{}, err
	}
	return *p, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, activeOnly bool) ([]catalog.Product, error) {
	return s.productRepo.List(ctx, activeOnly)
}

func (s *ProductService) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.productRepo.List(ctx, true)
	}
	return s.productRepo.Search(ctx, query)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in ProductInput) (catalog.Product, error) {
	if err := validateProduct(in); err != nil {
		return catalog.Product{}, err
	}

	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return catalog.Product{}, err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Category = strings.TrimSpace(in.Category)
	p.Description = toNullString(in.Description)
	p.Price = in.Price
	p.CostPrice = in.CostPrice
	p.Stock = in.Stock
	p.MinStock = in.MinStock
	if in.Unit != "" {
		p.Unit = in.Unit
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

// Deactivate soft-deletes a product. Rows stay so old transaction items keep
// their reference.
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Deactivate(ctx, id)
}

// RestockProduct adds incoming stock to a product.
func (s *ProductService) Restock(ctx context.Context, id uuid.UUID, quantity int) (catalog.Product, error) {
	if quantity <= 0 {
		return catalog.Product{}, warung_errors.ErrInvalidInput
	}
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return catalog.Product{}, err
	}
	p.Stock += quantity
	if err := s.productRepo.Update(ctx, p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

// LowStock lists active products at or below their minimum stock.
func (s *ProductService) LowStock(ctx context.Context) ([]catalog.Product, error) {
	return s.productRepo.LowStock(ctx)
}

func validateProduct(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return warung_errors.ErrInvalidInput
	}
	if in.Price < 0 || in.CostPrice < 0 || in.Stock < 0 || in.MinStock < 0 {
		return warung_errors.ErrInvalidInput
	}
	return nil
}
