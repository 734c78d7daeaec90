package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/pkg/db"
	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
	"github.com/mazaohq/mazao-pos-backend/pkg/pagination"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindForShop(ctx context.Context, shopID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, input ListInput) ([]models.Product, error)
	CreateReceipt(ctx context.Context, receipt *models.StockReceipt) error
	ListReceipts(ctx context.Context, productID uuid.UUID) ([]models.StockReceipt, error)
}

// Service exposes catalog operations scoped to one shop per call.
type Service interface {
	Create(ctx context.Context, shopID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, shopID, id uuid.UUID) (*ProductDTO, error)
	Update(ctx context.Context, shopID, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	List(ctx context.Context, input ListInput) (*ProductPage, error)
	ReceiveStock(ctx context.Context, shopID, productID, receivedBy uuid.UUID, input ReceiveStockInput) (*ProductDTO, error)
}

type service struct {
	repo productRepository
}

// NewService builds the catalog service.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, shopID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		ShopID:      shopID,
		SKU:         strings.ToUpper(strings.TrimSpace(input.SKU)),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    input.Category,
		Unit:        input.Unit,
		Price:       input.Price,
		PricePerKg:  input.PricePerKg,
		Tags:        input.Tags,
		IsActive:    true,
	}
	if input.StockQty != nil {
		product.StockQty = *input.StockQty
	}
	if input.UnitCost != nil {
		product.UnitCost = *input.UnitCost
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists for this shop")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, shopID, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.findOwned(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, shopID, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findOwned(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	applyProductInput(product, input)

	if product.Unit.IsBulk() && product.PricePerKg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bulk products require a price per kg")
	}
	if product.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromModel(product), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ProductPage, error) {
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	page := &ProductPage{Items: make([]ProductDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			cursor := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[i-1].CreatedAt,
				ID:        rows[i-1].ID,
			})
			page.NextCursor = &cursor
			break
		}
		page.Items = append(page.Items, *FromModel(&rows[i]))
	}
	return page, nil
}

// ReceiveStock merges an incoming batch into on-hand stock. The product's
// unit cost becomes the weighted average of the existing stock and the batch.
func (s *service) ReceiveStock(ctx context.Context, shopID, productID, receivedBy uuid.UUID, input ReceiveStockInput) (*ProductDTO, error) {
	if input.Quantity.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
	}

	product, err := s.findOwned(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}

	costBefore := product.UnitCost
	costAfter := MergeUnitCost(product.StockQty, costBefore, input.Quantity, input.UnitCost)

	product.StockQty = product.StockQty.Add(input.Quantity)
	product.UnitCost = costAfter

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply stock receipt")
	}

	receipt := &models.StockReceipt{
		ShopID:     shopID,
		ProductID:  productID,
		ReceivedBy: receivedBy,
		Quantity:   input.Quantity,
		UnitCost:   input.UnitCost,
		CostBefore: costBefore,
		CostAfter:  costAfter,
		Supplier:   input.Supplier,
	}
	if err := s.repo.CreateReceipt(ctx, receipt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock receipt")
	}
	return FromModel(product), nil
}

func (s *service) findOwned(ctx context.Context, shopID, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindForShop(ctx, shopID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func validateCreate(input CreateProductInput) error {
	if strings.TrimSpace(input.SKU) == "" || strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku and name are required")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if !input.Unit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid unit")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Unit.IsBulk() && input.PricePerKg == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "bulk products require a price per kg")
	}
	return nil
}

func applyProductInput(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil && input.Category.IsValid() {
		product.Category = *input.Category
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.PricePerKg != nil {
		product.PricePerKg = input.PricePerKg
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.Tags != nil {
		product.Tags = *input.Tags
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}
