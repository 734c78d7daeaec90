package sales

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubSalesRepo struct {
	products map[uuid.UUID]*models.Product
	sales    map[uuid.UUID]*models.Sale
}

func newStubSalesRepo() *stubSalesRepo {
	return &stubSalesRepo{
		products: map[uuid.UUID]*models.Product{},
		sales:    map[uuid.UUID]*models.Sale{},
	}
}

func (s *stubSalesRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubSalesRepo) CreateSale(_ context.Context, sale *models.Sale) error {
	sale.ID = uuid.New()
	sale.CreatedAt = time.Now()
	for i := range sale.Items {
		sale.Items[i].ID = uuid.New()
		sale.Items[i].SaleID = sale.ID
	}
	s.sales[sale.ID] = sale
	return nil
}

func (s *stubSalesRepo) FindForShop(_ context.Context, shopID, id uuid.UUID) (*models.Sale, error) {
	sale, ok := s.sales[id]
	if !ok || sale.ShopID != shopID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *sale
	return &copied, nil
}

func (s *stubSalesRepo) List(_ context.Context, input ListInput) ([]models.Sale, error) {
	var rows []models.Sale
	for _, sale := range s.sales {
		if sale.ShopID == input.ShopID {
			rows = append(rows, *sale)
		}
	}
	return rows, nil
}

func (s *stubSalesRepo) MarkVoided(_ context.Context, sale *models.Sale) error {
	stored, ok := s.sales[sale.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = sale.Status
	stored.VoidedAt = sale.VoidedAt
	stored.VoidedBy = sale.VoidedBy
	return nil
}

func (s *stubSalesRepo) LoadProducts(_ context.Context, shopID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	out := map[uuid.UUID]*models.Product{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok && p.ShopID == shopID {
			out[id] = p
		}
	}
	return out, nil
}

func (s *stubSalesRepo) TakeStock(_ context.Context, productID uuid.UUID, qty decimal.Decimal) (bool, error) {
	p, ok := s.products[productID]
	if !ok || p.StockQty.LessThan(qty) {
		return false, nil
	}
	p.StockQty = p.StockQty.Sub(qty)
	return true, nil
}

func (s *stubSalesRepo) ReturnStock(_ context.Context, productID uuid.UUID, qty decimal.Decimal) error {
	if p, ok := s.products[productID]; ok {
		p.StockQty = p.StockQty.Add(qty)
	}
	return nil
}

func (s *stubSalesRepo) addProduct(p *models.Product) *models.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.IsActive = true
	s.products[p.ID] = p
	return p
}

func newSalesFixture(t *testing.T) (Service, *stubSalesRepo, uuid.UUID) {
	t.Helper()
	repo := newStubSalesRepo()
	svc, err := NewService(ServiceParams{Tx: passthroughTx{}, Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, uuid.New()
}

func TestCheckoutMixedCart(t *testing.T) {
	ctx := context.Background()
	svc, repo, shopID := newSalesFixture(t)
	cashier := uuid.New()

	bag := repo.addProduct(&models.Product{
		ShopID:   shopID,
		Name:     "Layers Mash 50kg",
		Unit:     enums.ProductUnitBag,
		Price:    dec("3200"),
		StockQty: dec("10"),
	})
	rate := dec("65")
	loose := repo.addProduct(&models.Product{
		ShopID:     shopID,
		Name:       "Loose Dairy Meal",
		Unit:       enums.ProductUnitKilogram,
		PricePerKg: &rate,
		StockQty:   dec("40"),
	})

	qty := dec("2")
	amount := dec("130")
	paid := dec("7000")
	sale, err := svc.Checkout(ctx, shopID, cashier, CheckoutInput{
		Lines: []CheckoutLine{
			{ProductID: bag.ID, EntryMode: enums.LineEntryByQuantity, Quantity: &qty},
			{ProductID: loose.ID, EntryMode: enums.LineEntryByAmount, Amount: &amount},
		},
		PaymentMethod: enums.PaymentMethodCash,
		AmountPaid:    &paid,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if !sale.Subtotal.Equal(dec("6530")) {
		t.Fatalf("subtotal = %s, want 6530", sale.Subtotal)
	}
	if !sale.Change.Equal(dec("470")) {
		t.Fatalf("change = %s, want 470", sale.Change)
	}
	if len(sale.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(sale.Items))
	}
	if !strings.HasPrefix(sale.ReceiptNumber, "RCP-") {
		t.Fatalf("unexpected receipt number %q", sale.ReceiptNumber)
	}

	// 130 KES at 65/kg takes 2kg off the shelf.
	if !repo.products[loose.ID].StockQty.Equal(dec("38")) {
		t.Fatalf("loose stock = %s, want 38", repo.products[loose.ID].StockQty)
	}
	if !repo.products[bag.ID].StockQty.Equal(dec("8")) {
		t.Fatalf("bag stock = %s, want 8", repo.products[bag.ID].StockQty)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	ctx := context.Background()
	svc, repo, shopID := newSalesFixture(t)

	bag := repo.addProduct(&models.Product{
		ShopID:   shopID,
		Name:     "Chick Starter 10kg",
		Unit:     enums.ProductUnitBag,
		Price:    dec("900"),
		StockQty: dec("1"),
	})

	qty := dec("3")
	_, err := svc.Checkout(ctx, shopID, uuid.New(), CheckoutInput{
		Lines:         []CheckoutLine{{ProductID: bag.ID, EntryMode: enums.LineEntryByQuantity, Quantity: &qty}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected stock conflict, got %v", err)
	}
}

func TestCheckoutRejectsUnderpayment(t *testing.T) {
	ctx := context.Background()
	svc, repo, shopID := newSalesFixture(t)

	bag := repo.addProduct(&models.Product{
		ShopID:   shopID,
		Name:     "Layers Mash 50kg",
		Unit:     enums.ProductUnitBag,
		Price:    dec("3200"),
		StockQty: dec("10"),
	})

	qty := dec("1")
	paid := dec("3000")
	_, err := svc.Checkout(ctx, shopID, uuid.New(), CheckoutInput{
		Lines:         []CheckoutLine{{ProductID: bag.ID, EntryMode: enums.LineEntryByQuantity, Quantity: &qty}},
		PaymentMethod: enums.PaymentMethodCash,
		AmountPaid:    &paid,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutDiscountBounds(t *testing.T) {
	ctx := context.Background()
	svc, repo, shopID := newSalesFixture(t)

	bag := repo.addProduct(&models.Product{
		ShopID:   shopID,
		Name:     "Layers Mash 50kg",
		Unit:     enums.ProductUnitBag,
		Price:    dec("3200"),
		StockQty: dec("10"),
	})

	qty := dec("1")
	sale, err := svc.Checkout(ctx, shopID, uuid.New(), CheckoutInput{
		Lines:         []CheckoutLine{{ProductID: bag.ID, EntryMode: enums.LineEntryByQuantity, Quantity: &qty}},
		PaymentMethod: enums.PaymentMethodMpesa,
		Discount:      dec("200"),
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !sale.Total.Equal(dec("3000")) {
		t.Fatalf("total = %s, want 3000", sale.Total)
	}
	// Amount paid defaults to the total for non-cash payments.
	if !sale.AmountPaid.Equal(dec("3000")) || !sale.Change.Equal(dec("0")) {
		t.Fatalf("paid/change = %s/%s, want 3000/0", sale.AmountPaid, sale.Change)
	}

	_, err = svc.Checkout(ctx, shopID, uuid.New(), CheckoutInput{
		Lines:         []CheckoutLine{{ProductID: bag.ID, EntryMode: enums.LineEntryByQuantity, Quantity: &qty}},
		PaymentMethod: enums.PaymentMethodMpesa,
		Discount:      dec("4000"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("oversized discount should fail, got %v", err)
	}
}

func TestVoidRestoresStock(t *testing.T) {
	ctx := context.Background()
	svc, repo, shopID := newSalesFixture(t)
	manager := uuid.New()

	rate := dec("65")
	loose := repo.addProduct(&models.Product{
		ShopID:     shopID,
		Name:       "Loose Dairy Meal",
		Unit:       enums.ProductUnitKilogram,
		PricePerKg: &rate,
		StockQty:   dec("40"),
	})

	weight := dec("5")
	sale, err := svc.Checkout(ctx, shopID, uuid.New(), CheckoutInput{
		Lines:         []CheckoutLine{{ProductID: loose.ID, EntryMode: enums.LineEntryByWeight, WeightKg: &weight}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !repo.products[loose.ID].StockQty.Equal(dec("35")) {
		t.Fatalf("stock after sale = %s, want 35", repo.products[loose.ID].StockQty)
	}

	voided, err := svc.Void(ctx, shopID, sale.ID, manager)
	if err != nil {
		t.Fatalf("void: %v", err)
	}
	if voided.Status != enums.SaleStatusVoided || voided.VoidedBy == nil || *voided.VoidedBy != manager {
		t.Fatalf("void audit fields missing: %+v", voided)
	}
	if !repo.products[loose.ID].StockQty.Equal(dec("40")) {
		t.Fatalf("stock after void = %s, want 40", repo.products[loose.ID].StockQty)
	}

	_, err = svc.Void(ctx, shopID, sale.ID, manager)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("double void should conflict, got %v", err)
	}
}

func TestGetScopedToShop(t *testing.T) {
	ctx := context.Background()
	svc, repo, shopID := newSalesFixture(t)

	bag := repo.addProduct(&models.Product{
		ShopID:   shopID,
		Name:     "Layers Mash 50kg",
		Unit:     enums.ProductUnitBag,
		Price:    dec("3200"),
		StockQty: dec("10"),
	})
	qty := dec("1")
	sale, err := svc.Checkout(ctx, shopID, uuid.New(), CheckoutInput{
		Lines:         []CheckoutLine{{ProductID: bag.ID, EntryMode: enums.LineEntryByQuantity, Quantity: &qty}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if _, err := svc.Get(ctx, shopID, sale.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	_, err = svc.Get(ctx, uuid.New(), sale.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("other shop should not see the sale, got %v", err)
	}
}
