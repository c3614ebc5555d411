package storefront

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tiendaapp/tiendastore/internal/domain"
)

type fakeBackoffice struct {
	products map[string]*domain.Product
	deleted  []string
	updates  []ProductUpdate
	config   NotifyConfigData
}

func newFakeBackoffice(products ...*domain.Product) *fakeBackoffice {
	f := &fakeBackoffice{products: map[string]*domain.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeBackoffice) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeBackoffice) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	p := &domain.Product{
		ID:       "new",
		Name:     input.Name,
		Price:    input.Price,
		Stock:    input.Stock,
		ImageUrl: input.ImageUrl,
		Images:   input.Images,
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeBackoffice) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error) {
	f.updates = append(f.updates, update)
	p, ok := f.products[id]
	if !ok {
		return nil, &APIError{StatusCode: 404, Detail: "Producto no encontrado"}
	}
	if update.Stock != nil {
		p.Stock = *update.Stock
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	return p, nil
}

func (f *fakeBackoffice) DeleteProduct(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.products, id)
	return nil
}

func (f *fakeBackoffice) Inbox(ctx context.Context) (*RequestInbox, error) {
	return &RequestInbox{
		PurchaseRequests: []domain.PurchaseRequest{
			{ID: "r1", Status: domain.RequestPending},
			{ID: "r2", Status: domain.RequestCompleted},
		},
		CustomRequests: []domain.CustomRequest{
			{ID: "c1", Status: domain.RequestPending},
		},
	}, nil
}

func (f *fakeBackoffice) CompletePurchase(ctx context.Context, id string) error   { return nil }
func (f *fakeBackoffice) RejectPurchase(ctx context.Context, id string) error     { return nil }
func (f *fakeBackoffice) CompleteOutOfStock(ctx context.Context, id string) error { return nil }
func (f *fakeBackoffice) CompleteCustom(ctx context.Context, id string) error     { return nil }

func (f *fakeBackoffice) NotifyConfig(ctx context.Context) (*NotifyConfigData, error) {
	return &f.config, nil
}

func (f *fakeBackoffice) SaveNotifyConfig(ctx context.Context, cfg NotifyConfigData) error {
	f.config = cfg
	return nil
}

func TestAdminStockDelta(t *testing.T) {
	shop := newFakeBackoffice(&domain.Product{ID: "p1", Name: "Miel", Stock: 3})
	admin := NewAdmin(shop)
	assert.NoError(t, admin.Refresh(context.Background()))

	// "+5" means add five
	p, err := admin.ApplyStockDelta(context.Background(), "p1", "+5")
	assert.NoError(t, err)
	assert.Equal(t, 8, p.Stock)

	p, err = admin.ApplyStockDelta(context.Background(), "p1", "-3")
	assert.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	// cannot go below zero; the server is never called
	before := len(shop.updates)
	_, err = admin.ApplyStockDelta(context.Background(), "p1", "-9")
	assert.ErrorIs(t, err, ErrNegativeStock)
	assert.Len(t, shop.updates, before)

	_, err = admin.ApplyStockDelta(context.Background(), "p1", "cinco")
	assert.Error(t, err)
}

func TestAdminDerivedStockLists(t *testing.T) {
	admin := NewAdmin(newFakeBackoffice(
		&domain.Product{ID: "out", Stock: 0},
		&domain.Product{ID: "low", Stock: 7},
		&domain.Product{ID: "ok", Stock: 15},
	))
	assert.NoError(t, admin.Refresh(context.Background()))

	low := admin.LowStock()
	assert.Len(t, low, 1)
	assert.Equal(t, "low", low[0].ID)

	out := admin.OutOfStock()
	assert.Len(t, out, 1)
	assert.Equal(t, "out", out[0].ID)
}

func TestAdminPendingCount(t *testing.T) {
	admin := NewAdmin(newFakeBackoffice())
	assert.NoError(t, admin.Refresh(context.Background()))
	assert.Equal(t, 2, admin.PendingCount())
}

func TestAdminDeleteConfirmGate(t *testing.T) {
	shop := newFakeBackoffice(&domain.Product{ID: "p1", Name: "Miel", Stock: 3})
	admin := NewAdmin(shop)
	assert.NoError(t, admin.Refresh(context.Background()))

	admin.ConfirmDelete = func(p domain.Product) bool { return false }
	assert.ErrorIs(t, admin.DeleteProduct(context.Background(), "p1"), ErrDeleteNotAllowed)
	assert.Empty(t, shop.deleted)

	admin.ConfirmDelete = func(p domain.Product) bool { return true }
	assert.NoError(t, admin.DeleteProduct(context.Background(), "p1"))
	assert.Equal(t, []string{"p1"}, shop.deleted)
	assert.Empty(t, admin.Products())
}

func TestAdminFormValidation(t *testing.T) {
	admin := NewAdmin(newFakeBackoffice())

	_, err := admin.CreateProduct(context.Background(), ProductForm{
		Name: "Miel", PriceText: "80.50", StockText: "-1",
	})
	assert.ErrorIs(t, err, ErrNegativeStock)

	_, err = admin.CreateProduct(context.Background(), ProductForm{
		Name: "Miel", PriceText: "gratis", StockText: "3",
	})
	assert.Error(t, err)

	_, err = admin.CreateProduct(context.Background(), ProductForm{
		Name: "  ", PriceText: "80", StockText: "3",
	})
	assert.Error(t, err)

	p, err := admin.CreateProduct(context.Background(), ProductForm{
		Name: "Miel", PriceText: "80.50", StockText: "3",
	})
	assert.NoError(t, err)
	assert.Equal(t, 80.50, p.Price)
	assert.Equal(t, 3, p.Stock)
}

func TestImageInputExclusive(t *testing.T) {
	var in ImageInput
	assert.Empty(t, in.Value())

	in.SetURL("https://cdn.example.com/a.jpg")
	assert.Equal(t, "https://cdn.example.com/a.jpg", in.Value())

	assert.NoError(t, in.SetUpload("image/png", []byte("png-bytes")))
	assert.True(t, strings.HasPrefix(in.Value(), "data:image/png;base64,"))

	// last set wins
	in.SetURL("https://cdn.example.com/b.jpg")
	assert.Equal(t, "https://cdn.example.com/b.jpg", in.Value())

	in.Clear()
	assert.Empty(t, in.Value())
}

func TestImageInputSizeLimit(t *testing.T) {
	var in ImageInput
	big := bytes.Repeat([]byte{0xff}, MaxImageBytes+1)
	assert.ErrorIs(t, in.SetUpload("image/jpeg", big), ErrImageTooLarge)
	assert.Empty(t, in.Value())

	ok := bytes.Repeat([]byte{0x01}, 1024)
	assert.NoError(t, in.SetUpload("image/jpeg", ok))
	assert.NotEmpty(t, in.Value())
}

func TestCustomFormDescription(t *testing.T) {
	form := &CustomForm{Name: "Lámpara de sal"}
	assert.Equal(t, "Lámpara de sal", form.Description())

	form.Notes = "tamaño grande"
	assert.Equal(t, "Lámpara de sal - tamaño grande", form.Description())

	form.Image.SetURL("https://cdn.example.com/ref.jpg")
	assert.Equal(t, "Lámpara de sal - tamaño grande | Imagen: https://cdn.example.com/ref.jpg",
		form.Description())

	assert.NoError(t, form.Image.SetUpload("image/png", []byte("x")))
	assert.Equal(t, "Lámpara de sal - tamaño grande | Imagen adjunta", form.Description())

	input, err := form.Input("+50499887766")
	assert.NoError(t, err)
	assert.Equal(t, 1, input.Quantity)
	assert.Equal(t, "+50499887766", input.Phone)

	_, err = (&CustomForm{}).Input("+50499887766")
	assert.Error(t, err)
}
