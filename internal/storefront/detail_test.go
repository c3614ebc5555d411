package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tiendaapp/tiendastore/internal/domain"
)

type memPrefs struct {
	phone string
	dark  bool
}

func (m *memPrefs) Phone() string             { return m.phone }
func (m *memPrefs) SetPhone(p string) error   { m.phone = p; return nil }
func (m *memPrefs) DarkMode() bool            { return m.dark }
func (m *memPrefs) SetDarkMode(on bool) error { m.dark = on; return nil }

type fakeShop struct {
	product    *domain.Product
	purchases  []PurchaseInput
	backorders []OutOfStockInput
	err        error
}

func (f *fakeShop) Product(ctx context.Context, id string) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.product
	return &copied, nil
}

func (f *fakeShop) SubmitPurchase(ctx context.Context, input PurchaseInput) (*domain.PurchaseRequest, error) {
	f.purchases = append(f.purchases, input)
	f.product.Stock -= input.Quantity
	return &domain.PurchaseRequest{ID: "r1", Status: domain.RequestPending}, nil
}

func (f *fakeShop) SubmitOutOfStock(ctx context.Context, input OutOfStockInput) (*domain.OutOfStockRequest, error) {
	f.backorders = append(f.backorders, input)
	return &domain.OutOfStockRequest{ID: "o1", Status: domain.RequestPending}, nil
}

func TestDetailQuantityClamp(t *testing.T) {
	shop := &fakeShop{product: &domain.Product{ID: "p1", Name: "Miel", Stock: 5}}
	detail := NewDetail(shop, nil)
	assert.NoError(t, detail.Load(context.Background(), "p1"))

	// floor at 1
	detail.Decrement()
	assert.Equal(t, 1, detail.Quantity())

	for i := 0; i < 10; i++ {
		detail.Increment()
	}
	// capped at the available stock
	assert.Equal(t, 5, detail.Quantity())
}

func TestDetailQuantityUnboundedWhenSoldOut(t *testing.T) {
	shop := &fakeShop{product: &domain.Product{ID: "p1", Stock: 0}}
	detail := NewDetail(shop, nil)
	assert.NoError(t, detail.Load(context.Background(), "p1"))

	for i := 0; i < 10; i++ {
		detail.Increment()
	}
	assert.Equal(t, 11, detail.Quantity())
}

func TestDetailGalleryWraps(t *testing.T) {
	shop := &fakeShop{product: &domain.Product{
		ID:       "p1",
		ImageUrl: "https://cdn.example.com/a.jpg",
		Images: []domain.ProductImage{
			{Url: "https://cdn.example.com/b.jpg", Type: "image"},
			{Url: "https://cdn.example.com/c.mp4", Type: "video"},
		},
	}}
	detail := NewDetail(shop, nil)
	assert.NoError(t, detail.Load(context.Background(), "p1"))
	assert.Len(t, detail.Gallery(), 3)

	detail.NextImage()
	detail.NextImage()
	assert.Equal(t, 2, detail.ImageIndex())
	detail.NextImage()
	assert.Equal(t, 0, detail.ImageIndex())

	detail.PrevImage()
	assert.Equal(t, 2, detail.ImageIndex())

	detail.SelectImage(99)
	assert.Equal(t, 2, detail.ImageIndex())
	detail.SelectImage(1)
	assert.Equal(t, 1, detail.ImageIndex())
}

func TestDetailLoadFailureRedirects(t *testing.T) {
	shop := &fakeShop{err: assert.AnError}
	detail := NewDetail(shop, nil)
	err := detail.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRedirectCatalog)
}

func TestDetailSubmitPurchase(t *testing.T) {
	shop := &fakeShop{product: &domain.Product{ID: "p1", Name: "Miel", Price: 80, Stock: 5}}
	prefs := &memPrefs{}
	detail := NewDetail(shop, prefs)
	assert.NoError(t, detail.Load(context.Background(), "p1"))

	// phone is mandatory
	err := detail.SubmitPurchase(context.Background(), nil)
	assert.ErrorIs(t, err, ErrPhoneRequired)
	assert.Empty(t, shop.purchases)

	detail.SetPhone("99887766")
	detail.Increment()
	detail.Increment()
	user := &domain.User{Email: "ana@example.com", Name: "Ana"}
	assert.NoError(t, detail.SubmitPurchase(context.Background(), user))

	assert.Len(t, shop.purchases, 1)
	sent := shop.purchases[0]
	assert.Equal(t, "ana@example.com", sent.UserEmail)
	assert.Equal(t, "+50499887766", sent.UserPhone)
	assert.Equal(t, 3, sent.Quantity)

	// phone persisted, stock refetched, quantity reset
	assert.Equal(t, "99887766", prefs.phone)
	assert.Equal(t, 2, detail.Product().Stock)
	assert.Equal(t, 1, detail.Quantity())
}

func TestDetailSubmitPurchaseAsGuest(t *testing.T) {
	shop := &fakeShop{product: &domain.Product{ID: "p1", Stock: 5}}
	detail := NewDetail(shop, nil)
	assert.NoError(t, detail.Load(context.Background(), "p1"))
	detail.SetPhone("11112222")

	assert.NoError(t, detail.SubmitPurchase(context.Background(), nil))
	assert.Equal(t, guestEmail, shop.purchases[0].UserEmail)
	assert.Equal(t, guestName, shop.purchases[0].UserName)
}

func TestDetailOutOfStockFlow(t *testing.T) {
	shop := &fakeShop{product: &domain.Product{ID: "p1", Stock: 3}}
	detail := NewDetail(shop, nil)
	assert.NoError(t, detail.Load(context.Background(), "p1"))
	detail.SetPhone("33334444")

	// not offered while stock remains
	assert.ErrorIs(t, detail.SubmitOutOfStock(context.Background()), ErrInStock)

	shop.product.Stock = 0
	assert.NoError(t, detail.Load(context.Background(), "p1"))
	detail.SetPhone("33334444")
	detail.Increment()
	assert.NoError(t, detail.SubmitOutOfStock(context.Background()))

	assert.Len(t, shop.backorders, 1)
	assert.Equal(t, "+50433334444", shop.backorders[0].Phone)
	assert.Equal(t, 2, shop.backorders[0].Quantity)

	// purchase is blocked for sold-out products
	assert.ErrorIs(t, detail.SubmitPurchase(context.Background(), nil), ErrNoStock)
}

func TestDetailGatedPurchase(t *testing.T) {
	shop := &fakeShop{product: &domain.Product{ID: "p1", Stock: 5}}
	detail := NewDetail(shop, nil, WithPurchaseVerification())
	assert.NoError(t, detail.Load(context.Background(), "p1"))
	detail.SetPhone("99887766")

	// the direct path is refused while gating is on
	assert.ErrorIs(t, detail.SubmitPurchase(context.Background(), nil), ErrVerificationRequired)
	assert.Empty(t, shop.purchases)

	verifier := newFakeVerifier("654321")
	v := detail.PurchaseVerification(verifier, nil)
	assert.NoError(t, v.Begin(context.Background()))
	assert.NoError(t, v.SubmitCode(context.Background(), "654321"))

	assert.Equal(t, VerifySubmitted, v.State())
	assert.Len(t, shop.purchases, 1)
	assert.Equal(t, "+50499887766", shop.purchases[0].UserPhone)
}

func TestDetailPhonePrefill(t *testing.T) {
	shop := &fakeShop{product: &domain.Product{ID: "p1", Stock: 1}}
	detail := NewDetail(shop, &memPrefs{phone: "55556666"}, WithPhonePrefix("+502"))
	assert.NoError(t, detail.Load(context.Background(), "p1"))
	assert.Equal(t, "55556666", detail.Phone())

	assert.NoError(t, detail.SubmitPurchase(context.Background(), nil))
	assert.Equal(t, "+50255556666", shop.purchases[0].UserPhone)
}
