package storefront

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/tiendaapp/tiendastore/internal/domain"
)

var (
	// ErrRedirectCatalog signals that the product could not be loaded and
	// the view should navigate back to the catalog with an error toast.
	ErrRedirectCatalog = errors.New("producto no disponible")

	ErrPhoneRequired = errors.New("ingresa tu número de teléfono")
	ErrInStock       = errors.New("el producto tiene stock disponible")
	ErrNoStock       = errors.New("el producto no tiene stock")

	// ErrVerificationRequired is returned by SubmitPurchase when purchase
	// gating is on; the caller must go through PurchaseVerification instead.
	ErrVerificationRequired = errors.New("verifica tu teléfono para continuar")
)

// DetailSource is the API surface the detail page needs.
type DetailSource interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
	SubmitPurchase(ctx context.Context, input PurchaseInput) (*domain.PurchaseRequest, error)
	SubmitOutOfStock(ctx context.Context, input OutOfStockInput) (*domain.OutOfStockRequest, error)
}

const (
	guestEmail = "invitado@ejemplo.com"
	guestName  = "Invitado"
)

// Detail drives the product page: one product, its media gallery, the
// quantity stepper and the purchase / out-of-stock submissions.
type Detail struct {
	mu            sync.Mutex
	src           DetailSource
	prefs         Prefs
	prefix        string
	gatePurchases bool

	product  *domain.Product
	gallery  []domain.ProductImage
	imageIdx int
	quantity int
	phone    string
}

type DetailOption func(*Detail)

// WithPhonePrefix sets the country prefix prepended to submitted phone
// numbers.
func WithPhonePrefix(prefix string) DetailOption {
	return func(d *Detail) { d.prefix = prefix }
}

// WithPurchaseVerification requires a verified phone before purchases go
// through. Off by default; earlier product revisions had it on.
func WithPurchaseVerification() DetailOption {
	return func(d *Detail) { d.gatePurchases = true }
}

func NewDetail(src DetailSource, prefs Prefs, opts ...DetailOption) *Detail {
	d := &Detail{
		src:      src,
		prefs:    prefs,
		prefix:   "+504",
		quantity: 1,
	}
	if prefs != nil {
		d.phone = prefs.Phone()
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load fetches the product. On failure the caller must leave the page:
// the returned error wraps ErrRedirectCatalog.
func (d *Detail) Load(ctx context.Context, id string) error {
	product, err := d.src.Product(ctx, id)
	if err != nil {
		return errors.Wrapf(ErrRedirectCatalog, "cargar producto %s: %v", id, err)
	}

	d.mu.Lock()
	d.product = product
	d.gallery = product.Gallery()
	d.imageIdx = 0
	d.quantity = 1
	d.mu.Unlock()
	return nil
}

func (d *Detail) Product() *domain.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.product
}

func (d *Detail) Gallery() []domain.ProductImage {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.ProductImage, len(d.gallery))
	copy(out, d.gallery)
	return out
}

// CurrentImage returns the selected gallery entry, if any.
func (d *Detail) CurrentImage() (domain.ProductImage, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.gallery) == 0 {
		return domain.ProductImage{}, false
	}
	return d.gallery[d.imageIdx], true
}

func (d *Detail) ImageIndex() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.imageIdx
}

// NextImage advances the gallery, wrapping around.
func (d *Detail) NextImage() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.gallery) == 0 {
		return
	}
	d.imageIdx = (d.imageIdx + 1) % len(d.gallery)
}

// PrevImage steps back, wrapping around.
func (d *Detail) PrevImage() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.gallery) == 0 {
		return
	}
	d.imageIdx = (d.imageIdx - 1 + len(d.gallery)) % len(d.gallery)
}

// SelectImage jumps to a thumbnail; out-of-range indexes are ignored.
func (d *Detail) SelectImage(i int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i >= 0 && i < len(d.gallery) {
		d.imageIdx = i
	}
}

func (d *Detail) Quantity() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quantity
}

// Increment raises quantity. In stock it is capped at the available stock;
// out of stock the stepper is unbounded above (backorder interest).
func (d *Detail) Increment() {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := d.quantity + 1
	if d.product != nil && d.product.Stock > 0 && next > d.product.Stock {
		return
	}
	d.quantity = next
}

// Decrement lowers quantity, floored at 1.
func (d *Detail) Decrement() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quantity > 1 {
		d.quantity--
	}
}

func (d *Detail) Phone() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phone
}

func (d *Detail) SetPhone(phone string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.phone = phone
}

// SubmitPurchase files a purchase request for the current quantity. On
// success the phone is persisted for future prefill, the product is
// refetched so the stock decrement shows, and quantity resets to 1. When
// purchase gating is enabled the direct path is refused.
func (d *Detail) SubmitPurchase(ctx context.Context, user *domain.User) error {
	if d.gatePurchases {
		return errors.WithStack(ErrVerificationRequired)
	}
	return d.submitPurchase(ctx, user)
}

// PurchaseVerification wraps the purchase submission in the phone
// verification flow: the purchase fires once the phone passes (or already
// passed) the code challenge.
func (d *Detail) PurchaseVerification(src VerifySource, user *domain.User) *Verification {
	d.mu.Lock()
	phone := d.prefix + d.phone
	d.mu.Unlock()
	return NewVerification(src, phone, func(ctx context.Context) error {
		return d.submitPurchase(ctx, user)
	})
}

func (d *Detail) submitPurchase(ctx context.Context, user *domain.User) error {
	d.mu.Lock()
	product := d.product
	phone := d.phone
	quantity := d.quantity
	prefix := d.prefix
	d.mu.Unlock()

	if product == nil {
		return errors.WithStack(ErrRedirectCatalog)
	}
	if phone == "" {
		return errors.WithStack(ErrPhoneRequired)
	}
	if product.Stock == 0 {
		return errors.WithStack(ErrNoStock)
	}

	email, name := guestEmail, guestName
	if user != nil {
		email, name = user.Email, user.Name
	}

	_, err := d.src.SubmitPurchase(ctx, PurchaseInput{
		UserEmail: email,
		UserName:  name,
		UserPhone: prefix + phone,
		ProductId: product.ID,
		Quantity:  quantity,
	})
	if err != nil {
		return err
	}

	if d.prefs != nil {
		_ = d.prefs.SetPhone(phone)
	}

	// reflect the server-side stock decrement
	if refreshed, err := d.src.Product(ctx, product.ID); err == nil {
		d.mu.Lock()
		d.product = refreshed
		d.gallery = refreshed.Gallery()
		if d.imageIdx >= len(d.gallery) {
			d.imageIdx = 0
		}
		d.mu.Unlock()
	}

	d.mu.Lock()
	d.quantity = 1
	d.mu.Unlock()
	return nil
}

// SubmitOutOfStock files backorder interest. Only offered for sold-out
// products; it never touches stock, so no refetch happens.
func (d *Detail) SubmitOutOfStock(ctx context.Context) error {
	d.mu.Lock()
	product := d.product
	phone := d.phone
	quantity := d.quantity
	prefix := d.prefix
	d.mu.Unlock()

	if product == nil {
		return errors.WithStack(ErrRedirectCatalog)
	}
	if phone == "" {
		return errors.WithStack(ErrPhoneRequired)
	}
	if product.Stock > 0 {
		return errors.WithStack(ErrInStock)
	}

	_, err := d.src.SubmitOutOfStock(ctx, OutOfStockInput{
		ProductId: product.ID,
		Phone:     prefix + phone,
		Quantity:  quantity,
	})
	if err != nil {
		return err
	}

	if d.prefs != nil {
		_ = d.prefs.SetPhone(phone)
	}

	d.mu.Lock()
	d.quantity = 1
	d.mu.Unlock()
	return nil
}
