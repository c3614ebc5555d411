package storefront

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/tiendaapp/tiendastore/internal/domain"
)

// MaxImageBytes caps uploaded images before base64 encoding.
const MaxImageBytes = 5 * 1024 * 1024

var (
	ErrImageTooLarge    = errors.New("la imagen supera el límite de 5MB")
	ErrNegativeStock    = errors.New("el stock no puede quedar negativo")
	ErrDeleteNotAllowed = errors.New("eliminación cancelada")
)

// AdminSource is the API surface the dashboard needs.
type AdminSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	Inbox(ctx context.Context) (*RequestInbox, error)
	CompletePurchase(ctx context.Context, id string) error
	RejectPurchase(ctx context.Context, id string) error
	CompleteOutOfStock(ctx context.Context, id string) error
	CompleteCustom(ctx context.Context, id string) error
	NotifyConfig(ctx context.Context) (*NotifyConfigData, error)
	SaveNotifyConfig(ctx context.Context, cfg NotifyConfigData) error
}

// ImageInput is the primary-image picker: a remote URL or an uploaded file,
// mutually exclusive. Setting one clears the other; the last set wins.
type ImageInput struct {
	url  string
	data string // base64 data URI
}

func (in *ImageInput) SetURL(url string) {
	in.url = url
	in.data = ""
}

// SetUpload accepts raw file bytes and stores them as a data URI. Files over
// MaxImageBytes are rejected.
func (in *ImageInput) SetUpload(mimeType string, raw []byte) error {
	if len(raw) > MaxImageBytes {
		return errors.WithStack(ErrImageTooLarge)
	}
	in.data = fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(raw))
	in.url = ""
	return nil
}

func (in *ImageInput) Clear() {
	in.url = ""
	in.data = ""
}

// Value returns whichever source is set.
func (in *ImageInput) Value() string {
	if in.data != "" {
		return in.data
	}
	return in.url
}

// ProductForm holds the raw dashboard inputs. Price and stock arrive as
// text and are parsed on save.
type ProductForm struct {
	Name        string
	Description string
	PriceText   string
	StockText   string
	Category    string
	Image       ImageInput
	Transform   *domain.ImageTransform
	Images      []domain.ProductImage
}

func (f *ProductForm) parse() (float64, int, error) {
	price, err := cast.ToFloat64E(strings.TrimSpace(f.PriceText))
	if err != nil {
		return 0, 0, errors.New("precio inválido")
	}
	if price < 0 {
		return 0, 0, errors.New("el precio no puede ser negativo")
	}
	stock, err := cast.ToIntE(strings.TrimSpace(f.StockText))
	if err != nil {
		return 0, 0, errors.New("stock inválido")
	}
	if stock < 0 {
		return 0, 0, errors.WithStack(ErrNegativeStock)
	}
	return price, stock, nil
}

// Admin drives the dashboard: product CRUD, stock adjustments, the request
// inbox and notification settings.
type Admin struct {
	mu  sync.Mutex
	src AdminSource

	products []domain.Product
	inbox    RequestInbox

	// ConfirmDelete gates destructive product deletion; nil means allow.
	ConfirmDelete func(p domain.Product) bool
}

func NewAdmin(src AdminSource) *Admin {
	return &Admin{src: src}
}

// Refresh reloads the catalog and the request inbox.
func (a *Admin) Refresh(ctx context.Context) error {
	products, err := a.src.Products(ctx)
	if err != nil {
		return errors.Wrap(err, "load products")
	}
	inbox, err := a.src.Inbox(ctx)
	if err != nil {
		return errors.Wrap(err, "load requests")
	}

	a.mu.Lock()
	a.products = products
	a.inbox = *inbox
	a.mu.Unlock()
	return nil
}

func (a *Admin) Products() []domain.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Product, len(a.products))
	copy(out, a.products)
	return out
}

// LowStock lists products below the restock threshold but not sold out.
func (a *Admin) LowStock() []domain.Product {
	return a.filterByLevel(domain.StockLow)
}

// OutOfStock lists sold-out products.
func (a *Admin) OutOfStock() []domain.Product {
	return a.filterByLevel(domain.StockOut)
}

func (a *Admin) filterByLevel(level domain.StockLevel) []domain.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []domain.Product
	for _, p := range a.products {
		if domain.LevelOf(p.Stock) == level {
			out = append(out, p)
		}
	}
	return out
}

func (a *Admin) Inbox() RequestInbox {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inbox
}

// PendingCount is the dashboard badge: pending requests across all kinds.
func (a *Admin) PendingCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, r := range a.inbox.PurchaseRequests {
		if r.Status == domain.RequestPending {
			n++
		}
	}
	for _, r := range a.inbox.OutOfStockRequests {
		if r.Status == domain.RequestPending {
			n++
		}
	}
	for _, r := range a.inbox.CustomRequests {
		if r.Status == domain.RequestPending {
			n++
		}
	}
	return n
}

// CreateProduct validates and submits the form, then refreshes.
func (a *Admin) CreateProduct(ctx context.Context, form ProductForm) (*domain.Product, error) {
	price, stock, err := form.parse()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(form.Name) == "" {
		return nil, errors.New("el nombre es obligatorio")
	}

	images := form.Images
	if images == nil {
		images = []domain.ProductImage{}
	}
	product, err := a.src.CreateProduct(ctx, ProductInput{
		Name:           strings.TrimSpace(form.Name),
		Description:    form.Description,
		Price:          price,
		Stock:          stock,
		Category:       strings.TrimSpace(form.Category),
		ImageUrl:       form.Image.Value(),
		ImageTransform: form.Transform,
		Images:         images,
	})
	if err != nil {
		return nil, err
	}
	return product, a.Refresh(ctx)
}

// UpdateProduct submits the form as a full edit of an existing product.
func (a *Admin) UpdateProduct(ctx context.Context, id string, form ProductForm) (*domain.Product, error) {
	price, stock, err := form.parse()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(form.Name)
	category := strings.TrimSpace(form.Category)
	imageURL := form.Image.Value()
	images := form.Images
	if images == nil {
		images = []domain.ProductImage{}
	}
	product, err := a.src.UpdateProduct(ctx, id, ProductUpdate{
		Name:           &name,
		Description:    &form.Description,
		Price:          &price,
		Stock:          &stock,
		Category:       &category,
		ImageUrl:       &imageURL,
		ImageTransform: form.Transform,
		Images:         &images,
	})
	if err != nil {
		return nil, err
	}
	return product, a.Refresh(ctx)
}

// ApplyStockDelta adjusts stock by a signed amount entered as text, for
// example "+5" or "-3". Adjustments that would leave stock negative are
// rejected without calling the server.
func (a *Admin) ApplyStockDelta(ctx context.Context, id, deltaText string) (*domain.Product, error) {
	delta, err := cast.ToIntE(strings.TrimPrefix(strings.TrimSpace(deltaText), "+"))
	if err != nil {
		return nil, errors.New("ajuste inválido")
	}

	a.mu.Lock()
	var current *domain.Product
	for i := range a.products {
		if a.products[i].ID == id {
			current = &a.products[i]
			break
		}
	}
	a.mu.Unlock()
	if current == nil {
		return nil, errors.New("producto no encontrado")
	}

	next := current.Stock + delta
	if next < 0 {
		return nil, errors.WithStack(ErrNegativeStock)
	}

	product, err := a.src.UpdateProduct(ctx, id, ProductUpdate{Stock: &next})
	if err != nil {
		return nil, err
	}
	return product, a.Refresh(ctx)
}

// DeleteProduct removes a product after the confirmation gate passes.
func (a *Admin) DeleteProduct(ctx context.Context, id string) error {
	a.mu.Lock()
	var target *domain.Product
	for i := range a.products {
		if a.products[i].ID == id {
			target = &a.products[i]
			break
		}
	}
	a.mu.Unlock()
	if target == nil {
		return errors.New("producto no encontrado")
	}
	if a.ConfirmDelete != nil && !a.ConfirmDelete(*target) {
		return errors.WithStack(ErrDeleteNotAllowed)
	}
	if err := a.src.DeleteProduct(ctx, id); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

// ---- request inbox actions ----

func (a *Admin) CompletePurchase(ctx context.Context, id string) error {
	if err := a.src.CompletePurchase(ctx, id); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

// RejectPurchase rejects a pending purchase; the server restores the
// reserved stock.
func (a *Admin) RejectPurchase(ctx context.Context, id string) error {
	if err := a.src.RejectPurchase(ctx, id); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

func (a *Admin) CompleteOutOfStock(ctx context.Context, id string) error {
	if err := a.src.CompleteOutOfStock(ctx, id); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

func (a *Admin) CompleteCustom(ctx context.Context, id string) error {
	if err := a.src.CompleteCustom(ctx, id); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

// ---- notification settings ----

func (a *Admin) LoadConfig(ctx context.Context) (*NotifyConfigData, error) {
	return a.src.NotifyConfig(ctx)
}

func (a *Admin) SaveConfig(ctx context.Context, cfg NotifyConfigData) error {
	return a.src.SaveNotifyConfig(ctx, cfg)
}
