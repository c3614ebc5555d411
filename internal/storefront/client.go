// Package storefront is the client side of the shop: a cookie-session API
// client plus the controllers behind each page (catalog feed, product
// detail, admin dashboard, phone verification).
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/tiendaapp/tiendastore/internal/domain"
)

// HeaderSessionID carries the one-time token from the login redirect.
const HeaderSessionID = "X-Session-ID"

// ErrUnauthenticated marks a 401: the caller proceeds as guest.
var ErrUnauthenticated = errors.New("no session")

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Detail)
}

// Client talks to the REST API. All requests carry credentials: the session
// cookie is held in the client's jar.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Jar: jar},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, headers map[string]string) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: "Error de servidor"}
		var envelope struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&envelope) == nil && envelope.Detail != "" {
			apiErr.Detail = envelope.Detail
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decode %s %s", method, path)
		}
	}
	return nil
}

// ---- auth ----

// Me resolves the current user from the session cookie. A 401 is reported
// as ErrUnauthenticated so callers can fall back to guest mode.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return &user, nil
}

// ExchangeSession trades a one-time session id (from the post-login URL
// fragment) for a cookie session.
func (c *Client) ExchangeSession(ctx context.Context, sessionID string) (*domain.User, error) {
	var reply struct {
		User         domain.User `json:"user"`
		SessionToken string      `json:"session_token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/session", struct{}{}, &reply,
		map[string]string{HeaderSessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return &reply.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", struct{}{}, nil, nil)
}

// SessionIDFromFragment extracts the one-time session id from a post-login
// URL fragment such as "#session_id=abc&foo=bar".
func SessionIDFromFragment(fragment string) (string, bool) {
	fragment = strings.TrimPrefix(fragment, "#")
	for _, part := range strings.Split(fragment, "&") {
		if value, found := strings.CutPrefix(part, "session_id="); found && value != "" {
			return value, true
		}
	}
	return "", false
}

// LoginURL builds the external identity provider redirect with a return URL.
func LoginURL(authBase, returnTo string) string {
	return authBase + "/?redirect=" + url.QueryEscape(returnTo)
}

// ---- products ----

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products, nil); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductInput carries a full product definition for create.
type ProductInput struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price"`
	Stock          int                    `json:"stock"`
	Category       string                 `json:"category,omitempty"`
	ImageUrl       string                 `json:"image_url,omitempty"`
	ImageTransform *domain.ImageTransform `json:"image_transform,omitempty"`
	Images         []domain.ProductImage  `json:"images"`
}

// ProductUpdate is a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name           *string                `json:"name,omitempty"`
	Description    *string                `json:"description,omitempty"`
	Price          *float64               `json:"price,omitempty"`
	Stock          *int                   `json:"stock,omitempty"`
	Category       *string                `json:"category,omitempty"`
	ImageUrl       *string                `json:"image_url,omitempty"`
	ImageTransform *domain.ImageTransform `json:"image_transform,omitempty"`
	Images         *[]domain.ProductImage `json:"images,omitempty"`
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", input, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+id, update, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil, nil)
}

// ---- requests ----

type PurchaseInput struct {
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	UserPhone string `json:"user_phone"`
	ProductId string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OutOfStockInput struct {
	ProductId string `json:"product_id"`
	Phone     string `json:"phone"`
	Quantity  int    `json:"quantity"`
}

type CustomInput struct {
	Phone       string `json:"phone"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

func (c *Client) SubmitPurchase(ctx context.Context, input PurchaseInput) (*domain.PurchaseRequest, error) {
	var req domain.PurchaseRequest
	if err := c.do(ctx, http.MethodPost, "/requests/purchase", input, &req, nil); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *Client) SubmitOutOfStock(ctx context.Context, input OutOfStockInput) (*domain.OutOfStockRequest, error) {
	var req domain.OutOfStockRequest
	if err := c.do(ctx, http.MethodPost, "/requests/out-of-stock", input, &req, nil); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *Client) SubmitCustom(ctx context.Context, input CustomInput) (*domain.CustomRequest, error) {
	var req domain.CustomRequest
	if err := c.do(ctx, http.MethodPost, "/requests/custom", input, &req, nil); err != nil {
		return nil, err
	}
	return &req, nil
}

// RequestInbox groups every request kind for the admin dashboard.
type RequestInbox struct {
	PurchaseRequests   []domain.PurchaseRequest   `json:"purchase_requests"`
	OutOfStockRequests []domain.OutOfStockRequest `json:"out_of_stock_requests"`
	CustomRequests     []domain.CustomRequest     `json:"custom_requests"`
}

func (c *Client) Inbox(ctx context.Context) (*RequestInbox, error) {
	var inbox RequestInbox
	if err := c.do(ctx, http.MethodGet, "/requests", nil, &inbox, nil); err != nil {
		return nil, err
	}
	return &inbox, nil
}

func (c *Client) CompletePurchase(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/requests/purchase/"+id+"/complete", struct{}{}, nil, nil)
}

func (c *Client) RejectPurchase(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/requests/purchase/"+id+"/reject", struct{}{}, nil, nil)
}

func (c *Client) CompleteOutOfStock(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/requests/out-of-stock/"+id+"/complete", struct{}{}, nil, nil)
}

func (c *Client) CompleteCustom(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/requests/custom/"+id+"/complete", struct{}{}, nil, nil)
}

// ---- verification ----

// PhoneCodeReply is the verify-phone response. MockCode is only present
// because delivery is mocked; real deployments would drop it.
type PhoneCodeReply struct {
	AlreadyVerified bool   `json:"already_verified"`
	MockCode        string `json:"mock_code"`
	Message         string `json:"message"`
}

func (c *Client) RequestPhoneCode(ctx context.Context, phone string) (*PhoneCodeReply, error) {
	var reply PhoneCodeReply
	err := c.do(ctx, http.MethodPost, "/requests/verify-phone",
		map[string]string{"phone": phone}, &reply, nil)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) ValidateCode(ctx context.Context, phone, code string) error {
	return c.do(ctx, http.MethodPost, "/requests/validate-code",
		map[string]string{"phone": phone, "code": code}, nil, nil)
}

// ---- config ----

type NotifyConfigData struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (c *Client) NotifyConfig(ctx context.Context) (*NotifyConfigData, error) {
	var cfg NotifyConfigData
	if err := c.do(ctx, http.MethodGet, "/config", nil, &cfg, nil); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) SaveNotifyConfig(ctx context.Context, cfg NotifyConfigData) error {
	return c.do(ctx, http.MethodPut, "/config", cfg, nil, nil)
}

func (c *Client) PromoteAdmin(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/users/admin/"+userID, struct{}{}, &user, nil); err != nil {
		return nil, err
	}
	return &user, nil
}
