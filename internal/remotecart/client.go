package remotecart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spiceroute/storefront/internal/catalog"
)

// ErrAuthRequired is returned on a 401: the caller must send the user to
// login before retrying checkout-bound actions.
var ErrAuthRequired = errors.New("authentication required")

// Client talks to the storefront backend. Once the user is authenticated it
// is the authoritative cart; failures are terminal for the triggering action
// and are never retried here.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	access  string
	refresh string
}

// NewClient builds a client for the given base URL, which includes the API
// prefix (e.g. "https://host/api/v1").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SetTokens installs the auth cookies sent with every request.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = access
	c.refresh = refresh
}

func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access != ""
}

// ItemRequest mirrors the server's cart item payload.
type ItemRequest struct {
	ItemID              int      `json:"item_id"`
	Quantity            int      `json:"quantity"`
	SpiceLevel          string   `json:"spice_level,omitempty"`
	Extras              []string `json:"extras,omitempty"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
}

// CartItem is one row of the server cart.
type CartItem struct {
	ID                  uint   `json:"id"`
	ItemID              int    `json:"item_id"`
	Name                string `json:"name"`
	Quantity            int    `json:"quantity"`
	SpiceLevel          string `json:"spice_level,omitempty"`
	Extras              string `json:"extras,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
	UnitPriceCents      int64  `json:"unit_price_cents"`
	ExtrasPriceCents    int64  `json:"extras_price_cents"`
}

// CartView is the authoritative cart the server returns; totals come from
// the server, the client does not reconcile optimistic state.
type CartView struct {
	Items         []CartItem `json:"items"`
	TotalItems    int        `json:"total_items"`
	SubtotalCents int64      `json:"subtotal_cents"`
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

type OrderRequest struct {
	Customer      CustomerInfo  `json:"customer"`
	OrderType     string        `json:"order_type"`
	PaymentMethod string        `json:"payment_method"`
	Items         []ItemRequest `json:"items,omitempty"`
}

type OrderConfirmation struct {
	ID                uint   `json:"id"`
	Number            string `json:"number"`
	Status            string `json:"status"`
	OrderType         string `json:"order_type"`
	SubtotalCents     int64  `json:"subtotal_cents"`
	DeliveryFeeCents  int64  `json:"delivery_fee_cents"`
	TaxCents          int64  `json:"tax_cents"`
	TotalCents        int64  `json:"total_cents"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	if c.access != "" {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: c.access})
	}
	if c.refresh != "" {
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: c.refresh})
	}
	c.mu.Unlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s failed with status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login authenticates and installs the returned tokens on the client.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return err
	}
	c.SetTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (c *Client) GetCart(ctx context.Context) (*CartView, error) {
	var view CartView
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) AddItem(ctx context.Context, item ItemRequest) (*CartView, error) {
	var view CartView
	if err := c.do(ctx, http.MethodPost, "/cart/items", item, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) SetQuantity(ctx context.Context, item ItemRequest) (*CartView, error) {
	var view CartView
	if err := c.do(ctx, http.MethodPut, "/cart/items", item, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) RemoveItem(ctx context.Context, id uint) (*CartView, error) {
	var view CartView
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", id), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil)
}

// SubmitOrder places an order from the authenticated user's server cart.
func (c *Client) SubmitOrder(ctx context.Context, order OrderRequest) (*OrderConfirmation, error) {
	var conf OrderConfirmation
	if err := c.do(ctx, http.MethodPost, "/orders", order, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// SubmitGuestOrder places an order carrying its line items in the payload.
func (c *Client) SubmitGuestOrder(ctx context.Context, order OrderRequest) (*OrderConfirmation, error) {
	var conf OrderConfirmation
	if err := c.do(ctx, http.MethodPost, "/orders/guest", order, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// MenuItems fetches the menu, tolerating both a bare array and an object
// wrapping the list in "results".
func (c *Client) MenuItems(ctx context.Context) ([]catalog.Item, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/menu/items", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[catalog.Item](raw)
}

// decodeList accepts either `[...]` or `{"results": [...]}`.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return out, nil
	}
	var wrapped struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return wrapped.Results, nil
}
