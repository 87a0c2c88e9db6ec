package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/spiceroute/storefront/internal/cart"
	"github.com/spiceroute/storefront/internal/pricing"
	"github.com/spiceroute/storefront/internal/remotecart"
)

// ErrEmptyCart blocks submission when there is nothing to order. No network
// call is made in that case.
var ErrEmptyCart = errors.New("cart is empty")

// ValidationError names the first failing precondition so the UI can point
// at the field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type Payment struct {
	Method     string // "card" or "cash"
	CardNumber string
	CardExpiry string
	CardCVC    string
}

// Validate checks the checkout preconditions: required contact fields,
// address fields for delivery, card fields for card payment. Presence only;
// there is no Luhn check or expiry parsing.
func Validate(info remotecart.CustomerInfo, orderType pricing.OrderType, payment Payment) error {
	if info.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if info.Email == "" {
		return &ValidationError{Field: "email", Reason: "required"}
	}
	if info.Phone == "" {
		return &ValidationError{Field: "phone", Reason: "required"}
	}
	if orderType == pricing.OrderTypeDelivery {
		if info.Address == "" {
			return &ValidationError{Field: "address", Reason: "required for delivery"}
		}
		if info.City == "" {
			return &ValidationError{Field: "city", Reason: "required for delivery"}
		}
		if info.Zip == "" {
			return &ValidationError{Field: "zip", Reason: "required for delivery"}
		}
	}
	switch payment.Method {
	case "cash":
	case "card":
		if payment.CardNumber == "" {
			return &ValidationError{Field: "card_number", Reason: "required for card payment"}
		}
		if payment.CardExpiry == "" {
			return &ValidationError{Field: "card_expiry", Reason: "required for card payment"}
		}
		if payment.CardCVC == "" {
			return &ValidationError{Field: "card_cvc", Reason: "required for card payment"}
		}
	default:
		return &ValidationError{Field: "payment_method", Reason: "must be card or cash"}
	}
	return nil
}

// Submitter assembles orders from whichever cart is authoritative.
type Submitter struct {
	Client  *remotecart.Client
	Local   *cart.Store
	Pricing pricing.Calculator
}

// Totals previews the price breakdown for the local cart without touching
// the network.
func (s *Submitter) Totals(orderType pricing.OrderType) (pricing.Totals, error) {
	snap, err := s.Local.Snapshot()
	if err != nil {
		return pricing.Totals{}, err
	}
	return s.Pricing.ComputeTotals(snap.Lines, orderType), nil
}

// Submit places a guest order from the local cart. On success the local
// cart is cleared; on any failure it is left intact.
func (s *Submitter) Submit(ctx context.Context, info remotecart.CustomerInfo, orderType pricing.OrderType, payment Payment) (*remotecart.OrderConfirmation, error) {
	snap, err := s.Local.Snapshot()
	if err != nil {
		return nil, err
	}
	if len(snap.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := Validate(info, orderType, payment); err != nil {
		return nil, err
	}

	items := make([]remotecart.ItemRequest, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		items = append(items, remotecart.ItemRequest{
			ItemID:              line.ItemID,
			Quantity:            line.Quantity,
			SpiceLevel:          string(line.SpiceLevel),
			Extras:              line.Extras,
			SpecialInstructions: line.SpecialInstructions,
		})
	}

	conf, err := s.Client.SubmitGuestOrder(ctx, remotecart.OrderRequest{
		Customer:      info,
		OrderType:     string(orderType),
		PaymentMethod: payment.Method,
		Items:         items,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Local.Clear(); err != nil {
		return conf, fmt.Errorf("order %s placed but local cart not cleared: %w", conf.Number, err)
	}
	return conf, nil
}

// SubmitAuthenticated places an order from the server cart, which the
// backend clears on success.
func (s *Submitter) SubmitAuthenticated(ctx context.Context, info remotecart.CustomerInfo, orderType pricing.OrderType, payment Payment) (*remotecart.OrderConfirmation, error) {
	if err := Validate(info, orderType, payment); err != nil {
		return nil, err
	}
	view, err := s.Client.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, ErrEmptyCart
	}
	return s.Client.SubmitOrder(ctx, remotecart.OrderRequest{
		Customer:      info,
		OrderType:     string(orderType),
		PaymentMethod: payment.Method,
	})
}
