package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

// CartItem is one configured line of a user's server-side cart. Identity of a
// line is (user_id, match_key): the same dish with the same spice level, the
// same set of extras and the same instructions always lands on the same row.
type CartItem struct {
	ID                  uint   `gorm:"primaryKey"                            json:"id"`
	UserID              uint   `gorm:"uniqueIndex:idx_user_match;not null"   json:"user_id"`
	ItemID              int    `gorm:"not null"                              json:"item_id"`
	Name                string `gorm:"not null"                              json:"name"`
	Quantity            int    `gorm:"default:1;check:quantity>0"            json:"quantity"`
	SpiceLevel          string `json:"spice_level,omitempty"`
	Extras              string `json:"extras,omitempty"` // comma-joined, sorted
	SpecialInstructions string `json:"special_instructions,omitempty"`
	UnitPriceCents      int64  `gorm:"not null"                              json:"unit_price_cents"`
	ExtrasPriceCents    int64  `gorm:"not null;default:0"                    json:"extras_price_cents"`
	MatchKey            string `gorm:"uniqueIndex:idx_user_match;not null"   json:"-"`
}

type Order struct {
	ID               uint   `gorm:"primaryKey"      json:"id"`
	Number           string `gorm:"unique;not null" json:"number"`
	UserID           uint   `gorm:"index"           json:"user_id,omitempty"`
	CustomerName     string `gorm:"not null"        json:"customer_name"`
	Email            string `gorm:"not null"        json:"email"`
	Phone            string `gorm:"not null"        json:"phone"`
	Address          string `json:"address,omitempty"`
	City             string `json:"city,omitempty"`
	Zip              string `json:"zip,omitempty"`
	OrderType        string `gorm:"not null"        json:"order_type"`
	PaymentMethod    string `gorm:"not null"        json:"payment_method"`
	SubtotalCents    int64  `gorm:"not null"        json:"subtotal_cents"`
	DeliveryFeeCents int64  `gorm:"not null"        json:"delivery_fee_cents"`
	TaxCents         int64  `gorm:"not null"        json:"tax_cents"`
	TotalCents       int64  `gorm:"not null"        json:"total_cents"`
	Status           string `gorm:"not null"        json:"status"`
	CreatedAt        int64  `gorm:"not null"        json:"created_at"`
}

type OrderItem struct {
	ID                  uint   `gorm:"primaryKey"     json:"id"`
	OrderID             uint   `gorm:"index;not null" json:"order_id"`
	ItemID              int    `gorm:"not null"       json:"item_id"`
	Name                string `gorm:"not null"       json:"name"`
	Quantity            int    `gorm:"not null"       json:"quantity"`
	SpiceLevel          string `json:"spice_level,omitempty"`
	Extras              string `json:"extras,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
	UnitPriceCents      int64  `gorm:"not null"           json:"unit_price_cents"`
	ExtrasPriceCents    int64  `gorm:"not null;default:0" json:"extras_price_cents"`
}

type Reservation struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Code      string    `gorm:"unique;not null" json:"code"`
	UserID    uint      `gorm:"index"           json:"user_id,omitempty"`
	Name      string    `gorm:"not null"        json:"name"`
	Email     string    `gorm:"not null"        json:"email"`
	Phone     string    `gorm:"not null"        json:"phone"`
	PartySize int       `gorm:"not null"        json:"party_size"`
	Date      string    `gorm:"not null"        json:"date"`
	Time      string    `gorm:"not null"        json:"time"`
	Notes     string    `json:"notes,omitempty"`
	Status    string    `gorm:"not null"        json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null"   json:"name"`
	Email     string    `gorm:"not null"   json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `gorm:"not null"   json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
