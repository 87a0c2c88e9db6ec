package cart

import (
	"fmt"
	"sort"
	"strings"
)

// SpiceLevel is the closed set of heat options. The zero value means the
// dish was ordered without a spice selection.
type SpiceLevel string

const (
	SpiceNone     SpiceLevel = ""
	SpiceMild     SpiceLevel = "Mild"
	SpiceMedium   SpiceLevel = "Medium"
	SpiceHot      SpiceLevel = "Hot"
	SpiceExtraHot SpiceLevel = "Extra Hot"
)

func ParseSpiceLevel(s string) (SpiceLevel, error) {
	switch SpiceLevel(s) {
	case SpiceNone, SpiceMild, SpiceMedium, SpiceHot, SpiceExtraHot:
		return SpiceLevel(s), nil
	}
	return SpiceNone, fmt.Errorf("unknown spice level %q", s)
}

// LineItem is one row of a cart: a menu item plus the options it was
// configured with. UnitPriceCents is captured at add time; extras are priced
// separately so the base price stays comparable across lines.
type LineItem struct {
	ItemID              int        `json:"item_id"`
	Name                string     `json:"name"`
	Quantity            int        `json:"quantity"`
	SpiceLevel          SpiceLevel `json:"spice_level,omitempty"`
	Extras              []string   `json:"extras,omitempty"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	UnitPriceCents      int64      `json:"unit_price_cents"`
	ExtrasPriceCents    int64      `json:"extras_price_cents"`
}

// MatchKey is the identity of a line: same item, same spice level, same set
// of extras, same instructions. Extras order never matters.
func (li LineItem) MatchKey() string {
	extras := append([]string(nil), li.Extras...)
	sort.Strings(extras)
	return fmt.Sprintf("%d|%s|%s|%s", li.ItemID, li.SpiceLevel, strings.Join(extras, ","), li.SpecialInstructions)
}

// LineTotalCents prices the full line: base plus extras, times quantity.
func (li LineItem) LineTotalCents() int64 {
	return (li.UnitPriceCents + li.ExtrasPriceCents) * int64(li.Quantity)
}
