package remotecart

import (
	"context"
	"fmt"
	"strings"

	"github.com/spiceroute/storefront/internal/cart"
)

// MigrateLocalToRemote pushes every line of the anonymous local cart into
// the authenticated server cart, then clears the local cart. Invoked at
// successful login. The server merges by match key, so lines already in the
// remote cart combine rather than duplicate. Each line is dropped from the
// local cart as soon as the server accepts it, so a retry after a partial
// failure pushes only the remaining lines and never double-counts a line the
// server already holds.
func MigrateLocalToRemote(ctx context.Context, client *Client, local *cart.Store) error {
	snap, err := local.Snapshot()
	if err != nil {
		return fmt.Errorf("migrate cart: %w", err)
	}
	if len(snap.Lines) == 0 {
		return nil
	}

	for _, line := range snap.Lines {
		req := ItemRequest{
			ItemID:              line.ItemID,
			Quantity:            line.Quantity,
			SpiceLevel:          string(line.SpiceLevel),
			Extras:              line.Extras,
			SpecialInstructions: line.SpecialInstructions,
		}
		if _, err := client.AddItem(ctx, req); err != nil {
			return fmt.Errorf("migrate cart: push %s: %w", line.Name, err)
		}
		if _, err := local.Remove(line.MatchKey()); err != nil {
			return fmt.Errorf("migrate cart: drop pushed %s: %w", line.Name, err)
		}
	}

	if err := local.Clear(); err != nil {
		return fmt.Errorf("migrate cart: clear local: %w", err)
	}
	return nil
}

// LoginAndMigrate authenticates and then folds the anonymous cart into the
// server cart, the sequence the login flow runs. A migration failure after a
// successful login leaves the session authenticated; lines the server already
// accepted live in the remote cart, the rest stay local for a retry.
func LoginAndMigrate(ctx context.Context, client *Client, local *cart.Store, username, password string) error {
	if err := client.Login(ctx, username, password); err != nil {
		return err
	}
	return MigrateLocalToRemote(ctx, client, local)
}

// SplitExtras turns the server's comma-joined extras back into a list.
func SplitExtras(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
