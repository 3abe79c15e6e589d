package cart

import (
	"sort"
	"strings"

	"github.com/grubhouse/storefront-api/internal/models"
)

// StateVersion is the current schema version of a persisted cart state.
// Version 0 predates line keys; Migrate backfills them.
const StateVersion = 1

// Line is a single cart entry: one product in one specific configuration.
type Line struct {
	Key           string                `json:"key"`
	ProductID     string                `json:"productId"`
	Name          string                `json:"name"`
	Image         string                `json:"image,omitempty"`
	UnitPrice     float64               `json:"price"`
	Quantity      int                   `json:"quantity"`
	Customization *models.Customization `json:"customization,omitempty"`
}

// State is the serializable cart as persisted by clients.
type State struct {
	Version int    `json:"version"`
	Lines   []Line `json:"items"`
}

// ItemKey derives the identity key for a product+customization pair.
// Two customizations that are set-equal (ingredient order ignored) produce
// the same key; any difference in size or either ingredient set changes it.
// An absent or empty customization yields the bare product ID.
func ItemKey(productID string, c *models.Customization) string {
	if c.Empty() {
		return productID
	}

	parts := []string{productID}
	if c.Size != "" {
		parts = append(parts, "size:"+c.Size)
	}
	if len(c.AddedIngredients) > 0 {
		parts = append(parts, "added:"+sortedJoin(c.AddedIngredients))
	}
	if len(c.RemovedIngredients) > 0 {
		parts = append(parts, "removed:"+sortedJoin(c.RemovedIngredients))
	}

	return strings.Join(parts, "|")
}

func sortedJoin(values []string) string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Migrate upgrades a persisted state to the current version. Legacy lines
// that were stored without a key are assigned one using the same derivation,
// so older carts keep merging correctly. Mutations assume a migrated state.
func Migrate(s State) State {
	for i := range s.Lines {
		if s.Lines[i].Key == "" {
			s.Lines[i].Key = ItemKey(s.Lines[i].ProductID, s.Lines[i].Customization)
		}
	}
	s.Version = StateVersion
	return s
}

// Add merges a line into the cart. If a line with the same identity key
// already exists its quantity is incremented, otherwise the line is appended.
// A non-positive quantity on the incoming line defaults to 1.
func (s *State) Add(line Line) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	line.Key = ItemKey(line.ProductID, line.Customization)

	for i := range s.Lines {
		if s.Lines[i].Key == line.Key {
			s.Lines[i].Quantity += line.Quantity
			return
		}
	}

	s.Lines = append(s.Lines, line)
}

// Remove deletes the line with the given key, if present.
func (s *State) Remove(key string) {
	kept := s.Lines[:0]
	for _, line := range s.Lines {
		if line.Key != key {
			kept = append(kept, line)
		}
	}
	s.Lines = kept
}

// SetQuantity updates the quantity of the line with the given key.
// A quantity of zero or less removes the line.
func (s *State) SetQuantity(key string, quantity int) {
	if quantity <= 0 {
		s.Remove(key)
		return
	}
	for i := range s.Lines {
		if s.Lines[i].Key == key {
			s.Lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart.
func (s *State) Clear() {
	s.Lines = nil
}

// Subtotal returns the sum of unit price times quantity over all lines.
func (s *State) Subtotal() float64 {
	var sum float64
	for _, line := range s.Lines {
		sum += line.UnitPrice * float64(line.Quantity)
	}
	return sum
}

// ItemCount returns the total number of units across all lines.
func (s *State) ItemCount() int {
	var count int
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}
