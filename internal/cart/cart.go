package cart

import (
	"encoding/json"
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// MaxQuantity caps a single line.
const MaxQuantity = 999

// Line is one (key, quantity) entry.
type Line struct {
	Key      VariantKey `json:"key"`
	Quantity int        `json:"quantity"`
}

// Cart maps variant keys to positive quantities. Lines are reported in the
// order their key was first added; ordering carries no pricing meaning.
// The zero value is an empty cart ready for use.
type Cart struct {
	quantities map[VariantKey]int
	order      []VariantKey
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{quantities: map[VariantKey]int{}}
}

// FromLines rebuilds a cart, merging equal keys and dropping non-positive
// quantities. Merged quantities are capped at MaxQuantity.
func FromLines(lines []Line) *Cart {
	c := New()
	for _, line := range lines {
		key := line.Key.Normalize()
		if key.IsZero() || line.Quantity <= 0 {
			continue
		}
		qty := min(line.Quantity, MaxQuantity)
		c.put(key, min(c.quantities[key]+qty, MaxQuantity))
	}
	return c
}

// Add increments the quantity for key, inserting the line when absent.
func (c *Cart) Add(key VariantKey, qty int) error {
	key = key.Normalize()
	if key.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required").
			WithDetails(map[string]string{"product_id": "is required"})
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]string{"quantity": "must be at least 1"})
	}
	if qty > MaxQuantity-c.Quantity(key) {
		return errTooMany()
	}
	c.put(key, c.Quantity(key)+qty)
	return nil
}

// SetQuantity overwrites the quantity for key. A quantity of zero or less
// removes the line.
func (c *Cart) SetQuantity(key VariantKey, qty int) error {
	key = key.Normalize()
	if qty <= 0 {
		c.Remove(key)
		return nil
	}
	if qty > MaxQuantity {
		return errTooMany()
	}
	if key.IsZero() {
		return nil
	}
	c.put(key, qty)
	return nil
}

// Remove deletes the line for key; absent keys are ignored.
func (c *Cart) Remove(key VariantKey) {
	key = key.Normalize()
	if _, ok := c.quantities[key]; !ok {
		return
	}
	delete(c.quantities, key)
	for i, existing := range c.order {
		if existing == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.quantities = map[VariantKey]int{}
	c.order = nil
}

// Quantity returns the quantity held for key, zero when absent.
func (c *Cart) Quantity(key VariantKey) int {
	if c == nil {
		return 0
	}
	return c.quantities[key.Normalize()]
}

func (c *Cart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.quantities)
}

func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Lines returns a copy of the cart contents.
func (c *Cart) Lines() []Line {
	if c == nil {
		return nil
	}
	lines := make([]Line, 0, len(c.order))
	for _, key := range c.order {
		lines = append(lines, Line{Key: key, Quantity: c.quantities[key]})
	}
	return lines
}

// Clone returns an independent copy.
func (c *Cart) Clone() *Cart {
	return FromLines(c.Lines())
}

// TotalQuantity sums every line's quantity.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines() {
		total += line.Quantity
	}
	return total
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.Lines()
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*c = *FromLines(lines)
	return nil
}

func (c *Cart) put(key VariantKey, qty int) {
	c.ensure()
	if _, ok := c.quantities[key]; !ok {
		c.order = append(c.order, key)
	}
	c.quantities[key] = qty
}

func errTooMany() error {
	msg := fmt.Sprintf("must be at most %d", MaxQuantity)
	return pkgerrors.New(pkgerrors.CodeValidation, "quantity "+msg).
		WithDetails(map[string]string{"quantity": msg})
}

func (c *Cart) ensure() {
	if c.quantities == nil {
		c.quantities = map[VariantKey]int{}
	}
}
