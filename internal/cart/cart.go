// Package cart implements the per-session shopping cart.
package cart

import (
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when a line is added with a non-positive
// quantity.
var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// Line is one distinct menu item in the cart. A cart never holds two lines
// with the same ID: adding an existing item merges into its quantity.
type Line struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
	Image    string
	Category string
}

// Total returns the line total (price times quantity).
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store holds the lines of a single session's cart in insertion order.
// Handlers for the same session can race, so every operation takes the
// store's mutex; totals are computed on demand rather than cached.
type Store struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart.
func New() *Store {
	return &Store{}
}

// AddLine appends the line, or merges its quantity into the existing line
// with the same ID. Non-positive quantities are rejected.
func (s *Store) AddLine(line Line) error {
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == line.ID {
			s.lines[i].Quantity += line.Quantity
			return nil
		}
	}
	s.lines = append(s.lines, line)
	return nil
}

// SetQuantity sets the quantity of the line with the given id. A quantity
// below 1 removes the line. Unknown ids are ignored.
func (s *Store) SetQuantity(id string, quantity int) {
	if quantity < 1 {
		s.Remove(id)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the line with the given id if present.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a snapshot of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalPrice returns the sum of line totals, zero for an empty cart.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Count returns the sum of quantities across all lines. It backs the cart
// badge in the UI.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}
