package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxmiresto/website/internal/cart"
	"github.com/laxmiresto/website/internal/order"
)

func TestGetOrCreate(t *testing.T) {
	m := NewManager(time.Hour)

	s1, created := m.GetOrCreate("")
	require.True(t, created)
	require.NotEmpty(t, s1.ID)

	s2, created := m.GetOrCreate(s1.ID)
	assert.False(t, created)
	assert.Same(t, s1, s2)

	s3, created := m.GetOrCreate("unknown-cookie")
	assert.True(t, created)
	assert.NotEqual(t, s1.ID, s3.ID)
	assert.Equal(t, 2, m.Len())
}

func TestSessionsAreIsolated(t *testing.T) {
	m := NewManager(time.Hour)
	a, _ := m.GetOrCreate("")
	b, _ := m.GetOrCreate("")

	require.NoError(t, a.Cart.AddLine(cart.Line{ID: "x", Name: "X", Price: decimal.NewFromInt(10), Quantity: 1}))

	assert.Equal(t, 1, a.Cart.Count())
	assert.Zero(t, b.Cart.Count())
}

func TestEvict_DropsIdleSessions(t *testing.T) {
	m := NewManager(time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	stale, _ := m.GetOrCreate("")
	m.now = func() time.Time { return base.Add(50 * time.Second) }
	fresh, _ := m.GetOrCreate("")

	m.evict(base.Add(70 * time.Second))

	_, created := m.GetOrCreate(stale.ID)
	assert.True(t, created, "stale session should be gone")
	_, created = m.GetOrCreate(fresh.ID)
	assert.False(t, created, "fresh session should survive")
}

func TestCheckoutStateMachine(t *testing.T) {
	m := NewManager(time.Hour)
	s, _ := m.GetOrCreate("")
	require.NoError(t, s.Cart.AddLine(cart.Line{ID: "x", Name: "X", Price: decimal.NewFromInt(10), Quantity: 2}))

	// Editing: no pending record.
	assert.Nil(t, s.Pending())

	rec := &order.Record{ID: "ORD123", Payment: order.PaymentCash}
	s.Confirm(rec)
	assert.Same(t, rec, s.Pending())

	// Back discards the order but keeps the cart.
	s.Back()
	assert.Nil(t, s.Pending())
	assert.Equal(t, 2, s.Cart.Count())

	// Done clears both.
	s.Confirm(rec)
	s.Done()
	assert.Nil(t, s.Pending())
	assert.Zero(t, s.Cart.Count())
	assert.Empty(t, s.Cart.Lines())
}
