package gridlayout

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridKey(t *testing.T) {
	t.Run("should trim and build", func(t *testing.T) {
		k, err := NewGridKey(3, 12, "  purchaseInvoice ")
		require.NoError(t, err)
		assert.Equal(t, "purchaseInvoice", k.GridName)
		assert.Equal(t, "3:12:purchaseInvoice", k.String())
	})

	t.Run("should reject invalid keys", func(t *testing.T) {
		_, err := NewGridKey(-1, 0, "grid")
		assert.Error(t, err)
		_, err = NewGridKey(1, 1, " ")
		assert.Error(t, err)
		_, err = NewGridKey(1, 1, strings.Repeat("g", MaxGridNameLength+1))
		assert.Error(t, err)
	})
}

func TestNewGridLayout(t *testing.T) {
	key := GridKey{ModuleID: 1, TransactionID: 2, GridName: "grid"}

	t.Run("should require a user", func(t *testing.T) {
		_, err := NewGridLayout(uuid.New(), uuid.Nil, key, LayoutState{})
		assert.Error(t, err)
	})

	t.Run("should bump version on replace", func(t *testing.T) {
		l, err := NewGridLayout(uuid.New(), uuid.New(), key, LayoutState{})
		require.NoError(t, err)
		l.Replace(LayoutState{Order: []string{"A"}})
		assert.Equal(t, 2, l.Version)
		assert.Equal(t, []string{"A"}, l.State.Order)
	})
}
