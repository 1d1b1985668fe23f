package repository

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiiloo/saffron-store-api/internal/model"
)

func TestDecodeCart(t *testing.T) {
	id := uuid.New()
	cart := &model.Cart{ID: id, Items: []model.CartItem{
		{ProductID: 1, Name: "زعفران سرگل", Price: "۱۰۰,۰۰۰ تومان", Quantity: 2},
	}}
	data, err := json.Marshal(cart)
	require.NoError(t, err)

	got := decodeCart(id, data)
	assert.Equal(t, id, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

// A corrupt stored payload must not be an error: the session silently starts
// over with an empty cart.
func TestDecodeCart_CorruptPayload(t *testing.T) {
	id := uuid.New()
	for _, data := range [][]byte{
		[]byte("not json"),
		[]byte(`{"items": "oops"`),
		[]byte(`[1,2,3]`),
	} {
		got := decodeCart(id, data)
		assert.Equal(t, id, got.ID)
		assert.Empty(t, got.Items)
	}
}
