package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	for _, s := range validOrderStatuses {
		got, err := ParseOrderStatus(s.String())
		require.NoError(t, err)
		assert.True(t, got.IsValid())
	}

	_, err := ParseOrderStatus("lost")
	assert.Error(t, err)
	assert.False(t, OrderStatus("Pending").IsValid())
}

func TestParsePaymentStatus(t *testing.T) {
	t.Parallel()

	got, err := ParsePaymentStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, got)

	_, err = ParsePaymentStatus("")
	assert.Error(t, err)
	assert.False(t, PaymentStatus("charged").IsValid())
}
