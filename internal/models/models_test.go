package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		require.True(t, ValidOrderStatus(s), s)
	}

	require.False(t, ValidOrderStatus(""))
	require.False(t, ValidOrderStatus("new"))
	require.False(t, ValidOrderStatus("PENDING"))
}
