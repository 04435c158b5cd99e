package view

import (
	"context"
	"testing"
	"time"

	"orvio-console/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTransactionsLoadAll(t *testing.T) {
	end := dashNow.Add(-50 * time.Minute)
	api := &fakeAPI{
		devices: []domain.Device{
			{DeviceID: "FR-1", Name: "Lobby"},
			{DeviceID: "FR-2", Name: "Cafeteria"},
			{DeviceID: "FR-3"},
		},
		txns: map[string][]domain.Transaction{
			"FR-1": {{
				TransactionID: "TX-old", DeviceID: "FR-1",
				StartTime: dashNow.Add(-time.Hour), EndTime: &end,
				Status: domain.TransactionStatusCompleted,
				Items:  []domain.TransactionItem{{Quantity: 2, ActionType: domain.ActionTypeAdd}},
			}},
			"FR-2": {{
				TransactionID: "TX-new", DeviceID: "FR-2",
				StartTime: dashNow.Add(-5 * time.Minute), IsActive: true,
				Status: domain.TransactionStatusPending,
			}},
		},
		failTxnsFor: map[string]bool{"FR-3": true},
	}
	l := NewTransactionsLoader(api, zap.NewNop())
	l.now = func() time.Time { return dashNow }

	rows, err := l.LoadAll(context.Background(), dashSession())
	require.NoError(t, err, "one unreachable device must not fail the screen")
	require.Len(t, rows, 2)

	// 开始时间倒序
	assert.Equal(t, "TX-new", rows[0].TransactionID)
	assert.Equal(t, "Cafeteria", rows[0].Fridge)
	assert.Equal(t, "Pending", rows[0].Status)
	assert.True(t, rows[0].IsActive)
	assert.Equal(t, "5 mins", rows[0].Duration) // 进行中按 now 计

	assert.Equal(t, "TX-old", rows[1].TransactionID)
	assert.Equal(t, "10 mins", rows[1].Duration)
	assert.Equal(t, 2, rows[1].ItemCount)
	assert.Equal(t, "Take", rows[1].Action)
}
