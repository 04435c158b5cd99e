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

func newDetailLoader(api *fakeAPI) *FridgeDetailLoader {
	l := NewFridgeDetailLoader(api, zap.NewNop())
	l.now = func() time.Time { return dashNow }
	return l
}

func TestLoadStatusWithTelemetry(t *testing.T) {
	checkin := dashNow.Add(-1 * time.Minute)
	api := &fakeAPI{
		devices: []domain.Device{
			{DeviceID: "FR-1", Name: "Lobby", Status: domain.DeviceStatusActive, DoorStatus: false, LastCheckinTime: &checkin, DefaultTemperature: 4.0},
		},
		telemetry: map[string][]domain.Telemetry{
			"FR-1": {
				{TelemetryID: "t-2", InternalTemperature: 6.2, DoorSensorStatus: true, Timestamp: dashNow},
				{TelemetryID: "t-1", InternalTemperature: 4.1, Timestamp: dashNow.Add(-time.Minute)},
			},
		},
	}

	tab, err := newDetailLoader(api).LoadStatus(context.Background(), dashSession(), "FR-1")
	require.NoError(t, err)

	assert.Equal(t, "Lobby", tab.Name)
	assert.Equal(t, "Active", tab.Status)
	// 最新遥测覆盖设备默认值
	assert.Equal(t, 6.2, tab.CurrentTemperature)
	assert.True(t, tab.DoorOpen)
	assert.Equal(t, 4.0, tab.DefaultTemperature)
	assert.Equal(t, 2, tab.SampleCount)
}

func TestLoadStatusTelemetryFailureDegrades(t *testing.T) {
	api := &fakeAPI{
		devices:          []domain.Device{{DeviceID: "FR-1", DefaultTemperature: 4.0}},
		failTelemetryFor: map[string]bool{"FR-1": true},
	}

	tab, err := newDetailLoader(api).LoadStatus(context.Background(), dashSession(), "FR-1")
	require.NoError(t, err, "telemetry failure must not fail the status tab")
	assert.Equal(t, 4.0, tab.CurrentTemperature)
	assert.Equal(t, 0, tab.SampleCount)
}

func TestLoadStatusUnknownDevice(t *testing.T) {
	api := &fakeAPI{devices: []domain.Device{{DeviceID: "FR-1"}}}
	_, err := newDetailLoader(api).LoadStatus(context.Background(), dashSession(), "FR-404")
	require.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestLoadInventory(t *testing.T) {
	update := dashNow.Add(-2 * time.Hour)
	api := &fakeAPI{
		inventory: map[string][]domain.InventoryItem{
			"FR-1": {
				{ProductID: "p1", ProductName: "Orange Juice", CurrentStock: 2, CriticStock: 5, LastStockUpdate: &update},
				{ProductID: "p2", ProductName: "Greek Yogurt", CurrentStock: 5, CriticStock: 5},
			},
		},
	}

	rows, err := newDetailLoader(api).LoadInventory(context.Background(), dashSession(), "FR-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Low", rows[0].StockLabel)
	assert.Equal(t, "2 hours ago", rows[0].LastUpdate)
	assert.Equal(t, "OK", rows[1].StockLabel)
	assert.Equal(t, "Unknown", rows[1].LastUpdate)
}

func TestLoadSessions(t *testing.T) {
	start := dashNow.Add(-125 * time.Minute)
	end := dashNow
	api := &fakeAPI{
		txns: map[string][]domain.Transaction{
			"FR-1": {
				{
					TransactionID: "TX-1",
					StartTime:     start,
					EndTime:       &end,
					Status:        domain.TransactionStatusCompleted,
					Items:         []domain.TransactionItem{{Quantity: 3, ActionType: domain.ActionTypeAdd}},
				},
				{TransactionID: "TX-2", StartTime: dashNow.Add(-30 * time.Second), IsActive: true, Status: domain.TransactionStatusPending},
			},
		},
	}

	rows, err := newDetailLoader(api).LoadSessions(context.Background(), dashSession(), "FR-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2h 5m", rows[0].Duration)
	assert.Equal(t, 3, rows[0].ItemCount)
	assert.Equal(t, "Completed", rows[0].Status)

	// 进行中的会话按 now 计时长，最少 1 分钟
	assert.Equal(t, "1 min", rows[1].Duration)
	assert.True(t, rows[1].IsActive)
}
