package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlertSeverity(t *testing.T) {
	cases := []struct {
		alertType string
		want      Severity
	}{
		{"Temperature Above Threshold", SeverityHigh},
		{"door_left_open", SeverityHigh},
		{"Connection Lost", SeverityMedium},
		{"Power Fluctuation", SeverityMedium},
		{"Inventory Mismatch", SeverityLow},
		{"", SeverityLow},
	}
	for _, c := range cases {
		a := &Alert{AlertType: c.alertType}
		assert.Equal(t, c.want, a.Severity(), "alert_type=%q", c.alertType)
	}
}

func TestValidateTransition(t *testing.T) {
	open := &Alert{AlertID: "AL-1", StatusID: AlertStatusOpen}

	assert.NoError(t, open.ValidateTransition(AlertStatusAcknowledged, ""))
	assert.NoError(t, open.ValidateTransition(AlertStatusResolved, "replaced door sensor"))

	// Resolve 必须带非空备注
	err := open.ValidateTransition(AlertStatusResolved, "")
	assert.ErrorIs(t, err, ErrResolutionNoteRequired)
	err = open.ValidateTransition(AlertStatusResolved, "   ")
	assert.ErrorIs(t, err, ErrResolutionNoteRequired)

	resolved := &Alert{AlertID: "AL-2", StatusID: AlertStatusResolved}
	err = resolved.ValidateTransition(AlertStatusAcknowledged, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransactionDerivedLabels(t *testing.T) {
	txn := &Transaction{
		Items: []TransactionItem{
			{Quantity: 2, ActionType: ActionTypeAdd},
			{Quantity: 1, ActionType: ActionTypeRemove},
		},
	}
	assert.Equal(t, 3, txn.TotalQuantity())
	assert.Equal(t, "Take", txn.ActionLabel())

	empty := &Transaction{}
	assert.Equal(t, 0, empty.TotalQuantity())
	assert.Equal(t, "Take", empty.ActionLabel())

	returns := &Transaction{Items: []TransactionItem{{Quantity: 1, ActionType: ActionTypeRemove}}}
	assert.Equal(t, "Return", returns.ActionLabel())
}

func TestInventoryLowStock(t *testing.T) {
	low := &InventoryItem{CurrentStock: 2, CriticStock: 5}
	assert.True(t, low.IsLowStock())
	assert.Equal(t, "Low", low.StockLabel())

	// 等于临界值不算 Low
	atThreshold := &InventoryItem{CurrentStock: 5, CriticStock: 5}
	assert.False(t, atThreshold.IsLowStock())
	assert.Equal(t, "OK", atThreshold.StockLabel())
}

func TestDeviceLabel(t *testing.T) {
	named := &Device{DeviceID: "FR-1", Name: "Main Entrance Fridge"}
	assert.Equal(t, "Main Entrance Fridge", named.Label())

	unnamed := &Device{DeviceID: "FR-2"}
	assert.Equal(t, "FR-2", unnamed.Label())
}
