package view

import (
	"context"
	"time"

	"orvio-console/internal/backend"
	"orvio-console/internal/domain"
	"orvio-console/internal/timefmt"

	"go.uber.org/zap"
)

const (
	detailTelemetryLimit   = 20
	detailTransactionLimit = 100
)

// StatusTab 设备详情-状态页
type StatusTab struct {
	DeviceID           string  `json:"device_id"`
	Name               string  `json:"name"`
	Status             string  `json:"status"`
	DoorOpen           bool    `json:"door_open"`
	LastCheckin        string  `json:"last_checkin"`
	CurrentTemperature float64 `json:"current_temperature"` // 最新遥测温度，无遥测时取默认温度
	DefaultTemperature float64 `json:"default_temperature"`
	SampleCount        int     `json:"sample_count"`
}

// InventoryRow 设备详情-库存页行
type InventoryRow struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	BrandName   string `json:"brand_name,omitempty"`
	Current     int    `json:"current"`
	Critical    int    `json:"critical"`
	StockLabel  string `json:"stock_label"` // "Low" / "OK"
	LastUpdate  string `json:"last_update"`
}

// SessionRow 设备详情-会话页行
type SessionRow struct {
	TransactionID string `json:"transaction_id"`
	Start         string `json:"start"`
	Duration      string `json:"duration"`
	ItemCount     int    `json:"item_count"`
	Action        string `json:"action"`
	Status        string `json:"status"`
	IsActive      bool   `json:"is_active"`
}

// FridgeDetailAPI 设备详情依赖的后端接口子集
type FridgeDetailAPI interface {
	ListDevices(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.Device], error)
	ListDeviceTelemetry(ctx context.Context, sess *backend.Session, deviceID string, q backend.PageQuery) (*backend.Page[domain.Telemetry], error)
	ListDeviceInventory(ctx context.Context, sess *backend.Session, deviceID string, q backend.PageQuery) (*backend.Page[domain.InventoryItem], error)
	ListDeviceTransactions(ctx context.Context, sess *backend.Session, deviceID string, q backend.PageQuery) (*backend.Page[domain.Transaction], error)
}

// FridgeDetailLoader 设备详情加载器
type FridgeDetailLoader struct {
	api    FridgeDetailAPI
	logger *zap.Logger
	now    func() time.Time
}

func NewFridgeDetailLoader(api FridgeDetailAPI, logger *zap.Logger) *FridgeDetailLoader {
	return &FridgeDetailLoader{api: api, logger: logger, now: time.Now}
}

// LoadStatus 状态页：设备信息 + 最新遥测
func (l *FridgeDetailLoader) LoadStatus(ctx context.Context, sess *backend.Session, deviceID string) (*StatusTab, error) {
	devicesPage, err := l.api.ListDevices(ctx, sess, backend.PageQuery{Limit: dashboardDeviceLimit})
	if err != nil {
		return nil, err
	}
	var device *domain.Device
	for i := range devicesPage.Data {
		if devicesPage.Data[i].DeviceID == deviceID {
			device = &devicesPage.Data[i]
			break
		}
	}
	if device == nil {
		return nil, ErrDeviceNotFound
	}

	tab := &StatusTab{
		DeviceID:           device.DeviceID,
		Name:               device.Label(),
		Status:             device.Status.String(),
		DoorOpen:           device.DoorStatus,
		LastCheckin:        timefmt.FormatRelativeTime(device.LastCheckinTime, l.now()),
		CurrentTemperature: device.DefaultTemperature,
		DefaultTemperature: device.DefaultTemperature,
	}

	// 遥测拉不到不影响状态页主体
	telemetryPage, err := l.api.ListDeviceTelemetry(ctx, sess, deviceID, backend.PageQuery{Limit: detailTelemetryLimit})
	if err != nil {
		l.logger.Warn("fridge detail: telemetry fetch failed",
			zap.String("device_id", deviceID), zap.Error(err))
		return tab, nil
	}
	tab.SampleCount = len(telemetryPage.Data)
	if len(telemetryPage.Data) > 0 {
		// 后端按时间倒序返回，首条即最新
		tab.CurrentTemperature = telemetryPage.Data[0].InternalTemperature
		tab.DoorOpen = telemetryPage.Data[0].DoorSensorStatus
	}
	return tab, nil
}

// LoadInventory 库存页
func (l *FridgeDetailLoader) LoadInventory(ctx context.Context, sess *backend.Session, deviceID string) ([]InventoryRow, error) {
	page, err := l.api.ListDeviceInventory(ctx, sess, deviceID, backend.PageQuery{})
	if err != nil {
		return nil, err
	}
	now := l.now()
	rows := make([]InventoryRow, 0, len(page.Data))
	for i := range page.Data {
		item := &page.Data[i]
		rows = append(rows, InventoryRow{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			BrandName:   item.BrandName,
			Current:     item.CurrentStock,
			Critical:    item.CriticStock,
			StockLabel:  item.StockLabel(),
			LastUpdate:  timefmt.FormatRelativeTime(item.LastStockUpdate, now),
		})
	}
	return rows, nil
}

// LoadSessions 会话页
func (l *FridgeDetailLoader) LoadSessions(ctx context.Context, sess *backend.Session, deviceID string) ([]SessionRow, error) {
	page, err := l.api.ListDeviceTransactions(ctx, sess, deviceID, backend.PageQuery{Limit: detailTransactionLimit})
	if err != nil {
		return nil, err
	}
	return deriveSessionRows(page.Data, l.now()), nil
}

func deriveSessionRows(txns []domain.Transaction, now time.Time) []SessionRow {
	rows := make([]SessionRow, 0, len(txns))
	for i := range txns {
		t := &txns[i]
		start := t.StartTime
		rows = append(rows, SessionRow{
			TransactionID: t.TransactionID,
			Start:         timefmt.FormatDateTime(&start),
			Duration:      timefmt.FormatDuration(&start, t.EndTime, now),
			ItemCount:     t.TotalQuantity(),
			Action:        t.ActionLabel(),
			Status:        t.Status.String(),
			IsActive:      t.IsActive,
		})
	}
	return rows
}
