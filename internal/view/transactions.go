package view

import (
	"context"
	"sort"
	"sync"
	"time"

	"orvio-console/internal/backend"
	"orvio-console/internal/domain"
	"orvio-console/internal/timefmt"

	"go.uber.org/zap"
)

// TransactionRow 交易屏幕行视图模型
type TransactionRow struct {
	TransactionID string `json:"transaction_id"`
	DeviceID      string `json:"device_id"`
	Fridge        string `json:"fridge"`
	Start         string `json:"start"`
	Duration      string `json:"duration"`
	ItemCount     int    `json:"item_count"`
	Action        string `json:"action"`
	Status        string `json:"status"`
	IsActive      bool   `json:"is_active"`
}

// TransactionsAPI 交易屏幕依赖的后端接口子集
type TransactionsAPI interface {
	ListDevices(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.Device], error)
	ListDeviceTransactions(ctx context.Context, sess *backend.Session, deviceID string, q backend.PageQuery) (*backend.Page[domain.Transaction], error)
}

// TransactionsLoader 交易屏幕加载器
type TransactionsLoader struct {
	api    TransactionsAPI
	logger *zap.Logger
	now    func() time.Time
}

func NewTransactionsLoader(api TransactionsAPI, logger *zap.Logger) *TransactionsLoader {
	return &TransactionsLoader{api: api, logger: logger, now: time.Now}
}

// LoadAll 全设备会话列表：并发逐台拉取后按开始时间倒序合并。
// 单台失败按空结果处理。
func (l *TransactionsLoader) LoadAll(ctx context.Context, sess *backend.Session) ([]TransactionRow, error) {
	devicesPage, err := l.api.ListDevices(ctx, sess, backend.PageQuery{Limit: dashboardDeviceLimit})
	if err != nil {
		return nil, err
	}
	devices := devicesPage.Data

	deviceNames := make(map[string]string, len(devices))
	for i := range devices {
		deviceNames[devices[i].DeviceID] = devices[i].Label()
	}

	txnsByDevice := make([][]domain.Transaction, len(devices))
	var wg sync.WaitGroup
	for i := range devices {
		wg.Add(1)
		go func(i int, deviceID string) {
			defer wg.Done()
			page, err := l.api.ListDeviceTransactions(ctx, sess, deviceID, backend.PageQuery{Limit: detailTransactionLimit})
			if err != nil {
				l.logger.Warn("transactions: fetch failed, using empty result",
					zap.String("device_id", deviceID), zap.Error(err))
				return
			}
			txnsByDevice[i] = page.Data
		}(i, devices[i].DeviceID)
	}
	wg.Wait()

	var all []domain.Transaction
	for _, t := range txnsByDevice {
		all = append(all, t...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].StartTime.After(all[j].StartTime)
	})

	now := l.now()
	rows := make([]TransactionRow, 0, len(all))
	for i := range all {
		t := &all[i]
		start := t.StartTime
		rows = append(rows, TransactionRow{
			TransactionID: t.TransactionID,
			DeviceID:      t.DeviceID,
			Fridge:        deviceLabel(deviceNames, t.DeviceID),
			Start:         timefmt.FormatDateTime(&start),
			Duration:      timefmt.FormatDuration(&start, t.EndTime, now),
			ItemCount:     t.TotalQuantity(),
			Action:        t.ActionLabel(),
			Status:        t.Status.String(),
			IsActive:      t.IsActive,
		})
	}
	return rows, nil
}
