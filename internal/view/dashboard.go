// Package view 把后端原始 DTO 推导成各屏幕的视图模型。
// 所有推导都是每次拉取后从零重算，不做增量缓存：屏幕打开时拉取、
// 持有本地状态、关闭即丢弃。
package view

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"orvio-console/internal/backend"
	"orvio-console/internal/domain"
	"orvio-console/internal/timefmt"

	"go.uber.org/zap"
)

// 仪表盘聚合的拉取上限（后端不提供聚合接口，只能客户端聚合）
const (
	dashboardDeviceLimit      = 100
	dashboardAlertLimit       = 100
	dashboardTransactionLimit = 50
	recentAlertCount          = 5
	recentActivityCount       = 6
	weeklyDays                = 7
)

// DashboardAPI 仪表盘依赖的后端接口子集
type DashboardAPI interface {
	ListDevices(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.Device], error)
	ListDeviceAlerts(ctx context.Context, sess *backend.Session, deviceID string, statusID *domain.AlertStatus, q backend.PageQuery) (*backend.Page[domain.Alert], error)
	ListDeviceTransactions(ctx context.Context, sess *backend.Session, deviceID string, q backend.PageQuery) (*backend.Page[domain.Transaction], error)
}

// DashboardStats 顶部统计卡
type DashboardStats struct {
	TotalFridges   int `json:"total_fridges"`
	OnlineFridges  int `json:"online_fridges"`
	ActiveSessions int `json:"active_sessions"` // 今天开始的会话数
	TotalAlerts    int `json:"total_alerts"`
}

// DashboardAlert 最近告警条目
type DashboardAlert struct {
	Type     string          `json:"type"`
	Fridge   string          `json:"fridge"`
	Severity domain.Severity `json:"severity"`
	Time     string          `json:"time"` // 相对时间
}

// DashboardActivity 最近活动条目
type DashboardActivity struct {
	Time   string `json:"time"`
	Fridge string `json:"fridge"`
	Action string `json:"action"` // Take / Return
	Count  string `json:"count"`  // "N items"
}

// WeeklyActivity 近 7 天按日会话数
type WeeklyActivity struct {
	Day      string `json:"day"` // 星期缩写
	Sessions int    `json:"sessions"`
}

// DashboardView 仪表盘视图模型
type DashboardView struct {
	Stats          DashboardStats      `json:"stats"`
	RecentAlerts   []DashboardAlert    `json:"recent_alerts"`
	RecentActivity []DashboardActivity `json:"recent_activity"`
	WeeklyActivity []WeeklyActivity    `json:"weekly_activity"`
}

// DashboardLoader 仪表盘数据加载器
type DashboardLoader struct {
	api    DashboardAPI
	logger *zap.Logger
	now    func() time.Time
}

func NewDashboardLoader(api DashboardAPI, logger *zap.Logger) *DashboardLoader {
	return &DashboardLoader{api: api, logger: logger, now: time.Now}
}

// Load 聚合仪表盘。
// 先拉全部设备，再对每台设备并发拉告警和交易；单台设备拉取失败
// 降级为空结果，不让一台失联设备拖垮整个仪表盘。
func (l *DashboardLoader) Load(ctx context.Context, sess *backend.Session) (*DashboardView, error) {
	devicesPage, err := l.api.ListDevices(ctx, sess, backend.PageQuery{Limit: dashboardDeviceLimit})
	if err != nil {
		return nil, err
	}
	devices := devicesPage.Data

	deviceNames := make(map[string]string, len(devices))
	for i := range devices {
		deviceNames[devices[i].DeviceID] = devices[i].Label()
	}

	alertsByDevice := make([][]domain.Alert, len(devices))
	txnsByDevice := make([][]domain.Transaction, len(devices))

	var wg sync.WaitGroup
	for i := range devices {
		wg.Add(2)
		go func(i int, deviceID string) {
			defer wg.Done()
			page, err := l.api.ListDeviceAlerts(ctx, sess, deviceID, nil, backend.PageQuery{Limit: dashboardAlertLimit})
			if err != nil {
				l.logger.Warn("dashboard: alerts fetch failed, using empty result",
					zap.String("device_id", deviceID), zap.Error(err))
				return
			}
			alertsByDevice[i] = page.Data
		}(i, devices[i].DeviceID)
		go func(i int, deviceID string) {
			defer wg.Done()
			page, err := l.api.ListDeviceTransactions(ctx, sess, deviceID, backend.PageQuery{Limit: dashboardTransactionLimit})
			if err != nil {
				l.logger.Warn("dashboard: transactions fetch failed, using empty result",
					zap.String("device_id", deviceID), zap.Error(err))
				return
			}
			txnsByDevice[i] = page.Data
		}(i, devices[i].DeviceID)
	}
	wg.Wait()

	var allAlerts []domain.Alert
	for _, a := range alertsByDevice {
		allAlerts = append(allAlerts, a...)
	}
	var allTxns []domain.Transaction
	for _, t := range txnsByDevice {
		allTxns = append(allTxns, t...)
	}

	now := l.now()
	view := &DashboardView{
		Stats:          l.deriveStats(devices, allAlerts, allTxns, now),
		RecentAlerts:   l.deriveRecentAlerts(allAlerts, deviceNames, now),
		RecentActivity: deriveRecentActivity(allTxns, deviceNames),
		WeeklyActivity: deriveWeeklyActivity(allTxns, now),
	}
	return view, nil
}

func (l *DashboardLoader) deriveStats(devices []domain.Device, alerts []domain.Alert, txns []domain.Transaction, now time.Time) DashboardStats {
	online := 0
	for i := range devices {
		if devices[i].Status.IsOnline() {
			online++
		}
	}
	today := 0
	for i := range txns {
		if sameDay(txns[i].StartTime, now) {
			today++
		}
	}
	return DashboardStats{
		TotalFridges:   len(devices),
		OnlineFridges:  online,
		ActiveSessions: today,
		TotalAlerts:    len(alerts),
	}
}

func (l *DashboardLoader) deriveRecentAlerts(alerts []domain.Alert, deviceNames map[string]string, now time.Time) []DashboardAlert {
	sorted := make([]domain.Alert, len(alerts))
	copy(sorted, alerts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > recentAlertCount {
		sorted = sorted[:recentAlertCount]
	}

	out := make([]DashboardAlert, 0, len(sorted))
	for i := range sorted {
		a := &sorted[i]
		ts := a.Timestamp
		out = append(out, DashboardAlert{
			Type:     a.AlertType,
			Fridge:   deviceLabel(deviceNames, a.DeviceID),
			Severity: a.Severity(),
			Time:     timefmt.FormatRelativeTime(&ts, now),
		})
	}
	return out
}

func deriveRecentActivity(txns []domain.Transaction, deviceNames map[string]string) []DashboardActivity {
	sorted := make([]domain.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.After(sorted[j].StartTime)
	})
	if len(sorted) > recentActivityCount {
		sorted = sorted[:recentActivityCount]
	}

	out := make([]DashboardActivity, 0, len(sorted))
	for i := range sorted {
		t := &sorted[i]
		count := t.TotalQuantity()
		if count == 0 {
			count = len(t.Items)
		}
		if count == 0 {
			count = 1
		}
		start := t.StartTime
		out = append(out, DashboardActivity{
			Time:   timefmt.FormatTime(&start),
			Fridge: deviceLabel(deviceNames, t.DeviceID),
			Action: t.ActionLabel(),
			Count:  itemsLabel(count),
		})
	}
	return out
}

func deriveWeeklyActivity(txns []domain.Transaction, now time.Time) []WeeklyActivity {
	out := make([]WeeklyActivity, 0, weeklyDays)
	for offset := weeklyDays - 1; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		sessions := 0
		for i := range txns {
			if sameDay(txns[i].StartTime, day) {
				sessions++
			}
		}
		out = append(out, WeeklyActivity{
			Day:      day.Format("Mon"),
			Sessions: sessions,
		})
	}
	return out
}

func deviceLabel(names map[string]string, deviceID string) string {
	if name, ok := names[deviceID]; ok {
		return name
	}
	return deviceID
}

func itemsLabel(count int) string {
	if count == 1 {
		return "1 item"
	}
	return strconv.Itoa(count) + " items"
}

// sameDay 两个时间是否落在同一个本地日历日
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
