package view

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"orvio-console/internal/backend"
	"orvio-console/internal/domain"
	"orvio-console/internal/timefmt"

	"go.uber.org/zap"
)

// ErrDeviceNotFound 请求的设备不在后端设备列表里
var ErrDeviceNotFound = errors.New("device not found")

// AlertRow 告警屏幕行视图模型
type AlertRow struct {
	AlertID        string             `json:"alert_id"`
	DeviceID       string             `json:"device_id"`
	Fridge         string             `json:"fridge"`
	Type           string             `json:"type"`
	Message        string             `json:"message"`
	Severity       domain.Severity    `json:"severity"`
	Status         string             `json:"status"`
	StatusID       domain.AlertStatus `json:"status_id"`
	Time           string             `json:"time"`
	ResolutionNote string             `json:"resolution_note,omitempty"`
}

// AlertsAPI 告警屏幕依赖的后端接口子集
type AlertsAPI interface {
	ListDevices(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.Device], error)
	ListDeviceAlerts(ctx context.Context, sess *backend.Session, deviceID string, statusID *domain.AlertStatus, q backend.PageQuery) (*backend.Page[domain.Alert], error)
	UpdateAlert(ctx context.Context, sess *backend.Session, alertID string, req backend.UpdateAlertRequest) (*domain.Alert, error)
}

// AlertsLoader 告警屏幕加载器 + 生命周期操作
type AlertsLoader struct {
	api    AlertsAPI
	logger *zap.Logger
	now    func() time.Time
}

func NewAlertsLoader(api AlertsAPI, logger *zap.Logger) *AlertsLoader {
	return &AlertsLoader{api: api, logger: logger, now: time.Now}
}

// LoadAll 全量告警屏：拉全部设备，逐台并发拉告警后合并。
// 单台失败按空结果处理。statusID 为 nil 时不过滤状态。
func (l *AlertsLoader) LoadAll(ctx context.Context, sess *backend.Session, statusID *domain.AlertStatus) ([]AlertRow, error) {
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
	var wg sync.WaitGroup
	for i := range devices {
		wg.Add(1)
		go func(i int, deviceID string) {
			defer wg.Done()
			page, err := l.api.ListDeviceAlerts(ctx, sess, deviceID, statusID, backend.PageQuery{Limit: dashboardAlertLimit})
			if err != nil {
				l.logger.Warn("alerts: fetch failed, using empty result",
					zap.String("device_id", deviceID), zap.Error(err))
				return
			}
			alertsByDevice[i] = page.Data
		}(i, devices[i].DeviceID)
	}
	wg.Wait()

	var all []domain.Alert
	for _, a := range alertsByDevice {
		all = append(all, a...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})

	now := l.now()
	rows := make([]AlertRow, 0, len(all))
	for i := range all {
		rows = append(rows, deriveAlertRow(&all[i], deviceNames, now))
	}
	return rows, nil
}

// LoadForDevice 设备详情-告警页
func (l *AlertsLoader) LoadForDevice(ctx context.Context, sess *backend.Session, deviceID string) ([]AlertRow, error) {
	page, err := l.api.ListDeviceAlerts(ctx, sess, deviceID, nil, backend.PageQuery{Limit: dashboardAlertLimit})
	if err != nil {
		return nil, err
	}
	now := l.now()
	rows := make([]AlertRow, 0, len(page.Data))
	for i := range page.Data {
		rows = append(rows, deriveAlertRow(&page.Data[i], nil, now))
	}
	return rows, nil
}

func deriveAlertRow(a *domain.Alert, deviceNames map[string]string, now time.Time) AlertRow {
	ts := a.Timestamp
	return AlertRow{
		AlertID:        a.AlertID,
		DeviceID:       a.DeviceID,
		Fridge:         deviceLabel(deviceNames, a.DeviceID),
		Type:           a.AlertType,
		Message:        a.Message,
		Severity:       a.Severity(),
		Status:         a.StatusID.String(),
		StatusID:       a.StatusID,
		Time:           timefmt.FormatRelativeTime(&ts, now),
		ResolutionNote: a.ResolutionNote,
	}
}

// Acknowledge Open → Acknowledged
func (l *AlertsLoader) Acknowledge(ctx context.Context, sess *backend.Session, alert *domain.Alert) (*domain.Alert, error) {
	return l.transition(ctx, sess, alert, domain.AlertStatusAcknowledged, "")
}

// Resolve → Resolved。备注为空时本地直接拒绝，不发 PATCH。
func (l *AlertsLoader) Resolve(ctx context.Context, sess *backend.Session, alert *domain.Alert, resolutionNote string) (*domain.Alert, error) {
	return l.transition(ctx, sess, alert, domain.AlertStatusResolved, resolutionNote)
}

func (l *AlertsLoader) transition(ctx context.Context, sess *backend.Session, alert *domain.Alert, next domain.AlertStatus, note string) (*domain.Alert, error) {
	if err := alert.ValidateTransition(next, note); err != nil {
		return nil, err
	}
	updated, err := l.api.UpdateAlert(ctx, sess, alert.AlertID, backend.UpdateAlertRequest{
		StatusID:       next,
		ResolutionNote: note,
	})
	if err != nil {
		// 失败不保留乐观更新，也不重试
		l.logger.Warn("alert transition failed",
			zap.String("alert_id", alert.AlertID),
			zap.String("next_status", next.String()),
			zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// PatchAlertRows 成功后将返回的告警就地替换进已加载的行列表
func PatchAlertRows(rows []AlertRow, updated *domain.Alert, now time.Time) {
	for i := range rows {
		if rows[i].AlertID == updated.AlertID {
			fridge := rows[i].Fridge
			rows[i] = deriveAlertRow(updated, nil, now)
			rows[i].Fridge = fridge
			return
		}
	}
}
