package view

import (
	"context"
	"strings"
	"time"

	"orvio-console/internal/backend"
	"orvio-console/internal/domain"
	"orvio-console/internal/timefmt"

	"go.uber.org/zap"
)

// FridgeRow 冰箱列表行视图模型
type FridgeRow struct {
	DeviceID    string  `json:"device_id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Status      string  `json:"status"`
	DoorOpen    bool    `json:"door_open"`
	LastCheckin string  `json:"last_checkin"` // 相对时间
	Temperature float64 `json:"temperature"`
}

// FridgeFilter 客户端二级过滤条件。
// 注意这是两级分页设计的第二级：服务端分页限定载荷大小，这里的
// 过滤/分页只作用于已加载的那一页数据（见 DESIGN.md 的已知局限）。
type FridgeFilter struct {
	Query    string // id/name 子串匹配
	Status   string // 精确匹配（"Active"/"Inactive"/"Offline"，空为不过滤）
	Location string // 子串匹配
}

// FridgePage 过滤 + 本地分页后的结果
type FridgePage struct {
	Rows       []FridgeRow `json:"rows"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalRows  int         `json:"total_rows"`  // 过滤后的行数
	TotalPages int         `json:"total_pages"`
}

// FridgesAPI 冰箱列表依赖的后端接口子集
type FridgesAPI interface {
	ListDevices(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.Device], error)
}

// FridgesLoader 冰箱列表加载器
type FridgesLoader struct {
	api    FridgesAPI
	logger *zap.Logger
	now    func() time.Time
}

func NewFridgesLoader(api FridgesAPI, logger *zap.Logger) *FridgesLoader {
	return &FridgesLoader{api: api, logger: logger, now: time.Now}
}

// Load 拉取一页设备并映射成行
func (l *FridgesLoader) Load(ctx context.Context, sess *backend.Session, q backend.PageQuery) ([]FridgeRow, error) {
	page, err := l.api.ListDevices(ctx, sess, q)
	if err != nil {
		return nil, err
	}
	now := l.now()
	rows := make([]FridgeRow, 0, len(page.Data))
	for i := range page.Data {
		d := &page.Data[i]
		rows = append(rows, FridgeRow{
			DeviceID:    d.DeviceID,
			Name:        d.Label(),
			Location:    d.LocationDescription,
			Status:      d.Status.String(),
			DoorOpen:    d.DoorStatus,
			LastCheckin: timefmt.FormatRelativeTime(d.LastCheckinTime, now),
			Temperature: d.DefaultTemperature,
		})
	}
	return rows, nil
}

// FilterFridges 在已加载数据上应用客户端过滤
func FilterFridges(rows []FridgeRow, f FridgeFilter) []FridgeRow {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	location := strings.ToLower(strings.TrimSpace(f.Location))

	out := make([]FridgeRow, 0, len(rows))
	for _, row := range rows {
		if query != "" &&
			!strings.Contains(strings.ToLower(row.DeviceID), query) &&
			!strings.Contains(strings.ToLower(row.Name), query) {
			continue
		}
		if f.Status != "" && row.Status != f.Status {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(row.Location), location) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// PaginateFridges 对过滤后的子集做本地分页。page 从 1 开始。
func PaginateFridges(rows []FridgeRow, page, pageSize int) FridgePage {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page <= 0 {
		page = 1
	}
	totalPages := (len(rows) + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return FridgePage{
		Rows:       rows[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  len(rows),
		TotalPages: totalPages,
	}
}
