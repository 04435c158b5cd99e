package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"orvio-console/internal/backend"
	"orvio-console/internal/domain"
	"orvio-console/internal/session"
	"orvio-console/internal/view"

	"go.uber.org/zap"
)

// ConsoleHandler 控制台各屏幕的 JSON API。
// 错误策略：屏幕级拉取失败统一记日志并退回空视图模型，
// 不向 UI 冒泡错误横幅（登录失败除外）。
type ConsoleHandler struct {
	dashboard    *view.DashboardLoader
	fridges      *view.FridgesLoader
	detail       *view.FridgeDetailLoader
	alerts       *view.AlertsLoader
	transactions *view.TransactionsLoader
	sessions     *session.Store
	logger       *zap.Logger
}

func NewConsoleHandler(
	dashboard *view.DashboardLoader,
	fridges *view.FridgesLoader,
	detail *view.FridgeDetailLoader,
	alerts *view.AlertsLoader,
	transactions *view.TransactionsLoader,
	sessions *session.Store,
	logger *zap.Logger,
) *ConsoleHandler {
	return &ConsoleHandler{
		dashboard:    dashboard,
		fridges:      fridges,
		detail:       detail,
		alerts:       alerts,
		transactions: transactions,
		sessions:     sessions,
		logger:       logger,
	}
}

// Dashboard GET /console/api/v1/dashboard
func (h *ConsoleHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := resolveSession(w, r, h.sessions)
	if sess == nil {
		return
	}
	v, err := h.dashboard.Load(r.Context(), sess)
	if err != nil {
		h.logger.Error("failed to load dashboard, returning empty view", zap.Error(err))
		v = &view.DashboardView{
			RecentAlerts:   []view.DashboardAlert{},
			RecentActivity: []view.DashboardActivity{},
			WeeklyActivity: []view.WeeklyActivity{},
		}
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

// Fridges GET /console/api/v1/fridges
// 服务端分页参数 page/limit 透传后端；query/status/location/local_page/page_size
// 是第二级的客户端过滤与分页。
func (h *ConsoleHandler) Fridges(w http.ResponseWriter, r *http.Request) {
	sess := resolveSession(w, r, h.sessions)
	if sess == nil {
		return
	}
	q := r.URL.Query()
	rows, err := h.fridges.Load(r.Context(), sess, backend.PageQuery{
		Page:  queryInt(q, "page", 0),
		Limit: queryInt(q, "limit", 0),
	})
	if err != nil {
		h.logger.Error("failed to load fridges, returning empty list", zap.Error(err))
		rows = []view.FridgeRow{}
	}
	filtered := view.FilterFridges(rows, view.FridgeFilter{
		Query:    q.Get("query"),
		Status:   q.Get("status"),
		Location: q.Get("location"),
	})
	page := view.PaginateFridges(filtered, queryInt(q, "local_page", 1), queryInt(q, "page_size", 10))
	writeJSON(w, http.StatusOK, Ok(page))
}

// FridgeDetail GET /console/api/v1/fridges/{id}/{tab}
// tab: status | inventory | sessions | alerts
func (h *ConsoleHandler) FridgeDetail(w http.ResponseWriter, r *http.Request, deviceID, tab string) {
	sess := resolveSession(w, r, h.sessions)
	if sess == nil {
		return
	}
	ctx := r.Context()
	switch tab {
	case "status":
		v, err := h.detail.LoadStatus(ctx, sess, deviceID)
		if err != nil {
			if errors.Is(err, view.ErrDeviceNotFound) {
				writeJSON(w, http.StatusNotFound, Fail("device not found"))
				return
			}
			h.logger.Error("failed to load status tab", zap.String("device_id", deviceID), zap.Error(err))
			writeJSON(w, http.StatusOK, Ok(&view.StatusTab{DeviceID: deviceID}))
			return
		}
		writeJSON(w, http.StatusOK, Ok(v))
	case "inventory":
		rows, err := h.detail.LoadInventory(ctx, sess, deviceID)
		if err != nil {
			h.logger.Error("failed to load inventory tab", zap.String("device_id", deviceID), zap.Error(err))
			rows = []view.InventoryRow{}
		}
		writeJSON(w, http.StatusOK, Ok(rows))
	case "sessions":
		rows, err := h.detail.LoadSessions(ctx, sess, deviceID)
		if err != nil {
			h.logger.Error("failed to load sessions tab", zap.String("device_id", deviceID), zap.Error(err))
			rows = []view.SessionRow{}
		}
		writeJSON(w, http.StatusOK, Ok(rows))
	case "alerts":
		rows, err := h.alerts.LoadForDevice(ctx, sess, deviceID)
		if err != nil {
			h.logger.Error("failed to load alerts tab", zap.String("device_id", deviceID), zap.Error(err))
			rows = []view.AlertRow{}
		}
		writeJSON(w, http.StatusOK, Ok(rows))
	default:
		writeJSON(w, http.StatusNotFound, Fail("unknown tab"))
	}
}

// Alerts GET /console/api/v1/alerts?status_id=
func (h *ConsoleHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	sess := resolveSession(w, r, h.sessions)
	if sess == nil {
		return
	}
	var statusID *domain.AlertStatus
	if raw := r.URL.Query().Get("status_id"); raw != "" {
		s := domain.AlertStatus(queryInt(r.URL.Query(), "status_id", int(domain.AlertStatusOpen)))
		statusID = &s
	}
	rows, err := h.alerts.LoadAll(r.Context(), sess, statusID)
	if err != nil {
		h.logger.Error("failed to load alerts, returning empty list", zap.Error(err))
		rows = []view.AlertRow{}
	}
	writeJSON(w, http.StatusOK, Ok(rows))
}

type alertTransitionRequest struct {
	CurrentStatusID domain.AlertStatus `json:"current_status_id"`
	ResolutionNote  string             `json:"resolution_note,omitempty"`
}

// AlertTransition POST /console/api/v1/alerts/{id}/acknowledge | /resolve
// Resolve 无备注在此即被拒绝，不会向后端发出 PATCH。
func (h *ConsoleHandler) AlertTransition(w http.ResponseWriter, r *http.Request, alertID, action string) {
	sess := resolveSession(w, r, h.sessions)
	if sess == nil {
		return
	}
	var req alertTransitionRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	alert := &domain.Alert{AlertID: alertID, StatusID: req.CurrentStatusID}

	var updated *domain.Alert
	var err error
	switch action {
	case "acknowledge":
		updated, err = h.alerts.Acknowledge(r.Context(), sess, alert)
	case "resolve":
		updated, err = h.alerts.Resolve(r.Context(), sess, alert, req.ResolutionNote)
	default:
		writeJSON(w, http.StatusNotFound, Fail("unknown action"))
		return
	}
	if err != nil {
		if errors.Is(err, domain.ErrResolutionNoteRequired) || errors.Is(err, domain.ErrInvalidTransition) {
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(updated))
}

// Transactions GET /console/api/v1/transactions
func (h *ConsoleHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	sess := resolveSession(w, r, h.sessions)
	if sess == nil {
		return
	}
	rows, err := h.transactions.LoadAll(r.Context(), sess)
	if err != nil {
		h.logger.Error("failed to load transactions, returning empty list", zap.Error(err))
		rows = []view.TransactionRow{}
	}
	writeJSON(w, http.StatusOK, Ok(rows))
}

// splitDetailPath 解析 "{id}/{tab}" 形式的尾部路径
func splitDetailPath(rest string) (id, tab string, ok bool) {
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return "", "", false
	}
	return parts[0], parts[1], true
}
