package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"orvio-console/internal/backend"
	"orvio-console/internal/export"
	"orvio-console/internal/session"
	"orvio-console/internal/view"

	"go.uber.org/zap"
)

// ExportHandler 屏幕数据导出。
// 只支持 CSV / XLSX：PNG/PDF 视觉快照属于渲染环境能力，
// 由外部截图服务提供，不在本服务实现。
type ExportHandler struct {
	fridges      *view.FridgesLoader
	alerts       *view.AlertsLoader
	transactions *view.TransactionsLoader
	sessions     *session.Store
	logger       *zap.Logger
	now          func() time.Time
}

func NewExportHandler(
	fridges *view.FridgesLoader,
	alerts *view.AlertsLoader,
	transactions *view.TransactionsLoader,
	sessions *session.Store,
	logger *zap.Logger,
) *ExportHandler {
	return &ExportHandler{
		fridges:      fridges,
		alerts:       alerts,
		transactions: transactions,
		sessions:     sessions,
		logger:       logger,
		now:          time.Now,
	}
}

// Export GET /console/api/v1/export/{screen}?format=csv|xlsx
// screen: fridges | alerts | transactions
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request, screen string) {
	sess := resolveSession(w, r, h.sessions)
	if sess == nil {
		return
	}
	format := r.URL.Query().Get("format")
	switch format {
	case "":
		format = "csv"
	case "csv", "xlsx":
	case "png", "pdf":
		writeJSON(w, http.StatusBadRequest, Fail("visual snapshot export is handled by the screenshot service"))
		return
	default:
		writeJSON(w, http.StatusBadRequest, Fail("unsupported export format"))
		return
	}

	var columns []export.Column
	var rowCount int
	var base, sheet string

	switch screen {
	case "fridges":
		rows, err := h.fridges.Load(r.Context(), sess, backend.PageQuery{})
		if err != nil {
			h.logger.Error("export: failed to load fridges", zap.Error(err))
			rows = nil
		}
		columns = fridgeColumns(rows)
		rowCount = len(rows)
		base, sheet = "fridges", "Fridges"
	case "alerts":
		rows, err := h.alerts.LoadAll(r.Context(), sess, nil)
		if err != nil {
			h.logger.Error("export: failed to load alerts", zap.Error(err))
			rows = nil
		}
		columns = alertColumns(rows)
		rowCount = len(rows)
		base, sheet = "alerts", "Alerts"
	case "transactions":
		rows, err := h.transactions.LoadAll(r.Context(), sess)
		if err != nil {
			h.logger.Error("export: failed to load transactions", zap.Error(err))
			rows = nil
		}
		columns = transactionColumns(rows)
		rowCount = len(rows)
		base, sheet = "transactions", "Transactions"
	default:
		writeJSON(w, http.StatusNotFound, Fail("unknown export screen"))
		return
	}

	if format == "csv" {
		data := export.CSV(columns, rowCount)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(base, "csv", h.now())+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	data, err := export.Excel(sheet, columns, rowCount)
	if err != nil {
		h.logger.Error("export: failed to generate xlsx", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate export"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(base, "xlsx", h.now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func fridgeColumns(rows []view.FridgeRow) []export.Column {
	return []export.Column{
		{Header: "Device ID", Value: func(i int) string { return rows[i].DeviceID }},
		{Header: "Name", Value: func(i int) string { return rows[i].Name }},
		{Header: "Location", Value: func(i int) string { return rows[i].Location }},
		{Header: "Status", Value: func(i int) string { return rows[i].Status }},
		{Header: "Last Check-in", Value: func(i int) string { return rows[i].LastCheckin }},
		{Header: "Temperature", Value: func(i int) string {
			return strconv.FormatFloat(rows[i].Temperature, 'f', 1, 64)
		}},
	}
}

func alertColumns(rows []view.AlertRow) []export.Column {
	return []export.Column{
		{Header: "Alert ID", Value: func(i int) string { return rows[i].AlertID }},
		{Header: "Fridge", Value: func(i int) string { return rows[i].Fridge }},
		{Header: "Type", Value: func(i int) string { return rows[i].Type }},
		{Header: "Message", Value: func(i int) string { return rows[i].Message }},
		{Header: "Severity", Value: func(i int) string { return string(rows[i].Severity) }},
		{Header: "Status", Value: func(i int) string { return rows[i].Status }},
		{Header: "Time", Value: func(i int) string { return rows[i].Time }},
	}
}

func transactionColumns(rows []view.TransactionRow) []export.Column {
	return []export.Column{
		{Header: "Transaction ID", Value: func(i int) string { return rows[i].TransactionID }},
		{Header: "Fridge", Value: func(i int) string { return rows[i].Fridge }},
		{Header: "Start", Value: func(i int) string { return rows[i].Start }},
		{Header: "Duration", Value: func(i int) string { return rows[i].Duration }},
		{Header: "Items", Value: func(i int) string { return strconv.Itoa(rows[i].ItemCount) }},
		{Header: "Action", Value: func(i int) string { return rows[i].Action }},
		{Header: "Status", Value: func(i int) string { return rows[i].Status }},
	}
}
