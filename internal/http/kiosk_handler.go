package httpapi

import (
	"errors"
	"net/http"
	"time"

	"orvio-console/internal/kiosk"

	"go.uber.org/zap"
)

// KioskHandler 冰箱屏 kiosk 购物流程的 HTTP 入口。
// kiosk 端无登录态，会话由 session_id 标识。
type KioskHandler struct {
	flow   *kiosk.Flow
	logger *zap.Logger
	now    func() time.Time
}

func NewKioskHandler(flow *kiosk.Flow, logger *zap.Logger) *KioskHandler {
	return &KioskHandler{flow: flow, logger: logger, now: time.Now}
}

// kioskSessionView 面向前端的会话快照，附带过期/倒计时状态
type kioskSessionView struct {
	SessionID        string           `json:"session_id"`
	Stage            kiosk.Stage      `json:"stage"`
	Items            []kiosk.CartItem `json:"items"`
	TotalItems       int              `json:"total_items"`
	TotalAmount      float64          `json:"total_amount"`
	Expired          bool             `json:"expired"`
	CountdownSeconds int              `json:"countdown_seconds"`
}

func (h *KioskHandler) view(s *kiosk.Session) kioskSessionView {
	now := h.now()
	return kioskSessionView{
		SessionID:        s.SessionID,
		Stage:            s.Stage,
		Items:            s.Items,
		TotalItems:       s.TotalItems(),
		TotalAmount:      s.TotalAmount(),
		Expired:          s.Expired(now),
		CountdownSeconds: s.CountdownRemaining(now),
	}
}

// Start POST /kiosk/api/v1/sessions
func (h *KioskHandler) Start(w http.ResponseWriter, r *http.Request) {
	s, err := h.flow.Start(r.Context())
	if err != nil {
		h.logger.Error("kiosk: failed to start session", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to start session"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.view(s)))
}

// Get GET /kiosk/api/v1/sessions/{id}
func (h *KioskHandler) Get(w http.ResponseWriter, r *http.Request, sessionID string) {
	s, err := h.flow.Get(r.Context(), sessionID)
	if err != nil {
		h.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.view(s)))
}

// Transition POST /kiosk/api/v1/sessions/{id}/{action}
// action: cart | complete | purchase-details | feedback
func (h *KioskHandler) Transition(w http.ResponseWriter, r *http.Request, sessionID, action string) {
	var s *kiosk.Session
	var err error
	switch action {
	case "cart":
		s, err = h.flow.EnterCart(r.Context(), sessionID)
	case "complete":
		s, err = h.flow.Complete(r.Context(), sessionID)
	case "purchase-details":
		s, err = h.flow.PurchaseDetails(r.Context(), sessionID)
	case "feedback":
		s, err = h.flow.Feedback(r.Context(), sessionID)
	default:
		writeJSON(w, http.StatusNotFound, Fail("unknown kiosk action"))
		return
	}
	if err != nil {
		h.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.view(s)))
}

// DecreaseItem POST /kiosk/api/v1/sessions/{id}/items/{itemID}/decrease
func (h *KioskHandler) DecreaseItem(w http.ResponseWriter, r *http.Request, sessionID, itemID string) {
	s, err := h.flow.DecreaseItem(r.Context(), sessionID, itemID)
	if err != nil {
		h.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.view(s)))
}

func (h *KioskHandler) writeFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, kiosk.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, Fail("session not found"))
	case errors.Is(err, kiosk.ErrInvalidStage):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	default:
		h.logger.Error("kiosk: flow operation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("kiosk operation failed"))
	}
}
