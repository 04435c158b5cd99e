package httpapi

import (
	"net/http"

	"orvio-console/internal/domain"
	"orvio-console/internal/session"
	"orvio-console/internal/view"

	"go.uber.org/zap"
)

// AdminHandler 管理员与设备授权管理（仅 System Admin 可用）
type AdminHandler struct {
	admins   *view.AdminsLoader
	sessions *session.Store
	logger   *zap.Logger
}

func NewAdminHandler(admins *view.AdminsLoader, sessions *session.Store, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admins: admins, sessions: sessions, logger: logger}
}

// List GET /console/api/v1/admins
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := resolveSession(w, r, h.sessions)
	if sess == nil {
		return
	}
	if sess.Role != domain.UserRoleSystemAdmin {
		writeJSON(w, http.StatusForbidden, Fail("system admin role required"))
		return
	}
	v, err := h.admins.Load(r.Context(), sess)
	if err != nil {
		h.logger.Error("failed to load admins, returning empty view", zap.Error(err))
		v = &view.AdminsView{Admins: []view.AdminRow{}}
	}
	writeJSON(w, http.StatusOK, Ok(v))
}

type saveAdminRequest struct {
	AdminID   string   `json:"admin_id,omitempty"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name,omitempty"`
	Email     string   `json:"email"`
	Password  string   `json:"password,omitempty"`
	RoleID    int      `json:"role_id"`
	Fridges   []string `json:"fridges"`
}

// Save POST /console/api/v1/admins
// 新建或编辑管理员并对账授权；成功后前端整体重拉列表。
func (h *AdminHandler) Save(w http.ResponseWriter, r *http.Request) {
	sess := resolveSession(w, r, h.sessions)
	if sess == nil {
		return
	}
	if sess.Role != domain.UserRoleSystemAdmin {
		writeJSON(w, http.StatusForbidden, Fail("system admin role required"))
		return
	}
	var req saveAdminRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	// 当前 active 授权用于对账差集
	var current []domain.DeviceAssignment
	if req.AdminID != "" {
		v, err := h.admins.Load(r.Context(), sess)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
			return
		}
		current = v.Assignments
	}

	err := h.admins.SaveAdmin(r.Context(), sess, view.SaveAdminRequest{
		AdminID:   req.AdminID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		RoleID:    domain.UserRole(req.RoleID),
		Fridges:   req.Fridges,
	}, current)
	if err != nil {
		h.logger.Error("failed to save admin", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

// Delete DELETE /console/api/v1/admins/{id}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request, adminID string) {
	sess := resolveSession(w, r, h.sessions)
	if sess == nil {
		return
	}
	if sess.Role != domain.UserRoleSystemAdmin {
		writeJSON(w, http.StatusForbidden, Fail("system admin role required"))
		return
	}
	if err := h.admins.DeleteAdmin(r.Context(), sess, adminID); err != nil {
		h.logger.Error("failed to delete admin", zap.String("admin_id", adminID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}
