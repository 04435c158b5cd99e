package httpapi

import (
	"context"
	"net/http"
	"strings"

	"orvio-console/internal/backend"
	"orvio-console/internal/domain"
	"orvio-console/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthAPI 认证依赖的后端接口子集
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
	Register(ctx context.Context, payload backend.RegisterPayload) (*backend.RegisterResult, error)
}

// AuthHandler 登录/注册/登出
type AuthHandler struct {
	api      AuthAPI
	sessions *session.Store
	logger   *zap.Logger
}

func NewAuthHandler(api AuthAPI, sessions *session.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{api: api, sessions: sessions, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
}

// Login POST /console/api/v1/auth/login
// 登录成功后 token + 角色标记成对写入会话存储，控制台之后只带会话号。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	result, err := h.api.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// 登录失败文案内联展示，不做重试
		writeJSON(w, http.StatusUnauthorized, Fail(err.Error()))
		return
	}

	role := domain.UserRoleAdmin
	if result.User != nil {
		role = result.User.Role
	}
	sessionID := uuid.NewString()
	if err := h.sessions.Save(r.Context(), sessionID, result.Token, role); err != nil {
		h.logger.Error("failed to persist session", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("Login failed"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(loginResponse{
		SessionID: sessionID,
		Role:      role.String(),
	}))
}

// Register POST /console/api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload backend.RegisterPayload
	if err := readBodyJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	result, err := h.api.Register(r.Context(), payload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

// Logout POST /console/api/v1/auth/logout
// token 和角色标记一起清除
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := bearerToken(r)
	if sessionID == "" {
		writeJSON(w, http.StatusUnauthorized, TokenExpired())
		return
	}
	if err := h.sessions.Clear(r.Context(), sessionID); err != nil {
		h.logger.Warn("failed to clear session", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// resolveSession 从请求的 Bearer 会话号换取后端调用凭据。
// 失败时写出 60401 信封并返回 nil。
func resolveSession(w http.ResponseWriter, r *http.Request, sessions *session.Store) *backend.Session {
	sessionID := bearerToken(r)
	if sessionID == "" {
		writeJSON(w, http.StatusUnauthorized, TokenExpired())
		return nil
	}
	token, role, err := sessions.Load(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, TokenExpired())
		return nil
	}
	return &backend.Session{Token: token, Role: role}
}
