// Package backend 封装对远端冰箱后端 REST API 的调用。
// 每个 API 一个方法；鉴权调用通过显式传入的 Session 携带 Bearer token，
// 不从任何全局状态读取。
package backend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"orvio-console/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 错误文案与控制台 UI 约定保持一致
const (
	fallbackRequestFailed      = "Request failed"
	fallbackLoginFailed        = "Login failed"
	fallbackRegistrationFailed = "Registration failed"
)

// Pagination 后端列表响应的分页信息
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page 后端列表响应信封 { data, pagination }
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PageQuery 列表查询参数（0 表示不传，由后端取默认值）
type PageQuery struct {
	Page  int
	Limit int
}

func (q PageQuery) apply(r *resty.Request) *resty.Request {
	if q.Page > 0 {
		r.SetQueryParam("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		r.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}
	return r
}

// Session 一次已登录会话。token/role 不放进程级全局状态，
// 由调用方显式传给每个需要鉴权的方法。
type Session struct {
	Token string
	Role  domain.UserRole
}

// apiError 后端错误响应体（message 优先于 error）
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e *apiError) text(fallback string) string {
	if e == nil {
		return fallback
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Error != "" {
		return e.Error
	}
	return fallback
}

// Client 冰箱后端 API 客户端
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient 创建后端客户端。
// 不配置自动重试：失败直接抛给调用方，由用户手动重试（刷新/重新提交）。
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

func (c *Client) request(ctx context.Context, sess *Session) *resty.Request {
	r := c.httpClient.R().SetContext(ctx)
	if sess != nil && sess.Token != "" {
		r.SetHeader("Authorization", "Bearer "+sess.Token)
	}
	return r
}

// checkResponse 非 2xx 统一转成带服务端 message 的 error
func checkResponse(resp *resty.Response, err error, fallback string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", fallback, err)
	}
	if resp.IsError() {
		apiErr, _ := resp.Error().(*apiError)
		return fmt.Errorf("%s", apiErr.text(fallback))
	}
	return nil
}

// getPage 拉取一个分页列表信封
func getPage[T any](ctx context.Context, c *Client, sess *Session, path string, q PageQuery, extra map[string]string) (*Page[T], error) {
	var page Page[T]
	r := q.apply(c.request(ctx, sess))
	for k, v := range extra {
		r.SetQueryParam(k, v)
	}
	resp, err := r.
		SetResult(&page).
		SetError(&apiError{}).
		Get(path)
	if err := checkResponse(resp, err, fallbackRequestFailed); err != nil {
		return nil, err
	}
	return &page, nil
}

// LoginResult POST /auth/login 响应
type LoginResult struct {
	Token string     `json:"token"`
	User  *LoginUser `json:"user,omitempty"`
}

// LoginUser 登录响应里内嵌的用户摘要
type LoginUser struct {
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"role"`
}

// Login POST /auth/login
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	resp, err := c.request(ctx, nil).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&result).
		SetError(&apiError{}).
		Post("/auth/login")
	if err := checkResponse(resp, err, fallbackLoginFailed); err != nil {
		c.logger.Warn("login failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return &result, nil
}

// RegisterPayload POST /auth/register 请求体
type RegisterPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterResult POST /auth/register 响应
type RegisterResult struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Register POST /auth/register
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (*RegisterResult, error) {
	var result RegisterResult
	resp, err := c.request(ctx, nil).
		SetBody(payload).
		SetResult(&result).
		SetError(&apiError{}).
		Post("/auth/register")
	if err := checkResponse(resp, err, fallbackRegistrationFailed); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListDevices GET /devices
func (c *Client) ListDevices(ctx context.Context, sess *Session, q PageQuery) (*Page[domain.Device], error) {
	return getPage[domain.Device](ctx, c, sess, "/devices", q, nil)
}

// ListDeviceAlerts GET /devices/{id}/alerts（statusID 为 nil 时不过滤）
func (c *Client) ListDeviceAlerts(ctx context.Context, sess *Session, deviceID string, statusID *domain.AlertStatus, q PageQuery) (*Page[domain.Alert], error) {
	var extra map[string]string
	if statusID != nil {
		extra = map[string]string{"status_id": strconv.Itoa(int(*statusID))}
	}
	return getPage[domain.Alert](ctx, c, sess, "/devices/"+deviceID+"/alerts", q, extra)
}

// ListDeviceTelemetry GET /devices/{id}/telemetry
func (c *Client) ListDeviceTelemetry(ctx context.Context, sess *Session, deviceID string, q PageQuery) (*Page[domain.Telemetry], error) {
	return getPage[domain.Telemetry](ctx, c, sess, "/devices/"+deviceID+"/telemetry", q, nil)
}

// ListDeviceInventory GET /devices/{id}/inventory
func (c *Client) ListDeviceInventory(ctx context.Context, sess *Session, deviceID string, q PageQuery) (*Page[domain.InventoryItem], error) {
	return getPage[domain.InventoryItem](ctx, c, sess, "/devices/"+deviceID+"/inventory", q, nil)
}

// ListDeviceTransactions GET /devices/{id}/transactions
func (c *Client) ListDeviceTransactions(ctx context.Context, sess *Session, deviceID string, q PageQuery) (*Page[domain.Transaction], error) {
	return getPage[domain.Transaction](ctx, c, sess, "/devices/"+deviceID+"/transactions", q, nil)
}

// UpdateAlertRequest PATCH /alerts/{id} 请求体
type UpdateAlertRequest struct {
	StatusID       domain.AlertStatus `json:"status_id"`
	Message        string             `json:"message,omitempty"`
	ResolutionNote string             `json:"resolution_note,omitempty"`
}

// UpdateAlert PATCH /alerts/{id}
func (c *Client) UpdateAlert(ctx context.Context, sess *Session, alertID string, req UpdateAlertRequest) (*domain.Alert, error) {
	var alert domain.Alert
	resp, err := c.request(ctx, sess).
		SetBody(req).
		SetResult(&alert).
		SetError(&apiError{}).
		Patch("/alerts/" + alertID)
	if err := checkResponse(resp, err, fallbackRequestFailed); err != nil {
		return nil, err
	}
	return &alert, nil
}

// ListAdmins GET /admins
func (c *Client) ListAdmins(ctx context.Context, sess *Session, q PageQuery) (*Page[domain.AdminUser], error) {
	return getPage[domain.AdminUser](ctx, c, sess, "/admins", q, nil)
}

// CreateAdminRequest POST /admins 请求体
type CreateAdminRequest struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name,omitempty"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	RoleID    domain.UserRole `json:"role_id"`
}

// CreateAdmin POST /admins
func (c *Client) CreateAdmin(ctx context.Context, sess *Session, req CreateAdminRequest) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	resp, err := c.request(ctx, sess).
		SetBody(req).
		SetResult(&admin).
		SetError(&apiError{}).
		Post("/admins")
	if err := checkResponse(resp, err, fallbackRequestFailed); err != nil {
		return nil, err
	}
	return &admin, nil
}

// UpdateAdminRequest PATCH /admins/{id} 请求体（零值字段不发送）
type UpdateAdminRequest struct {
	FirstName *string          `json:"first_name,omitempty"`
	LastName  *string          `json:"last_name,omitempty"`
	Email     *string          `json:"email,omitempty"`
	RoleID    *domain.UserRole `json:"role_id,omitempty"`
	Active    *bool            `json:"active,omitempty"`
	Password  *string          `json:"password,omitempty"`
}

// UpdateAdmin PATCH /admins/{id}
func (c *Client) UpdateAdmin(ctx context.Context, sess *Session, adminID string, req UpdateAdminRequest) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	resp, err := c.request(ctx, sess).
		SetBody(req).
		SetResult(&admin).
		SetError(&apiError{}).
		Patch("/admins/" + adminID)
	if err := checkResponse(resp, err, fallbackRequestFailed); err != nil {
		return nil, err
	}
	return &admin, nil
}

// DeleteAdmin DELETE /admins/{id}
func (c *Client) DeleteAdmin(ctx context.Context, sess *Session, adminID string) error {
	resp, err := c.request(ctx, sess).
		SetError(&apiError{}).
		Delete("/admins/" + adminID)
	return checkResponse(resp, err, fallbackRequestFailed)
}

// ListAssignments GET /assignments
func (c *Client) ListAssignments(ctx context.Context, sess *Session, q PageQuery) (*Page[domain.DeviceAssignment], error) {
	return getPage[domain.DeviceAssignment](ctx, c, sess, "/assignments", q, nil)
}

// CreateAssignmentRequest POST /assignments 请求体
type CreateAssignmentRequest struct {
	DeviceID    string `json:"device_id"`
	AdminUserID string `json:"admin_user_id"`
}

// CreateAssignment POST /assignments
func (c *Client) CreateAssignment(ctx context.Context, sess *Session, req CreateAssignmentRequest) (*domain.DeviceAssignment, error) {
	var assignment domain.DeviceAssignment
	resp, err := c.request(ctx, sess).
		SetBody(req).
		SetResult(&assignment).
		SetError(&apiError{}).
		Post("/assignments")
	if err := checkResponse(resp, err, fallbackRequestFailed); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UpdateAssignment PATCH /assignments/{id}（软删除：is_active=false）
func (c *Client) UpdateAssignment(ctx context.Context, sess *Session, assignmentID string, isActive bool) (*domain.DeviceAssignment, error) {
	var assignment domain.DeviceAssignment
	resp, err := c.request(ctx, sess).
		SetBody(map[string]bool{"is_active": isActive}).
		SetResult(&assignment).
		SetError(&apiError{}).
		Patch("/assignments/" + assignmentID)
	if err := checkResponse(resp, err, fallbackRequestFailed); err != nil {
		return nil, err
	}
	return &assignment, nil
}
