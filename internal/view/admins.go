package view

import (
	"context"
	"fmt"
	"sync"

	"orvio-console/internal/backend"
	"orvio-console/internal/domain"

	"go.uber.org/zap"
)

// AdminRow 管理员列表行视图模型
type AdminRow struct {
	UserID          string   `json:"user_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"` // "Admin" / "SystemAdmin"
	Active          bool     `json:"active"`
	AssignedFridges []string `json:"assigned_fridges"` // device_id 列表（仅 active 授权）
}

// AdminsView 管理员管理屏幕视图模型
type AdminsView struct {
	Admins      []AdminRow                `json:"admins"`
	Devices     []domain.Device           `json:"devices"`     // 授权勾选列表用
	Assignments []domain.DeviceAssignment `json:"assignments"`
}

// AdminsAPI 管理员管理依赖的后端接口子集
type AdminsAPI interface {
	ListAdmins(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.AdminUser], error)
	ListDevices(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.Device], error)
	ListAssignments(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.DeviceAssignment], error)
	CreateAdmin(ctx context.Context, sess *backend.Session, req backend.CreateAdminRequest) (*domain.AdminUser, error)
	UpdateAdmin(ctx context.Context, sess *backend.Session, adminID string, req backend.UpdateAdminRequest) (*domain.AdminUser, error)
	DeleteAdmin(ctx context.Context, sess *backend.Session, adminID string) error
	CreateAssignment(ctx context.Context, sess *backend.Session, req backend.CreateAssignmentRequest) (*domain.DeviceAssignment, error)
	UpdateAssignment(ctx context.Context, sess *backend.Session, assignmentID string, isActive bool) (*domain.DeviceAssignment, error)
}

// AdminsLoader 管理员管理加载器
type AdminsLoader struct {
	api    AdminsAPI
	logger *zap.Logger
}

func NewAdminsLoader(api AdminsAPI, logger *zap.Logger) *AdminsLoader {
	return &AdminsLoader{api: api, logger: logger}
}

// Load 拉取管理员、设备、授权三个集合并映射
func (l *AdminsLoader) Load(ctx context.Context, sess *backend.Session) (*AdminsView, error) {
	adminsPage, err := l.api.ListAdmins(ctx, sess, backend.PageQuery{})
	if err != nil {
		return nil, err
	}
	devicesPage, err := l.api.ListDevices(ctx, sess, backend.PageQuery{Limit: dashboardDeviceLimit})
	if err != nil {
		return nil, err
	}
	assignmentsPage, err := l.api.ListAssignments(ctx, sess, backend.PageQuery{})
	if err != nil {
		return nil, err
	}

	admins := adminsPage.Data
	assignments := assignmentsPage.Data

	rows := make([]AdminRow, 0, len(admins))
	for i := range admins {
		a := &admins[i]
		var assigned []string
		for j := range assignments {
			if assignments[j].AdminUserID == a.UserID && assignments[j].IsActive {
				assigned = append(assigned, assignments[j].DeviceID)
			}
		}
		rows = append(rows, AdminRow{
			UserID:          a.UserID,
			Name:            a.FullName(),
			Email:           a.Email,
			Role:            a.RoleID.String(),
			Active:          a.Active,
			AssignedFridges: assigned,
		})
	}

	return &AdminsView{
		Admins:      rows,
		Devices:     devicesPage.Data,
		Assignments: assignments,
	}, nil
}

// AssignmentDiff 授权对账结果
type AssignmentDiff struct {
	Deactivate []string // 需要置 inactive 的 assignment_id
	Create     []string // 需要新建授权的 device_id
}

// ReconcileAssignments 对比期望设备集合与当前 active 授权，算出差集。
// 不假设服务端会去重：已有 active 授权的设备不重复创建。
func ReconcileAssignments(current []domain.DeviceAssignment, adminUserID string, desired []string) AssignmentDiff {
	desiredSet := make(map[string]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}

	var diff AssignmentDiff
	currentSet := make(map[string]bool)
	for i := range current {
		a := &current[i]
		if a.AdminUserID != adminUserID || !a.IsActive {
			continue
		}
		currentSet[a.DeviceID] = true
		if !desiredSet[a.DeviceID] {
			diff.Deactivate = append(diff.Deactivate, a.AssignmentID)
		}
	}
	for _, id := range desired {
		if !currentSet[id] {
			diff.Create = append(diff.Create, id)
		}
	}
	return diff
}

// SaveAssignments 并发执行对账结果（先算差集再发请求）。
// 调用方保存后应整体重拉，而不是本地合并结果——多一次往返换取与
// 服务端的强一致。
func (l *AdminsLoader) SaveAssignments(ctx context.Context, sess *backend.Session, adminUserID string, current []domain.DeviceAssignment, desired []string) error {
	diff := ReconcileAssignments(current, adminUserID, desired)

	errs := make([]error, len(diff.Deactivate)+len(diff.Create))
	var wg sync.WaitGroup
	for i, assignmentID := range diff.Deactivate {
		wg.Add(1)
		go func(slot int, id string) {
			defer wg.Done()
			_, err := l.api.UpdateAssignment(ctx, sess, id, false)
			errs[slot] = err
		}(i, assignmentID)
	}
	for i, deviceID := range diff.Create {
		wg.Add(1)
		go func(slot int, id string) {
			defer wg.Done()
			_, err := l.api.CreateAssignment(ctx, sess, backend.CreateAssignmentRequest{
				DeviceID:    id,
				AdminUserID: adminUserID,
			})
			errs[slot] = err
		}(len(diff.Deactivate)+i, deviceID)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("assignment reconciliation: %w", err)
		}
	}
	return nil
}

// SaveAdminRequest 新建/编辑管理员的表单
type SaveAdminRequest struct {
	AdminID   string // 空表示新建
	FirstName string
	LastName  string
	Email     string
	Password  string // 编辑时为空表示不改密码
	RoleID    domain.UserRole
	Fridges   []string // 期望的授权设备集合
}

// SaveAdmin 新建或编辑管理员并对账其授权，完成后由调用方重拉
func (l *AdminsLoader) SaveAdmin(ctx context.Context, sess *backend.Session, req SaveAdminRequest, current []domain.DeviceAssignment) error {
	if req.AdminID == "" {
		created, err := l.api.CreateAdmin(ctx, sess, backend.CreateAdminRequest{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			RoleID:    req.RoleID,
		})
		if err != nil {
			return err
		}
		// 新建管理员没有已有授权，期望集合全量创建
		return l.SaveAssignments(ctx, sess, created.UserID, nil, req.Fridges)
	}

	update := backend.UpdateAdminRequest{
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
		Email:     &req.Email,
		RoleID:    &req.RoleID,
	}
	if req.Password != "" {
		update.Password = &req.Password
	}
	if _, err := l.api.UpdateAdmin(ctx, sess, req.AdminID, update); err != nil {
		return err
	}
	return l.SaveAssignments(ctx, sess, req.AdminID, current, req.Fridges)
}

// DeleteAdmin 删除管理员
func (l *AdminsLoader) DeleteAdmin(ctx context.Context, sess *backend.Session, adminID string) error {
	return l.api.DeleteAdmin(ctx, sess, adminID)
}
