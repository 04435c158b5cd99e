package view

import (
	"context"
	"errors"
	"sync"

	"orvio-console/internal/backend"
	"orvio-console/internal/domain"
)

// fakeAPI 内存后端，实现各 loader 的接口子集。
// 调用计数带锁，loader 内部是并发 fan-out。
type fakeAPI struct {
	mu sync.Mutex

	devices     []domain.Device
	alerts      map[string][]domain.Alert
	txns        map[string][]domain.Transaction
	telemetry   map[string][]domain.Telemetry
	inventory   map[string][]domain.InventoryItem
	admins      []domain.AdminUser
	assignments []domain.DeviceAssignment

	failAlertsFor    map[string]bool
	failTxnsFor      map[string]bool
	failTelemetryFor map[string]bool

	updateAlertCalls      int
	createAssignmentCalls []backend.CreateAssignmentRequest
	updateAssignmentCalls []string // 置 inactive 的 assignment_id
	createdAdmins         []backend.CreateAdminRequest
	updatedAdmins         []string
}

func page[T any](data []T) *backend.Page[T] {
	return &backend.Page[T]{Data: data, Pagination: backend.Pagination{Total: len(data)}}
}

func (f *fakeAPI) ListDevices(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.Device], error) {
	return page(f.devices), nil
}

func (f *fakeAPI) ListDeviceAlerts(ctx context.Context, sess *backend.Session, deviceID string, statusID *domain.AlertStatus, q backend.PageQuery) (*backend.Page[domain.Alert], error) {
	if f.failAlertsFor[deviceID] {
		return nil, errors.New("device unreachable")
	}
	data := f.alerts[deviceID]
	if statusID != nil {
		var filtered []domain.Alert
		for _, a := range data {
			if a.StatusID == *statusID {
				filtered = append(filtered, a)
			}
		}
		data = filtered
	}
	return page(data), nil
}

func (f *fakeAPI) ListDeviceTransactions(ctx context.Context, sess *backend.Session, deviceID string, q backend.PageQuery) (*backend.Page[domain.Transaction], error) {
	if f.failTxnsFor[deviceID] {
		return nil, errors.New("device unreachable")
	}
	return page(f.txns[deviceID]), nil
}

func (f *fakeAPI) ListDeviceTelemetry(ctx context.Context, sess *backend.Session, deviceID string, q backend.PageQuery) (*backend.Page[domain.Telemetry], error) {
	if f.failTelemetryFor[deviceID] {
		return nil, errors.New("device unreachable")
	}
	return page(f.telemetry[deviceID]), nil
}

func (f *fakeAPI) ListDeviceInventory(ctx context.Context, sess *backend.Session, deviceID string, q backend.PageQuery) (*backend.Page[domain.InventoryItem], error) {
	return page(f.inventory[deviceID]), nil
}

func (f *fakeAPI) UpdateAlert(ctx context.Context, sess *backend.Session, alertID string, req backend.UpdateAlertRequest) (*domain.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateAlertCalls++
	return &domain.Alert{
		AlertID:        alertID,
		StatusID:       req.StatusID,
		ResolutionNote: req.ResolutionNote,
	}, nil
}

func (f *fakeAPI) ListAdmins(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.AdminUser], error) {
	return page(f.admins), nil
}

func (f *fakeAPI) ListAssignments(ctx context.Context, sess *backend.Session, q backend.PageQuery) (*backend.Page[domain.DeviceAssignment], error) {
	return page(f.assignments), nil
}

func (f *fakeAPI) CreateAdmin(ctx context.Context, sess *backend.Session, req backend.CreateAdminRequest) (*domain.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdAdmins = append(f.createdAdmins, req)
	return &domain.AdminUser{UserID: "u-new", Email: req.Email, RoleID: req.RoleID, Active: true}, nil
}

func (f *fakeAPI) UpdateAdmin(ctx context.Context, sess *backend.Session, adminID string, req backend.UpdateAdminRequest) (*domain.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedAdmins = append(f.updatedAdmins, adminID)
	return &domain.AdminUser{UserID: adminID}, nil
}

func (f *fakeAPI) DeleteAdmin(ctx context.Context, sess *backend.Session, adminID string) error {
	return nil
}

func (f *fakeAPI) CreateAssignment(ctx context.Context, sess *backend.Session, req backend.CreateAssignmentRequest) (*domain.DeviceAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createAssignmentCalls = append(f.createAssignmentCalls, req)
	return &domain.DeviceAssignment{AssignmentID: "as-new", DeviceID: req.DeviceID, AdminUserID: req.AdminUserID, IsActive: true}, nil
}

func (f *fakeAPI) UpdateAssignment(ctx context.Context, sess *backend.Session, assignmentID string, isActive bool) (*domain.DeviceAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !isActive {
		f.updateAssignmentCalls = append(f.updateAssignmentCalls, assignmentID)
	}
	return &domain.DeviceAssignment{AssignmentID: assignmentID, IsActive: isActive}, nil
}
