package view

import (
	"context"
	"testing"

	"orvio-console/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReconcileAssignments(t *testing.T) {
	current := []domain.DeviceAssignment{
		{AssignmentID: "as-1", AdminUserID: "u1", DeviceID: "FR-A", IsActive: true},
		{AssignmentID: "as-2", AdminUserID: "u1", DeviceID: "FR-B", IsActive: true},
		{AssignmentID: "as-3", AdminUserID: "u2", DeviceID: "FR-C", IsActive: true},  // 别人的授权
		{AssignmentID: "as-4", AdminUserID: "u1", DeviceID: "FR-D", IsActive: false}, // 历史记录
	}

	// {A,B} → {B,C}：撤 A、建 C，B 不动
	diff := ReconcileAssignments(current, "u1", []string{"FR-B", "FR-C"})
	assert.Equal(t, []string{"as-1"}, diff.Deactivate)
	assert.Equal(t, []string{"FR-C"}, diff.Create)
}

func TestReconcileAssignmentsEmptyDesired(t *testing.T) {
	current := []domain.DeviceAssignment{
		{AssignmentID: "as-1", AdminUserID: "u1", DeviceID: "FR-A", IsActive: true},
	}
	diff := ReconcileAssignments(current, "u1", nil)
	assert.Equal(t, []string{"as-1"}, diff.Deactivate)
	assert.Empty(t, diff.Create)
}

func TestReconcileAssignmentsRecreatesInactive(t *testing.T) {
	// 软删除过的授权不算 current，需要重新创建
	current := []domain.DeviceAssignment{
		{AssignmentID: "as-1", AdminUserID: "u1", DeviceID: "FR-A", IsActive: false},
	}
	diff := ReconcileAssignments(current, "u1", []string{"FR-A"})
	assert.Empty(t, diff.Deactivate)
	assert.Equal(t, []string{"FR-A"}, diff.Create)
}

func TestSaveAssignments(t *testing.T) {
	api := &fakeAPI{}
	l := NewAdminsLoader(api, zap.NewNop())

	current := []domain.DeviceAssignment{
		{AssignmentID: "as-1", AdminUserID: "u1", DeviceID: "FR-A", IsActive: true},
	}
	err := l.SaveAssignments(context.Background(), dashSession(), "u1", current, []string{"FR-B"})
	require.NoError(t, err)

	assert.Equal(t, []string{"as-1"}, api.updateAssignmentCalls)
	require.Len(t, api.createAssignmentCalls, 1)
	assert.Equal(t, "FR-B", api.createAssignmentCalls[0].DeviceID)
	assert.Equal(t, "u1", api.createAssignmentCalls[0].AdminUserID)
}

func TestSaveAdminCreate(t *testing.T) {
	api := &fakeAPI{}
	l := NewAdminsLoader(api, zap.NewNop())

	err := l.SaveAdmin(context.Background(), dashSession(), SaveAdminRequest{
		FirstName: "Ada",
		Email:     "ada@orvio.io",
		Password:  "pw",
		RoleID:    domain.UserRoleAdmin,
		Fridges:   []string{"FR-A", "FR-B"},
	}, nil)
	require.NoError(t, err)

	require.Len(t, api.createdAdmins, 1)
	assert.Equal(t, "ada@orvio.io", api.createdAdmins[0].Email)
	// 新建路径：期望集合全量创建，归属新 user_id
	require.Len(t, api.createAssignmentCalls, 2)
	for _, call := range api.createAssignmentCalls {
		assert.Equal(t, "u-new", call.AdminUserID)
	}
}

func TestSaveAdminUpdate(t *testing.T) {
	api := &fakeAPI{}
	l := NewAdminsLoader(api, zap.NewNop())

	current := []domain.DeviceAssignment{
		{AssignmentID: "as-1", AdminUserID: "u1", DeviceID: "FR-A", IsActive: true},
	}
	err := l.SaveAdmin(context.Background(), dashSession(), SaveAdminRequest{
		AdminID:   "u1",
		FirstName: "Ada",
		Email:     "ada@orvio.io",
		RoleID:    domain.UserRoleSystemAdmin,
		Fridges:   []string{"FR-A"},
	}, current)
	require.NoError(t, err)

	assert.Equal(t, []string{"u1"}, api.updatedAdmins)
	assert.Empty(t, api.createdAdmins)
	// FR-A 已有 active 授权，无需任何对账动作
	assert.Empty(t, api.createAssignmentCalls)
	assert.Empty(t, api.updateAssignmentCalls)
}

func TestAdminsLoad(t *testing.T) {
	api := &fakeAPI{
		admins: []domain.AdminUser{
			{UserID: "u1", FirstName: "Ada", LastName: "L", Email: "ada@orvio.io", RoleID: domain.UserRoleAdmin, Active: true},
		},
		devices: []domain.Device{{DeviceID: "FR-A"}},
		assignments: []domain.DeviceAssignment{
			{AssignmentID: "as-1", AdminUserID: "u1", DeviceID: "FR-A", IsActive: true},
			{AssignmentID: "as-2", AdminUserID: "u1", DeviceID: "FR-B", IsActive: false},
		},
	}
	l := NewAdminsLoader(api, zap.NewNop())

	view, err := l.Load(context.Background(), dashSession())
	require.NoError(t, err)
	require.Len(t, view.Admins, 1)
	assert.Equal(t, "Ada L", view.Admins[0].Name)
	assert.Equal(t, "Admin", view.Admins[0].Role)
	// 只有 active 授权计入
	assert.Equal(t, []string{"FR-A"}, view.Admins[0].AssignedFridges)
}
