package domain

// AdminUser 管理员账号 DTO
type AdminUser struct {
	UserID    string   `json:"user_id"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Email     string   `json:"email"`
	RoleID    UserRole `json:"role_id"`
	Active    bool     `json:"active"`
}

// FullName 姓名拼接（两段都可能为空）
func (a *AdminUser) FullName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.FirstName != "":
		return a.FirstName
	default:
		return a.LastName
	}
}

// DeviceAssignment 设备-管理员授权记录。
// 软删除语义：解除授权是置 is_active=false，不物理删除，保留历史。
type DeviceAssignment struct {
	AssignmentID string     `json:"assignment_id"`
	DeviceID     string     `json:"device_id"`
	AdminUserID  string     `json:"admin_user_id"`
	IsActive     bool       `json:"is_active"`
	Device       *DeviceRef `json:"device,omitempty"`
}

// DeviceRef 授权记录内嵌的设备摘要
type DeviceRef struct {
	DeviceID string `json:"device_id"`
	Name     string `json:"name,omitempty"`
}
