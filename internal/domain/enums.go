// Package domain 定义冰箱后端的查找表枚举与 DTO。
// 枚举权威形态是整数 ID（与后端查找表一致）；历史接口偶尔返回
// 大写字符串名，兼容逻辑收敛在 UnmarshalJSON 边界，内部一律整数。
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AlertStatus 告警状态查找表 ID
type AlertStatus int

const (
	AlertStatusOpen         AlertStatus = 0
	AlertStatusResolved     AlertStatus = 1
	AlertStatusAcknowledged AlertStatus = 2
)

func (s AlertStatus) String() string {
	switch s {
	case AlertStatusOpen:
		return "Open"
	case AlertStatusResolved:
		return "Resolved"
	case AlertStatusAcknowledged:
		return "Acknowledged"
	default:
		return "Unknown"
	}
}

// CanTransitionTo 告警生命周期：Open → Acknowledged | Resolved，
// Acknowledged → Resolved。Resolved 是终态。
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	switch s {
	case AlertStatusOpen:
		return next == AlertStatusAcknowledged || next == AlertStatusResolved
	case AlertStatusAcknowledged:
		return next == AlertStatusResolved
	default:
		return false
	}
}

func (s *AlertStatus) UnmarshalJSON(data []byte) error {
	v, err := parseLookup(data, map[string]int{
		"OPEN":         int(AlertStatusOpen),
		"RESOLVED":     int(AlertStatusResolved),
		"ACKNOWLEDGED": int(AlertStatusAcknowledged),
	})
	if err != nil {
		return fmt.Errorf("alert status: %w", err)
	}
	*s = AlertStatus(v)
	return nil
}

// DeviceStatus 设备状态查找表 ID
type DeviceStatus int

const (
	DeviceStatusActive   DeviceStatus = 0
	DeviceStatusInactive DeviceStatus = 1
	DeviceStatusOffline  DeviceStatus = 2
)

func (s DeviceStatus) String() string {
	switch s {
	case DeviceStatusActive:
		return "Active"
	case DeviceStatusInactive:
		return "Inactive"
	case DeviceStatusOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// IsOnline 只有 Active 计入在线
func (s DeviceStatus) IsOnline() bool {
	return s == DeviceStatusActive
}

func (s *DeviceStatus) UnmarshalJSON(data []byte) error {
	v, err := parseLookup(data, map[string]int{
		"ACTIVE":   int(DeviceStatusActive),
		"INACTIVE": int(DeviceStatusInactive),
		"OFFLINE":  int(DeviceStatusOffline),
	})
	if err != nil {
		return fmt.Errorf("device status: %w", err)
	}
	*s = DeviceStatus(v)
	return nil
}

// TransactionStatus 交易状态查找表 ID
type TransactionStatus int

const (
	TransactionStatusPending   TransactionStatus = 0
	TransactionStatusCompleted TransactionStatus = 1
	TransactionStatusCancelled TransactionStatus = 2
	TransactionStatusDisputed  TransactionStatus = 3
	TransactionStatusRefunded  TransactionStatus = 4
	TransactionStatusFailed    TransactionStatus = 5
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionStatusPending:
		return "Pending"
	case TransactionStatusCompleted:
		return "Completed"
	case TransactionStatusCancelled:
		return "Cancelled"
	case TransactionStatusDisputed:
		return "Disputed"
	case TransactionStatusRefunded:
		return "Refunded"
	case TransactionStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	v, err := parseLookup(data, map[string]int{
		"PENDING":   int(TransactionStatusPending),
		"COMPLETED": int(TransactionStatusCompleted),
		"CANCELLED": int(TransactionStatusCancelled),
		"DISPUTED":  int(TransactionStatusDisputed),
		"REFUNDED":  int(TransactionStatusRefunded),
		"FAILED":    int(TransactionStatusFailed),
	})
	if err != nil {
		return fmt.Errorf("transaction status: %w", err)
	}
	*s = TransactionStatus(v)
	return nil
}

// ActionType 取放动作查找表 ID。展示层口径是 Take/Return。
type ActionType int

const (
	ActionTypeAdd    ActionType = 0 // 从冰箱取出（购买）
	ActionTypeRemove ActionType = 1 // 放回冰箱
)

func (a ActionType) String() string {
	if a == ActionTypeRemove {
		return "Return"
	}
	return "Take"
}

func (a *ActionType) UnmarshalJSON(data []byte) error {
	v, err := parseLookup(data, map[string]int{
		"ADD":    int(ActionTypeAdd),
		"REMOVE": int(ActionTypeRemove),
		"TAKE":   int(ActionTypeAdd),
		"RETURN": int(ActionTypeRemove),
	})
	if err != nil {
		return fmt.Errorf("action type: %w", err)
	}
	*a = ActionType(v)
	return nil
}

// UserRole 管理员角色查找表 ID
type UserRole int

const (
	UserRoleAdmin       UserRole = 0
	UserRoleSystemAdmin UserRole = 1
)

func (r UserRole) String() string {
	if r == UserRoleSystemAdmin {
		return "SystemAdmin"
	}
	return "Admin"
}

func (r *UserRole) UnmarshalJSON(data []byte) error {
	v, err := parseLookup(data, map[string]int{
		"ADMIN":        int(UserRoleAdmin),
		"SYSTEM_ADMIN": int(UserRoleSystemAdmin),
		"SYSTEMADMIN":  int(UserRoleSystemAdmin),
	})
	if err != nil {
		return fmt.Errorf("user role: %w", err)
	}
	*r = UserRole(v)
	return nil
}

// parseLookup 接受三种形态：整数、数字字符串、历史字符串名（大小写不敏感）
func parseLookup(data []byte, legacy map[string]int) (int, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return 0, nil
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return i, nil
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		name := raw[1 : len(raw)-1]
		if i, err := strconv.Atoi(name); err == nil {
			return i, nil
		}
		if v, ok := legacy[strings.ToUpper(name)]; ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unrecognized lookup value %s", raw)
}
