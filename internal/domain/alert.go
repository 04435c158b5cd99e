package domain

import (
	"errors"
	"strings"
	"time"
)

// Alert 设备告警 DTO
type Alert struct {
	AlertID        string      `json:"alert_id"`
	DeviceID       string      `json:"device_id"`
	Timestamp      time.Time   `json:"timestamp"`
	AlertType      string      `json:"alert_type"`
	Message        string      `json:"message"`
	StatusID       AlertStatus `json:"status_id"`
	ResolutionNote string      `json:"resolution_note,omitempty"` // 仅 Resolved 后存在
}

// Severity 客户端推导的紧急程度（非后端权威字段）
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Severity 按 alert_type 关键字推导：
// temperature/door → High，connection/power → Medium，其余 Low
func (a *Alert) Severity() Severity {
	t := strings.ToLower(a.AlertType)
	switch {
	case strings.Contains(t, "temperature") || strings.Contains(t, "door"):
		return SeverityHigh
	case strings.Contains(t, "connection") || strings.Contains(t, "power"):
		return SeverityMedium
	default:
		return SeverityLow
	}
}

var (
	// ErrInvalidTransition 非法状态迁移（如 Resolved → Open）
	ErrInvalidTransition = errors.New("invalid alert status transition")
	// ErrResolutionNoteRequired Resolve 必须附带非空处理备注
	ErrResolutionNoteRequired = errors.New("resolution note is required to resolve an alert")
)

// ValidateTransition 校验告警状态迁移。
// Resolve 时备注为空则拒绝，此时不应发出任何 PATCH。
func (a *Alert) ValidateTransition(next AlertStatus, resolutionNote string) error {
	if !a.StatusID.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	if next == AlertStatusResolved && strings.TrimSpace(resolutionNote) == "" {
		return ErrResolutionNoteRequired
	}
	return nil
}
