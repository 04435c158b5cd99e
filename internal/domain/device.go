package domain

import "time"

// Device 冰箱设备 DTO（后端 /devices 返回的原始形状）
type Device struct {
	DeviceID            string       `json:"device_id"`
	Name                string       `json:"name"`
	LocationDescription string       `json:"location_description,omitempty"`
	Status              DeviceStatus `json:"status"`
	DoorStatus          bool         `json:"door_status"`
	LastCheckinTime     *time.Time   `json:"last_checkin_time,omitempty"`
	DefaultTemperature  float64      `json:"default_temperature"`
}

// Label 列表/仪表盘展示名：名称为空时退回 device_id
func (d *Device) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.DeviceID
}

// Telemetry 设备遥测采样（后端按时间倒序返回）
type Telemetry struct {
	TelemetryID         string    `json:"telemetry_id"`
	DeviceID            string    `json:"device_id"`
	Timestamp           time.Time `json:"timestamp"`
	InternalTemperature float64   `json:"internal_temperature"`
	DoorSensorStatus    bool      `json:"door_sensor_status"`
}
