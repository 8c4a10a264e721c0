package entity

import "time"

// Approval represents one decision event in the exeat pipeline. StaffID is
// nil for parent-originated entries, which are recorded under RoleUnknown.
type Approval struct {
	ID             int64     `json:"id"`
	ExeatRequestID int64     `json:"exeat_request_id"`
	StaffID        *int64    `json:"staff_id,omitempty"`
	StaffName      string    `json:"staff_name,omitempty"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	Comment        string    `json:"comment,omitempty"`
	Method         string    `json:"method,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AuditLog is the append-only trail of actions taken against a request
type AuditLog struct {
	ID             int64     `json:"id"`
	ExeatRequestID int64     `json:"exeat_request_id"`
	StaffID        *int64    `json:"staff_id,omitempty"`
	Action         string    `json:"action"`
	Details        string    `json:"details"`
	Timestamp      time.Time `json:"timestamp"`
}
