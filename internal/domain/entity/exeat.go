package entity

import "time"

// ExeatRequest represents one student leave-of-absence application
type ExeatRequest struct {
	ID            int64      `json:"id"`
	Reference     string     `json:"reference"`
	StudentID     int64      `json:"student_id"`
	MatricNumber  string     `json:"matric_number"`
	StudentName   string     `json:"student_name"`
	Status        string     `json:"status"`
	IsMedical     bool       `json:"is_medical"`
	Reason        string     `json:"reason"`
	Destination   string     `json:"destination"`
	DepartureDate time.Time  `json:"departure_date"`
	ReturnDate    time.Time  `json:"return_date"`
	ParentPhone   string     `json:"parent_phone"`
	ActualReturn  *time.Time `json:"actual_return,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsTerminal returns true when no further staff action can mutate the request
func (r *ExeatRequest) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusRejected
}

// Overdue returns true when the student has departed but has not signed back
// in by the expected return date
func (r *ExeatRequest) Overdue(now time.Time) bool {
	return r.Status == StatusSecuritySignin && now.After(r.ReturnDate)
}
