package entity

import "time"

// StudentDebt represents an outstanding charge against a student. Requests
// cannot be submitted while any debt remains outstanding.
type StudentDebt struct {
	ID          int64      `json:"id"`
	StudentID   int64      `json:"student_id"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	ClearedBy   *int64     `json:"cleared_by,omitempty"`
	ClearedAt   *time.Time `json:"cleared_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
