package entity

import "time"

// HostelAssignment maps a student to the hostel whose admin performs the
// hostel sign-out check for that student's requests
type HostelAssignment struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"student_id"`
	HostelName string    `json:"hostel_name"`
	RoomNumber string    `json:"room_number,omitempty"`
	AssignedBy int64     `json:"assigned_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
