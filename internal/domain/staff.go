package domain

// StaffMember models an academic staff record.
type StaffMember struct {
	ID           int    `json:"id"`
	StaffID      string `json:"staffId"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Department   string `json:"department"`
	WeeklyHours  int    `json:"weeklyHours"`
	ProfileImage string `json:"profileImage,omitempty"`
}

func (s StaffMember) RecordID() int { return s.ID }

func (s StaffMember) Code() string { return s.StaffID }
