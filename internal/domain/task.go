package domain

// Task models an administrative or teaching workload item.
type Task struct {
	ID          int    `json:"id"`
	TaskID      string `json:"taskId"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category"`
	Hours       int    `json:"hours"`
	Department  string `json:"department"`
}

func (t Task) RecordID() int { return t.ID }

func (t Task) Code() string { return t.TaskID }
