package domain

// Course models a taught course. CourseCode is the catalog code entered by the
// administrator (e.g. CS101), distinct from the generated CourseID.
type Course struct {
	ID           int    `json:"id"`
	CourseID     string `json:"courseId"`
	CourseCode   string `json:"code" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Department   string `json:"department"`
	Credits      int    `json:"credits"`
	Semester     string `json:"semester"`
	Prerequisite string `json:"prerequisite" validate:"required"`
}

func (c Course) RecordID() int { return c.ID }

func (c Course) Code() string { return c.CourseID }
