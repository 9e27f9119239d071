package service

import (
	"strconv"

	"github.com/spec-kit/workload-service/internal/domain"
)

const courseStorageKey = "courses"

// NewCourseModule builds the course entity module.
func NewCourseModule(deps ModuleDependencies) *Module[domain.Course] {
	return NewModule(Descriptor[domain.Course]{
		Kind:       domain.KindCourse,
		Label:      "course",
		StorageKey: courseStorageKey,
		CodePrefix: "COURSE",
		CodeWidth:  3,
		Seed:       seedCourses,
		WithIdentity: func(record domain.Course, id int, code string) domain.Course {
			record.ID = id
			record.CourseID = code
			return record
		},
		EqualityFields: map[string]func(domain.Course) string{
			"department": func(r domain.Course) string { return r.Department },
			"semester":   func(r domain.Course) string { return r.Semester },
		},
		SearchFields: []func(domain.Course) string{
			func(r domain.Course) string { return r.CourseCode },
			func(r domain.Course) string { return r.Name },
		},
		ExportColumns: []string{"Course ID", "Code", "Name", "Department", "Credits", "Semester"},
		ExportRow: func(r domain.Course) []string {
			return []string{r.CourseID, r.CourseCode, r.Name, r.Department, strconv.Itoa(r.Credits), r.Semester}
		},
		Summary: func(records []domain.Course) map[string]int {
			total := 0
			for _, r := range records {
				total += r.Credits
			}
			return map[string]int{"courses": len(records), "credits": total}
		},
	}, deps)
}

func seedCourses() []domain.Course {
	return []domain.Course{
		{ID: 1, CourseID: "COURSE001", CourseCode: "CS101", Name: "Introduction to Programming", Department: "Computer Science", Credits: 6, Semester: "Autumn", Prerequisite: "None"},
		{ID: 2, CourseID: "COURSE002", CourseCode: "CS230", Name: "Data Structures", Department: "Computer Science", Credits: 6, Semester: "Spring", Prerequisite: "CS101"},
		{ID: 3, CourseID: "COURSE003", CourseCode: "MA110", Name: "Linear Algebra", Department: "Mathematics", Credits: 5, Semester: "Autumn", Prerequisite: "None"},
		{ID: 4, CourseID: "COURSE004", CourseCode: "PH201", Name: "Classical Mechanics", Department: "Physics", Credits: 5, Semester: "Spring", Prerequisite: "MA110"},
	}
}
