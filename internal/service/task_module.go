package service

import (
	"strconv"

	"github.com/spec-kit/workload-service/internal/domain"
)

const taskStorageKey = "tasks"

// NewTaskModule builds the task entity module.
func NewTaskModule(deps ModuleDependencies) *Module[domain.Task] {
	return NewModule(Descriptor[domain.Task]{
		Kind:       domain.KindTask,
		Label:      "task",
		StorageKey: taskStorageKey,
		CodePrefix: "T",
		CodeWidth:  3,
		Seed:       seedTasks,
		WithIdentity: func(record domain.Task, id int, code string) domain.Task {
			record.ID = id
			record.TaskID = code
			return record
		},
		EqualityFields: map[string]func(domain.Task) string{
			"category":   func(r domain.Task) string { return r.Category },
			"department": func(r domain.Task) string { return r.Department },
		},
		SearchFields: []func(domain.Task) string{
			func(r domain.Task) string { return r.Name },
			func(r domain.Task) string { return r.Description },
		},
		ExportColumns: []string{"Task ID", "Name", "Category", "Hours", "Department"},
		ExportRow: func(r domain.Task) []string {
			return []string{r.TaskID, r.Name, r.Category, strconv.Itoa(r.Hours), r.Department}
		},
		Summary: func(records []domain.Task) map[string]int {
			total := 0
			for _, r := range records {
				total += r.Hours
			}
			return map[string]int{"tasks": len(records), "hours": total}
		},
	}, deps)
}

func seedTasks() []domain.Task {
	return []domain.Task{
		{ID: 1, TaskID: "T001", Name: "Curriculum review", Description: "Annual review of the undergraduate curriculum", Category: "Administration", Hours: 6, Department: "Computer Science"},
		{ID: 2, TaskID: "T002", Name: "Lab supervision", Description: "Supervise first-year programming labs", Category: "Teaching", Hours: 8, Department: "Computer Science"},
		{ID: 3, TaskID: "T003", Name: "Exam grading", Description: "Grade linear algebra midterm exams", Category: "Assessment", Hours: 10, Department: "Mathematics"},
		{ID: 4, TaskID: "T004", Name: "Open day", Description: "Present the physics department at the open day", Category: "Outreach", Hours: 4, Department: "Physics"},
		{ID: 5, TaskID: "T005", Name: "Thesis supervision", Description: "Supervise bachelor thesis projects", Category: "Teaching", Hours: 12, Department: "Mathematics"},
	}
}
