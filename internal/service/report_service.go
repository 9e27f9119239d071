package service

import (
	"github.com/spec-kit/workload-service/internal/domain"
)

// ReportService derives aggregate figures for the chart/report collaborators.
// It only ever exposes plain numeric and sequence values, never anything
// renderer-specific.
type ReportService struct {
	staff   *Module[domain.StaffMember]
	courses *Module[domain.Course]
	tasks   *Module[domain.Task]
}

// NewReportService wires read-only access to the three modules.
func NewReportService(staff *Module[domain.StaffMember], courses *Module[domain.Course], tasks *Module[domain.Task]) *ReportService {
	return &ReportService{staff: staff, courses: courses, tasks: tasks}
}

// StaffHoursRow is one staff member's share of the total weekly hours.
type StaffHoursRow struct {
	StaffID     string  `json:"staffId"`
	Name        string  `json:"name"`
	Department  string  `json:"department"`
	WeeklyHours int     `json:"weeklyHours"`
	Percent     float64 `json:"percent"`
}

// DepartmentLoad aggregates task hours by department.
type DepartmentLoad struct {
	Department string  `json:"department"`
	TaskHours  int     `json:"taskHours"`
	Percent    float64 `json:"percent"`
}

// WorkloadReport is the complete aggregate snapshot.
type WorkloadReport struct {
	StaffCount       int              `json:"staffCount"`
	CourseCount      int              `json:"courseCount"`
	TaskCount        int              `json:"taskCount"`
	TotalWeeklyHours int              `json:"totalWeeklyHours"`
	TotalTaskHours   int              `json:"totalTaskHours"`
	StaffHours       []StaffHoursRow  `json:"staffHours"`
	DepartmentLoads  []DepartmentLoad `json:"departmentLoads"`
}

// Workload computes per-staff hour totals and department task distribution
// over the full (unfiltered) collections.
func (s *ReportService) Workload() WorkloadReport {
	staff := s.staff.List()
	courses := s.courses.List()
	tasks := s.tasks.List()

	report := WorkloadReport{
		StaffCount:  len(staff),
		CourseCount: len(courses),
		TaskCount:   len(tasks),
	}

	for _, member := range staff {
		report.TotalWeeklyHours += member.WeeklyHours
	}
	for _, member := range staff {
		row := StaffHoursRow{
			StaffID:     member.StaffID,
			Name:        member.Name,
			Department:  member.Department,
			WeeklyHours: member.WeeklyHours,
		}
		if report.TotalWeeklyHours > 0 {
			row.Percent = 100 * float64(member.WeeklyHours) / float64(report.TotalWeeklyHours)
		}
		report.StaffHours = append(report.StaffHours, row)
	}

	byDepartment := make(map[string]int)
	order := make([]string, 0)
	for _, task := range tasks {
		if _, seen := byDepartment[task.Department]; !seen {
			order = append(order, task.Department)
		}
		byDepartment[task.Department] += task.Hours
		report.TotalTaskHours += task.Hours
	}
	for _, department := range order {
		load := DepartmentLoad{Department: department, TaskHours: byDepartment[department]}
		if report.TotalTaskHours > 0 {
			load.Percent = 100 * float64(load.TaskHours) / float64(report.TotalTaskHours)
		}
		report.DepartmentLoads = append(report.DepartmentLoads, load)
	}

	return report
}
