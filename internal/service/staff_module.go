package service

import (
	"strconv"

	"github.com/spec-kit/workload-service/internal/domain"
)

const staffStorageKey = "staffMembers"

// NewStaffModule builds the staff entity module. Staff is the only kind with
// per-record ownership and profile image uploads.
func NewStaffModule(deps ModuleDependencies) *Module[domain.StaffMember] {
	return NewModule(Descriptor[domain.StaffMember]{
		Kind:       domain.KindStaff,
		Label:      "staff member",
		StorageKey: staffStorageKey,
		CodePrefix: "STAFF",
		CodeWidth:  3,
		Seed:       seedStaff,
		WithIdentity: func(record domain.StaffMember, id int, code string) domain.StaffMember {
			record.ID = id
			record.StaffID = code
			return record
		},
		EqualityFields: map[string]func(domain.StaffMember) string{
			"department": func(r domain.StaffMember) string { return r.Department },
		},
		SearchFields: []func(domain.StaffMember) string{
			func(r domain.StaffMember) string { return r.Name },
			func(r domain.StaffMember) string { return r.Email },
		},
		Identity: func(r domain.StaffMember) string { return r.Email },
		ApplyImage: func(record domain.StaffMember, image string) domain.StaffMember {
			record.ProfileImage = image
			return record
		},
		ExportColumns: []string{"Staff ID", "Name", "Email", "Department", "Weekly Hours"},
		ExportRow: func(r domain.StaffMember) []string {
			return []string{r.StaffID, r.Name, r.Email, r.Department, strconv.Itoa(r.WeeklyHours)}
		},
		Summary: func(records []domain.StaffMember) map[string]int {
			total := 0
			for _, r := range records {
				total += r.WeeklyHours
			}
			return map[string]int{"staff": len(records), "weeklyHours": total}
		},
	}, deps)
}

func seedStaff() []domain.StaffMember {
	return []domain.StaffMember{
		{ID: 1, StaffID: "STAFF001", Name: "Alice Thompson", Email: "alice.thompson@university.edu", Department: "Computer Science", WeeklyHours: 18},
		{ID: 2, StaffID: "STAFF002", Name: "Brian Okafor", Email: "brian.okafor@university.edu", Department: "Mathematics", WeeklyHours: 16},
		{ID: 3, StaffID: "STAFF003", Name: "Carmen Diaz", Email: "carmen.diaz@university.edu", Department: "Computer Science", WeeklyHours: 20},
		{ID: 4, StaffID: "STAFF004", Name: "David Chen", Email: "david.chen@university.edu", Department: "Physics", WeeklyHours: 14},
		{ID: 5, StaffID: "STAFF005", Name: "Elena Petrova", Email: "elena.petrova@university.edu", Department: "Mathematics", WeeklyHours: 17},
	}
}
