package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workload-service/internal/domain"
)

var filterRecords = []domain.Task{
	{ID: 1, Name: "Curriculum review", Description: "annual review", Category: "Administration", Department: "Computer Science"},
	{ID: 2, Name: "Lab supervision", Description: "supervise labs", Category: "Teaching", Department: "Computer Science"},
	{ID: 3, Name: "Exam grading", Description: "grade exams", Category: "Assessment", Department: "Mathematics"},
}

var taskEquality = map[string]func(domain.Task) string{
	"category":   func(r domain.Task) string { return r.Category },
	"department": func(r domain.Task) string { return r.Department },
}

var taskSearch = []func(domain.Task) string{
	func(r domain.Task) string { return r.Name },
	func(r domain.Task) string { return r.Description },
}

func TestApplyCriteriaPreservesOrder(t *testing.T) {
	criteria := NewCriteria()
	criteria.Equality["department"] = "Computer Science"

	subset := applyCriteria(filterRecords, criteria, taskEquality, taskSearch)
	require.Len(t, subset, 2)
	require.Equal(t, 1, subset[0].ID)
	require.Equal(t, 2, subset[1].ID)
}

func TestApplyCriteriaSentinelDisablesPredicate(t *testing.T) {
	criteria := NewCriteria()
	criteria.Equality["department"] = FilterAll

	subset := applyCriteria(filterRecords, criteria, taskEquality, taskSearch)
	require.Equal(t, filterRecords, subset)
}

func TestApplyCriteriaCombinesWithAnd(t *testing.T) {
	criteria := NewCriteria()
	criteria.Equality["department"] = "Computer Science"
	criteria.Query = "LABS"

	subset := applyCriteria(filterRecords, criteria, taskEquality, taskSearch)
	require.Len(t, subset, 1)
	require.Equal(t, 2, subset[0].ID)
}

func TestApplyCriteriaQueryIsCaseInsensitive(t *testing.T) {
	criteria := NewCriteria()
	criteria.Query = "exam"

	subset := applyCriteria(filterRecords, criteria, taskEquality, taskSearch)
	require.Len(t, subset, 1)
	require.Equal(t, 3, subset[0].ID)
}

func TestApplyCriteriaEmptyCriteriaReturnsAll(t *testing.T) {
	subset := applyCriteria(filterRecords, NewCriteria(), taskEquality, taskSearch)
	require.Equal(t, filterRecords, subset)
}
