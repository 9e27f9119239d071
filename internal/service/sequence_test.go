package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workload-service/internal/domain"
)

func TestNextIDStartsAtOne(t *testing.T) {
	require.Equal(t, 1, NextID([]domain.Task{}))
}

func TestNextIDIgnoresGaps(t *testing.T) {
	records := []domain.Task{{ID: 1}, {ID: 3}, {ID: 5}}
	require.Equal(t, 6, NextID(records))
}

func TestNextCodeZeroPadsAndPrefixes(t *testing.T) {
	records := []domain.Task{
		{ID: 1, TaskID: "T001"},
		{ID: 2, TaskID: "T003"},
	}
	require.Equal(t, "T004", NextCode(records, "T", 3))
	require.Equal(t, "STAFF001", NextCode([]domain.StaffMember{}, "STAFF", 3))
}

func TestNextCodeExtractsFirstDigitRun(t *testing.T) {
	records := []domain.Course{
		{ID: 1, CourseID: "COURSE012"},
		{ID: 2, CourseID: "unparseable"},
	}
	require.Equal(t, "COURSE013", NextCode(records, "COURSE", 3))
}

func TestNextCodeGrowsBeyondWidth(t *testing.T) {
	records := []domain.Task{{ID: 1, TaskID: "T999"}}
	require.Equal(t, "T1000", NextCode(records, "T", 3))
}
