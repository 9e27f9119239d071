package service

import (
	"strings"

	"github.com/spec-kit/workload-service/internal/domain"
)

// FilterAll is the sentinel value that disables an equality predicate.
const FilterAll = "All"

// Criteria is the active filter state of a module: zero or more equality
// predicates over named fields plus an optional free-text query, combined by
// logical AND.
type Criteria struct {
	Equality map[string]string
	Query    string
}

// NewCriteria returns empty criteria.
func NewCriteria() Criteria {
	return Criteria{Equality: make(map[string]string)}
}

func (c Criteria) clone() Criteria {
	eq := make(map[string]string, len(c.Equality))
	for field, value := range c.Equality {
		eq[field] = value
	}
	return Criteria{Equality: eq, Query: c.Query}
}

// applyCriteria derives the visible subset: a new slice preserving original
// relative order, containing exactly the records satisfying every active
// predicate. Pure function of its inputs; nothing is cached.
func applyCriteria[R domain.Record](records []R, criteria Criteria, equality map[string]func(R) string, search []func(R) string) []R {
	query := strings.ToLower(strings.TrimSpace(criteria.Query))

	subset := make([]R, 0, len(records))
	for _, record := range records {
		if !matchesEquality(record, criteria, equality) {
			continue
		}
		if query != "" && !matchesQuery(record, query, search) {
			continue
		}
		subset = append(subset, record)
	}
	return subset
}

func matchesEquality[R domain.Record](record R, criteria Criteria, equality map[string]func(R) string) bool {
	for field, want := range criteria.Equality {
		if want == "" || want == FilterAll {
			continue
		}
		accessor, ok := equality[field]
		if !ok {
			return false
		}
		if accessor(record) != want {
			return false
		}
	}
	return true
}

func matchesQuery[R domain.Record](record R, query string, search []func(R) string) bool {
	for _, accessor := range search {
		if strings.Contains(strings.ToLower(accessor(record)), query) {
			return true
		}
	}
	return false
}
