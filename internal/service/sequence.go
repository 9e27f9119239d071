package service

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/spec-kit/workload-service/internal/domain"
)

var digitRun = regexp.MustCompile(`\d+`)

// NextID returns the next numeric identifier for a collection: one more than
// the current maximum, starting at 1. It is recomputed from the live
// collection on every call, so a number freed by deleting the highest record
// becomes available again.
func NextID[R domain.Record](records []R) int {
	maxID := 0
	for _, record := range records {
		if record.RecordID() > maxID {
			maxID = record.RecordID()
		}
	}
	return maxID + 1
}

// NextCode derives the next formatted secondary identifier. The numeric
// suffix is the first digit run in each existing code; non-digit content is
// ignored, unparseable codes contribute nothing.
func NextCode[R domain.Record](records []R, prefix string, width int) string {
	maxNum := 0
	for _, record := range records {
		run := digitRun.FindString(record.Code())
		if run == "" {
			continue
		}
		num, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		if num > maxNum {
			maxNum = num
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, maxNum+1)
}
