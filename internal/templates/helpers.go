package templates

import (
	"strconv"

	"github.com/csg33k/parish-services/internal/domain"
)

// notApplicable marks values the user skipped so they render muted.
func notApplicable(v string) bool {
	return v == domain.NotApplicableText
}

// recordCount renders the summary line under the reservations heading.
func recordCount(n int) string {
	return strconv.Itoa(n) + " record(s)"
}
