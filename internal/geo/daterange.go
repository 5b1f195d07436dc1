package geo

import (
	"fmt"
	"strings"
	"time"

	"github.com/anushST/landset-nasa/internal/domain"
)

const dateLayout = "2006-01-02"

// DateRange is a normalized closed date interval. Both endpoints are
// midnight UTC instants.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NormalizeDateRange parses a "YYYY-MM-DD/YYYY-MM-DD" string and
// expands each side to midnight UTC. Malformed input or a start after
// the end is rejected with a validation error.
func NormalizeDateRange(s string) (DateRange, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return DateRange{}, domain.ErrInvalidDateRange
	}

	start, err := time.Parse(dateLayout, parts[0])
	if err != nil {
		return DateRange{}, domain.NewDomainErrorWithCause(domain.ErrCodeValidation,
			fmt.Sprintf("invalid start date %q", parts[0]), err)
	}

	end, err := time.Parse(dateLayout, parts[1])
	if err != nil {
		return DateRange{}, domain.NewDomainErrorWithCause(domain.ErrCodeValidation,
			fmt.Sprintf("invalid end date %q", parts[1]), err)
	}

	if start.After(end) {
		return DateRange{}, domain.ErrInvalidDateRange
	}

	return DateRange{Start: start.UTC(), End: end.UTC()}, nil
}

// String renders the range as an RFC3339 interval for STAC datetime
// parameters, e.g. "2024-01-01T00:00:00Z/2024-01-31T00:00:00Z".
func (r DateRange) String() string {
	return r.Start.Format(time.RFC3339) + "/" + r.End.Format(time.RFC3339)
}
