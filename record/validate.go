package record

import (
	"errors"
	"fmt"

	"github.com/spektr-org/growthkit/engine"
)

// ============================================================================
// VALIDATION — Data quality report for a decoded booklet
// ============================================================================
// Nothing here blocks charting: the engine skips bad visits on its own. The
// report tells the user why a visit is missing from a chart.
// ============================================================================

// Issue is one data problem found in a booklet.
type Issue struct {
	Child   int    `json:"child"`
	Visit   int    `json:"visit"` // -1 for child-level issues
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Visit < 0 {
		return fmt.Sprintf("child %d: %s", i.Child, i.Message)
	}
	return fmt.Sprintf("child %d, visit %d: %s", i.Child, i.Visit, i.Message)
}

// Validate reports missing or invalid dates, visits before birth, and
// duplicate child ids.
func (b *Booklet) Validate() []Issue {
	var issues []Issue
	seen := make(map[string]int, len(b.Children))

	for ci, c := range b.Children {
		if prev, dup := seen[c.ID]; dup {
			issues = append(issues, Issue{ci, -1, fmt.Sprintf("duplicate id %q (also child %d)", c.ID, prev)})
		} else {
			seen[c.ID] = ci
		}

		_, birthErr := engine.ParseDate(c.BirthDate)
		switch {
		case errors.Is(birthErr, engine.ErrMissingDate):
			issues = append(issues, Issue{ci, -1, "missing birth date"})
		case birthErr != nil:
			issues = append(issues, Issue{ci, -1, fmt.Sprintf("invalid birth date %q", c.BirthDate)})
		}

		for vi, v := range c.Visits {
			if _, err := engine.ParseDate(v.Date); err != nil {
				issues = append(issues, Issue{ci, vi, err.Error()})
				continue
			}
			if birthErr != nil {
				continue
			}
			if age, _ := engine.MonthsBetween(c.BirthDate, v.Date); age < 0 {
				issues = append(issues, Issue{ci, vi, engine.ErrBeforeBirth.Error()})
			}
		}
	}
	return issues
}
