package report

import (
	"strconv"

	"github.com/open-cli-collective/chtheme/internal/output"
	"github.com/open-cli-collective/chtheme/internal/reconcile"
)

// Record is the structured form of an outcome.
type Record struct {
	ID      string         `json:"id" yaml:"id"`
	Status  reconcile.Kind `json:"status" yaml:"status"`
	OldName string         `json:"old_name,omitempty" yaml:"old_name,omitempty"`
	NewName string         `json:"new_name" yaml:"new_name"`
	Error   string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Records converts outcomes for JSON, YAML and table output.
// IDs are strings so JSON consumers don't lose snowflake precision.
func Records(outcomes []reconcile.Outcome) []Record {
	records := make([]Record, 0, len(outcomes))
	for _, o := range outcomes {
		r := Record{
			ID:      strconv.FormatUint(o.ID, 10),
			Status:  o.Kind,
			OldName: o.OldName,
			NewName: o.NewName,
		}
		if o.Err != nil {
			r.Error = o.Err.Error()
		}
		records = append(records, r)
	}
	return records
}

// Print renders every outcome in the current structured output format.
func Print(outcomes []reconcile.Outcome) error {
	records := Records(outcomes)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.ID, r.Status.String(), r.OldName, r.NewName, r.Error})
	}
	return output.Print(records, []string{"ID", "STATUS", "OLD", "NEW", "ERROR"}, rows)
}
