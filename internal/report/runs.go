package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chriscorrea/winnow/internal/ledger"
)

// Run is one ledger entry as listed by the runs command.
type Run struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	Sources   []string      `json:"sources"`
	Options   string        `json:"options"`
	Documents int           `json:"documents"`
	Kept      int           `json:"kept"`
}

// Decision is the recorded outcome for one document of a run.
type Decision struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	DuplicateOf int     `json:"duplicate_of"`
	Similarity  float64 `json:"similarity,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// NewRuns converts ledger runs for rendering.
func NewRuns(runs []ledger.Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		out = append(out, Run{
			ID:        r.ID,
			StartedAt: r.StartedAt,
			Elapsed:   r.FinishedAt.Sub(r.StartedAt),
			Sources:   r.Sources,
			Options:   r.Options,
			Documents: r.Documents,
			Kept:      r.Kept,
		})
	}
	return out
}

// NewDecisions converts ledger decisions for rendering.
func NewDecisions(decisions []ledger.Decision) []Decision {
	out := make([]Decision, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, Decision{
			Index:       d.DocIndex,
			Name:        d.Name,
			Status:      string(d.Status),
			DuplicateOf: d.DuplicateOf,
			Similarity:  d.Similarity,
			Reason:      d.Reason,
		})
	}
	return out
}

// WriteRuns renders recorded runs to w.
func WriteRuns(w io.Writer, runs []Run, format Format) error {
	if format == JSON {
		return writeJSON(w, runs)
	}
	if len(runs) == 0 {
		_, err := io.WriteString(w, "No recorded runs\n")
		return err
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			summarizeSources(r.Sources),
			fmt.Sprintf("%d/%d", r.Kept, r.Documents),
			r.Options,
		})
	}
	table := renderTable(
		[]string{"Run", "Started", "Sources", "Kept", "Options"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
	_, err := io.WriteString(w, table+"\n")
	return err
}

// WriteDecisions renders the decisions of one run to w.
func WriteDecisions(w io.Writer, decisions []Decision, format Format) error {
	if format == JSON {
		return writeJSON(w, decisions)
	}

	rows := make([][]string, 0, len(decisions))
	for _, d := range decisions {
		detail := d.Reason
		if d.Status == string(ledger.StatusDuplicate) {
			detail = fmt.Sprintf("duplicate of #%d (%.3f)", d.DuplicateOf, d.Similarity)
		}
		rows = append(rows, []string{strconv.Itoa(d.Index), d.Name, d.Status, detail})
	}
	table := renderTable(
		[]string{"#", "Document", "Status", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
	_, err := io.WriteString(w, table+"\n")
	return err
}

// summarizeSources shows the first source and how many others followed
func summarizeSources(sources []string) string {
	switch len(sources) {
	case 0:
		return ""
	case 1:
		return sources[0]
	default:
		return strings.Join([]string{sources[0], fmt.Sprintf("(+%d more)", len(sources)-1)}, " ")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
