// Package report renders the outcome of a curation run for people (a
// rounded table) or for scripts (JSON).
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Stage records how many documents entered and left one pipeline stage.
type Stage struct {
	Name    string `json:"name"`
	In      int    `json:"in"`
	Out     int    `json:"out"`
	Changed int    `json:"changed,omitempty"` // lines or matches rewritten without dropping a document
}

// Duplicate is one removed document and the survivor it matched.
type Duplicate struct {
	Removed      int     `json:"removed"`
	RemovedName  string  `json:"removed_name"`
	Survivor     int     `json:"survivor"`
	SurvivorName string  `json:"survivor_name"`
	Similarity   float64 `json:"similarity"`
}

// Summary describes a finished run.
type Summary struct {
	RunID      string        `json:"run_id,omitempty"`
	Options    string        `json:"options"`
	Documents  int           `json:"documents"`
	Kept       int           `json:"kept"`
	Candidates int           `json:"candidate_pairs"`
	Clusters   int           `json:"clusters"`
	Stages     []Stage       `json:"stages"`
	Duplicates []Duplicate   `json:"duplicates"`
	CountUnit  string        `json:"count_unit,omitempty"`
	UnitsIn    int           `json:"units_in"`
	UnitsOut   int           `json:"units_out"`
	Output     string        `json:"output,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// Format selects a rendering.
type Format int

const (
	// Table renders rounded tables (default)
	Table Format = iota
	// JSON renders one indented JSON object
	JSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Table:
		return "table"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table":
		return Table, nil
	case "json":
		return JSON, nil
	default:
		return Table, fmt.Errorf("unknown report format %q", name)
	}
}

// Write renders s to w in the given format.
func Write(w io.Writer, s *Summary, format Format) error {
	if format == JSON {
		return writeJSON(w, s)
	}
	_, err := io.WriteString(w, Render(s)+"\n")
	return err
}

// Render returns the human-readable report.
func Render(s *Summary) string {
	var b strings.Builder

	if s.RunID != "" {
		fmt.Fprintf(&b, "Run %s\n", s.RunID)
	}
	fmt.Fprintf(&b, "%d of %d documents kept (%s) in %s\n",
		s.Kept, s.Documents, s.Options, s.Elapsed.Round(time.Millisecond))
	if s.Output != "" {
		fmt.Fprintf(&b, "Output: %s\n", s.Output)
	}

	rows := make([][]string, 0, len(s.Stages)+1)
	for _, st := range s.Stages {
		changed := ""
		if st.Changed > 0 {
			changed = strconv.Itoa(st.Changed)
		}
		rows = append(rows, []string{st.Name, strconv.Itoa(st.In), strconv.Itoa(st.Out), strconv.Itoa(st.In - st.Out), changed})
	}
	b.WriteString(renderTable(
		[]string{"Stage", "In", "Out", "Dropped", "Changed"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	b.WriteString("\n")

	if s.CountUnit != "" {
		fmt.Fprintf(&b, "%s: %d in, %d out\n", s.CountUnit, s.UnitsIn, s.UnitsOut)
	}
	fmt.Fprintf(&b, "%d candidate pairs, %d duplicate clusters\n", s.Candidates, s.Clusters)

	if len(s.Duplicates) > 0 {
		dupRows := make([][]string, 0, len(s.Duplicates))
		for _, d := range s.Duplicates {
			dupRows = append(dupRows, []string{
				d.RemovedName,
				d.SurvivorName,
				strconv.FormatFloat(d.Similarity, 'f', 3, 64),
			})
		}
		b.WriteString(renderTable(
			[]string{"Removed", "Duplicate of", "Similarity"},
			dupRows,
			[]columnAlignment{alignLeft, alignLeft, alignRight},
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
