package report

import (
	"io"
	"strconv"

	"github.com/chriscorrea/winnow/internal/search"
)

// Hit is a search result attributed to a named document.
type Hit struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// snippetRunes bounds the text shown per hit.
const snippetRunes = 80

// NewHits attaches names to ranked hits. names is indexed like the texts
// that were ranked.
func NewHits(hits []search.Hit, names []string) []Hit {
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		name := ""
		if h.Index < len(names) {
			name = names[h.Index]
		}
		out = append(out, Hit{Name: name, Score: h.Score, Snippet: search.Snippet(h.Text, snippetRunes)})
	}
	return out
}

// WriteHits renders search results to w.
func WriteHits(w io.Writer, hits []Hit, format Format) error {
	if format == JSON {
		return writeJSON(w, hits)
	}
	if len(hits) == 0 {
		_, err := io.WriteString(w, "No matching documents\n")
		return err
	}

	rows := make([][]string, 0, len(hits))
	for i, h := range hits {
		rows = append(rows, []string{strconv.Itoa(i + 1), h.Name, strconv.FormatFloat(h.Score, 'f', 2, 64), h.Snippet})
	}
	table := renderTable(
		[]string{"#", "Document", "Score", "Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	)
	_, err := io.WriteString(w, table+"\n")
	return err
}
