package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/posematch/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// If the terminal renderer cannot be built the markdown is returned as is.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// ReportMarkdown summarizes a run as a markdown document.
// At most limit rows are listed per view; limit <= 0 lists none.
func ReportMarkdown(title string, report *domain.Report, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "| View | Count | Color |\n|---|---|---|\n")
	for _, v := range report.Views() {
		fmt.Fprintf(&b, "| %s | %d | `%s` |\n", v.Category, len(v.Set), v.Category.Color().Hex())
	}
	fmt.Fprintf(&b, "\nEpsilon: `%g`\n", report.Epsilon)

	if limit <= 0 {
		return b.String()
	}
	for _, v := range report.Views() {
		if len(v.Set) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", v.Category)
		b.WriteString(SetTable(v.Set, limit))
	}
	return b.String()
}

// SetTable lists the position of the first limit transforms of set.
func SetTable(set domain.MatrixSet, limit int) string {
	var b strings.Builder
	b.WriteString("| # | x | y | z |\n|---|---|---|---|\n")
	for i, t := range set {
		if i == limit {
			fmt.Fprintf(&b, "\n_%d more not shown_\n", len(set)-limit)
			break
		}
		p := t.Position()
		fmt.Fprintf(&b, "| %d | %g | %g | %g |\n", i, p[0], p[1], p[2])
	}
	return b.String()
}
