package viz

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultTextWidth is the longest bar drawn by RenderText.
const DefaultTextWidth = 40

// RenderText writes both charts as plain-text bar charts.
// Bars are scaled so the largest count spans width characters.
func RenderText(w io.Writer, charts *Charts, width int) error {
	if width <= 0 {
		width = DefaultTextWidth
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d publications)\n\n", charts.Title, charts.Records)

	b.WriteString("Publications per Year\n")
	if len(charts.Years.Points) == 0 {
		b.WriteString("  (no year values)\n")
	} else {
		rows := make([]textRow, len(charts.Years.Points))
		for i, p := range charts.Years.Points {
			rows[i] = textRow{label: p.Label, count: p.Count}
		}
		writeBars(&b, rows, width)
	}

	fmt.Fprintf(&b, "\nTop %d Authors\n", len(charts.Authors.Bars))
	if len(charts.Authors.Bars) == 0 {
		b.WriteString("  (no author values)\n")
	} else {
		rows := make([]textRow, len(charts.Authors.Bars))
		for i, bar := range charts.Authors.Bars {
			rows[i] = textRow{label: bar.Label, count: bar.Count}
		}
		writeBars(&b, rows, width)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type textRow struct {
	label string
	count int
}

func writeBars(b *strings.Builder, rows []textRow, width int) {
	labelWidth, maxCount := 0, 0
	for _, r := range rows {
		if n := utf8.RuneCountInString(r.label); n > labelWidth {
			labelWidth = n
		}
		if r.count > maxCount {
			maxCount = r.count
		}
	}

	for _, r := range rows {
		n := r.count * width / maxCount
		if n == 0 && r.count > 0 {
			n = 1
		}
		pad := labelWidth - utf8.RuneCountInString(r.label)
		fmt.Fprintf(b, "  %s%s | %s %d\n", r.label, strings.Repeat(" ", pad), strings.Repeat("#", n), r.count)
	}
}
