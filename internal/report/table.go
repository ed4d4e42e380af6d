package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"ecbench/internal/bench"
)

var summaryHeaders = []string{"BSIZE", "X", "Encode ORJ2.0", "Encode MTJ2.0", "Decode ORJ2.0", "Decode MTJ2.0"}

// Summary renders the points of res as a table, highlighting the best
// buffer size of each series.
func Summary(res *bench.Result) string {
	if res == nil || len(res.Points) == 0 {
		return ""
	}

	best := bestRows(res.Points)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(summaryHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 2 && best[col-2] == row:
				return bestStyle
			default:
				return cellStyle
			}
		})

	for _, p := range res.Points {
		t.Row(
			strconv.Itoa(p.BufferSize),
			strconv.Itoa(p.BufferMultiplier),
			FormatRate(p.Rates.Encode),
			FormatRate(p.Rates.EncodeMT),
			FormatRate(p.Rates.Decode),
			FormatRate(p.Rates.DecodeMT),
		)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("(%d,%d) w=%d %s, %d runs, policy=%s",
		res.Coding.K, res.Coding.M, res.Coding.FieldBits, res.Coding.Technique, res.Runs, res.Policy)))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(footnoteStyle.Render("run " + res.RunID + ", rates in MB/sec"))
	b.WriteString("\n")
	return b.String()
}

// bestRows returns, per series, the index of the point with the highest rate.
func bestRows(points []bench.Point) [4]int {
	var idx [4]int
	var top [4]float64
	for i, p := range points {
		vals := [4]float64{p.Rates.Encode, p.Rates.EncodeMT, p.Rates.Decode, p.Rates.DecodeMT}
		for s, v := range vals {
			if i == 0 || v > top[s] {
				top[s], idx[s] = v, i
			}
		}
	}
	return idx
}
