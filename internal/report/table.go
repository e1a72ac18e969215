package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// barWidth is the length of the bar for the top-ranked node.
const barWidth = 30

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // headers
	colorAccent  = lipgloss.Color("#FFD700") // top node
	colorMuted   = lipgloss.Color("#636363") // metadata
	colorBar     = lipgloss.Color("#5B8DEF") // bars
)

// WriteTable renders r as a ranked table with a bar per node, most popular
// first. Styles degrade to plain text when w is not a terminal.
func WriteTable(w io.Writer, r Report) error {
	re := lipgloss.NewRenderer(w)
	header := re.NewStyle().Foreground(colorPrimary).Bold(true)
	muted := re.NewStyle().Foreground(colorMuted)
	top := re.NewStyle().Foreground(colorAccent).Bold(true)
	bar := re.NewStyle().Foreground(colorBar)
	cell := re.NewStyle().Width(8).Align(lipgloss.Right)

	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%s ranking", r.Method)))
	b.WriteString(" ")
	b.WriteString(muted.Render(fmt.Sprintf("nodes=%d damping=%g steps=%d start=%d seed=%d", r.Nodes, r.Damping, r.Steps, r.Start, r.Seed)))
	b.WriteString("\n")

	cols := []string{cell.Render("rank"), cell.Render("node"), cell.Render("score")}
	hasVisits := hasVisitCounts(r.Scores)
	if hasVisits {
		cols = append(cols, cell.Render("visits"))
	}
	b.WriteString(header.Render(strings.Join(cols, " ")))
	b.WriteString("\n")

	ranked := append([]NodeScore(nil), r.Scores...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })

	maxScore := 0.0
	for _, s := range ranked {
		maxScore = max(maxScore, s.Score)
	}

	for _, s := range ranked {
		row := []string{
			cell.Render(fmt.Sprintf("%d", s.Rank)),
			cell.Render(fmt.Sprintf("%d", s.Node)),
			cell.Render(fmt.Sprintf("%.3f", s.Score)),
		}
		if hasVisits {
			row = append(row, cell.Render(fmt.Sprintf("%d", s.Visits)))
		}
		line := strings.Join(row, " ")
		if s.Rank == 1 {
			line = top.Render(line)
		}
		b.WriteString(line)
		b.WriteString("  ")
		b.WriteString(bar.Render(strings.Repeat("█", barLength(s.Score, maxScore))))
		if s.StdDev > 0 {
			b.WriteString(muted.Render(fmt.Sprintf(" ±%.3f", s.StdDev)))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func barLength(score, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	return int(score/maxScore*barWidth + 0.5)
}

func hasVisitCounts(scores []NodeScore) bool {
	for _, s := range scores {
		if s.Visits > 0 {
			return true
		}
	}
	return false
}
