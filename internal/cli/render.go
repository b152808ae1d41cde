package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
	"github.com/JetxcheDev/f1-prode/internal/domain/types"
)

const dateLayout = "2006-01-02"

func newTable(out io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func renderView(out io.Writer, v types.ViewResult) {
	t := newTable(out, strings.ToUpper(v.View))
	t.AppendHeader(table.Row{"#", "User", "Points", "Pole", "Crash", "Positions", "Races"})
	for _, e := range v.Entries {
		t.AppendRow(table.Row{
			e.Rank,
			e.DisplayName,
			e.TotalPoints,
			percent(e.PoleAccuracy),
			percent(e.CrashAccuracy),
			percent(e.PositionAccuracy),
			e.RacesParticipated,
		})
	}
	if len(v.Entries) == 0 {
		t.AppendRow(table.Row{"", "no participants", "", "", "", "", ""})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

func mark(hit bool) string {
	if hit {
		return "✓"
	}
	return "·"
}

func renderHistory(out io.Writer, standing types.UserStanding, history []scoring.HistoryEntry) {
	title := fmt.Sprintf("%s: %d pts", standing.DisplayName, standing.TotalPoints)
	if standing.Ranked() {
		title = fmt.Sprintf("%s (#%d)", title, standing.Rank)
	}
	t := newTable(out, title)
	t.AppendHeader(table.Row{"Event", "Date", "Pole", "Crash", "Positions", "Points"})
	for _, h := range history {
		t.AppendRow(table.Row{
			h.Event.Name,
			h.Event.Date.Format(dateLayout),
			mark(h.Score.PoleHit),
			mark(h.Score.CrashHit),
			h.Score.PositionHits,
			h.Score.Points,
		})
	}
	t.AppendFooter(table.Row{"", "", standing.PoleHits, standing.CrashHits, standing.PositionHits, standing.TotalPoints})
	t.Render()
}

func renderPolicy(out io.Writer, info types.PolicyInfo) {
	source := "defaults"
	if info.Customized {
		source = "customized"
	}
	t := newTable(out, "Scoring policy")
	t.AppendHeader(table.Row{"Rule", "Points"})
	t.AppendRows([]table.Row{
		{"Source", source},
		{"Pole", info.Pole},
		{"P1", info.Position1},
		{"P2", info.Position2},
		{"P3", info.Position3},
		{"P4-P10 (each)", info.Position4To10},
		{"Crash", info.Crash},
	})
	t.AppendFooter(table.Row{"Max per event", info.MaxEventPoints})
	t.Render()
}
