package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/orgnet/pkg/insights"
)

// InsightsModel renders the silo/health overview as a 2x2 grid of boxes.
type InsightsModel struct {
	daily  *insights.DailyReport
	silos  *insights.SiloReport
	ready  bool
	width  int
	height int
}

func NewInsightsModel(daily *insights.DailyReport, silos *insights.SiloReport) InsightsModel {
	return InsightsModel{daily: daily, silos: silos}
}

func (i *InsightsModel) SetSize(w, h int) {
	i.width = w
	i.height = h
	i.ready = true
}

func (i InsightsModel) View() string {
	if !i.ready {
		return ""
	}

	// Layout:
	// [ Top Influencers ] [ Bridge People ]
	// [     Silos       ] [ Network Health ]

	halfWidth := (i.width / 2) - 4
	halfHeight := (i.height / 2) - 2

	box := boxStyle.Width(halfWidth).Height(halfHeight)

	var infl strings.Builder
	infl.WriteString(titleStyle.Render("Top Influencers"))
	infl.WriteString("\n\n")
	switch {
	case i.daily.InfluencersErr != "":
		infl.WriteString(mutedStyle.Render("unavailable: " + i.daily.InfluencersErr))
	case len(i.daily.Influencers) == 0:
		infl.WriteString(mutedStyle.Render("no people in the network"))
	default:
		for n, p := range i.daily.Influencers {
			infl.WriteString(fmt.Sprintf("%d. %s  %.3f\n", n+1, p.ID, p.Score))
		}
	}

	var bridges strings.Builder
	bridges.WriteString(titleStyle.Render("Bridge People"))
	bridges.WriteString("\n\n")
	switch {
	case i.silos.BridgesErr != "":
		bridges.WriteString(mutedStyle.Render("unavailable: " + i.silos.BridgesErr))
	case len(i.silos.Bridges) == 0:
		bridges.WriteString(mutedStyle.Render("no bridge people identified"))
	default:
		for _, p := range i.silos.Bridges {
			bridges.WriteString(fmt.Sprintf("• %s  %.3f\n", p.ID, p.Score))
		}
	}

	var silos strings.Builder
	silos.WriteString(titleStyle.Render("Silos"))
	silos.WriteString("\n\n")
	if i.silos.CommunitiesErr != "" {
		silos.WriteString(mutedStyle.Render("unavailable: " + i.silos.CommunitiesErr))
	} else {
		silos.WriteString(fmt.Sprintf("Communities: %d\n", i.silos.CommunityCount))
		if i.silos.CommunityCount > 1 {
			warn := lipgloss.NewStyle().Foreground(ColorWarn)
			silos.WriteString(warn.Render(fmt.Sprintf("%d isolated group(s)", i.silos.CommunityCount-1)))
			silos.WriteString("\n")
		}
		for _, s := range i.silos.Isolated {
			silos.WriteString(fmt.Sprintf("• %s: %.1f ext/person\n", s.Department, s.ExternalRatio()))
		}
	}

	var health strings.Builder
	health.WriteString(titleStyle.Render("Network Health"))
	health.WriteString("\n\n")
	if i.daily.HealthErr != "" {
		health.WriteString(mutedStyle.Render("unavailable: " + i.daily.HealthErr))
	} else {
		score := i.daily.HealthScore
		style := lipgloss.NewStyle().Foreground(ColorGood)
		if score < 0.5 {
			style = lipgloss.NewStyle().Foreground(ColorWarn)
		}
		health.WriteString(style.Render(fmt.Sprintf("Overall: %.1f%%", score*100)))
		health.WriteString("\n")
		health.WriteString(fmt.Sprintf("People: %d\n", i.daily.People))
		health.WriteString(fmt.Sprintf("Connections: %d\n", i.daily.Connections))
		health.WriteString(fmt.Sprintf("Density: %.4f\n", i.daily.Density))
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, box.Render(infl.String()), box.Render(bridges.String()))
	btmRow := lipgloss.JoinHorizontal(lipgloss.Top, box.Render(silos.String()), box.Render(health.String()))

	return lipgloss.JoinVertical(lipgloss.Left, topRow, btmRow)
}
