package insights

import (
	"fmt"
	"strings"
)

// Markdown renders the daily report for terminal display (plain markdown;
// callers may pass it through a renderer).
func (rep *DailyReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Workplace Network Insights\n\n")
	fmt.Fprintf(&b, "_%s_\n\n", rep.GeneratedAt.Format("2006-01-02 15:04"))

	b.WriteString("## Network Overview\n\n")
	if rep.OverviewErr != "" {
		writeUnavailable(&b, rep.OverviewErr)
	} else {
		fmt.Fprintf(&b, "- Total people: %d\n", rep.People)
		fmt.Fprintf(&b, "- Total connections: %d\n", rep.Connections)
		fmt.Fprintf(&b, "- Network density: %.1f%%\n", rep.Density*100)
		b.WriteString("\n")
	}

	b.WriteString("## Most Influential People\n\n")
	switch {
	case rep.InfluencersErr != "":
		writeUnavailable(&b, rep.InfluencersErr)
	case len(rep.Influencers) == 0:
		b.WriteString("No ranking available for an empty network.\n\n")
	default:
		for i, p := range rep.Influencers {
			fmt.Fprintf(&b, "%d. **%s** (influence: %.3f)\n", i+1, p.ID, p.Score)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Department Spotlight\n\n")
	switch {
	case rep.SpotlightErr != "":
		writeUnavailable(&b, rep.SpotlightErr)
	case rep.Spotlight == nil:
		b.WriteString("No department has enough members to measure cohesion.\n\n")
	default:
		fmt.Fprintf(&b, "Most cohesive team: **%s** (%.1f%% cohesion)\n\n",
			rep.Spotlight.Department, rep.Spotlight.Cohesion*100)
	}

	b.WriteString("## Network Health\n\n")
	if rep.HealthErr != "" {
		writeUnavailable(&b, rep.HealthErr)
	} else {
		fmt.Fprintf(&b, "Overall health: %.1f%%\n\n", rep.HealthScore*100)
	}

	b.WriteString("## Recommendations\n\n")
	for _, s := range rep.Suggestions {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return b.String()
}

// Markdown renders the silo report.
func (rep *SiloReport) Markdown() string {
	var b strings.Builder
	b.WriteString("# Organizational Silo Analysis\n\n")

	b.WriteString("## Network Structure\n\n")
	if rep.CommunitiesErr != "" {
		writeUnavailable(&b, rep.CommunitiesErr)
	} else {
		fmt.Fprintf(&b, "- Total communities: %d\n", rep.CommunityCount)
		if rep.CommunityCount > 1 {
			fmt.Fprintf(&b, "- Warning: %d isolated group(s) detected\n", rep.CommunityCount-1)
			for i, size := range rep.GroupSizes {
				if size > 1 {
					fmt.Fprintf(&b, "- Group %d: %d people\n", i+1, size)
				}
			}
		}
		b.WriteString("\n")
	}

	if rep.DepartmentsErr != "" {
		b.WriteString("## Department Isolation\n\n")
		writeUnavailable(&b, rep.DepartmentsErr)
	} else {
		if len(rep.Isolated) > 0 {
			b.WriteString("## Potentially Isolated Departments\n\n")
			for _, s := range rep.Isolated {
				fmt.Fprintf(&b, "- %s: %.1f external connections per person\n", s.Department, s.ExternalRatio())
			}
			b.WriteString("\n")
		}
		if len(rep.WellConnected) > 0 {
			b.WriteString("## Well-Connected Departments\n\n")
			for _, s := range rep.WellConnected {
				fmt.Fprintf(&b, "- %s: %.1f external connections per person\n", s.Department, s.ExternalRatio())
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Key Bridge People\n\n")
	switch {
	case rep.BridgesErr != "":
		writeUnavailable(&b, rep.BridgesErr)
	case len(rep.Bridges) == 0:
		b.WriteString("No bridge people identified.\n\n")
	default:
		for _, p := range rep.Bridges {
			fmt.Fprintf(&b, "- %s: %.3f bridge score\n", p.ID, p.Score)
		}
		b.WriteString("\nEnsure these bridge people have backup connections.\n\n")
	}

	b.WriteString("## Silo Reduction Suggestions\n\n")
	for _, s := range rep.Suggestions {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return b.String()
}

// Markdown renders the per-person recommendation report.
func (rep *RecommendationReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Connection Recommendations for %s\n\n", rep.Person.ID)

	if len(rep.Suggestions) == 0 {
		b.WriteString("No new connection recommendations found at this time.\n")
		b.WriteString("Consider expanding your network by attending cross-team meetings.\n")
		return b.String()
	}

	for i, s := range rep.Suggestions {
		fmt.Fprintf(&b, "%d. **%s** (%s)\n", i+1, s.PersonID, s.Department)
		if s.Role != "" {
			fmt.Fprintf(&b, "   - Role: %s\n", s.Role)
		}
		fmt.Fprintf(&b, "   - Reason: %s\n", s.Reason)
		b.WriteString("\n")
	}
	return b.String()
}

func writeUnavailable(b *strings.Builder, reason string) {
	fmt.Fprintf(b, "_Section unavailable: %s_\n\n", reason)
}
