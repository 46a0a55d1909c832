package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lukemcguire/linkprobe/result"
)

// invalidSections lists the categories in the order they are shown: link
// rot first, then server trouble, then transport failures.
var invalidSections = []result.ErrorCategory{
	result.Category4xx,
	result.Category5xx,
	result.CategoryUnexpectedStatus,
	result.CategoryRedirectLoop,
	result.CategoryTimeout,
	result.CategoryDNSFailure,
	result.CategoryConnectionRefused,
	result.CategoryInvalidURL,
	result.CategoryUnknown,
}

// RenderSummary renders the finished check: page heading, a table of valid
// links and one table per category of invalid links.
func RenderSummary(res *result.Result) string {
	if res == nil {
		return badStyle.Render("No results available.")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n\n",
		pageStyle.Render(res.PageURL),
		mutedStyle.Render(fmt.Sprintf("%d internal links, %d external links", res.Stats.Internal, res.Stats.External)))

	if n := len(res.Validation.Valid); n > 0 {
		writeSection(&sb, fmt.Sprintf("Valid Links (%d)", n), res.Validation.Valid, goodStyle)
	}

	elapsed := res.Stats.Duration.Round(time.Millisecond)
	if len(res.Validation.Invalid) == 0 {
		fmt.Fprintf(&sb, "%s\n%s\n",
			goodStyle.Render("No invalid links found!"),
			mutedStyle.Render(fmt.Sprintf("Checked %d external links in %s", res.Stats.External, elapsed)))
		return sb.String()
	}

	byCategory := groupInvalid(res.Validation.Invalid)
	for _, category := range invalidSections {
		if links := byCategory[category]; len(links) > 0 {
			writeSection(&sb, fmt.Sprintf("%s (%d)", category.Label(), len(links)), links, badStyle)
		}
	}

	sb.WriteString(badStyle.Render(fmt.Sprintf(
		"Found %d invalid links out of %d external links checked (%s)",
		res.Stats.Invalid, res.Stats.External, elapsed)))
	sb.WriteString("\n")
	return sb.String()
}

func groupInvalid(links []result.LinkStatus) map[result.ErrorCategory][]result.LinkStatus {
	groups := make(map[result.ErrorCategory][]result.LinkStatus)
	for _, link := range links {
		category := link.Category
		if category == "" {
			category = result.CategoryUnknown
		}
		groups[category] = append(groups[category], link)
	}
	return groups
}

func writeSection(sb *strings.Builder, title string, links []result.LinkStatus, valueStyle lipgloss.Style) {
	rows := make([][]string, len(links))
	for i, link := range links {
		rows[i] = []string{link.Value(), link.URL}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Result", "Link").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return columnStyle
			case col == 0:
				return valueStyle
			default:
				return cellStyle
			}
		})

	fmt.Fprintf(sb, "%s\n%s\n\n", sectionStyle.Render("## "+title), t.Render())
}
