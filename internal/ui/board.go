package ui

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nickpending/catchup/internal/stream"
)

// buildBoardStateString creates the header state summary
func buildBoardStateString(m Model) string {
	total := 0
	caught := 0
	for _, cat := range m.categories {
		for _, st := range cat.Streams {
			total++
			if st.Cursor.State() == stream.Exhausted {
				caught++
			}
		}
	}

	states := []string{
		fmt.Sprintf("Categories: %d", len(m.categories)),
		fmt.Sprintf("Streams: %d", total),
	}
	if total > 0 {
		states = append(states, fmt.Sprintf("Caught up: %d", caught))
	}
	if m.syncing {
		states = append(states, "SYNCING")
	}

	return strings.Join(states, " | ")
}

// renderBoard renders the category board view
func renderBoard(m Model) string {
	if m.width == 0 {
		return "Loading..."
	}

	theme := m.theme

	if m.loading {
		return renderLoading(theme)
	}

	if m.loadErr != nil {
		return renderError(m.loadErr, theme)
	}

	// Title on the left, state summary and clock right-aligned. The
	// gradient render clips the line to the terminal width.
	left := " CATCHUP"
	right := fmt.Sprintf("%s  ◆ %s ", buildBoardStateString(m), time.Now().Format("15:04"))
	gap := m.width - len(left) - len(right)
	if gap < 1 {
		gap = 2
	}

	gradStart, gradEnd := theme.HeaderGradient()
	header := RenderWithGradientBackground(left+strings.Repeat(" ", gap)+right, m.width, gradStart, gradEnd)

	// Five rows are chrome: gradient bar, spacer, status line, pane borders.
	contentHeight := m.height - 5

	sidebarWidth := m.width / 4
	if sidebarWidth < 28 {
		sidebarWidth = 28
	}
	contentWidth := m.width - sidebarWidth - 1

	sidebar := renderSidebar(m, sidebarWidth, contentHeight, theme)
	content := renderStreamList(m, contentWidth, contentHeight, theme)

	sidebarStyle := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(contentHeight).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(theme.DarkGray).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Padding(0, 1)

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		sidebarStyle.Render(sidebar),
		contentStyle.Render(content),
	)

	// Status bar, replaced by the command line while it is open
	var status string
	if m.commandMode.IsActive() {
		status = m.commandMode.View(theme)
	} else {
		statusStyle := lipgloss.NewStyle().
			Background(theme.DarkGray).
			Foreground(theme.Gray).
			Width(m.width).
			Padding(0, 1)

		var statusText string
		if m.statusMessage != "" {
			statusText = lipgloss.NewStyle().
				Foreground(theme.Accent).
				Bold(true).
				Render(m.statusMessage)
		} else {
			statusText = "j/k:navigate  tab:pane  enter:open  c:advance  t:progress  u/U:sync  a/e:stream  A/E:category  n:item  m:memo  i:guide  q:quit"
		}
		status = statusStyle.Render(statusText)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		main,
		status,
	)
}

func renderSidebar(m Model, width, height int, theme StyleTheme) string {
	// Stats take roughly a third, categories the rest.
	statsHeight := height * 35 / 100

	statsHeader := lipgloss.NewStyle().
		Foreground(theme.Gray).
		Render("── LIBRARY " + strings.Repeat("─", maxInt(width-13, 0)))

	// Count streams by cursor state
	var total, active, caught, fresh int
	for _, cat := range m.categories {
		for _, st := range cat.Streams {
			total++
			switch st.Cursor.State() {
			case stream.Active:
				active++
			case stream.Exhausted:
				caught++
			default:
				fresh++
			}
		}
	}

	watchState := lipgloss.NewStyle().Foreground(theme.Gray).Render("○ off")
	if m.watch != nil {
		watchState = lipgloss.NewStyle().Foreground(theme.Green).Render("● live")
	}

	statsContent := []string{
		fmt.Sprintf("Streams:     %d", total),
		fmt.Sprintf("In progress: %s %d",
			lipgloss.NewStyle().Foreground(theme.Green).Render("●"), active),
		fmt.Sprintf("Caught up:   %s %d",
			lipgloss.NewStyle().Foreground(theme.Gray).Render("✓"), caught),
		fmt.Sprintf("Untouched:   %s %d",
			lipgloss.NewStyle().Foreground(theme.Orange).Render("○"), fresh),
		fmt.Sprintf("Watch:       %s", watchState),
		fmt.Sprintf("Memory:      %s", memoryUsage()),
	}

	// Point at the most-behind stream of the selected category
	if cat := m.currentCategory(); cat != nil {
		if lead := cat.Lead(); lead != nil && lead.Cursor.State() != stream.Exhausted {
			statsContent = append(statsContent,
				fmt.Sprintf("Next up:     %s",
					lipgloss.NewStyle().Foreground(theme.Violet).Render(truncate(lead.Name, maxInt(width-16, 8)))))
		}
	}

	statsSection := lipgloss.NewStyle().
		Height(statsHeight).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			statsHeader,
			"",
			strings.Join(statsContent, "\n"),
		))

	catHeader := lipgloss.NewStyle().
		Foreground(theme.Gray).
		Render("── CATEGORIES " + strings.Repeat("─", maxInt(width-16, 0)))

	rows := []string{}
	if len(m.categories) == 0 {
		rows = append(rows, theme.DimmedStyle().Render("none yet"))
	}
	for i, cat := range m.categories {
		selector := "  "
		nameStyle := lipgloss.NewStyle().Foreground(theme.White)
		if i == m.catIdx {
			if m.focus == paneCategories {
				selector = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("▸ ")
				nameStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
			} else {
				selector = lipgloss.NewStyle().Foreground(theme.Gray).Render("▸ ")
			}
		}

		caught := 0
		for _, st := range cat.Streams {
			if st.Cursor.State() == stream.Exhausted {
				caught++
			}
		}
		countStr := lipgloss.NewStyle().Foreground(theme.Gray).
			Render(fmt.Sprintf("[%d/%d]", caught, len(cat.Streams)))

		name := truncate(cat.Name, maxInt(width-12, 8))
		rows = append(rows, fmt.Sprintf("%s%s %s", selector, nameStyle.Render(name), countStr))
	}

	catSection := lipgloss.JoinVertical(
		lipgloss.Left,
		catHeader,
		"",
		strings.Join(rows, "\n"),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		statsSection,
		catSection,
	)
}

func renderStreamList(m Model, width, height int, theme StyleTheme) string {
	cat := m.currentCategory()
	if cat == nil {
		return renderEmptyState(theme)
	}
	if len(cat.Streams) == 0 {
		return lipgloss.NewStyle().
			Foreground(theme.Gray).
			Italic(true).
			Render(fmt.Sprintf("No streams in %s. Press 'a' to add one.", cat.Name))
	}

	// Each stream takes two rows; scroll the window so the selection
	// stays a few rows clear of the bottom.
	visible := height / 2
	first := 0
	if m.streamIdx > visible-3 {
		first = m.streamIdx - visible + 3
	}
	last := minInt(first+visible, len(cat.Streams))
	if last-first < visible {
		first = maxInt(0, last-visible)
	}

	var lines []string
	for i := first; i < last; i++ {
		st := cat.Streams[i]

		var stateIndicator string
		switch st.Cursor.State() {
		case stream.Exhausted:
			stateIndicator = lipgloss.NewStyle().Foreground(theme.Gray).Render("✓")
		case stream.Active:
			stateIndicator = lipgloss.NewStyle().Foreground(theme.Green).Render("●")
		default:
			stateIndicator = lipgloss.NewStyle().Foreground(theme.Orange).Render("○")
		}

		selector := "  "
		nameColor := theme.White
		if i == m.streamIdx {
			selector = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("▸ ")
			nameColor = theme.Accent
		}
		// Caught-up streams fade unless selected.
		if st.Cursor.State() == stream.Exhausted && i != m.streamIdx {
			nameColor = theme.Gray
		}

		kindTag := lipgloss.NewStyle().Foreground(theme.Violet).
			Render(fmt.Sprintf("%-4s", kindLabel(st.Kind)))

		nameText := truncate(st.Name, maxInt(width-20, 10))
		line1 := fmt.Sprintf("%s%s %s %s",
			selector,
			stateIndicator,
			kindTag,
			lipgloss.NewStyle().Foreground(nameColor).Render(nameText),
		)

		// Second row: cursor position, progress note, source.
		metaStyle := lipgloss.NewStyle().Foreground(theme.Gray)

		var metaParts []string
		metaParts = append(metaParts, metaStyle.Render(truncate(cursorSummary(st.Cursor), maxInt(width-24, 16))))
		if st.Cursor.State() == stream.Active && st.Cursor.Progress != "" && st.Cursor.Progress != "0" {
			metaParts = append(metaParts, lipgloss.NewStyle().Foreground(theme.Orange).
				Render("at "+truncate(st.Cursor.Progress, 24)))
		}
		if st.Source != "" {
			metaParts = append(metaParts, metaStyle.Render(truncate(st.Source, 40)))
		}

		line2 := "        " + strings.Join(metaParts, " | ")

		lines = append(lines, line1, line2)
	}

	return strings.Join(lines, "\n")
}

func renderLoading(theme StyleTheme) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render("Loading library...")
}

func renderError(err error, theme StyleTheme) string {
	return lipgloss.NewStyle().
		Foreground(theme.Red).
		Bold(true).
		Render(fmt.Sprintf("Error: %v", err))
}

func renderEmptyState(theme StyleTheme) string {
	return lipgloss.NewStyle().
		Foreground(theme.Gray).
		Italic(true).
		Render("No categories yet. Press 'A' to create one, or 'i' for the guide.")
}

// memoryUsage formats the process heap size for the stats pane.
func memoryUsage() string {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	mb := float64(stats.Alloc) / (1 << 20)
	if mb < 10 {
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.0f MB", mb)
}
