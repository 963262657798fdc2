package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("4")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("7")).
				Padding(0, 2)

	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("6"))

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderTabBar(active tabIndex, width int) string {
	var tabs []string
	for t := tabIndex(0); t < tabCount; t++ {
		if t == active {
			tabs = append(tabs, activeTabStyle.Render(t.label()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.label()))
		}
	}
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func renderList(rows []row, cursor, scroll, visible, width int) string {
	if len(rows) == 0 {
		return listBoxStyle.Width(width - 4).Render("(no entries)")
	}

	end := min(len(rows), scroll+visible)
	var lines []string
	for i := scroll; i < end; i++ {
		line := rows[i].summary
		if i == cursor {
			lines = append(lines, selectedRowStyle.Render(padTo(line, width-6)))
		} else {
			lines = append(lines, line)
		}
	}
	return listBoxStyle.Width(width - 4).Render(strings.Join(lines, "\n"))
}

func renderDetail(detail string, width int) string {
	return detailBoxStyle.Width(width - 4).Render(detail)
}

func padTo(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
