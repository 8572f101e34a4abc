package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fetchlab/fetchlab/internal/demo"
)

// layout recomputes component sizes after a resize or theme change.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	transcriptH := m.height / 3
	if transcriptH < 6 {
		transcriptH = 6
	}
	m.transcript.Width = m.width - 4
	m.transcript.Height = transcriptH
	m.progress.Width = m.paneWidth() - 10
	if m.progress.Width < 10 {
		m.progress.Width = 10
	}
}

func (m Model) paneWidth() int {
	w := (m.width - 6) / 2
	if w < 20 {
		w = 20
	}
	return w
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	left := m.renderTopicPane()
	right := m.renderRunPane()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	b.WriteString(m.renderTranscriptPane())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	page := m.pages[m.active]
	status := m.snapshot.Run.Status.String()

	parts := []string{
		styles.Logo.Render("fetchlab"),
		styles.Text.Render(page.Title),
		styles.StatusStyle(status).Render(strings.ToUpper(status)),
	}
	if name := page.ScenarioName(); name != "" {
		parts = append(parts, styles.MutedText.Render("scenario:")+" "+styles.AccentText.Render(name))
	}
	if m.notice != "" {
		parts = append(parts, styles.WarningText.Render(m.notice))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

// renderTabs renders the topic selector.
func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	var tabs []string
	for i, page := range m.pages {
		label := fmt.Sprintf("%d %s", i+1, page.Tab)
		if i == m.active {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactive.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(tabs, " "))
}

// renderTopicPane renders the blurb and code snippet for the active page.
func (m Model) renderTopicPane() string {
	styles := m.theme.Styles()
	page := m.pages[m.active]
	width := m.paneWidth()

	blurb := lipgloss.NewStyle().Width(width - 2).Render(styles.Text.Render(page.Blurb))
	snippet := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Info)).
		Render(page.Snippet)

	content := blurb + "\n\n" + styles.FaintText.Render(strings.Repeat("─", min(width-2, 28))) + "\n" + snippet
	return styles.Pane.Width(width).Render(content)
}

// renderRunPane renders the live run state: narration progress, spinner,
// and the terminal result or failure.
func (m Model) renderRunPane() string {
	styles := m.theme.Styles()
	width := m.paneWidth()
	snap := m.snapshot
	run := snap.Run

	var b strings.Builder

	switch run.Status {
	case demo.StatusIdle:
		b.WriteString(styles.MutedText.Render("Press r to run this demo."))
	case demo.StatusLoading:
		b.WriteString(m.spinner.View())
		b.WriteString(styles.Text.Render(" fetching via " + snap.Strategy + "..."))
	case demo.StatusSuccess:
		b.WriteString(styles.SuccessText.Render("✓ success"))
	case demo.StatusError:
		b.WriteString(styles.DangerText.Render("✗ failed"))
	}
	b.WriteString("\n\n")

	// Narration progress is presentation pacing, not request progress.
	percent := 0.0
	if snap.TotalSteps > 0 {
		percent = float64(run.Step) / float64(snap.TotalSteps)
	}
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("step %d/%d ", run.Step, snap.TotalSteps)))
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n\n")

	switch {
	case run.Status == demo.StatusSuccess && run.Result != nil:
		res := run.Result
		b.WriteString(styles.Text.Render("image: ") + styles.AccentText.Render(truncateMiddle(res.ImageURL, width-12)))
		b.WriteString("\n")
		meta := fmt.Sprintf("HTTP %d", res.HTTPStatus)
		if res.FromCache {
			meta += " · from cache"
		} else if res.Elapsed > 0 {
			meta += " · " + formatElapsed(res.Elapsed)
		}
		if res.BodyBytes > 0 {
			meta += fmt.Sprintf(" · %d bytes", res.BodyBytes)
		}
		b.WriteString(styles.MutedText.Render(meta))

	case run.Status == demo.StatusError && run.Failure != nil:
		f := run.Failure
		b.WriteString(styles.DangerText.Render(f.UserMessage()))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("kind: " + f.Kind.String()))
		b.WriteString("\n")
		// Technical details stay secondary, under the friendly message.
		b.WriteString(styles.FaintText.Render(truncate(f.Error(), (width-4)*2)))

	default:
		b.WriteString(styles.FaintText.Render("No result yet."))
	}

	return styles.PaneFocus.Width(width).Render(b.String())
}

// renderTranscriptPane renders the timestamped run transcript.
func (m Model) renderTranscriptPane() string {
	styles := m.theme.Styles()
	title := styles.MutedText.Render(" transcript ")
	return styles.Pane.Width(m.width - 2).Render(title + "\n" + m.transcript.View())
}

// refreshTranscript rebuilds the viewport content from the snapshot.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()
	if len(m.snapshot.Logs) == 0 {
		m.transcript.SetContent(styles.FaintText.Render("(empty)"))
		return
	}
	lines := make([]string, 0, len(m.snapshot.Logs))
	for _, entry := range m.snapshot.Logs {
		stamp := styles.FaintText.Render(entry.At.Format("15:04:05.000"))
		kind := m.kindStyle(entry.Kind).Render(fmt.Sprintf("%-7s", entry.Kind))
		lines = append(lines, stamp+" "+kind+" "+styles.Text.Render(entry.Message))
	}
	m.transcript.SetContent(strings.Join(lines, "\n"))
}

func (m Model) kindStyle(kind demo.LogKind) lipgloss.Style {
	styles := m.theme.Styles()
	switch kind {
	case demo.KindSuccess:
		return styles.SuccessText
	case demo.KindWarning:
		return styles.WarningText
	case demo.KindError:
		return styles.DangerText
	default:
		return styles.InfoText
	}
}

// renderFooter renders the key hint bar.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	hints := []string{
		"r run", "x reset",
	}
	page := m.pages[m.active]
	if page.HasScenarios() {
		hints = append(hints, "s scenario")
	}
	if page.Refetcher() != nil {
		hints = append(hints, "f refetch")
	}
	hints = append(hints, "tab page", "w export", "T theme", "? help", "q quit")
	return styles.Footer.Width(m.width).Render(strings.Join(hints, "  ·  "))
}
