package tui

import (
	"fmt"
	"strings"

	"tagsense/pkg/types"
)

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("tagsense"))
	b.WriteString("\n\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderSelection())
	b.WriteString("\n")

	if m.statusLine != "" {
		b.WriteString(StatusStyle.Render(m.statusLine))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderResults())

	if m.target != inputNone {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(
		"f file · o folder · p process · j/k entry · h/l tag · e edit · d delete · C clear · r recheck · q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderStatus() string {
	switch m.status.State {
	case types.StatusConnected:
		return SuccessStyle.Render("● connected")
	case types.StatusDegraded:
		return WarningStyle.Render("● degraded: " + m.status.Reason)
	case types.StatusDisconnected:
		return ErrorStyle.Render("● disconnected: " + m.status.Reason)
	default:
		return StatusStyle.Render("● checking...")
	}
}

func (m *Model) renderSelection() string {
	sel := m.engine.Selection()
	switch sel.Kind {
	case types.SelectFile:
		return StatusStyle.Render("file: " + sel.Path)
	case types.SelectFolder:
		return StatusStyle.Render("folder: " + sel.Path)
	default:
		return StatusStyle.Render("nothing selected")
	}
}

func (m *Model) renderResults() string {
	if len(m.results) == 0 {
		return StatusStyle.Render("no results yet")
	}

	var b strings.Builder
	for i, r := range m.results {
		line := m.renderEntry(r, i == m.cursor)
		if i == m.cursor {
			b.WriteString(SelectedStyle.Render("▸ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderEntry(r types.ProcessingResult, selected bool) string {
	var b strings.Builder

	if r.Success {
		b.WriteString(SuccessStyle.Render("✓"))
	} else {
		b.WriteString(ErrorStyle.Render("✗"))
	}
	b.WriteString(" ")
	b.WriteString(r.Name())

	if r.SourceKind == types.FolderMember {
		b.WriteString(StatusStyle.Render(fmt.Sprintf(" (%s)", r.OriginFolder)))
	}

	if !r.Success {
		b.WriteString("  ")
		b.WriteString(ErrorStyle.Render(r.ErrorDetail))
		return b.String()
	}

	b.WriteString("  ")
	for j, tag := range r.Tags {
		if selected && j == m.tagCursor {
			b.WriteString(TagSelectedStyle.Render(tag))
		} else {
			b.WriteString(TagStyle.Render(tag))
		}
		if j < len(r.Tags)-1 {
			b.WriteString(" ")
		}
	}
	if len(r.Tags) > 0 {
		b.WriteString(StatusStyle.Render(fmt.Sprintf("  [%s]", r.ModelUsed)))
	}

	return b.String()
}
