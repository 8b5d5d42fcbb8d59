package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Detail view styling constants.
const (
	detailBoxPaddingVert  = 1
	detailBoxPaddingHoriz = 2
	detailLabelWidth      = 14
)

// styles holds the TUI styling configuration.
type styles struct {
	title       lipgloss.Style
	header      lipgloss.Style
	statusBar   lipgloss.Style
	help        lipgloss.Style
	logLine     lipgloss.Style
	detailBox   lipgloss.Style
	detailLabel lipgloss.Style
	detailValue lipgloss.Style
}

// newStyles creates the TUI styles.
func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		statusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		logLine: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		detailBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(detailBoxPaddingVert, detailBoxPaddingHoriz),
		detailLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(detailLabelWidth),
		detailValue: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")),
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if !m.ready {
		return "Initializing...\n"
	}

	s := newStyles()

	// Handle detail views
	switch m.viewMode {
	case ViewModeDetailNode:
		return m.viewNodeDetail(s)
	case ViewModeDetailBridge:
		return m.viewBridgeDetail(s)
	case ViewModeList:
		// Fall through to render list view below
	}

	var b strings.Builder

	// Title bar
	titleText := "wc3relay " + m.buildVersion.String()
	title := s.title.Render(titleText)
	versionInfo := m.versionString()

	titleBar := lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		"  ",
		versionInfo,
	)

	b.WriteString(titleBar)
	b.WriteString("\n\n")

	// Node registry section
	b.WriteString(s.header.Render("Controller Nodes"))
	b.WriteString("\n")
	b.WriteString(m.nodeTable.View())
	b.WriteString("\n\n")

	// Bridge connections section
	b.WriteString(s.header.Render("LAN Bridges"))
	b.WriteString("\n")
	b.WriteString(m.bridgeTable.View())
	b.WriteString("\n\n")

	// Debug logs section
	b.WriteString(s.header.Render("Debug Log"))
	b.WriteString("\n")

	if len(m.logs) == 0 {
		b.WriteString(s.logLine.Render("  (no logs yet)"))
		b.WriteString("\n")
	} else {
		// Show only the last logHeight lines (or maxLogLines if logHeight not set)
		displayLines := m.logHeight
		if displayLines <= 0 || displayLines > maxLogLines {
			displayLines = maxLogLines
		}

		startIdx := 0
		if len(m.logs) > displayLines {
			startIdx = len(m.logs) - displayLines
		}

		for _, line := range m.logs[startIdx:] {
			b.WriteString(s.logLine.Render("  " + line))
			b.WriteString("\n")
		}
	}

	// Status bar
	statusBar := m.statusBar()
	b.WriteString(s.statusBar.Render(statusBar))
	b.WriteString("\n")

	// Help
	focusIndicator := "nodes"
	if m.focus == FocusBridges {
		focusIndicator = "bridges"
	}

	help := s.help.Render(fmt.Sprintf(
		"↑/↓: navigate | tab: switch (%s) | enter: details | r: refresh | [/]: version | q: quit",
		focusIndicator,
	))
	b.WriteString(help)

	return b.String()
}

// viewNodeDetail renders the node detail view.
func (m Model) viewNodeDetail(s styles) string {
	if m.selectedNode == nil {
		return "No node selected"
	}

	n := m.selectedNode

	var b strings.Builder

	title := s.title.Render("Node Details")
	b.WriteString(title)
	b.WriteString("\n\n")

	var content strings.Builder

	content.WriteString(m.detailRow(s, "Node ID:", fmt.Sprintf("%d", n.NodeID)))
	content.WriteString(m.detailRow(s, "Address:", n.Address))

	region := n.Region
	if region == "" {
		region = "-"
	}

	content.WriteString(m.detailRow(s, "Region:", region))

	ping := "-"
	if n.PingMs != nil {
		ping = fmt.Sprintf("%dms", *n.PingMs)
	}

	content.WriteString(m.detailRow(s, "Ping:", ping))

	box := s.detailBox.Render(content.String())
	b.WriteString(box)
	b.WriteString("\n\n")

	help := s.help.Render("Press Escape to return")
	b.WriteString(help)

	return b.String()
}

// viewBridgeDetail renders the bridge detail view.
func (m Model) viewBridgeDetail(s styles) string {
	if m.selectedBridge == nil {
		return "No bridge selected"
	}

	br := m.selectedBridge

	var b strings.Builder

	title := s.title.Render("Bridge Details")
	b.WriteString(title)
	b.WriteString("\n\n")

	var content strings.Builder

	content.WriteString(m.detailRow(s, "Client:", br.ClientAddr))
	content.WriteString(m.detailRow(s, "State:", br.State.String()))
	content.WriteString(m.detailRow(s, "Node ID:", fmt.Sprintf("%d", br.NodeID)))
	content.WriteString(m.detailRow(s, "Players:", fmt.Sprintf("%d", br.Players)))

	box := s.detailBox.Render(content.String())
	b.WriteString(box)
	b.WriteString("\n\n")

	help := s.help.Render("Press Escape to return")
	b.WriteString(help)

	return b.String()
}

// detailRow creates a formatted detail row with label and value.
func (m Model) detailRow(s styles, label, value string) string {
	return s.detailLabel.Render(label) + " " + s.detailValue.Render(value) + "\n"
}

// versionString returns the version display string.
func (m Model) versionString() string {
	if m.version.Version == 0 {
		return "[detecting version...]"
	}

	return fmt.Sprintf("[%s 1.%d]", m.version.Product.String(), m.version.Version)
}

// statusBar returns the status bar content.
func (m Model) statusBar() string {
	lobbyStatus := "disconnected"
	if m.lobbyConnected {
		lobbyStatus = "connected"
	}

	return fmt.Sprintf(
		"UDP 6112 | Listen port: %d | Lobby: %s | Nodes: %d | Bridges: %d",
		m.listenPort,
		lobbyStatus,
		len(m.nodes),
		len(m.bridges),
	)
}
