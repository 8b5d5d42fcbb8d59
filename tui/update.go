package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"wc3relay/config"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Calculate available height for tables and logs
		// Reserve space for: title, section headers, status bar, help, and spacing
		availableHeight := m.height - fixedUIHeight

		// Split available height between the node table, bridge table, and logs
		if availableHeight > 0 {
			nodeHeight := availableHeight * nodeTablePct / 100   //nolint:mnd
			bridgeHeight := availableHeight * bridgeTablePct / 100 //nolint:mnd
			m.logHeight = availableHeight * logAreaPct / 100     //nolint:mnd

			if nodeHeight < minTableHeight {
				nodeHeight = minTableHeight
			}

			if bridgeHeight < minTableHeight {
				bridgeHeight = minTableHeight
			}

			if m.logHeight < minLogHeight {
				m.logHeight = minLogHeight
			}

			m.nodeTable.SetHeight(nodeHeight)
			m.bridgeTable.SetHeight(bridgeHeight)
		}

		return m, nil

	case NodesMsg:
		m.nodes = msg.Nodes
		m.nodeTable.SetRows(m.nodeRows())

		return m, nil

	case BridgesMsg:
		m.bridges = msg.Bridges
		m.bridgeTable.SetRows(m.bridgeRows())

		return m, nil

	case LobbyStatusMsg:
		m.lobbyConnected = msg.Connected

		return m, nil

	case LogMsg:
		m.logs = append(m.logs, msg.Message)
		// Keep only the last maxLogLines
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}

		return m, nil

	case PortMsg:
		m.listenPort = msg.Port

		return m, nil
	}

	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle escape first to return from detail view
	if msg.Type == tea.KeyEsc {
		if m.viewMode != ViewModeList {
			m.viewMode = ViewModeList
			m.selectedNode = nil
			m.selectedBridge = nil

			return m, nil
		}

		return m, nil
	}

	// In detail view, only handle escape (already handled above)
	if m.viewMode != ViewModeList {
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true

		return m, tea.Quit

	case "tab":
		// Switch focus between panels
		m = m.toggleFocus()

		return m, nil

	case "up", "k":
		// Navigate up in focused table
		m = m.navigateUp()

		return m, nil

	case "down", "j":
		// Navigate down in focused table
		m = m.navigateDown()

		return m, nil

	case "[", "-":
		// Decrease version
		m = m.cycleVersion(-1)

		return m, nil

	case "]", "+", "=":
		// Increase version
		m = m.cycleVersion(1)

		return m, nil

	case "r":
		// Manual refresh
		if m.refreshCb != nil {
			m.refreshCb()
		}

		return m, nil
	}

	// Handle enter key separately using KeyType for reliability
	if msg.Type == tea.KeyEnter {
		// Show detail view based on focus, and trigger refresh
		m = m.showDetailView()
		if m.refreshCb != nil {
			m.refreshCb()
		}

		return m, nil
	}

	return m, nil
}

// toggleFocus switches focus between the node and bridge tables.
func (m Model) toggleFocus() Model {
	if m.focus == FocusNodes {
		m.focus = FocusBridges
		m.nodeTable.Blur()
		m.bridgeTable.Focus()
	} else {
		m.focus = FocusNodes
		m.bridgeTable.Blur()
		m.nodeTable.Focus()
	}

	return m
}

// navigateUp moves selection up in the focused table.
func (m Model) navigateUp() Model {
	if m.focus == FocusNodes {
		m.nodeTable.MoveUp(1)
	} else {
		m.bridgeTable.MoveUp(1)
	}

	return m
}

// navigateDown moves selection down in the focused table.
func (m Model) navigateDown() Model {
	if m.focus == FocusNodes {
		m.nodeTable.MoveDown(1)
	} else {
		m.bridgeTable.MoveDown(1)
	}

	return m
}

// cycleVersion changes the game version by delta.
func (m Model) cycleVersion(delta int) Model {
	versions := config.SupportedVersions()
	currentIdx := -1

	for i, v := range versions {
		if v == m.version.Version {
			currentIdx = i

			break
		}
	}

	if currentIdx == -1 {
		// Current version not in list, start at beginning
		currentIdx = 0
	} else {
		currentIdx += delta
		if currentIdx < 0 {
			currentIdx = len(versions) - 1
		} else if currentIdx >= len(versions) {
			currentIdx = 0
		}
	}

	m.version.Version = versions[currentIdx]

	// Notify callback if set
	if m.versionCb != nil {
		m.versionCb(m.version.Version)
	}

	return m
}

// showDetailView switches to the detail view for the selected item.
func (m Model) showDetailView() Model {
	if m.focus == FocusNodes {
		cursor := m.nodeTable.Cursor()
		if cursor >= 0 && cursor < len(m.nodes) {
			n := m.nodes[cursor]
			m.selectedNode = &n
			m.viewMode = ViewModeDetailNode
		}
	} else {
		cursor := m.bridgeTable.Cursor()
		if cursor >= 0 && cursor < len(m.bridges) {
			b := m.bridges[cursor]
			m.selectedBridge = &b
			m.viewMode = ViewModeDetailBridge
		}
	}

	return m
}

// nodeRows converts nodes to table rows.
func (m Model) nodeRows() []table.Row {
	rows := make([]table.Row, 0, len(m.nodes))

	for i := range m.nodes {
		n := &m.nodes[i]

		region := n.Region
		if region == "" {
			region = "-"
		}

		ping := "-"
		if n.PingMs != nil {
			ping = fmt.Sprintf("%dms", *n.PingMs)
		}

		rows = append(rows, table.Row{
			fmt.Sprintf("%d", n.NodeID),
			n.Address,
			region,
			ping,
		})
	}

	return rows
}

// bridgeRows converts bridges to table rows.
func (m Model) bridgeRows() []table.Row {
	rows := make([]table.Row, 0, len(m.bridges))

	for i := range m.bridges {
		b := &m.bridges[i]

		rows = append(rows, table.Row{
			b.ClientAddr,
			b.State.String(),
			fmt.Sprintf("%d", b.Players),
		})
	}

	return rows
}
