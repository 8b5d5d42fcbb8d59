// Package tui provides a Bubble Tea terminal user interface.
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wc3relay/bridge"
	"wc3relay/version"
	"wc3relay/w3gs"
)

// Table column widths and layout constants.
const (
	colWidthNodeID  = 8
	colWidthAddr    = 22
	colWidthRegion  = 10
	colWidthPing    = 10
	colWidthBridge  = 22
	colWidthState   = 14
	colWidthPlayers = 10
	minTableHeight  = 3
	minLogHeight    = 3
	maxLogLines     = 10
	// fixedUIHeight accounts for title, headers, status bar, help, and spacing.
	fixedUIHeight = 11
	// Layout percentages for splitting available height.
	nodeTablePct   = 35
	bridgeTablePct = 35
	logAreaPct     = 30
)

// ViewMode indicates which view is currently displayed.
type ViewMode int

// View mode constants.
const (
	ViewModeList ViewMode = iota
	ViewModeDetailNode
	ViewModeDetailBridge
)

// FocusedPanel indicates which panel has focus.
type FocusedPanel int

// Focus panel constants.
const (
	FocusNodes FocusedPanel = iota
	FocusBridges
)

// BridgeStatus is a snapshot of one LAN bridge connection, as
// reported by the host process for display.
type BridgeStatus struct {
	ClientAddr string
	NodeID     int32
	State      bridge.State
	Players    int
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	nodes          []NodeRow
	bridges        []BridgeStatus
	lobbyConnected bool
	version        w3gs.GameVersion
	buildVersion   version.Info
	listenPort     int
	nodeTable      table.Model
	bridgeTable    table.Model
	logs           []string
	logHeight      int // calculated log area height
	width          int
	height         int
	ready          bool
	quitting       bool
	focus          FocusedPanel
	viewMode       ViewMode
	selectedNode   *NodeRow
	selectedBridge *BridgeStatus
	versionCb      func(uint32) // callback to notify version changes
	refreshCb      func()       // callback to trigger manual refresh
}

// NodeRow is the display-ready projection of a node.NodeEntry; kept
// independent of the node package's type so this package never needs
// to import node.
type NodeRow struct {
	NodeID  int32
	Address string
	Region  string
	PingMs  *int64
}

// NodesMsg is sent when the node registry's snapshot changes.
type NodesMsg struct {
	Nodes []NodeRow
}

// BridgesMsg is sent when the set of active bridge connections changes.
type BridgesMsg struct {
	Bridges []BridgeStatus
}

// LobbyStatusMsg is sent when the lobby stream's connection state changes.
type LobbyStatusMsg struct {
	Connected bool
}

// LogMsg is sent when a log message should be displayed.
type LogMsg struct {
	Message string
}

// PortMsg is sent to update the LAN advertiser's listen port after
// initialization.
type PortMsg struct {
	Port int
}

// NewModel creates a new TUI model.
// The versionCb callback is called when the user changes the game version.
// The refreshCb callback is called when the user requests a manual refresh.
func NewModel(
	listenPort int,
	gameVersion w3gs.GameVersion,
	buildVersion version.Info,
	versionCb func(uint32),
	refreshCb func(),
) Model {
	nodeColumns := []table.Column{
		{Title: "NodeID", Width: colWidthNodeID},
		{Title: "Address", Width: colWidthAddr},
		{Title: "Region", Width: colWidthRegion},
		{Title: "Ping", Width: colWidthPing},
	}

	bridgeColumns := []table.Column{
		{Title: "Client", Width: colWidthBridge},
		{Title: "State", Width: colWidthState},
		{Title: "Players", Width: colWidthPlayers},
	}

	nodeTable := table.New(
		table.WithColumns(nodeColumns),
		table.WithRows([]table.Row{}),
		table.WithFocused(true), // Start with nodes focused
		table.WithHeight(minTableHeight),
	)

	bridgeTable := table.New(
		table.WithColumns(bridgeColumns),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(minTableHeight),
	)

	// Apply styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	nodeTable.SetStyles(s)
	bridgeTable.SetStyles(s)

	return Model{
		nodes:        make([]NodeRow, 0),
		bridges:      make([]BridgeStatus, 0),
		version:      gameVersion,
		buildVersion: buildVersion,
		listenPort:   listenPort,
		nodeTable:    nodeTable,
		bridgeTable:  bridgeTable,
		logs:         make([]string, 0, maxLogLines),
		focus:        FocusNodes,
		viewMode:     ViewModeList,
		versionCb:    versionCb,
		refreshCb:    refreshCb,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}
