package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterbourgon/ff/v3/ffcli"

	"wc3relay/bridge"
	"wc3relay/config"
	"wc3relay/lanhost"
	"wc3relay/node"
	"wc3relay/slotplan"
	"wc3relay/tui"
	"wc3relay/version"
	"wc3relay/w3gs"
)

// app holds the running services a `run` invocation wires together:
// one node registry ping worker, one LAN advertiser/responder pair,
// one bridge accept loop, and the TUI observing all three.
type app struct {
	cfg *config.Config

	nodes       *node.Registry
	broadcaster *lanhost.Broadcaster
	responder   *lanhost.Responder
	listener    net.Listener

	mu      sync.Mutex
	info    *w3gs.GameInfo
	plan    *slotplan.LanSlotInfo
	bridges []tui.BridgeStatus

	program *tea.Program
}

func newRunCommand() *ffcli.Command {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	versionStr := fs.String("version", "26", "Game version (e.g., 26, 1.26, 27, 1.27, 28, 1.28)")
	gameName := fs.String("game-name", "wc3relay game", "Game name to advertise on the LAN")
	mapPath := fs.String("map-path", "Maps\\(2)LostTemple.w3m", "Map path advertised in GameInfo")
	nodesFlag := fs.String("nodes", "", "Comma-separated node list, id=address[=region] (e.g. 1=127.0.0.1:6113=eu)")

	return &ffcli.Command{
		Name:       "run",
		ShortUsage: "wc3relay run [flags]",
		ShortHelp:  "Run the LAN bridge, node registry, and TUI",
		FlagSet:    fs,
		Exec: func(ctx context.Context, _ []string) error {
			gameVersion, err := config.ParseVersion(*versionStr)
			if err != nil {
				return err
			}

			return runExec(ctx, gameVersion, *gameName, *mapPath, *nodesFlag)
		},
	}
}

func runExec(ctx context.Context, gameVersion uint32, gameName, mapPath, nodesFlag string) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{cfg: config.Default()}
	a.cfg.GameVersion.Version = gameVersion

	if err := a.initServices(ctx, nodesFlag); err != nil {
		return err
	}

	if err := a.buildSoloPlan(); err != nil {
		return err
	}

	a.setGameInfo(gameName, mapPath)

	refreshCallback := func() {
		slog.Debug("manual refresh requested")
	}
	versionCallback := func(v uint32) {
		a.cfg.GameVersion.Version = v
		a.setGameInfo(gameName, mapPath)
		slog.Info("version changed", "version", config.FormatVersion(v))
	}

	model := tui.NewModel(a.listenerPort(), a.cfg.GameVersion, version.Get(), versionCallback, refreshCallback)
	a.program = tea.NewProgram(model, tea.WithAltScreen())

	handler := tui.NewHandler(a.program, slog.LevelDebug)
	slog.SetDefault(slog.New(handler))

	a.startServices(ctx)

	tuiDone := make(chan error, 1)

	go func() {
		_, err := a.program.Run()
		tuiDone <- err
	}()

	handler.SetReady()
	a.program.Send(tui.PortMsg{Port: a.listenerPort()})

	slog.Info("wc3relay started", "listenPort", a.listenerPort())

	err := <-tuiDone

	cancel()
	a.closeServices()

	return err
}

func (a *app) listenerPort() int {
	if a.listener == nil {
		return 0
	}
	if tcpAddr, ok := a.listener.Addr().(*net.TCPAddr); ok {
		return tcpAddr.Port
	}
	return 0
}

// initServices constructs the node registry, LAN advertiser/responder,
// and the client-facing TCP listener. It does not start any
// goroutines: that is startServices's job, once the TUI program
// exists to receive status updates.
func (a *app) initServices(ctx context.Context, nodesFlag string) error {
	prober := node.ProberFunc(tcpDialProbe)
	a.nodes = node.NewRegistry(prober, a.cfg.NodeProbeInterval)

	for _, n := range parseNodeList(nodesFlag) {
		a.nodes.Upsert(n.id, n.address, n.region)
	}

	broadcaster, err := lanhost.NewBroadcaster()
	if err != nil {
		return fmt.Errorf("create LAN broadcaster: %w", err)
	}
	a.broadcaster = broadcaster

	responder, err := lanhost.NewResponder(&net.UDPAddr{Port: lanhost.DefaultPort}, a.currentGameInfo)
	if err != nil {
		slog.Warn("could not bind LAN responder port, local discovery disabled", "error", err)
	} else {
		a.responder = responder
	}

	lc := &net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", "0.0.0.0:0")
	if err != nil {
		return fmt.Errorf("create bridge listener: %w", err)
	}
	a.listener = listener

	return nil
}

// buildSoloPlan computes the slot plan for the solo-player case: the
// local client occupies the only seat, with the synthetic stream
// observer filling slot 23 per spec §4.2.
func (a *app) buildSoloPlan() error {
	seed := int32(rand.Uint32())

	slots := []slotplan.PlatformSlot{
		{
			Status:   w3gs.SlotOccupied,
			Team:     0,
			Color:    0,
			Race:     w3gs.RaceRandom,
			Handicap: 100,
			PlayerID: 1,
		},
	}

	plan, err := slotplan.BuildPlayerSlotInfo(slotplan.AsPlayer(1), seed, slots)
	if err != nil {
		return fmt.Errorf("build slot plan: %w", err)
	}

	a.mu.Lock()
	a.plan = plan
	a.mu.Unlock()

	return nil
}

func (a *app) setGameInfo(gameName, mapPath string) {
	info := &w3gs.GameInfo{
		GameVersion: a.cfg.GameVersion,
		HostCounter: 1,
		GameName:    gameName,
		GameSettings: w3gs.GameSettings{
			Flags:    w3gs.SettingSpeedNormal,
			MapPath:  mapPath,
			HostName: "wc3relay",
		},
		SlotsTotal:     w3gs.NumSlots,
		GameFlags:      w3gs.GameFlagCustomGame,
		SlotsUsed:      1,
		SlotsAvailable: w3gs.NumSlots - 1,
		GamePort:       uint16(safePort(a.listenerPort())),
	}

	a.mu.Lock()
	a.info = info
	a.mu.Unlock()

	a.broadcaster.SetGame(info)
}

func (a *app) currentGameInfo() *w3gs.GameInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.info
}

func (a *app) currentPlan() *slotplan.LanSlotInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.plan
}

func (a *app) startServices(ctx context.Context) {
	go a.runNodeRegistry(ctx)
	go a.runBroadcaster(ctx)
	go a.runNodeTableRefresh(ctx)
	go a.acceptLoop(ctx)

	if a.responder != nil {
		go a.runResponder(ctx)
	}
}

func (a *app) closeServices() {
	if a.broadcaster != nil {
		_ = a.broadcaster.Close()
	}
	if a.responder != nil {
		_ = a.responder.Close()
	}
	if a.listener != nil {
		_ = a.listener.Close()
	}
}

func (a *app) runNodeRegistry(ctx context.Context) {
	if err := a.nodes.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("node registry error", "error", err)
	}
}

func (a *app) runBroadcaster(ctx context.Context) {
	if err := a.broadcaster.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("LAN broadcaster error", "error", err)
	}
}

func (a *app) runResponder(ctx context.Context) {
	if err := a.responder.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("LAN responder error", "error", err)
	}
}

// runNodeTableRefresh polls the node registry's snapshot and pushes it
// to the TUI. Polling (rather than consuming node.Updates()) leaves
// that single-consumer channel free for a future lobby.State to
// forward pings to a connected controller UI, per spec §4.5.
func (a *app) runNodeTableRefresh(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.program.Send(tui.NodesMsg{Nodes: toNodeRows(a.nodes.List())})
		}
	}
}

func toNodeRows(entries []node.NodeEntry) []tui.NodeRow {
	rows := make([]tui.NodeRow, 0, len(entries))
	for _, e := range entries {
		var pingMs *int64
		if e.CurrentPing != nil {
			ms := e.CurrentPing.Milliseconds()
			pingMs = &ms
		}
		rows = append(rows, tui.NodeRow{NodeID: e.NodeID, Address: e.Address, Region: e.Region, PingMs: pingMs})
	}
	return rows
}

// acceptLoop accepts LAN client connections and bridges each to the
// node selected by the registry, the way proxy/tcp.go's accept loop
// did for a discovered remote game — generalized here to the
// controller-assigned node and the Idle→Closed state machine of
// spec §4.3.
func (a *app) acceptLoop(ctx context.Context) {
	for {
		clientConn, err := a.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("accept bridge connection failed", "error", err)
			continue
		}
		go a.handleBridgeConn(ctx, clientConn)
	}
}

func (a *app) handleBridgeConn(ctx context.Context, clientConn net.Conn) {
	defer func() { _ = clientConn.Close() }()

	nodeID, err := a.nodes.SelectNode("")
	if err != nil {
		slog.Error("no node available for new bridge connection", "error", err)
		return
	}

	entries := a.nodes.List()
	var nodeAddr string
	for _, e := range entries {
		if e.NodeID == nodeID {
			nodeAddr = e.Address
			break
		}
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	nodeConn, err := dialer.DialContext(ctx, "tcp", nodeAddr)
	if err != nil {
		slog.Error("dial node failed", "node", nodeID, "error", err)
		return
	}
	defer func() { _ = nodeConn.Close() }()

	conn := bridge.New(clientConn, nodeConn, a.currentPlan(), a.cfg.BridgeConfig())

	status := tui.BridgeStatus{ClientAddr: clientConn.RemoteAddr().String(), NodeID: nodeID, State: conn.State()}
	a.addBridgeStatus(status)
	defer a.removeBridgeStatus(status.ClientAddr)

	slog.Info("bridge connection started", "client", status.ClientAddr, "node", nodeID)

	if err := conn.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("bridge connection ended", "client", status.ClientAddr, "error", err)
	}
}

func (a *app) addBridgeStatus(s tui.BridgeStatus) {
	a.mu.Lock()
	a.bridges = append(a.bridges, s)
	snapshot := append([]tui.BridgeStatus(nil), a.bridges...)
	a.mu.Unlock()
	a.program.Send(tui.BridgesMsg{Bridges: snapshot})
}

func (a *app) removeBridgeStatus(clientAddr string) {
	a.mu.Lock()
	out := a.bridges[:0]
	for _, b := range a.bridges {
		if b.ClientAddr != clientAddr {
			out = append(out, b)
		}
	}
	a.bridges = out
	snapshot := append([]tui.BridgeStatus(nil), a.bridges...)
	a.mu.Unlock()
	a.program.Send(tui.BridgesMsg{Bridges: snapshot})
}

// tcpDialProbe measures round-trip latency to a node as the connect
// time of a fresh TCP dial. It is the node.Prober this command uses;
// the bridge takes no RTT measurement of its own (bridge.Conn.OnNodeRTT
// is never called by the bridge).
func tcpDialProbe(ctx context.Context, address string) (time.Duration, error) {
	start := time.Now()
	dialer := &net.Dialer{Timeout: 2 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return 0, err
	}
	defer func() { _ = conn.Close() }()
	return time.Since(start), nil
}

type nodeSpec struct {
	id      int32
	address string
	region  string
}

// parseNodeList parses the -nodes flag's "id=address[=region],..."
// entries. Malformed entries are skipped with a warning rather than
// aborting startup.
func parseNodeList(flag string) []nodeSpec {
	var out []nodeSpec
	if flag == "" {
		return out
	}

	for _, entry := range strings.Split(flag, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "=")
		if len(parts) < 2 {
			slog.Warn("ignoring malformed -nodes entry", "entry", entry)
			continue
		}
		id, err := strconv.ParseInt(parts[0], 10, 32)
		if err != nil {
			slog.Warn("ignoring malformed -nodes entry", "entry", entry, "error", err)
			continue
		}
		region := ""
		if len(parts) >= 3 {
			region = parts[2]
		}
		out = append(out, nodeSpec{id: int32(id), address: parts[1], region: region})
	}
	return out
}

func safePort(p int) int {
	if p < 0 || p > 65535 {
		return 0
	}
	return p
}
