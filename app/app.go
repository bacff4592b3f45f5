package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kastheco/dotsmith/catalog"
	"github.com/kastheco/dotsmith/config"
	"github.com/kastheco/dotsmith/config/history"
	"github.com/kastheco/dotsmith/installer"
	"github.com/kastheco/dotsmith/log"
	"github.com/kastheco/dotsmith/tree"
	"github.com/kastheco/dotsmith/ui"
	"github.com/kastheco/dotsmith/ui/overlay"
)

// state is the interaction mode. Transitions:
// stateCliChoice → stateLoading → stateList ⇄ {stateDiff, stateSecretPrompt,
// statePathPrompt, stateProcessing}.
type state int

const (
	stateCliChoice state = iota
	stateLoading
	stateList
	stateDiff
	stateSecretPrompt
	statePathPrompt
	stateProcessing
)

// item is one installable artifact with its UI-owned selection state. The
// embedded work item is a self-contained value; when an item is queued, the
// work item alone crosses into the execution goroutine.
type item struct {
	work      installer.WorkItem
	selected  bool
	installed bool
	status    catalog.Status
	path      string // slash path within its tab's tree
	badge     string
	badgeKind ui.BadgeKind
	docs      string
}

// tabKind distinguishes file-category tabs from the MCP and plugin tabs.
type tabKind int

const (
	tabFiles tabKind = iota
	tabMcp
	tabPlugins
)

// tabModel is one category tab: its tree plus the ids of the items in it.
type tabModel struct {
	title string
	kind  tabKind
	tree  *tree.Tree
	ids   []int
}

// home is the application model. All mutable state lives here, owned by the
// bubbletea update loop; background goroutines only send messages.
type home struct {
	ctx  context.Context
	cfg  *config.Config
	hist history.Logger

	state  state
	styles *ui.Styles

	width  int
	height int

	// target selection
	cli       catalog.TargetCli
	cliCursor int

	// scan results
	items     []item
	tabs      []tabModel
	activeTab int
	configDir string
	sourceDir string

	// install configuration
	scope      catalog.Scope
	projectDir string
	secrets    map[string]string

	// prompt flow
	prompt           *overlay.TextInputOverlay
	pendingSecrets   []string
	pendingDirection installer.Direction

	// processing
	queue         []int
	direction     installer.Direction
	inflight      bool
	inflightID    int
	inflightLabel string
	cancelCh      chan struct{}
	cancelSent    bool
	progressDone  int
	progressTotal int
	logLines      []ui.LogLine
	refreshing    bool
	procComplete  bool

	// diff view
	diffView viewport.Model
	diffName string

	spinner   spinner.Model
	statusMsg string
	err       error
}

func newHome(ctx context.Context, cfg *config.Config, hist history.Logger) *home {
	styles := ui.NewStyles(ui.ForName(cfg.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Theme.Foam)

	sourceDir := cfg.SourceDir
	if sourceDir == "" {
		if cwd, err := filepath.Abs("."); err == nil {
			sourceDir = cwd
		} else {
			sourceDir = "."
		}
	}

	h := &home{
		ctx:        ctx,
		cfg:        cfg,
		hist:       hist,
		state:      stateCliChoice,
		styles:     styles,
		spinner:    sp,
		sourceDir:  sourceDir,
		scope:      catalog.ScopeUser,
		projectDir: cfg.ProjectDir,
		secrets:    make(map[string]string),
	}

	if cfg.DefaultCli != "" {
		if cli, err := catalog.ParseTargetCli(cfg.DefaultCli); err == nil {
			h.cliCursor = int(cli)
		}
	}
	return h
}

// Run starts the interactive installer.
func Run(ctx context.Context, cfg *config.Config, hist history.Logger) error {
	p := tea.NewProgram(newHome(ctx, cfg, hist), tea.WithAltScreen())
	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("installer UI failed: %w", err)
	}
	return nil
}

func (h *home) Init() tea.Cmd {
	return h.spinner.Tick
}

func (h *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
		h.diffView.Width = msg.Width
		h.diffView.Height = msg.Height - 3
		if h.prompt != nil {
			h.prompt.SetWidth(msg.Width / 2)
		}
		return h, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return h, cmd

	case scanDoneMsg:
		return h.handleScanDone(msg)

	case taskDoneMsg:
		return h.handleTaskDone(msg)

	case refreshDoneMsg:
		return h.handleRefreshDone(msg)

	case tea.KeyMsg:
		return h.handleKey(msg)
	}

	return h, nil
}

func (h *home) View() string {
	switch h.state {
	case stateCliChoice:
		return h.viewCliChoice()
	case stateLoading:
		return h.viewLoading()
	case stateDiff:
		return h.viewDiff()
	case stateSecretPrompt, statePathPrompt:
		return h.viewPrompt()
	case stateProcessing:
		return h.viewProcessing()
	default:
		return h.viewList()
	}
}

func (h *home) viewCliChoice() string {
	title := h.styles.Title.Render("dotsmith — choose target CLI")
	var rows string
	for i, cli := range []catalog.TargetCli{catalog.CliClaude, catalog.CliCodex} {
		line := "  " + cli.String()
		if i == h.cliCursor {
			line = h.styles.Cursor.Render("> " + cli.String())
		}
		rows += "\n" + line
	}
	help := h.styles.Help.Render("↑/↓ move · enter choose · q quit")
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center,
		title+"\n"+rows+"\n\n"+help)
}

func (h *home) viewLoading() string {
	body := fmt.Sprintf("%s Scanning %s for %s ...", h.spinner.View(), h.sourceDir, h.cli)
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, body)
}

func (h *home) viewList() string {
	if len(h.tabs) == 0 {
		return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center,
			h.styles.Help.Render("nothing to install — check the source directory"))
	}

	titles := make([]string, len(h.tabs))
	for i, t := range h.tabs {
		titles[i] = t.title
	}
	tabBar := h.styles.RenderTabs(titles, h.activeTab, h.width)

	tab := &h.tabs[h.activeTab]
	rows := h.tabRows(tab)
	listHeight := h.height - 4
	list := h.styles.RenderRows(rows, tab.tree.Cursor(), h.width, listHeight)

	status := h.statusLine()
	help := h.styles.Help.Render(
		"space select · a all · n none · i install · r remove · d diff · s scope · o default · t theme · q quit")

	return tabBar + "\n" + list + "\n" + status + "\n" + help
}

func (h *home) statusLine() string {
	scope := "scope: " + h.scope.String()
	if h.scope == catalog.ScopeLocal && h.projectDir != "" {
		scope += " (" + h.projectDir + ")"
	}
	line := fmt.Sprintf("%s · %s · %d selected", h.cli, scope, h.selectedCount())
	if h.statusMsg != "" {
		line += " · " + h.statusMsg
	}
	return h.styles.Help.Render(truncateTo(line, h.width))
}

func (h *home) viewDiff() string {
	header := h.styles.Title.Render("diff: "+h.diffName) + "\n"
	help := "\n" + h.styles.Help.Render("↑/↓ scroll · esc back")
	return header + h.diffView.View() + help
}

func (h *home) viewPrompt() string {
	base := h.viewList()
	if h.prompt == nil {
		return base
	}
	return overlay.Place(h.width, h.height, h.prompt.Render(h.styles))
}

func (h *home) viewProcessing() string {
	spin := h.spinner.View()
	if h.procComplete {
		spin = ""
	}
	body := h.styles.RenderProcessing(spin, h.progressDone, h.progressTotal, h.logLines, h.width, h.height-1)
	if h.refreshing {
		body += "\n" + h.styles.Help.Render(h.spinner.View()+" refreshing catalog ...")
	} else if !h.procComplete {
		body += "\n" + h.styles.Help.Render("esc cancel")
	}
	return body
}

// tabRows projects the tab's visible tree nodes into renderable rows.
func (h *home) tabRows(tab *tabModel) []ui.Row {
	rows := make([]ui.Row, 0, len(tab.tree.Visible()))
	for _, idx := range tab.tree.Visible() {
		node := tab.tree.Node(idx)
		row := ui.Row{
			Depth:    node.Depth,
			IsFolder: node.IsFolder,
			Expanded: node.Expanded,
			Name:     node.Name,
		}
		if !node.IsFolder {
			it := &h.items[node.LeafID]
			row.Selected = it.selected
			row.Badge = it.badge
			row.BadgeKind = it.badgeKind
			row.Docs = it.docs
		}
		rows = append(rows, row)
	}
	return rows
}

func (h *home) selectedCount() int {
	count := 0
	for i := range h.items {
		if h.items[i].selected {
			count++
		}
	}
	return count
}

func (h *home) appendLog(kind ui.LogKind, format string, args ...any) {
	h.logLines = append(h.logLines, ui.LogLine{Kind: kind, Text: fmt.Sprintf(format, args...)})
}

func truncateTo(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	return s[:width]
}

// settingsPath returns the settings.json location inside the target config
// directory.
func (h *home) settingsPath() string {
	return filepath.Join(h.configDir, "settings.json")
}

// env snapshots the ambient configuration for the materializer. Secrets are
// copied so the execution goroutine never shares the live map.
func (h *home) env() installer.Env {
	secrets := make(map[string]string, len(h.secrets))
	for k, v := range h.secrets {
		secrets[k] = v
	}
	for i := range h.items {
		it := &h.items[i]
		if it.work.Kind != installer.ItemMcp {
			continue
		}
		for _, name := range it.work.Server.Env {
			if _, ok := secrets[name]; ok {
				continue
			}
			if val, ok := os.LookupEnv(name); ok && val != "" {
				secrets[name] = val
			}
		}
	}

	return installer.Env{
		Cli:            h.cli,
		Scope:          h.scope,
		ProjectDir:     h.projectDir,
		Secrets:        secrets,
		ConfigDir:      h.configDir,
		SettingsPath:   h.settingsPath(),
		InstallTimeout: time.Duration(h.cfg.InstallTimeoutSecs) * time.Second,
		RemoveTimeout:  time.Duration(h.cfg.RemoveTimeoutSecs) * time.Second,
		QuickTimeout:   time.Duration(h.cfg.QuickTimeoutSecs) * time.Second,
		CleanupTimeout: time.Duration(h.cfg.CleanupTimeoutSecs) * time.Second,
	}
}

func (h *home) emitHistory(kind history.EventKind, it *item, message, detail string, level string) {
	h.hist.Emit(history.NewEvent(kind, h.cli.String(), it.work.Name(), it.work.Kind.String(), message,
		history.WithScope(h.scope.String()),
		history.WithDetail(detail),
		history.WithLevel(level),
	))
	if level == "error" {
		log.ErrorLog.Printf("%s %s: %s", kind, it.work.Name(), detail)
	}
}
