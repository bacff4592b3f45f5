package app

import (
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kastheco/dotsmith/catalog"
	"github.com/kastheco/dotsmith/config"
	"github.com/kastheco/dotsmith/installer"
	"github.com/kastheco/dotsmith/log"
	"github.com/kastheco/dotsmith/tree"
	"github.com/kastheco/dotsmith/ui"
	"github.com/kastheco/dotsmith/ui/overlay"
)

func readSettingsFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// saveConfigFn is a seam for tests.
var saveConfigFn = config.SaveConfig

// applyScanResult replaces the item list and rebuilds every tab's tree.
// Called for the initial scan and again after the post-processing refresh;
// the trees are rebuilt wholesale, never patched.
func (h *home) applyScanResult(res scanResult) {
	h.configDir = res.configDir
	catalog.AnnotateServers(res.cat.Servers, res.installedServers)
	catalog.AnnotatePlugins(res.cat.Plugins, res.enabledPlugins)

	h.items = buildItems(res.cat)
	h.tabs = buildTabs(h.items)
	if h.activeTab >= len(h.tabs) {
		h.activeTab = 0
	}
}

func buildItems(cat *catalog.Catalog) []item {
	var items []item

	for _, c := range cat.Components {
		it := item{
			work:     installer.FileItem(c),
			selected: c.Selected,
			status:   c.Status,
			path:     c.Name,
			badge:    c.Status.String(),
		}
		switch c.Status {
		case catalog.StatusNew:
			it.badgeKind = ui.BadgeNew
		case catalog.StatusModified:
			it.badgeKind = ui.BadgeModified
		case catalog.StatusManaged:
			it.badgeKind = ui.BadgeManaged
		default:
			it.badgeKind = ui.BadgeUnchanged
		}
		if c.Hook != nil && c.Hook.Description != "" {
			it.docs = c.Hook.Description
		}
		items = append(items, it)
	}

	for _, s := range cat.Servers {
		it := item{
			work:      installer.McpItem(s),
			installed: s.Installed,
			path:      s.Name,
			docs:      s.Docs,
		}
		if s.Category != "" {
			it.path = s.Category + "/" + s.Name
		}
		if s.Installed {
			it.badge = "installed"
			it.badgeKind = ui.BadgeInstalled
		}
		items = append(items, it)
	}

	for _, p := range cat.Plugins {
		it := item{
			work:      installer.PluginItem(p),
			installed: p.Installed,
			path:      p.Name,
			docs:      p.Docs,
		}
		if p.Installed {
			it.badge = "installed"
			it.badgeKind = ui.BadgeInstalled
		}
		items = append(items, it)
	}

	return items
}

// fileTabOrder fixes the tab sequence for file categories.
var fileTabOrder = []catalog.Category{
	catalog.CategoryAgent,
	catalog.CategoryCommand,
	catalog.CategoryContext,
	catalog.CategoryRule,
	catalog.CategorySkill,
	catalog.CategoryOutputStyle,
	catalog.CategoryStatusline,
	catalog.CategoryHook,
	catalog.CategorySettings,
	catalog.CategoryMemory,
}

func buildTabs(items []item) []tabModel {
	byCategory := make(map[catalog.Category][]int)
	var mcpIDs, pluginIDs []int

	for id := range items {
		switch items[id].work.Kind {
		case installer.ItemMcp:
			mcpIDs = append(mcpIDs, id)
		case installer.ItemPlugin:
			pluginIDs = append(pluginIDs, id)
		default:
			cat := items[id].work.File.Category
			byCategory[cat] = append(byCategory[cat], id)
		}
	}

	var tabs []tabModel
	for _, category := range fileTabOrder {
		ids := byCategory[category]
		if len(ids) == 0 {
			continue
		}
		tabs = append(tabs, newTab(category.Title(), tabFiles, ids, items))
	}
	if len(mcpIDs) > 0 {
		tabs = append(tabs, newTab("MCP Servers", tabMcp, mcpIDs, items))
	}
	if len(pluginIDs) > 0 {
		tabs = append(tabs, newTab("Plugins", tabPlugins, pluginIDs, items))
	}
	return tabs
}

func newTab(title string, kind tabKind, ids []int, items []item) tabModel {
	sort.SliceStable(ids, func(a, b int) bool {
		return items[ids[a]].path < items[ids[b]].path
	})
	treeItems := make([]tree.Item, len(ids))
	for i, id := range ids {
		treeItems[i] = tree.Item{ID: id, Path: items[id].path}
	}
	return tabModel{title: title, kind: kind, tree: tree.Build(treeItems), ids: ids}
}

// toggleCurrent flips selection under the cursor. Folders toggle their whole
// subtree all-or-nothing: if every leaf is selected the subtree deselects,
// otherwise it selects.
func (h *home) toggleCurrent() {
	tab := &h.tabs[h.activeTab]
	idx := tab.tree.CurrentIndex()
	if idx < 0 {
		return
	}
	node := tab.tree.Node(idx)
	if !node.IsFolder {
		h.items[node.LeafID].selected = !h.items[node.LeafID].selected
		return
	}

	all := tab.tree.AllSelected(idx, func(id int) bool { return h.items[id].selected })
	for _, id := range tab.tree.LeafIDs(idx) {
		h.items[id].selected = !all
	}
}

func (h *home) selectAll(selected bool) {
	tab := &h.tabs[h.activeTab]
	for _, id := range tab.ids {
		h.items[id].selected = selected
	}
}

// selectedIDs returns the queue candidates across every tab, preserving item
// order: files first, then servers, then plugins.
func (h *home) selectedIDs() []int {
	var ids []int
	for id := range h.items {
		if h.items[id].selected {
			ids = append(ids, id)
		}
	}
	return ids
}

// startProcessing validates preconditions for the chosen direction and either
// enters a prompt sub-state (missing secrets, missing project path) or kicks
// off the dispatcher.
func (h *home) startProcessing(dir installer.Direction) tea.Cmd {
	ids := h.selectedIDs()
	if len(ids) == 0 {
		h.statusMsg = "nothing selected"
		return nil
	}

	h.pendingDirection = dir

	if dir == installer.DirInstall {
		if missing := h.missingSecretNames(ids); len(missing) > 0 {
			h.pendingSecrets = missing
			return h.promptNextSecret()
		}
		if h.needsProjectPath(ids) {
			return h.promptProjectPath()
		}
	}

	return h.beginQueue(ids, dir)
}

// missingSecretNames collects, in definition order, every env var required by
// a selected server that is absent from both the collected set and the
// process environment.
func (h *home) missingSecretNames(ids []int) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, id := range ids {
		it := &h.items[id]
		if it.work.Kind != installer.ItemMcp {
			continue
		}
		for _, name := range installer.MissingSecrets(&it.work.Server, h.secrets, os.LookupEnv) {
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
		}
	}
	return missing
}

func (h *home) needsProjectPath(ids []int) bool {
	if h.scope != catalog.ScopeLocal || h.projectDir != "" {
		return false
	}
	for _, id := range ids {
		if h.items[id].work.Kind == installer.ItemMcp {
			return true
		}
	}
	return false
}

// promptNextSecret shows the masked input for the next outstanding secret,
// one variable at a time.
func (h *home) promptNextSecret() tea.Cmd {
	name := h.pendingSecrets[0]
	h.prompt = overlay.NewTextInputOverlay("Enter value for "+name, "", "", true)
	h.prompt.Hint = "required by a selected MCP server"
	h.prompt.SetWidth(h.width / 2)
	h.state = stateSecretPrompt
	return nil
}

// handleSecretSubmitted stores the collected value and continues the chain:
// next secret, then the project-path check, then processing.
func (h *home) handleSecretSubmitted() tea.Cmd {
	name := h.pendingSecrets[0]
	h.secrets[name] = h.prompt.Value()
	h.pendingSecrets = h.pendingSecrets[1:]
	h.prompt = nil

	if len(h.pendingSecrets) > 0 {
		return h.promptNextSecret()
	}

	ids := h.selectedIDs()
	if h.pendingDirection == installer.DirInstall && h.needsProjectPath(ids) {
		return h.promptProjectPath()
	}
	h.state = stateList
	return h.beginQueue(ids, h.pendingDirection)
}

func (h *home) promptProjectPath() tea.Cmd {
	h.prompt = overlay.NewTextInputOverlay("Project directory for local scope", "/path/to/project", h.projectDir, false)
	h.prompt.SetWidth(h.width / 2)
	h.state = statePathPrompt
	return nil
}

func (h *home) handlePathSubmitted() tea.Cmd {
	h.projectDir = h.prompt.Value()
	h.prompt = nil
	if h.projectDir == "" {
		// Empty path cannot satisfy local scope; fall back to user scope.
		h.scope = catalog.ScopeUser
	}
	h.state = stateList
	return h.beginQueue(h.selectedIDs(), h.pendingDirection)
}

// cancelPrompt abandons the prompt chain. Cancelling the path prompt also
// reverts the scope to user, since local scope cannot proceed without a path.
func (h *home) cancelPrompt() {
	if h.state == statePathPrompt {
		h.scope = catalog.ScopeUser
	}
	h.prompt = nil
	h.pendingSecrets = nil
	h.state = stateList
}

// beginQueue seeds the dispatcher and enters the processing state.
func (h *home) beginQueue(ids []int, dir installer.Direction) tea.Cmd {
	h.queue = append([]int(nil), ids...)
	h.direction = dir
	h.progressDone = 0
	h.progressTotal = len(ids)
	h.logLines = nil
	h.procComplete = false
	h.refreshing = false
	h.state = stateProcessing
	return h.dispatchNext()
}

// openDiff computes and shows the diff for the file component under the
// cursor. Non-file items have no diff surface.
func (h *home) openDiff() {
	tab := &h.tabs[h.activeTab]
	idx := tab.tree.CurrentIndex()
	if idx < 0 {
		return
	}
	node := tab.tree.Node(idx)
	if node.IsFolder {
		return
	}
	it := &h.items[node.LeafID]
	if it.work.Kind != installer.ItemFile {
		return
	}

	c := &it.work.File
	lines, err := installer.Diff(c.Source, c.Dest, c.Name)
	if err != nil {
		log.ErrorLog.Printf("diff %s: %v", c.Name, err)
		h.statusMsg = "diff failed: " + err.Error()
		return
	}

	h.diffName = c.Name
	h.diffView.SetContent(h.styles.RenderDiff(lines, h.width))
	h.diffView.GotoTop()
	h.state = stateDiff
}

// setDefaultCurrent claims the output style or statusline under the cursor as
// the settings.json default, overriding any existing choice.
func (h *home) setDefaultCurrent() {
	it := h.currentFileItem()
	if it == nil {
		return
	}
	c := &it.work.File

	var err error
	switch c.Category {
	case catalog.CategoryOutputStyle:
		err = installer.SetOutputStyle(h.settingsPath(), styleDisplayName(c.Name), false)
	case catalog.CategoryStatusline:
		err = installer.SetStatusline(h.settingsPath(), c.Name, h.cli, false)
	default:
		return
	}

	if err != nil {
		log.ErrorLog.Printf("set default %s: %v", c.Name, err)
		h.statusMsg = "set default failed: " + err.Error()
		return
	}
	h.statusMsg = "default set to " + c.Name
}

// unsetDefaultCurrent clears the default claimed by the item under the cursor.
func (h *home) unsetDefaultCurrent() {
	it := h.currentFileItem()
	if it == nil {
		return
	}
	c := &it.work.File

	var err error
	switch c.Category {
	case catalog.CategoryOutputStyle:
		err = installer.UnsetOutputStyle(h.settingsPath(), styleDisplayName(c.Name))
	case catalog.CategoryStatusline:
		err = installer.UnsetStatusline(h.settingsPath(), c.Name)
	default:
		return
	}

	if err != nil {
		log.ErrorLog.Printf("unset default %s: %v", c.Name, err)
		h.statusMsg = "unset default failed: " + err.Error()
		return
	}
	h.statusMsg = "default cleared"
}

func (h *home) currentFileItem() *item {
	if len(h.tabs) == 0 {
		return nil
	}
	tab := &h.tabs[h.activeTab]
	idx := tab.tree.CurrentIndex()
	if idx < 0 {
		return nil
	}
	node := tab.tree.Node(idx)
	if node.IsFolder {
		return nil
	}
	it := &h.items[node.LeafID]
	if it.work.Kind != installer.ItemFile {
		return nil
	}
	return it
}

// toggleTheme flips dark/light, rebuilds styles, and persists the choice.
func (h *home) toggleTheme() {
	theme := h.styles.Theme.Toggle()
	h.styles = ui.NewStyles(theme)
	h.cfg.Theme = theme.Name
	if err := h.saveConfig(); err != nil {
		log.WarningLog.Printf("failed to persist theme: %v", err)
	}
}

func (h *home) saveConfig() error {
	return saveConfigFn(h.cfg)
}

func styleDisplayName(name string) string {
	base := name
	if i := len(base) - len(".md"); i > 0 && base[i:] == ".md" {
		base = base[:i]
	}
	if i := lastSlash(base); i >= 0 {
		base = base[i+1:]
	}
	return base
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
