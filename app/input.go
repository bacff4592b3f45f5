package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kastheco/dotsmith/catalog"
	"github.com/kastheco/dotsmith/installer"
	"github.com/kastheco/dotsmith/keys"
)

func (h *home) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch h.state {
	case stateSecretPrompt, statePathPrompt:
		return h.handlePromptKey(msg)
	case stateProcessing:
		return h.handleProcessingKey(msg)
	case stateDiff:
		return h.handleDiffKey(msg)
	case stateCliChoice:
		return h.handleChoiceKey(msg)
	case stateLoading:
		// Background scan in progress; only quit is honored.
		if name, ok := keys.GlobalKeyStringsMap[msg.String()]; ok && name == keys.KeyQuit {
			return h, tea.Quit
		}
		return h, nil
	default:
		return h.handleListKey(msg)
	}
}

func (h *home) handleChoiceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return h, nil
	}
	switch name {
	case keys.KeyUp:
		if h.cliCursor > 0 {
			h.cliCursor--
		}
	case keys.KeyDown:
		if h.cliCursor < 1 {
			h.cliCursor++
		}
	case keys.KeyEnter:
		h.cli = catalog.TargetCli(h.cliCursor)
		h.statusMsg = ""
		h.state = stateLoading
		return h, h.scanCmd(h.cli)
	case keys.KeyQuit:
		return h, tea.Quit
	}
	return h, nil
}

func (h *home) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return h, nil
	}
	if len(h.tabs) == 0 {
		if name == keys.KeyQuit {
			return h, tea.Quit
		}
		return h, nil
	}

	h.statusMsg = ""
	tab := &h.tabs[h.activeTab]

	switch name {
	case keys.KeyQuit:
		return h, tea.Quit
	case keys.KeyUp:
		tab.tree.Prev()
	case keys.KeyDown:
		tab.tree.Next()
	case keys.KeyRight:
		tab.tree.Expand()
	case keys.KeyLeft:
		tab.tree.Collapse()
	case keys.KeyCollapseParent:
		tab.tree.CollapseParent()
	case keys.KeyEnter:
		h.handleEnterOnList(tab)
	case keys.KeySelect:
		h.toggleCurrent()
	case keys.KeySelectAll:
		h.selectAll(true)
	case keys.KeySelectNone:
		h.selectAll(false)
	case keys.KeyInstall:
		return h, h.startProcessing(installer.DirInstall)
	case keys.KeyRemove:
		return h, h.startProcessing(installer.DirRemove)
	case keys.KeyDiff:
		h.openDiff()
	case keys.KeyScope:
		if h.scope == catalog.ScopeUser {
			h.scope = catalog.ScopeLocal
		} else {
			h.scope = catalog.ScopeUser
		}
	case keys.KeySetDefault:
		h.setDefaultCurrent()
	case keys.KeyUnset:
		h.unsetDefaultCurrent()
	case keys.KeyTheme:
		h.toggleTheme()
	case keys.KeyTab:
		h.activeTab = (h.activeTab + 1) % len(h.tabs)
	default:
		if idx, ok := tabDigit(name); ok && idx < len(h.tabs) {
			h.activeTab = idx
		}
	}
	return h, nil
}

// handleEnterOnList toggles folders open/closed and selection on leaves.
func (h *home) handleEnterOnList(tab *tabModel) {
	idx := tab.tree.CurrentIndex()
	if idx < 0 {
		return
	}
	if tab.tree.Node(idx).IsFolder {
		tab.tree.ToggleExpand()
		return
	}
	h.toggleCurrent()
}

func (h *home) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if h.prompt == nil {
		h.state = stateList
		return h, nil
	}
	if !h.prompt.HandleKeyPress(msg) {
		return h, nil
	}

	if h.prompt.Canceled {
		h.cancelPrompt()
		return h, nil
	}

	if h.state == stateSecretPrompt {
		return h, h.handleSecretSubmitted()
	}
	return h, h.handlePathSubmitted()
}

func (h *home) handleProcessingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if !ok {
		return h, nil
	}
	switch name {
	case keys.KeyEsc:
		h.requestCancel()
	case keys.KeyEnter, keys.KeyQuit:
		// The processing view refuses dismissal until the queue has
		// drained and the refresh pass has been applied.
		if h.procComplete {
			h.state = stateList
		}
	}
	return h, nil
}

func (h *home) handleDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name, ok := keys.GlobalKeyStringsMap[msg.String()]
	if ok {
		switch name {
		case keys.KeyEsc, keys.KeyQuit, keys.KeyDiff:
			h.state = stateList
			return h, nil
		}
	}
	var cmd tea.Cmd
	h.diffView, cmd = h.diffView.Update(msg)
	return h, cmd
}

func tabDigit(name keys.KeyName) (int, bool) {
	if name >= keys.KeyTab1 && name <= keys.KeyTab9 {
		return int(name - keys.KeyTab1), true
	}
	return 0, false
}
