package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyUp KeyName = iota
	KeyDown
	KeyLeft  // collapse folder
	KeyRight // expand folder
	KeyEnter
	KeyQuit
	KeyEsc

	KeySelect     // toggle selection under the cursor
	KeySelectAll  // select every visible item on the tab
	KeySelectNone // deselect every item on the tab

	KeyCollapseParent // zoom out: collapse the parent folder

	KeyInstall
	KeyRemove
	KeyDiff
	KeyScope      // toggle user/local scope for MCP installs
	KeySetDefault // set default output style / statusline
	KeyUnset      // clear default output style / statusline
	KeyTheme      // toggle dark/light theme

	KeyTab // cycle category tabs
	KeyTab1
	KeyTab2
	KeyTab3
	KeyTab4
	KeyTab5
	KeyTab6
	KeyTab7
	KeyTab8
	KeyTab9
)

// GlobalKeyStringsMap is a global, immutable map string to keybinding.
var GlobalKeyStringsMap = map[string]KeyName{
	"up":    KeyUp,
	"k":     KeyUp,
	"down":  KeyDown,
	"j":     KeyDown,
	"left":  KeyLeft,
	"h":     KeyLeft,
	"right": KeyRight,
	"l":     KeyRight,
	"enter": KeyEnter,
	"q":     KeyQuit,
	"esc":   KeyEsc,
	" ":     KeySelect,
	"a":     KeySelectAll,
	"n":     KeySelectNone,
	"-":     KeyCollapseParent,
	"i":     KeyInstall,
	"r":     KeyRemove,
	"d":     KeyDiff,
	"s":     KeyScope,
	"o":     KeySetDefault,
	"u":     KeyUnset,
	"t":     KeyTheme,
	"tab":   KeyTab,
	"1":     KeyTab1,
	"2":     KeyTab2,
	"3":     KeyTab3,
	"4":     KeyTab4,
	"5":     KeyTab5,
	"6":     KeyTab6,
	"7":     KeyTab7,
	"8":     KeyTab8,
	"9":     KeyTab9,
}

// GlobalkeyBindings is a global, immutable map of KeyName to keybinding.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	KeyLeft: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "collapse"),
	),
	KeyRight: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "expand"),
	),
	KeyEnter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("↵", "toggle/confirm"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	KeyEsc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	KeySelect: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select"),
	),
	KeySelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all"),
	),
	KeySelectNone: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "none"),
	),
	KeyCollapseParent: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "collapse parent"),
	),
	KeyInstall: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "install"),
	),
	KeyRemove: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "remove"),
	),
	KeyDiff: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "diff"),
	),
	KeyScope: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "scope"),
	),
	KeySetDefault: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "set default"),
	),
	KeyUnset: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "unset default"),
	),
	KeyTheme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	KeyTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab/1-9", "category"),
	),
}
