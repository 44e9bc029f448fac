package render

// Style describes one named highlight: foreground/background colors plus
// attribute flags. Hosts translate these into their own highlight mechanism
// (Neovim highlight groups, lipgloss styles in the preview).
type Style struct {
	Fg     string `yaml:"fg" toml:"fg" mapstructure:"fg"`
	Bg     string `yaml:"bg" toml:"bg" mapstructure:"bg"`
	Bold   bool   `yaml:"bold" toml:"bold" mapstructure:"bold"`
	Italic bool   `yaml:"italic" toml:"italic" mapstructure:"italic"`
}

// Style names emitted in spans. Hosts register a definition for each.
const (
	StyleModeNormal   = "StatlineModeNormal"
	StyleModeInsert   = "StatlineModeInsert"
	StyleModeVisual   = "StatlineModeVisual"
	StyleModeCommand  = "StatlineModeCommand"
	StyleModeReplace  = "StatlineModeReplace"
	StyleModeOperator = "StatlineModeOperator"
	StyleModeTerminal = "StatlineModeTerminal"
	StyleModeOther    = "StatlineModeOther"

	StyleFile     = "StatlineFile"
	StyleBranch   = "StatlineBranch"
	StyleProgress = "StatlineProgress"
	StyleMessage  = "StatlineMessage"
	StylePosition = "StatlinePosition"
	StyleInactive = "StatlineInactive"

	StyleDiagError = "StatlineDiagError"
	StyleDiagWarn  = "StatlineDiagWarn"
	StyleDiagInfo  = "StatlineDiagInfo"
	StyleDiagHint  = "StatlineDiagHint"

	// StyleSpacer is not a highlight: it marks the flexible gap between the
	// left and right segment groups. Encoders translate it into the host's
	// own separator construct.
	StyleSpacer = "StatlineSpacer"
)

// DefaultStyles returns the built-in style table. Mode colors follow the
// conventional modal-editor palette: blue normal, green insert, magenta
// visual, yellow command, red replace, cyan operator-pending.
func DefaultStyles() map[string]Style {
	return map[string]Style{
		StyleModeNormal:   {Fg: "#ffffff", Bg: "#005f87", Bold: true},
		StyleModeInsert:   {Fg: "#000000", Bg: "#5faf5f", Bold: true},
		StyleModeVisual:   {Fg: "#ffffff", Bg: "#af5faf", Bold: true},
		StyleModeCommand:  {Fg: "#000000", Bg: "#d7af5f", Bold: true},
		StyleModeReplace:  {Fg: "#ffffff", Bg: "#d75f5f", Bold: true},
		StyleModeOperator: {Fg: "#000000", Bg: "#5fafd7", Bold: true},
		StyleModeTerminal: {Fg: "#000000", Bg: "#5faf87", Bold: true},
		StyleModeOther:    {Fg: "#ffffff", Bg: "#6c6c6c", Bold: true},

		StyleFile:     {Fg: "#e4e4e4", Bg: "#3a3a3a"},
		StyleBranch:   {Fg: "#afaf87", Bg: "#3a3a3a"},
		StyleProgress: {Fg: "#87afd7", Bg: "#3a3a3a", Italic: true},
		StyleMessage:  {Fg: "#d7d787", Bg: "#3a3a3a"},
		StylePosition: {Fg: "#e4e4e4", Bg: "#4e4e4e"},
		StyleInactive: {Fg: "#8a8a8a", Bg: "#303030"},

		StyleDiagError: {Fg: "#ff5f5f", Bg: "#3a3a3a", Bold: true},
		StyleDiagWarn:  {Fg: "#d7af00", Bg: "#3a3a3a"},
		StyleDiagInfo:  {Fg: "#5fafd7", Bg: "#3a3a3a"},
		StyleDiagHint:  {Fg: "#87875f", Bg: "#3a3a3a"},
	}
}

// modeEntry pairs a mode label with its style name.
type modeEntry struct {
	label string
	style string
}

// modeTable maps host mode identifiers to display entries. Keys cover both
// short codes (as Neovim reports them) and spelled-out names.
var modeTable = map[string]modeEntry{
	"n":        {"NORMAL", StyleModeNormal},
	"normal":   {"NORMAL", StyleModeNormal},
	"i":        {"INSERT", StyleModeInsert},
	"insert":   {"INSERT", StyleModeInsert},
	"v":        {"VISUAL", StyleModeVisual},
	"visual":   {"VISUAL", StyleModeVisual},
	"V":        {"V-LINE", StyleModeVisual},
	"\x16":     {"V-BLOCK", StyleModeVisual},
	"s":        {"SELECT", StyleModeVisual},
	"c":        {"COMMAND", StyleModeCommand},
	"command":  {"COMMAND", StyleModeCommand},
	"R":        {"REPLACE", StyleModeReplace},
	"replace":  {"REPLACE", StyleModeReplace},
	"no":       {"OP-PENDING", StyleModeOperator},
	"t":        {"TERMINAL", StyleModeTerminal},
	"terminal": {"TERMINAL", StyleModeTerminal},
}

// ModeDisplay resolves a host mode identifier to its label and style name.
// Unknown modes fall back to the raw identifier in the default mode style.
func ModeDisplay(mode string) (label, style string) {
	if e, ok := modeTable[mode]; ok {
		return e.label, e.style
	}
	// Neovim appends detail suffixes ("niI", "nov", ...); match the leading
	// code before giving up.
	if len(mode) > 1 {
		if e, ok := modeTable[mode[:1]]; ok {
			return e.label, e.style
		}
	}
	if mode == "" {
		return "???", StyleModeOther
	}
	return mode, StyleModeOther
}
