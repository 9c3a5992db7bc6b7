// Package settings persists the session record: the last selection, window
// geometry, theme and autosave interval.
package settings

import (
	"maps"
	"slices"
	"strings"

	"github.com/kayz/promptsmith/internal/promptbuild"
)

const (
	DefaultWindowWidth      = 900
	DefaultWindowHeight     = 600
	DefaultTheme            = "dark"
	DefaultAutoSaveInterval = 10000 // milliseconds

	MaxMode    = 2
	MaxStylize = 5
	MaxChaos   = 4
)

// Check variable keys, as stored under check_vars.
const (
	CheckNoPeople     = "1"
	CheckTShirtVector = "2"
	CheckLogoVector   = "3"
	CheckDraft        = "4"
)

// Themes lists the known theme names.
var Themes = []string{"dark", "light", "matrix"}

// Record is the persisted session record. JSON names match files written by
// earlier releases.
type Record struct {
	SelectedText     string               `json:"selected_text"`
	Dropdown         string               `json:"dropdown"`
	Style            string               `json:"style,omitempty"`
	RadioMode        int                  `json:"radioMode"`
	RadioStylize     int                  `json:"radioStylize"`
	RadioChaos       int                  `json:"radioChaos"`
	Repeat           string               `json:"repeat,omitempty"`
	CheckVars        map[string]int       `json:"check_vars"`
	Advanced         promptbuild.Advanced `json:"advanced"`
	WindowX          int                  `json:"window_x"`
	WindowY          int                  `json:"window_y"`
	WindowWidth      int                  `json:"window_width"`
	WindowHeight     int                  `json:"window_height"`
	Theme            string               `json:"theme"`
	AutoSaveInterval int                  `json:"auto_save_interval"`
}

// Default returns the hardcoded defaults.
func Default() Record {
	return Record{
		CheckVars:        defaultCheckVars(),
		WindowWidth:      DefaultWindowWidth,
		WindowHeight:     DefaultWindowHeight,
		Theme:            DefaultTheme,
		AutoSaveInterval: DefaultAutoSaveInterval,
	}
}

func defaultCheckVars() map[string]int {
	return map[string]int{CheckNoPeople: 0, CheckTShirtVector: 0, CheckLogoVector: 0, CheckDraft: 0}
}

// Checked reports whether the check variable key is on.
func (r Record) Checked(key string) bool {
	return r.CheckVars[key] != 0
}

// SetChecked stores a check variable as 0 or 1.
func (r *Record) SetChecked(key string, on bool) {
	if r.CheckVars == nil {
		r.CheckVars = defaultCheckVars()
	}
	v := 0
	if on {
		v = 1
	}
	r.CheckVars[key] = v
}

// Normalize fills empty fields with defaults and clamps enumerated fields into
// range.
func (r *Record) Normalize() {
	r.RadioMode = clamp(r.RadioMode, 0, MaxMode)
	r.RadioStylize = clamp(r.RadioStylize, 0, MaxStylize)
	r.RadioChaos = clamp(r.RadioChaos, 0, MaxChaos)

	checks := defaultCheckVars()
	for k, v := range r.CheckVars {
		if _, known := checks[k]; known && v != 0 {
			checks[k] = 1
		}
	}
	r.CheckVars = checks

	if _, err := promptbuild.ParseRepeat(r.Repeat); err != nil {
		r.Repeat = ""
	}
	r.Theme = strings.ToLower(strings.TrimSpace(r.Theme))
	if !slices.Contains(Themes, r.Theme) {
		r.Theme = DefaultTheme
	}
	if r.WindowWidth <= 0 {
		r.WindowWidth = DefaultWindowWidth
	}
	if r.WindowHeight <= 0 {
		r.WindowHeight = DefaultWindowHeight
	}
	if r.AutoSaveInterval <= 0 {
		r.AutoSaveInterval = DefaultAutoSaveInterval
	}
}

// Clone returns a copy that shares no map with r.
func (r Record) Clone() Record {
	r.CheckVars = maps.Clone(r.CheckVars)
	return r
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
