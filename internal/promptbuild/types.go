package promptbuild

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the model family flag.
type Mode int

const (
	ModeUnset Mode = iota
	ModeNiji
	ModeStandard
)

var modeNames = [...]string{"", "niji", "standard"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts "", "niji" and "standard" (also "v7"), case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset", "none":
		return ModeUnset, nil
	case "niji":
		return ModeNiji, nil
	case "standard", "v7", "midjourney":
		return ModeStandard, nil
	}
	return ModeUnset, fmt.Errorf("unknown mode %q (want niji or standard)", s)
}

// Stylize is the stylize radio index; 0 means unset. The index is what the
// configuration record stores.
type Stylize int

const (
	StylizeUnset Stylize = iota
	Stylize0
	Stylize250
	Stylize500
	Stylize750
	Stylize1000
)

var stylizeValues = [...]int{0, 0, 250, 500, 750, 1000}

// Value returns the numeric stylize level and whether one is set.
func (s Stylize) Value() (int, bool) {
	if s <= StylizeUnset || int(s) >= len(stylizeValues) {
		return 0, false
	}
	return stylizeValues[s], true
}

// StylizeFromValue maps a numeric level (0, 250, 500, 750, 1000) to its index.
func StylizeFromValue(v int) (Stylize, error) {
	for i := 1; i < len(stylizeValues); i++ {
		if stylizeValues[i] == v {
			return Stylize(i), nil
		}
	}
	return StylizeUnset, fmt.Errorf("invalid stylize %d (want 0, 250, 500, 750 or 1000)", v)
}

// Chaos is the chaos radio index; 0 means unset.
type Chaos int

const (
	ChaosUnset Chaos = iota
	Chaos0
	Chaos25
	Chaos50
	Chaos100
)

var chaosValues = [...]int{0, 0, 25, 50, 100}

// Value returns the numeric chaos level and whether one is set.
func (c Chaos) Value() (int, bool) {
	if c <= ChaosUnset || int(c) >= len(chaosValues) {
		return 0, false
	}
	return chaosValues[c], true
}

// ChaosFromValue maps a numeric level (0, 25, 50, 100) to its index.
func ChaosFromValue(v int) (Chaos, error) {
	for i := 1; i < len(chaosValues); i++ {
		if chaosValues[i] == v {
			return Chaos(i), nil
		}
	}
	return ChaosUnset, fmt.Errorf("invalid chaos %d (want 0, 25, 50 or 100)", v)
}

// Repeat is the job repeat count; RepeatNone means no flag.
type Repeat int

const (
	RepeatNone Repeat = 0
	Repeat3    Repeat = 3
	Repeat6    Repeat = 6
	Repeat10   Repeat = 10
)

func (r Repeat) String() string {
	if r == RepeatNone {
		return "none"
	}
	return strconv.Itoa(int(r))
}

// ParseRepeat accepts "none", "", "3", "6" or "10".
func ParseRepeat(s string) (Repeat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "0":
		return RepeatNone, nil
	case "3":
		return Repeat3, nil
	case "6":
		return Repeat6, nil
	case "10":
		return Repeat10, nil
	}
	return RepeatNone, fmt.Errorf("invalid repeat %q (want none, 3, 6 or 10)", s)
}

const (
	DefaultAspectRatio = "7:4"
	DefaultQuality     = "1"
	MaxWeird           = 3000
)

// Qualities lists the accepted quality values.
var Qualities = []string{"0.25", "0.5", "1", "2"}

// Advanced holds free-form parameter overrides. Empty strings mean "use the
// default" and Weird <= 0 means absent.
type Advanced struct {
	AspectRatio string `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty"`
	Quality     string `json:"quality,omitempty" yaml:"quality,omitempty"`
	Seed        string `json:"seed,omitempty" yaml:"seed,omitempty"`
	Weird       int    `json:"weird,omitempty" yaml:"weird,omitempty"`
}

// Selection is the full set of user choices that a prompt is assembled from.
//
// Mode and draft are only reachable through SetMode and SetDraft so that the
// pair (ModeNiji, draft) can never be held at the same time.
type Selection struct {
	Text         string
	Style        string
	NoPeople     bool
	TShirtVector bool
	LogoVector   bool
	Stylize      Stylize
	Chaos        Chaos
	Repeat       Repeat
	Advanced     Advanced

	mode  Mode
	draft bool
}

func (s Selection) Mode() Mode  { return s.mode }
func (s Selection) Draft() bool { return s.draft }

// DraftAllowed reports whether the draft toggle may be switched on without
// changing the mode. It is false while Niji is selected.
func (s Selection) DraftAllowed() bool { return s.mode != ModeNiji }

// NijiAllowed reports whether Niji may be selected without clearing draft.
func (s Selection) NijiAllowed() bool { return !s.draft }

type changedField int

const (
	changedMode changedField = iota
	changedDraft
)

// SetMode sets the mode. Choosing Niji clears draft.
func (s *Selection) SetMode(m Mode) {
	s.mode = m
	s.normalize(changedMode)
}

// SetDraft sets the draft toggle. Turning it on forces the mode to Standard.
func (s *Selection) SetDraft(on bool) {
	s.draft = on
	s.normalize(changedDraft)
}

// normalize is the single guard run after every mode/draft write. The field
// written last wins the Niji/draft conflict.
func (s *Selection) normalize(changed changedField) {
	switch {
	case changed == changedDraft && s.draft:
		s.mode = ModeStandard
	case s.mode == ModeNiji && s.draft:
		s.draft = false
	}
}

// Parameters snapshots the discrete fields for history records.
func (s Selection) Parameters() map[string]any {
	return map[string]any{
		"mode":          int(s.mode),
		"stylize":       int(s.Stylize),
		"chaos":         int(s.Chaos),
		"repeat":        s.Repeat.String(),
		"no_people":     s.NoPeople,
		"tshirt_vector": s.TShirtVector,
		"logo_vector":   s.LogoVector,
		"draft":         s.draft,
	}
}
