package promptbuild

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var aspectRatioPattern = regexp.MustCompile(`^[1-9][0-9]*:[1-9][0-9]*$`)

// LoadRequest reads a YAML (or JSON) request file.
func LoadRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("read request file %s: %w", path, err)
	}
	return ParseRequest(data)
}

// ParseRequest decodes a YAML or JSON request document.
func ParseRequest(data []byte) (Request, error) {
	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("parse request: %w", err)
	}
	return req, nil
}

// Selection validates the request and converts it. Mode is applied before
// draft, so a request asking for both Niji and draft ends up Standard+draft.
func (r Request) Selection() (Selection, error) {
	if err := validateRequest(r); err != nil {
		return Selection{}, err
	}

	sel := Selection{
		Text:         r.Text,
		Style:        strings.TrimSpace(r.Style),
		NoPeople:     r.NoPeople,
		TShirtVector: r.TShirtVector,
		LogoVector:   r.LogoVector,
		Advanced: Advanced{
			AspectRatio: strings.TrimSpace(r.Advanced.AspectRatio),
			Quality:     strings.TrimSpace(r.Advanced.Quality),
			Seed:        strings.TrimSpace(r.Advanced.Seed),
			Weird:       r.Advanced.Weird,
		},
	}

	mode, _ := ParseMode(r.Mode)
	sel.SetMode(mode)
	sel.SetDraft(r.Draft)

	if r.Stylize != nil {
		sel.Stylize, _ = StylizeFromValue(*r.Stylize)
	}
	if r.Chaos != nil {
		sel.Chaos, _ = ChaosFromValue(*r.Chaos)
	}
	sel.Repeat, _ = ParseRepeat(r.Repeat)

	return sel, nil
}

func validateRequest(r Request) error {
	if _, err := ParseMode(r.Mode); err != nil {
		return err
	}
	if r.Stylize != nil {
		if _, err := StylizeFromValue(*r.Stylize); err != nil {
			return err
		}
	}
	if r.Chaos != nil {
		if _, err := ChaosFromValue(*r.Chaos); err != nil {
			return err
		}
	}
	if _, err := ParseRepeat(r.Repeat); err != nil {
		return err
	}

	adv := r.Advanced
	if ar := strings.TrimSpace(adv.AspectRatio); ar != "" && !aspectRatioPattern.MatchString(ar) {
		return fmt.Errorf("invalid aspect ratio %q (want W:H)", adv.AspectRatio)
	}
	if q := strings.TrimSpace(adv.Quality); q != "" && !slices.Contains(Qualities, q) {
		return fmt.Errorf("invalid quality %q (want one of %s)", adv.Quality, strings.Join(Qualities, ", "))
	}
	if seed := strings.TrimSpace(adv.Seed); seed != "" {
		if strings.ContainsFunc(seed, func(r rune) bool { return r < '0' || r > '9' }) {
			return fmt.Errorf("invalid seed %q: must be a non-negative integer", adv.Seed)
		}
	}
	if adv.Weird < 0 || adv.Weird > MaxWeird {
		return fmt.Errorf("invalid weird %d (want 0..%d)", adv.Weird, MaxWeird)
	}
	return nil
}
