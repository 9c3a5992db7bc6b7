package app

import (
	"github.com/kayz/promptsmith/internal/promptbuild"
	"github.com/kayz/promptsmith/internal/settings"
)

// SelectionFromRecord restores the selection saved in rec. Mode is applied
// before draft, so a record holding both Niji and draft comes back as
// Standard with draft on.
func SelectionFromRecord(rec settings.Record) promptbuild.Selection {
	rec = rec.Clone()
	rec.Normalize()

	sel := promptbuild.Selection{
		Text:         rec.SelectedText,
		Style:        rec.Style,
		NoPeople:     rec.Checked(settings.CheckNoPeople),
		TShirtVector: rec.Checked(settings.CheckTShirtVector),
		LogoVector:   rec.Checked(settings.CheckLogoVector),
		Stylize:      promptbuild.Stylize(rec.RadioStylize),
		Chaos:        promptbuild.Chaos(rec.RadioChaos),
		Advanced:     rec.Advanced,
	}
	sel.Repeat, _ = promptbuild.ParseRepeat(rec.Repeat)
	sel.SetMode(promptbuild.Mode(rec.RadioMode))
	sel.SetDraft(rec.Checked(settings.CheckDraft))
	return sel
}

// CaptureRecord writes sel and the chosen category into a copy of rec. Window
// geometry, theme and interval are left as they are.
func CaptureRecord(rec settings.Record, sel promptbuild.Selection, category string) settings.Record {
	rec = rec.Clone()
	rec.SelectedText = sel.Text
	rec.Dropdown = category
	rec.Style = sel.Style
	rec.RadioMode = int(sel.Mode())
	rec.RadioStylize = int(sel.Stylize)
	rec.RadioChaos = int(sel.Chaos)
	rec.Repeat = sel.Repeat.String()
	rec.Advanced = sel.Advanced
	rec.SetChecked(settings.CheckNoPeople, sel.NoPeople)
	rec.SetChecked(settings.CheckTShirtVector, sel.TShirtVector)
	rec.SetChecked(settings.CheckLogoVector, sel.LogoVector)
	rec.SetChecked(settings.CheckDraft, sel.Draft())
	rec.Normalize()
	return rec
}
