package promptbuild

import (
	"strings"
	"testing"
)

func TestAssembleEmptySelection(t *testing.T) {
	if got := Assemble(Selection{}); got != "" {
		t.Fatalf("expected empty prompt, got %q", got)
	}
	if got := Assemble(Selection{Text: "   \n"}); got != "" {
		t.Fatalf("expected whitespace-only text to assemble to empty, got %q", got)
	}
}

func TestAssembleCityStreetExample(t *testing.T) {
	sel := Selection{
		Text:     "a city street",
		Style:    "Cyberpunk",
		NoPeople: true,
		Stylize:  Stylize500,
	}
	sel.SetMode(ModeNiji)

	want := "a city street, Cyberpunk style, no people, woman, man --s 500 --niji 6 --ar 7:4"
	if got := Assemble(sel); got != want {
		t.Fatalf("Assemble mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestAssembleFullOrder(t *testing.T) {
	sel := Selection{
		Text:         "  robot  ",
		Style:        "Ukiyo-e",
		NoPeople:     true,
		TShirtVector: true,
		LogoVector:   true,
		Stylize:      Stylize1000,
		Chaos:        Chaos25,
		Repeat:       Repeat6,
		Advanced: Advanced{
			AspectRatio: "16:9",
			Quality:     "2",
			Seed:        "1234",
			Weird:       250,
		},
	}
	sel.SetDraft(true)

	want := "robot, Ukiyo-e style" +
		NoPeopleClause + TShirtVectorClause + LogoVectorClause +
		" --draft --s 1000 --c 25 --v 7 --ar 16:9 --q 2 --seed 1234 --weird 250 --repeat 6"
	if got := Assemble(sel); got != want {
		t.Fatalf("Assemble mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestAssembleDefaultsAreOmitted(t *testing.T) {
	sel := Selection{
		Text: "lake",
		Advanced: Advanced{
			AspectRatio: "16:9", // ignored without a mode
			Quality:     DefaultQuality,
			Weird:       0,
		},
	}
	if got := Assemble(sel); got != "lake" {
		t.Fatalf("expected defaults to add nothing, got %q", got)
	}

	sel.SetMode(ModeStandard)
	sel.Advanced.AspectRatio = DefaultAspectRatio
	if got := Assemble(sel); got != "lake --v 7 --ar 7:4" {
		t.Fatalf("unexpected prompt with default aspect ratio: %q", got)
	}
}

func TestAssembleKeepsLeadingSeparatorsWithoutText(t *testing.T) {
	sel := Selection{Style: "Bauhaus", Chaos: Chaos0}
	if got := Assemble(sel); got != ", Bauhaus style --c 0" {
		t.Fatalf("unexpected prompt: %q", got)
	}

	flagsOnly := Selection{Stylize: Stylize0}
	if got := Assemble(flagsOnly); got != " --s 0" {
		t.Fatalf("unexpected flags-only prompt: %q", got)
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	sel := Selection{Text: "x", Style: "y", Chaos: Chaos100, Repeat: Repeat3}
	sel.SetMode(ModeNiji)
	first := Assemble(sel)
	for i := 0; i < 10; i++ {
		if got := Assemble(sel); got != first {
			t.Fatalf("run %d produced %q, want %q", i, got, first)
		}
	}
}

func TestStylizeAndChaosFlags(t *testing.T) {
	stylize := map[Stylize]string{
		Stylize0: "--s 0", Stylize250: "--s 250", Stylize500: "--s 500",
		Stylize750: "--s 750", Stylize1000: "--s 1000",
	}
	for level, flag := range stylize {
		if got := Assemble(Selection{Text: "t", Stylize: level}); !strings.HasSuffix(got, " "+flag) {
			t.Fatalf("stylize %d: got %q, want suffix %q", level, got, flag)
		}
	}

	chaos := map[Chaos]string{Chaos0: "--c 0", Chaos25: "--c 25", Chaos50: "--c 50", Chaos100: "--c 100"}
	for level, flag := range chaos {
		if got := Assemble(Selection{Text: "t", Chaos: level}); !strings.HasSuffix(got, " "+flag) {
			t.Fatalf("chaos %d: got %q, want suffix %q", level, got, flag)
		}
	}
}

func TestModeDraftGuard(t *testing.T) {
	var sel Selection
	sel.SetMode(ModeNiji)
	sel.SetDraft(true)
	if sel.Mode() != ModeStandard || !sel.Draft() {
		t.Fatalf("niji then draft: got mode=%v draft=%v, want standard/true", sel.Mode(), sel.Draft())
	}

	sel = Selection{}
	sel.SetDraft(true)
	sel.SetMode(ModeNiji)
	if sel.Mode() != ModeNiji || sel.Draft() {
		t.Fatalf("draft then niji: got mode=%v draft=%v, want niji/false", sel.Mode(), sel.Draft())
	}
	if sel.DraftAllowed() {
		t.Fatalf("draft should be disabled while niji is selected")
	}

	sel.SetMode(ModeStandard)
	sel.SetDraft(true)
	if sel.Mode() != ModeStandard || !sel.Draft() {
		t.Fatalf("standard + draft should coexist, got mode=%v draft=%v", sel.Mode(), sel.Draft())
	}
	if sel.NijiAllowed() {
		t.Fatalf("niji should be disabled while draft is on")
	}

	sel.SetDraft(false)
	if !sel.NijiAllowed() || sel.Mode() != ModeStandard {
		t.Fatalf("clearing draft should re-enable niji and keep the mode")
	}
}

func TestParametersSnapshot(t *testing.T) {
	sel := Selection{Stylize: Stylize250, Chaos: Chaos50, Repeat: Repeat10, NoPeople: true}
	sel.SetMode(ModeNiji)

	params := sel.Parameters()
	if params["mode"] != int(ModeNiji) || params["stylize"] != int(Stylize250) || params["chaos"] != int(Chaos50) {
		t.Fatalf("unexpected radio snapshot: %#v", params)
	}
	if params["repeat"] != "10" || params["no_people"] != true || params["draft"] != false {
		t.Fatalf("unexpected toggle snapshot: %#v", params)
	}
}
