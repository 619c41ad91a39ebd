package palette

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	c := RGBA{R: -5, G: 300, B: math.NaN(), A: 1.5}.Clamp()
	if c.R != 0 || c.G != 255 || c.B != 0 || c.A != 1 {
		t.Fatalf("unexpected clamp result %+v", c)
	}
	if !c.Valid() {
		t.Fatal("clamped colour must be valid")
	}
}

func TestEaseInOutCubic(t *testing.T) {
	if EaseInOutCubic(0) != 0 || EaseInOutCubic(1) != 1 {
		t.Fatal("ease must pin endpoints")
	}
	if math.Abs(EaseInOutCubic(0.5)-0.5) > 1e-9 {
		t.Fatalf("ease(0.5) = %f, want 0.5", EaseInOutCubic(0.5))
	}
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseInOutCubic(float64(i) / 100)
		if v < prev {
			t.Fatalf("ease not monotonic at %d", i)
		}
		prev = v
	}
}

func TestFromHex(t *testing.T) {
	c, err := FromHex("#ff8000", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(c.R-255) > 0.5 || math.Abs(c.G-128) > 0.5 || c.B != 0 || c.A != 0.5 {
		t.Fatalf("unexpected colour %+v", c)
	}
	if _, err := FromHex("nope", 1); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSchemeTransitionReachesTarget(t *testing.T) {
	s := NewScheme()
	base := Ambient[0]
	from := base
	s.SetFocus(FocusColor(2))
	if !s.Active() {
		t.Fatal("setting focus must start a transition")
	}
	for i := 0; i < 200 && s.Active(); i++ {
		s.Advance(1)
	}
	if s.Active() || s.Progress() != 1 {
		t.Fatalf("transition did not finish: progress=%f", s.Progress())
	}
	got := s.Blend(from, base)
	want := s.Target(base)
	if got != want {
		t.Fatalf("finished blend %+v != target %+v", got, want)
	}
	if got == base {
		t.Fatal("focus target should differ from the base colour")
	}
}

func TestBlendAtCompletionIsFixedPoint(t *testing.T) {
	s := NewScheme()
	s.SetFocus(FocusColor(0))
	s.SetProgress(1)
	base := Ambient[3]
	c := Ambient[1]
	c = s.Blend(c, base)
	for i := 0; i < 10; i++ {
		next := s.Blend(c, base)
		if next != c {
			t.Fatalf("iteration %d moved colour from %+v to %+v", i, c, next)
		}
		c = next
	}
}

func TestClearFocusReturnsToBase(t *testing.T) {
	s := NewScheme()
	s.ClearFocus()
	if s.Active() {
		t.Fatal("clearing an absent focus must not start a transition")
	}
	s.SetFocus(FocusColor(1))
	s.SetProgress(1)
	s.ClearFocus()
	if !s.Active() {
		t.Fatal("clearing focus must start a transition back")
	}
	base := Ambient[2]
	if s.Target(base) != base {
		t.Fatal("without focus the target is the base colour")
	}
}
