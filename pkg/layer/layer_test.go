package layer

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/errors"
)

func record(log *[]string, name string) DrawFunc {
	return func(*canvas.Buffer) error {
		*log = append(*log, name)
		return nil
	}
}

// renderAll draws every phase in order, stopping at the first fatal error.
func renderAll(r *Recipe, dst *canvas.Buffer) (warnings []error, err error) {
	for _, p := range Phases {
		w, err := r.Render(dst, p)
		warnings = append(warnings, w...)
		if err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

func TestOrderedStable(t *testing.T) {
	var r Recipe
	var log []string
	r.Add(Text, "headline", record(&log, "headline"))
	r.Add(DeviceFrame, "phone", record(&log, "phone"))
	r.Add(Badge, "badge-a", record(&log, "badge-a"))
	r.Add(Background, "bg", record(&log, "bg"))
	r.Add(Badge, "badge-b", record(&log, "badge-b"))
	r.AddZ(Glow, ZBackGlow, "glow", record(&log, "glow"))
	r.AddZ(MidElement, ZBadge, "card-at-badge-z", record(&log, "card-at-badge-z"))

	var names []string
	for _, l := range r.Ordered() {
		names = append(names, l.Name)
	}
	want := "bg glow phone badge-a badge-b card-at-badge-z headline"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("Ordered() = %s, want %s", got, want)
	}

	if _, err := renderAll(&r, canvas.New(4, 4)); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(log, " "); got != want {
		t.Errorf("draw order = %s, want %s", got, want)
	}
}

func TestRenderPhase(t *testing.T) {
	var r Recipe
	var log []string
	r.Add(Text, "headline", record(&log, "headline"))
	r.Add(Background, "bg", record(&log, "bg"))
	r.Add(Glow, "glow", record(&log, "glow"))

	if _, err := r.Render(canvas.New(1, 1), PhaseDecorations); err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(log) != "[glow]" {
		t.Errorf("decorations phase drew %v", log)
	}
}

func TestRenderErrors(t *testing.T) {
	var r Recipe
	var log []string
	r.Add(Text, "headline", func(*canvas.Buffer) error {
		return errors.New(errors.ErrCodeTextDoesNotFit, "too wide")
	})
	r.Add(CTAButton, "cta", record(&log, "cta"))

	warnings, err := renderAll(&r, canvas.New(1, 1))
	if err != nil {
		t.Fatalf("recoverable error aborted render: %v", err)
	}
	if len(warnings) != 1 || !errors.Is(warnings[0], errors.ErrCodeTextDoesNotFit) {
		t.Errorf("warnings = %v", warnings)
	}
	if len(log) != 1 {
		t.Error("layer after a recoverable error was skipped")
	}

	var bad Recipe
	boom := stderrors.New("boom")
	bad.Add(Badge, "broken", func(*canvas.Buffer) error { return boom })
	bad.Add(Text, "never", record(&log, "never"))
	if _, err := renderAll(&bad, canvas.New(1, 1)); !stderrors.Is(err, boom) {
		t.Errorf("Render() error = %v, want boom", err)
	}
	if log[len(log)-1] == "never" {
		t.Error("rendering continued after a fatal error")
	}
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		z    int
		want Phase
	}{
		{ZBackground, PhaseBackground},
		{ZBackGlow - 1, PhaseBackground},
		{ZBackGlow, PhaseDecorations},
		{ZDevice, PhaseDecorations},
		{ZFrontElement, PhaseDecorations},
		{ZText, PhaseText},
		{ZCTA, PhaseText},
	}
	for _, tt := range tests {
		if got := PhaseOf(tt.z); got != tt.want {
			t.Errorf("PhaseOf(%d) = %v, want %v", tt.z, got, tt.want)
		}
	}
	for k := Background; k <= CTAButton; k++ {
		if PhaseOf(DefaultZ(k)) == PhaseText && k != Text && k != CTAButton {
			t.Errorf("%s default Z lands in the text phase", k)
		}
	}
}

func TestKindString(t *testing.T) {
	if DeviceFrame.String() != "device-frame" || Kind(42).String() != "kind(42)" {
		t.Error("Kind.String mapping is wrong")
	}
}
