package fonts

import (
	"testing"

	"golang.org/x/image/font"
)

func TestEmbedded(t *testing.T) {
	tests := []struct {
		family Family
		weight Weight
	}{
		{FamilySans, Regular},
		{FamilySans, Bold},
		{FamilyMono, Regular},
		{FamilyMono, Bold},
		{"", Regular},
	}
	for _, tt := range tests {
		t.Run(string(tt.family)+"/"+tt.weight.String(), func(t *testing.T) {
			face, err := Embedded{Family: tt.family}.Face(48, tt.weight)
			if err != nil {
				t.Fatalf("Face() error = %v", err)
			}
			defer face.Close()
			if w := font.MeasureString(face, "Build Habits").Ceil(); w <= 0 {
				t.Errorf("MeasureString() = %d, want positive", w)
			}
		})
	}
}

func TestEmbeddedSizeScales(t *testing.T) {
	small, _ := Embedded{}.Face(20, Bold)
	large, _ := Embedded{}.Face(80, Bold)
	ws := font.MeasureString(small, "Headline").Ceil()
	wl := font.MeasureString(large, "Headline").Ceil()
	if wl <= 3*ws {
		t.Errorf("width at 80px = %d, at 20px = %d; want roughly 4x", wl, ws)
	}
}

func TestCache(t *testing.T) {
	c := NewCache(nil)
	a, err := c.Face(40, Bold)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Face(40, Bold)
	if a != b {
		t.Error("same size and weight should return the cached face")
	}
	if _, err := c.Face(40, Regular); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", c.Len())
	}
}

func TestSystemFallback(t *testing.T) {
	s := &System{Names: map[Weight][]string{Regular: {"definitely-not-installed-font.ttf"}}}
	if s.Found(Regular) {
		t.Fatal("Found() = true for a missing font")
	}
	face, err := s.Face(32, Regular)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	ref, _ := Embedded{}.Face(32, Regular)
	if got, want := font.MeasureString(face, "Test"), font.MeasureString(ref, "Test"); got != want {
		t.Errorf("fallback width = %v, want embedded width %v", got, want)
	}
}

func TestForName(t *testing.T) {
	if _, ok := ForName("system", nil).(*System); !ok {
		t.Error(`ForName("system") should return *System`)
	}
	if p, ok := ForName("mono", nil).(Embedded); !ok || p.Family != FamilyMono {
		t.Error(`ForName("mono") should return the mono family`)
	}
	if p, ok := ForName("", nil).(Embedded); !ok || p.Family != FamilySans {
		t.Error(`ForName("") should return the sans family`)
	}
}

func TestParseWeight(t *testing.T) {
	if ParseWeight("bold") != Bold || ParseWeight("heavy") != Regular || ParseWeight("") != Regular {
		t.Error("ParseWeight mapping is wrong")
	}
}
