package colorscale

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func f(v float64) *float64 { return &v }

type values map[string]float64

func (m values) Value(code string) (float64, bool) {
	v, ok := m[code]
	return v, ok
}

func continuous() *Resolver {
	return NewResolver(&Settings{
		Mode: Continuous,
		Stops: []Stop{
			{Position: 0, Color: "#000000"},
			{Position: 10, Color: "#ffffff"},
			{Position: 20, Color: "#ff0000"},
		},
	})
}

func TestContinuousStopsAreExact(t *testing.T) {
	r := continuous()
	for _, st := range r.Settings().Stops {
		if got := r.Base(f(st.Position)); got != st.Color {
			t.Errorf("Base(%v) = %s, want %s", st.Position, got, st.Color)
		}
	}
}

func TestContinuousClampsToEdges(t *testing.T) {
	r := continuous()
	if got := r.Base(f(-5)); got != "#000000" {
		t.Errorf("below = %s, want first stop", got)
	}
	if got := r.Base(f(1000)); got != "#ff0000" {
		t.Errorf("above = %s, want last stop", got)
	}
	if got := r.Base(f(math.Inf(1))); got != "#ff0000" {
		t.Errorf("+Inf = %s, want last stop", got)
	}
}

func TestContinuousInterpolates(t *testing.T) {
	r := continuous()
	tests := []struct {
		v    float64
		want string
	}{
		{5, "#808080"},
		{2.5, "#404040"},
		{15, "#ff8080"},
	}
	for _, tt := range tests {
		if got := r.Base(f(tt.v)); got != tt.want {
			t.Errorf("Base(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestNullIsNeutral(t *testing.T) {
	r := continuous()
	if got := r.Base(nil); got != Neutral {
		t.Errorf("Base(nil) = %s, want %s", got, Neutral)
	}
	if got := r.Base(f(math.NaN())); got != Neutral {
		t.Errorf("Base(NaN) = %s, want %s", got, Neutral)
	}
}

func TestDiscreteBoundaryTieBreak(t *testing.T) {
	r := NewResolver(&Settings{
		Mode: Discrete,
		Ranges: []Range{
			{From: nil, To: f(10), Color: "#aaaaaa"},
			{From: f(10), To: f(20), Color: "#bbbbbb"},
		},
	})
	tests := []struct {
		v    float64
		want string
	}{
		{10, "#aaaaaa"},
		{-1e9, "#aaaaaa"},
		{10.5, "#bbbbbb"},
		{20, "#bbbbbb"},
		{20.01, Neutral},
	}
	for _, tt := range tests {
		if got := r.Base(f(tt.v)); got != tt.want {
			t.Errorf("Base(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestContinuousWithoutStopsUsesRanges(t *testing.T) {
	r := NewResolver(&Settings{
		Mode:   Continuous,
		Ranges: []Range{{From: f(0), To: nil, Color: "#123456"}},
	})
	if got := r.Base(f(3)); got != "#123456" {
		t.Errorf("Base = %s, want range color", got)
	}
}

func TestResolveDisputedIsAlwaysPattern(t *testing.T) {
	r := continuous()
	src := values{"156": 0, "C00007": 20}
	for _, v := range []*float64{nil, f(5), f(math.NaN())} {
		fill := r.Resolve(v, CodeAksaiChin, src)
		if !fill.IsPattern() {
			t.Fatalf("Resolve(%v, Aksai Chin) = %+v, want pattern", v, fill)
		}
		if fill.Pattern.Color != "#000000" || fill.Pattern.BackgroundColor != "#ff0000" {
			t.Errorf("pattern colors = %s/%s, want #000000/#ff0000", fill.Pattern.Color, fill.Pattern.BackgroundColor)
		}
	}
	fill := r.Resolve(f(5), CodeAksaiChin, nil)
	if !fill.IsPattern() || fill.Pattern.Color != Neutral || fill.Pattern.BackgroundColor != Neutral {
		t.Errorf("missing sources = %+v, want neutral pattern", fill.Pattern)
	}
	if fill.Pattern.Width != 10 || fill.Pattern.Height != 10 || fill.Pattern.Path.D != hatchPath {
		t.Errorf("pattern shape = %+v", fill.Pattern)
	}
}

func TestResolveSubstitute(t *testing.T) {
	r := continuous()
	fill := r.Resolve(f(0), CodeKosovo, values{"688": 10})
	if fill.IsPattern() || fill.Color != "#ffffff" {
		t.Errorf("Kosovo = %+v, want Serbia's color #ffffff", fill)
	}
	fill = r.Resolve(f(0), CodeKosovo, values{})
	if fill.Color != Neutral {
		t.Errorf("Kosovo without Serbia = %s, want neutral", fill.Color)
	}
	fill = r.Resolve(f(10), "250", values{"688": 0})
	if fill.Color != "#ffffff" {
		t.Errorf("ordinary code = %s, want own value color", fill.Color)
	}
}

func TestSpecialCaseCopy(t *testing.T) {
	sp, ok := SpecialCase(CodeAksaiChin)
	if !ok || sp.Kind != KindPattern {
		t.Fatalf("SpecialCase = %+v, %v", sp, ok)
	}
	sp.Sources[0] = "x"
	again, _ := SpecialCase(CodeAksaiChin)
	if again.Sources[0] != "156" {
		t.Errorf("special table mutated through copy: %v", again.Sources)
	}
	if _, ok := SpecialCase("250"); ok {
		t.Error("250 should not be special")
	}
}

func TestParseSettings(t *testing.T) {
	doc := `{"non_dw": {
	  "colorscale": {"mode": "continuous", "colors": [{"position": 0, "color": "#ABC"}, {"position": 50, "color": "#FFFFFF"}]},
	  "colorRanges": [{"fromValue": null, "toValue": 10, "color": "#00FF00"}],
	  "lineWidth": 0.4
	}}`
	s, err := ParseSettings([]byte(doc))
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	if s.Mode != Continuous || len(s.Stops) != 2 || len(s.Ranges) != 1 {
		t.Fatalf("settings = %+v", s)
	}
	if s.Stops[0].Color != "#aabbcc" || s.Ranges[0].Color != "#00ff00" {
		t.Errorf("colors not normalized: %s %s", s.Stops[0].Color, s.Ranges[0].Color)
	}
	if s.Ranges[0].From != nil || s.Ranges[0].To == nil || *s.Ranges[0].To != 10 {
		t.Errorf("range bounds = %+v", s.Ranges[0])
	}
	if s.LineWidth != 0.4 {
		t.Errorf("LineWidth = %v, want 0.4", s.LineWidth)
	}

	flat, err := ParseSettings([]byte(`{"colorscale": {"mode": "discrete"}, "colorRanges": []}`))
	if err != nil {
		t.Fatalf("ParseSettings(flat) failed: %v", err)
	}
	if flat.Mode != Discrete || flat.LineWidth != defaultLineWidth {
		t.Errorf("flat settings = %+v", flat)
	}
}

func TestParseHex(t *testing.T) {
	if c, ok := ParseHex("#0a0B0c"); !ok || c != (RGB{10, 11, 12}) {
		t.Errorf("ParseHex = %+v, %v", c, ok)
	}
	for _, s := range []string{"", "0a0b0c", "#12", "#zzzzzz", "rgba(0, 0, 0, 0)"} {
		if _, ok := ParseHex(s); ok {
			t.Errorf("ParseHex(%q) should fail", s)
		}
	}
	if got := NormalizeHex("rgba(0, 0, 0, 0)"); got != "rgba(0, 0, 0, 0)" {
		t.Errorf("NormalizeHex kept = %q", got)
	}
}

func TestFillJSON(t *testing.T) {
	b, err := json.Marshal(Fill{Color: "#123456"})
	if err != nil || string(b) != `"#123456"` {
		t.Errorf("color fill = %s, %v", b, err)
	}
	pat := continuous().Resolve(nil, CodeAksaiChin, nil)
	b, err = json.Marshal(pat)
	if err != nil || !strings.HasPrefix(string(b), `{"pattern":{"path":{"d":"M 0 10`) {
		t.Fatalf("pattern fill = %s, %v", b, err)
	}
	var back Fill
	if err := json.Unmarshal(b, &back); err != nil || !back.IsPattern() || back.Pattern.BackgroundColor != Neutral {
		t.Errorf("pattern round trip = %+v, %v", back, err)
	}
}
