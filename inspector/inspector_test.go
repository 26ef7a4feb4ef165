package inspector

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/components"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,min:-1,max:1", WidgetBar, map[string]string{"min": "-1", "max": "1"}},
		{"label,fmt:%.1f", WidgetLabel, map[string]string{"fmt": "%.1f"}},
		{"hue", WidgetHue, map[string]string{}},
		{"angle", WidgetAngle, map[string]string{}},
		{"skip", WidgetSkip, map[string]string{}},
		{"sparkline,max:3", WidgetAuto, map[string]string{"max": "3"}},
	}
	for _, tt := range tests {
		w, opts := ParseTag(tt.tag)
		if w != tt.widget {
			t.Errorf("ParseTag(%q) widget = %v, want %v", tt.tag, w, tt.widget)
		}
		if len(opts) != len(tt.options) {
			t.Errorf("ParseTag(%q) options = %v, want %v", tt.tag, opts, tt.options)
			continue
		}
		for k, v := range tt.options {
			if opts[k] != v {
				t.Errorf("ParseTag(%q)[%s] = %q, want %q", tt.tag, k, opts[k], v)
			}
		}
	}
}

func TestExtractFields(t *testing.T) {
	type sample struct {
		Speed   float32 `inspect:"bar,max:10"`
		Hidden  int     `inspect:"skip"`
		Enabled bool
		Count   int
		private int
	}

	fields := ExtractFields(&sample{Speed: 4, Enabled: true, Count: 3, private: 1})
	if len(fields) != 3 {
		t.Fatalf("got %d fields, want 3: %+v", len(fields), fields)
	}

	want := []struct {
		name   string
		widget Widget
	}{
		{"Speed", WidgetBar},
		{"Enabled", WidgetBool},
		{"Count", WidgetLabel},
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Widget != w.widget {
			t.Errorf("field %d = %s/%v, want %s/%v", i, fields[i].Name, fields[i].Widget, w.name, w.widget)
		}
	}
	if lo, hi := GetRange(fields[0].Options); lo != 0 || hi != 10 {
		t.Errorf("range = [%v, %v], want [0, 10]", lo, hi)
	}

	if ExtractFields(42) != nil {
		t.Error("non-struct produced fields")
	}
	var nilPos *components.Position
	if ExtractFields(nilPos) != nil {
		t.Error("nil pointer produced fields")
	}
}

func TestExtractSections(t *testing.T) {
	var nilVel *components.Velocity
	sections := ExtractSections(
		&components.Boid{ID: 7},
		nilVel,
		&components.Tint{H: 120, S: 0.5, V: 1},
	)
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Title != "Boid" || sections[1].Title != "Tint" {
		t.Errorf("titles = %q, %q", sections[0].Title, sections[1].Title)
	}
	if got := FormatValue(sections[0].Fields[0].Value, ""); got != "7" {
		t.Errorf("boid id = %q, want 7", got)
	}
	if sections[1].Fields[0].Widget != WidgetHue {
		t.Errorf("hue widget = %v", sections[1].Fields[0].Widget)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value any
		fmt   string
		want  string
	}{
		{float32(1.234), "", "1.23"},
		{1.5, "", "1.50"},
		{uint32(9), "", "9"},
		{float32(-0.5), "%+.1f", "-0.5"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.fmt); got != tt.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.fmt, got, tt.want)
		}
	}
}

func TestPick(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap2[components.Position, components.Boid](world)
	filter := ecs.NewFilter2[components.Position, components.Boid](world)

	spawn := func(x, y float32, id uint32) ecs.Entity {
		return mapper.NewEntity(&components.Position{X: x, Y: y}, &components.Boid{ID: id})
	}
	near := spawn(10, 0, 0)
	spawn(14, 0, 1)
	seam := spawn(398, 0, 2)

	cam := camera.New(1280, 720, 800, 400)

	if e, ok := Pick(filter, 11, 0, 5, cam); !ok || e != near {
		t.Errorf("Pick near = %v, %v; want %v", e, ok, near)
	}
	if _, ok := Pick(filter, 100, 100, 5, cam); ok {
		t.Error("Pick found a boid in empty space")
	}
	if _, ok := Pick(filter, -398, 0, 5, cam); ok {
		t.Error("bounded Pick reached across the seam")
	}

	cam.Wrap = true
	if e, ok := Pick(filter, -398, 0, 5, cam); !ok || e != seam {
		t.Errorf("toroidal Pick = %v, %v; want %v", e, ok, seam)
	}
}
