package inspector

import (
	"testing"

	"github.com/pthm-cable/phasefield/game"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,max:4", WidgetBar, map[string]string{"max": "4"}},
		{"label, fmt:%.1f", WidgetLabel, map[string]string{"fmt": "%.1f"}},
		{"skip", WidgetSkip, map[string]string{}},
		{"unknown", WidgetAuto, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			widget, options := ParseTag(tt.tag)
			if widget != tt.widget {
				t.Errorf("expected widget %v, got %v", tt.widget, widget)
			}
			if len(options) != len(tt.options) {
				t.Fatalf("expected options %v, got %v", tt.options, options)
			}
			for k, v := range tt.options {
				if options[k] != v {
					t.Errorf("option %s: expected %q, got %q", k, v, options[k])
				}
			}
		})
	}
}

func TestExtractFields(t *testing.T) {
	type sample struct {
		Name    string
		Speed   float64 `inspect:"bar,max:2"`
		Hidden  int     `inspect:"skip"`
		Active  bool
		private int
	}

	fields := ExtractFields(&sample{Name: "a", Speed: 1, Active: true})

	want := []struct {
		name   string
		widget Widget
	}{
		{"Name", WidgetLabel},
		{"Speed", WidgetBar},
		{"Active", WidgetBool},
	}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %d: %+v", len(want), len(fields), fields)
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Widget != w.widget {
			t.Errorf("field %d: expected %s/%v, got %s/%v", i, w.name, w.widget, fields[i].Name, fields[i].Widget)
		}
	}
	if GetMax(fields[1].Options) != 2 {
		t.Errorf("expected max 2, got %v", GetMax(fields[1].Options))
	}

	if ExtractFields(42) != nil {
		t.Error("non-struct values should yield no fields")
	}
}

func TestNodeDetailFields(t *testing.T) {
	fields := ExtractFields(game.NodeDetail{Speed: 8})
	if len(fields) != 9 {
		t.Fatalf("expected 9 node fields, got %d", len(fields))
	}
	for _, f := range fields {
		if f.Name == "Speed" && f.Widget != WidgetBar {
			t.Errorf("speed should render as a bar, got %v", f.Widget)
		}
		if f.Name == "Heading" && f.Widget != WidgetAngle {
			t.Errorf("heading should render as an angle, got %v", f.Widget)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value any
		fmt   string
		want  string
	}{
		{1.23456, "", "1.23"},
		{float32(2.5), "", "2.50"},
		{42, "", "42"},
		{3.14159, "%.0f", "3"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.fmt); got != tt.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.fmt, got, tt.want)
		}
	}
}

func TestPick(t *testing.T) {
	nodes := []game.NodeView{
		{ID: 1, X: 10, Y: 10},
		{ID: 2, X: 14, Y: 10},
		{ID: 3, X: 100, Y: 100},
	}

	tests := []struct {
		name   string
		x, y   float64
		wantID uint32
		wantOK bool
	}{
		{"exact", 100, 100, 3, true},
		{"nearest of two", 13, 10, 2, true},
		{"miss", 50, 50, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Pick(nodes, tt.x, tt.y, 5)
			if ok != tt.wantOK || (ok && id != tt.wantID) {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.wantID, tt.wantOK, id, ok)
			}
		})
	}
}
