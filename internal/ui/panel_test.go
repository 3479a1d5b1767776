package ui

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/flexpoint/internal/pointer"
)

func TestKind_Capability(t *testing.T) {
	assert.Equal(t, pointer.Clickable, KindButton.Capability())
	assert.Equal(t, pointer.Clickable, KindImageButton.Capability())
	assert.Equal(t, pointer.Clickable, KindSwitch.Capability())
	assert.Equal(t, pointer.Checkbox, KindCheckbox.Capability())
	assert.Equal(t, pointer.Slider, KindSlider.Capability())
	assert.Equal(t, pointer.Unsupported, KindLabel.Capability())
	assert.Equal(t, pointer.Unsupported, Kind("dropdown").Capability())
}

func TestNewPanel_RejectsBadIDs(t *testing.T) {
	_, err := NewPanel(Widget{Kind: KindButton})
	assert.ErrorContains(t, err, "widget without id")

	_, err = NewPanel(Widget{ID: "a", Kind: KindButton}, Widget{ID: "a", Kind: KindSlider})
	assert.ErrorContains(t, err, `duplicate widget id "a"`)
}

func TestPanel_CandidatesSkipHidden(t *testing.T) {
	p, err := NewPanel(
		Widget{ID: "a", Kind: KindButton, X: 10, Y: 20, W: 30, H: 40},
		Widget{ID: "b", Kind: KindCheckbox, Hidden: true, W: 1, H: 1},
		Widget{ID: "c", Kind: KindLabel, X: 0, Y: 0, W: 5, H: 5},
	)
	require.NoError(t, err)

	want := []pointer.Candidate{
		{ID: "a", Capability: pointer.Clickable, Bounds: image.Rect(10, 20, 40, 60)},
		{ID: "c", Capability: pointer.Unsupported, Bounds: image.Rect(0, 0, 5, 5)},
	}
	if diff := cmp.Diff(want, p.Candidates()); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestPanel_EventsCarryWidgetState(t *testing.T) {
	p, err := NewPanel(
		Widget{ID: "wifi", Kind: KindCheckbox},
		Widget{ID: "ok", Kind: KindButton},
	)
	require.NoError(t, err)
	at := time.Unix(42, 0)
	p.now = func() time.Time { return at }

	var got []Event
	p.SetEventHandler(func(ev Event) {
		got = append(got, ev)
		// handler runs unlocked
		_, _ = p.Widget(ev.Widget)
	})

	p.SetChecked("wifi", !p.Checked("wifi"))
	p.SendValueChanged("wifi")
	p.SendClicked("ok")
	p.SendClicked("missing")

	want := []Event{
		{Widget: "wifi", Kind: KindCheckbox, Type: EventValueChanged, Checked: true, At: at},
		{Widget: "ok", Kind: KindButton, Type: EventClicked, At: at},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestPanel_SliderClampsToRange(t *testing.T) {
	p, err := NewPanel(
		Widget{ID: "vol", Kind: KindSlider, Value: 150},
		Widget{ID: "temp", Kind: KindSlider, Min: 16, Max: 30, Value: 20},
	)
	require.NoError(t, err)

	w, _ := p.Widget("vol")
	assert.Equal(t, 100, w.Value)

	p.SetSliderValue("vol", -5, true)
	w, _ = p.Widget("vol")
	assert.Equal(t, 0, w.Value)

	p.SetSliderValue("temp", 50, true)
	w, _ = p.Widget("temp")
	assert.Equal(t, 30, w.Value)
}

func TestPanel_FocusIndicatorAndActivity(t *testing.T) {
	p := DefaultPanel()
	at := time.Unix(7, 0)
	p.now = func() time.Time { return at }

	p.SetFocused("ok", true)
	p.SetIndicatorHidden(false)
	p.SetIndicatorPoints(image.Pt(120, 130), image.Pt(220, 130))
	p.TriggerActivity()

	s := p.Snapshot()
	assert.Equal(t, Indicator{Start: image.Pt(120, 130), End: image.Pt(220, 130)}, s.Indicator)
	require.Len(t, s.Widgets, 6)
	assert.True(t, s.Widgets[1].Focused)
	assert.Equal(t, pointer.WidgetID("ok"), s.Widgets[1].ID)
	assert.Equal(t, at, p.LastActivity())
}

func TestDefaultPanel_FullTiltsReachEachFamily(t *testing.T) {
	p := DefaultPanel()
	g := pointer.DefaultGeometry()

	tests := []struct {
		tiltX, tiltY int
		want         pointer.WidgetID
	}{
		{300, 0, "ok"},
		{0, 300, "wifi"},
		{-300, 0, "volume"},
	}
	for _, tt := range tests {
		got, ok := g.SelectBest(g.ComputeRay(tt.tiltX, tt.tiltY), p.Candidates())
		require.True(t, ok, "tilt (%d,%d)", tt.tiltX, tt.tiltY)
		assert.Equal(t, tt.want, got.ID)
	}
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	data := `{
  "name": "settings",
  "widgets": [
    {"id": "bt", "kind": "switch", "x": 170, "y": 115, "w": 50, "h": 30},
    {"id": "bright", "kind": "slider", "x": 10, "y": 120, "w": 60, "h": 20, "value": 70}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	p, err := LoadLayout(path)
	require.NoError(t, err)
	cands := p.Candidates()
	require.Len(t, cands, 2)
	assert.Equal(t, pointer.Clickable, cands[0].Capability)
	w, ok := p.Widget("bright")
	require.True(t, ok)
	assert.Equal(t, 70, w.Value)
}

func TestParseLayout_Errors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"bad json", `{"widgets": [`, "failed to parse layout"},
		{"unknown kind", `{"widgets": [{"id": "x", "kind": "dial", "w": 1, "h": 1}]}`, `unknown kind "dial"`},
		{"zero size", `{"widgets": [{"id": "x", "kind": "button"}]}`, "size must be positive"},
		{"duplicate", `{"widgets": [{"id": "x", "kind": "button", "w": 1, "h": 1}, {"id": "x", "kind": "label", "w": 1, "h": 1}]}`, "duplicate widget id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayout([]byte(tt.data))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
