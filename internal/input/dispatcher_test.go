package input

import (
	"errors"
	"testing"

	"github.com/tessro/tapedeck/internal/core"
)

type recorder struct {
	calls  []string
	loads  []int
	seeks  [][3]float64
	events []core.MediaEvent
	accept bool
	err    error
}

func (r *recorder) TogglePlayPause() { r.calls = append(r.calls, "toggle") }
func (r *recorder) Next()            { r.calls = append(r.calls, "next") }
func (r *recorder) Previous()        { r.calls = append(r.calls, "previous") }

func (r *recorder) Load(index int, autoplay bool) error {
	r.calls = append(r.calls, "load")
	if autoplay {
		r.loads = append(r.loads, index)
	}
	return r.err
}

func (r *recorder) SeekPointer(x, left, width float64) {
	r.calls = append(r.calls, "seek")
	r.seeks = append(r.seeks, [3]float64{x, left, width})
}

func (r *recorder) HandleMediaEvent(ev core.MediaEvent) bool {
	r.events = append(r.events, ev)
	return r.accept
}

func (r *recorder) last() string {
	if len(r.calls) == 0 {
		return ""
	}
	return r.calls[len(r.calls)-1]
}

func TestKey(t *testing.T) {
	tests := []struct {
		name    string
		key     Key
		focus   Focus
		want    string
		handled bool
	}{
		{"space toggles", KeySpace, Focus{}, "toggle", true},
		{"right is next", KeyArrowRight, Focus{}, "next", true},
		{"left is previous", KeyArrowLeft, Focus{}, "previous", true},
		{"other key ignored", KeyOther, Focus{}, "", false},
		{"enter without entry ignored", KeyEnter, Focus{}, "", false},
		{"text field suppresses space", KeySpace, Focus{Kind: FocusText}, "", false},
		{"text field suppresses arrows", KeyArrowRight, Focus{Kind: FocusText}, "", false},
		{"entry enter activates", KeyEnter, Focus{Kind: FocusEntry, Entry: 2}, "load", true},
		{"entry space activates", KeySpace, Focus{Kind: FocusEntry, Entry: 2}, "load", true},
		{"entry arrows still navigate", KeyArrowLeft, Focus{Kind: FocusEntry, Entry: 2}, "previous", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			d := New(r, nil)

			if got := d.Key(tt.key, tt.focus); got != tt.handled {
				t.Errorf("Key() = %v, want %v", got, tt.handled)
			}
			if r.last() != tt.want {
				t.Errorf("call = %q, want %q", r.last(), tt.want)
			}
			if len(r.calls) > 1 {
				t.Errorf("calls = %v, want at most one", r.calls)
			}
		})
	}
}

func TestEntryActivationPlays(t *testing.T) {
	r := &recorder{}
	d := New(r, nil)

	d.Key(KeyEnter, Focus{Kind: FocusEntry, Entry: 3})
	if len(r.loads) != 1 || r.loads[0] != 3 {
		t.Errorf("autoplay loads = %v, want [3]", r.loads)
	}

	r.err = errors.New("out of range")
	d.Select(9)
	if r.last() != "load" {
		t.Errorf("Select did not load")
	}
}

func TestClick(t *testing.T) {
	tests := []struct {
		control Control
		want    string
	}{
		{ControlPlay, "toggle"},
		{ControlNext, "next"},
		{ControlPrevious, "previous"},
	}
	for _, tt := range tests {
		r := &recorder{}
		if !New(r, nil).Click(tt.control) {
			t.Errorf("Click(%d) not handled", tt.control)
		}
		if r.last() != tt.want {
			t.Errorf("Click(%d) = %q, want %q", tt.control, r.last(), tt.want)
		}
	}

	r := &recorder{}
	if New(r, nil).Click(Control(99)) {
		t.Error("unknown control handled")
	}
}

func TestPointer(t *testing.T) {
	r := &recorder{}
	New(r, nil).Pointer(42, 10, 80)

	if len(r.seeks) != 1 || r.seeks[0] != [3]float64{42, 10, 80} {
		t.Errorf("seeks = %v", r.seeks)
	}
}

func TestMediaEndedAdvances(t *testing.T) {
	r := &recorder{accept: true}
	d := New(r, nil)

	d.Media(core.MediaEvent{Kind: core.MediaTimeUpdate, Source: "a"})
	if len(r.calls) != 0 {
		t.Errorf("time update issued commands: %v", r.calls)
	}

	d.Media(core.MediaEvent{Kind: core.MediaEnded, Source: "a"})
	if r.last() != "next" {
		t.Errorf("ended did not advance: %v", r.calls)
	}
	if len(r.events) != 2 {
		t.Errorf("events forwarded = %d, want 2", len(r.events))
	}
}

func TestStaleEndedDoesNotAdvance(t *testing.T) {
	r := &recorder{accept: false}
	New(r, nil).Media(core.MediaEvent{Kind: core.MediaEnded, Source: "old"})

	if len(r.calls) != 0 {
		t.Errorf("stale ended issued commands: %v", r.calls)
	}
}
