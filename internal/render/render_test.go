package render

import (
	"errors"
	"testing"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func kitchenLayout() domain.Layout {
	return domain.Layout{
		Locations:          []string{"kitchen", "garden", "attic"},
		AgentLocations:     map[string]string{"Sally": "kitchen", "Anne": "kitchen"},
		ContainerLocations: map[string]string{"basket": "kitchen", "box": "kitchen", "crate": "garden"},
		ObjectLocations:    map[string]string{"marble": "basket", "keys": "box", "apple": "box"},
	}
}

func TestIsPlural(t *testing.T) {
	tests := map[string]bool{
		"keys":   true,
		"grapes": true,
		"glass":  false,
		"marble": false,
		"bus":    true,
	}
	for noun, want := range tests {
		if got := IsPlural(noun); got != want {
			t.Errorf("IsPlural(%q) = %v, want %v", noun, got, want)
		}
	}
}

func TestInitialState(t *testing.T) {
	want := []string{
		"Anne was in the kitchen.",
		"Sally was in the kitchen.",
		"The basket was in the kitchen.",
		"The box was in the kitchen.",
		"The crate was in the garden.",
		"The marble was in the basket.",
		"The apple and keys were in the box.",
		"No one was in the attic.",
	}
	if diff := cmp.Diff(want, InitialState(kitchenLayout())); diff != "" {
		t.Fatalf("initial state mismatch (-want +got):\n%s", diff)
	}
}

func TestEvent(t *testing.T) {
	tests := []struct {
		action domain.Action
		want   string
	}{
		{domain.MoveAction("Sally", "marble", "box"), "Sally moved the marble to the box."},
		{domain.ExitAction("Anne", "kitchen", "garden"), "Anne exited the kitchen and entered the garden."},
	}
	for _, tt := range tests {
		if got := Event(tt.action); got != tt.want {
			t.Errorf("Event(%v) = %q, want %q", tt.action, got, tt.want)
		}
	}
}

func TestQuestion(t *testing.T) {
	tests := []struct {
		probe domain.Probe
		want  string
	}{
		{domain.Probe{Category: domain.QAMemory, Object: "marble"}, "Where was the marble at the beginning?"},
		{domain.Probe{Category: domain.QAMemory, Object: "keys"}, "Where were the keys at the beginning?"},
		{domain.Probe{Category: domain.QAReality, Object: "keys"}, "Where are the keys now?"},
		{domain.Probe{Category: domain.QAReality, Object: "glass"}, "Where is the glass now?"},
		{domain.Probe{Category: domain.QAFalseBelief1, Object: "marble", Agent: "Sally"}, "Where does Sally think the marble is?"},
		{domain.Probe{Category: domain.QATrueBelief2, Object: "keys", Agent: "Anne", Target: "Sally"}, "Where does Anne think that Sally thinks the keys are?"},
	}
	for _, tt := range tests {
		if got := Question(tt.probe); got != tt.want {
			t.Errorf("Question(%+v) = %q, want %q", tt.probe, got, tt.want)
		}
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Action
	}{
		{"Sally moved the marble to the box.", domain.MoveAction("Sally", "marble", "box")},
		{"Anne exited the kitchen and entered the garden.", domain.ExitAction("Anne", "kitchen", "garden")},
		{"Anne exited kitchen and entered garden.", domain.ExitAction("Anne", "kitchen", "garden")},
	}
	for _, tt := range tests {
		got, err := ParseEvent(tt.in)
		if err != nil {
			t.Fatalf("ParseEvent(%q): %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseEvent(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseEvent_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"Sally moved the marble.",
		"Anne walked to the garden.",
		"Sally moved the marble to the box",
	} {
		if _, err := ParseEvent(in); !errors.Is(err, ErrMalformedSentence) {
			t.Errorf("ParseEvent(%q): expected ErrMalformedSentence, got %v", in, err)
		}
	}
}

func TestParseEvent_RoundTrip(t *testing.T) {
	for _, a := range []domain.Action{
		domain.MoveAction("Agent-1", "Object-2", "Container-0"),
		domain.ExitAction("Agent-0", "Location-1", "Location-2"),
	} {
		got, err := ParseEvent(Event(a))
		if err != nil {
			t.Fatalf("ParseEvent(Event(%s)): %v", a, err)
		}
		if diff := cmp.Diff(a, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestParseInitialState_RoundTrip(t *testing.T) {
	l := kitchenLayout()
	got, err := ParseInitialState(InitialState(l), []string{"attic", "cellar", "garden", "kitchen"})
	if err != nil {
		t.Fatalf("ParseInitialState: %v", err)
	}
	want := l
	want.Locations = []string{"attic", "garden", "kitchen"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInitialState_Malformed(t *testing.T) {
	rooms := []string{"kitchen", "garden"}
	tests := []struct {
		name      string
		sentences []string
	}{
		{"garbage", []string{"Sally was in the kitchen.", "It was a dark and stormy night."}},
		{"unknown room", []string{"Sally was in the cellar.", "The box was in the kitchen.", "The marble was in the box."}},
		{"unknown container", []string{"Sally was in the kitchen.", "The marble was in the box."}},
		{"no objects", []string{"Sally was in the kitchen.", "The box was in the kitchen."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseInitialState(tt.sentences, rooms); !errors.Is(err, ErrMalformedSentence) {
				t.Fatalf("expected ErrMalformedSentence, got %v", err)
			}
		})
	}
}
