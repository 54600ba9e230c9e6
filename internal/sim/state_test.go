package sim

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func mustState(t *testing.T, l domain.Layout) *WorldState {
	t.Helper()
	s, err := NewWorldState(l)
	if err != nil {
		t.Fatalf("NewWorldState: %v", err)
	}
	return s
}

// twoRoomLayout: A1 and A2 in R1 with C1 (holding O1) and C2; R2 is empty.
func twoRoomLayout() domain.Layout {
	return domain.Layout{
		Locations:          []string{"R1", "R2"},
		AgentLocations:     map[string]string{"A1": "R1", "A2": "R1"},
		ContainerLocations: map[string]string{"C1": "R1", "C2": "R1"},
		ObjectLocations:    map[string]string{"O1": "C1"},
	}
}

func TestNewWorldState_SeedsBeliefsByColocation(t *testing.T) {
	s := mustState(t, domain.Layout{
		Locations:          []string{"R1", "R2", "R3"},
		AgentLocations:     map[string]string{"A1": "R1", "A2": "R2", "A3": "R3"},
		ContainerLocations: map[string]string{"C1": "R1", "C2": "R2"},
		ObjectLocations:    map[string]string{"O1": "C1", "O2": "C2"},
	})

	tests := []struct {
		agent, object string
		want          string
		formed        bool
	}{
		{"A1", "O1", "C1", true},
		{"A1", "O2", "", false},
		{"A2", "O1", "", false},
		{"A2", "O2", "C2", true},
		{"A3", "O1", "", false},
		{"A3", "O2", "", false},
	}
	for _, tt := range tests {
		got, ok := s.Belief(tt.agent, tt.object)
		if ok != tt.formed || got != tt.want {
			t.Errorf("Belief(%s, %s) = (%q, %v), want (%q, %v)", tt.agent, tt.object, got, ok, tt.want, tt.formed)
		}
	}
}

func TestNewWorldState_RejectsInvalidLayout(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *domain.Layout)
	}{
		{"no locations", func(l *domain.Layout) { l.Locations = nil }},
		{"duplicate location", func(l *domain.Layout) { l.Locations = []string{"R1", "R1"} }},
		{"agent nowhere", func(l *domain.Layout) { l.AgentLocations["A1"] = "R9" }},
		{"container nowhere", func(l *domain.Layout) { l.ContainerLocations["C1"] = "R9" }},
		{"object in unknown container", func(l *domain.Layout) { l.ObjectLocations["O1"] = "C9" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := twoRoomLayout()
			tt.mutate(&l)
			_, err := NewWorldState(l)
			if !errors.Is(err, ErrInvalidLayout) {
				t.Fatalf("expected ErrInvalidLayout, got %v", err)
			}
		})
	}
}

func TestNewWorldState_CopiesLayout(t *testing.T) {
	l := twoRoomLayout()
	s := mustState(t, l)
	l.ObjectLocations["O1"] = "C2"
	l.AgentLocations["A1"] = "R2"

	if got := s.ObjectContainer("O1"); got != "C1" {
		t.Fatalf("snapshot changed with caller's layout: O1 in %q", got)
	}
	if got := s.AgentLocation("A1"); got != "R1" {
		t.Fatalf("snapshot changed with caller's layout: A1 in %q", got)
	}
}

func TestApply_LeavesPreviousSnapshotUntouched(t *testing.T) {
	s0 := mustState(t, twoRoomLayout())
	before := s0.Layout()
	beforeFB := DetectFalseBeliefs(s0)

	s1, err := s0.Apply(domain.ExitAction("A2", "R1", "R2"))
	if err != nil {
		t.Fatalf("exit: %v", err)
	}
	s2, err := s1.Apply(domain.MoveAction("A1", "O1", "C2"))
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	if diff := cmp.Diff(before, s0.Layout()); diff != "" {
		t.Errorf("initial snapshot mutated (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(beforeFB, DetectFalseBeliefs(s0)); diff != "" {
		t.Errorf("initial beliefs mutated (-before +after):\n%s", diff)
	}
	if b, _ := s1.Belief("A1", "O1"); b != "C1" {
		t.Errorf("intermediate snapshot belief changed to %q", b)
	}
	if got := s1.ObjectContainer("O1"); got != "C1" {
		t.Errorf("intermediate snapshot reality changed to %q", got)
	}
	if got := s2.ObjectContainer("O1"); got != "C2" {
		t.Errorf("final snapshot O1 in %q, want C2", got)
	}
}

func TestContainerInvariant_HoldsForRealizedRuns(t *testing.T) {
	world := domain.SyntheticWorld(6)
	setting := domain.Setting{Label: "A3_O3_C3", Agents: 3, Objects: 3, Containers: 3, Locations: 3}
	structures := ValidStructures(setting.Agents, setting.Containers, setting.Locations)

	for seed := uint64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7))
		l, err := SampleLayout(rng, world, setting, structures[rng.IntN(len(structures))])
		if err != nil {
			t.Fatalf("seed %d: SampleLayout: %v", seed, err)
		}
		initial := mustState(t, l)
		run, err := NewRealizer(rng).Realize(initial, domain.DefaultPlans()[int(seed)%5])
		if err != nil {
			continue
		}
		for step, snap := range run.Snapshots {
			assertContainerInvariant(t, snap, seed, step)
		}
	}
}

func assertContainerInvariant(t *testing.T, s *WorldState, seed uint64, step int) {
	t.Helper()
	containers := make(map[string]bool)
	for _, c := range s.Containers() {
		containers[c] = true
		if !s.hasLocation(s.ContainerLocation(c)) {
			t.Errorf("seed %d step %d: container %s in unknown location %q", seed, step, c, s.ContainerLocation(c))
		}
	}
	for _, o := range s.Objects() {
		if !containers[s.ObjectContainer(o)] {
			t.Errorf("seed %d step %d: object %s in unknown container %q", seed, step, o, s.ObjectContainer(o))
		}
	}
	for _, a := range s.Agents() {
		if !s.hasLocation(s.AgentLocation(a)) {
			t.Errorf("seed %d step %d: agent %s in unknown location %q", seed, step, a, s.AgentLocation(a))
		}
		for _, o := range s.Objects() {
			if b, ok := s.Belief(a, o); ok && !containers[b] {
				t.Errorf("seed %d step %d: %s believes %s in unknown container %q", seed, step, a, o, b)
			}
		}
	}
}
