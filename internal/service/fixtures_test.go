package service

import (
	"testing"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/render"
	"github.com/Harshitk-cp/tombench/internal/sim"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testRooms = []string{"garden", "hallway", "kitchen"}

// sallyAnneStory: Sally leaves the kitchen, then Anne moves the marble from the basket to the box.
func sallyAnneStory(t *testing.T) *domain.Story {
	t.Helper()
	layout := domain.Layout{
		Locations:          []string{"garden", "kitchen"},
		AgentLocations:     map[string]string{"Anne": "kitchen", "Sally": "kitchen"},
		ContainerLocations: map[string]string{"basket": "kitchen", "box": "kitchen"},
		ObjectLocations:    map[string]string{"marble": "basket"},
	}
	initial, err := sim.NewWorldState(layout)
	if err != nil {
		t.Fatalf("NewWorldState: %v", err)
	}
	run, err := sim.Replay(initial, []domain.Action{
		domain.ExitAction("Sally", "kitchen", "garden"),
		domain.MoveAction("Anne", "marble", "box"),
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	st := StoryFromRun("A2_O1_C2", layout, run, sim.TrackPersistence(run.Log))
	st.InstanceIndex = 1
	return st
}

func legacyOf(st *domain.Story) domain.LegacyStory {
	out := domain.LegacyStory{
		InstanceIndex: st.InstanceIndex,
		Setting:       st.Setting,
		InitialState:  render.InitialState(st.Layout),
		FullStory:     st.FullStory,
	}
	for _, step := range st.SimulationLog {
		out.SimulationLog = append(out.SimulationLog, domain.LegacyStep{Step: step.Step, Event: step.Event})
	}
	return out
}

func storyWithLayout(index int, setting string, l domain.Layout) domain.Story {
	return domain.Story{ID: uuid.New(), InstanceIndex: index, Setting: setting, Layout: l}
}

func nopLogger() *zap.Logger { return zap.NewNop() }
