package sim

import (
	"testing"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func fb(agent, object string) domain.FalseBelief {
	return domain.FalseBelief{Agent: agent, Object: object}
}

func stepLog(reports ...[]domain.FalseBelief) []domain.SimulationStep {
	log := make([]domain.SimulationStep, len(reports))
	for i, r := range reports {
		log[i] = domain.SimulationStep{Step: i + 1, FalseBeliefsFound: r}
	}
	return log
}

func TestTrackPersistence(t *testing.T) {
	tests := []struct {
		name string
		log  []domain.SimulationStep
		want []domain.PersistenceInterval
	}{
		{
			name: "no false beliefs",
			log:  stepLog(nil, nil, nil),
			want: nil,
		},
		{
			name: "resolved",
			log:  stepLog(nil, []domain.FalseBelief{fb("A2", "O1")}, []domain.FalseBelief{fb("A2", "O1")}, nil),
			want: []domain.PersistenceInterval{
				{Agent: "A2", Object: "O1", StartStep: 2, EndStep: 4},
			},
		},
		{
			name: "unresolved",
			log:  stepLog(nil, []domain.FalseBelief{fb("A2", "O1")}, []domain.FalseBelief{fb("A2", "O1")}),
			want: []domain.PersistenceInterval{
				{Agent: "A2", Object: "O1", StartStep: 2, EndStep: domain.Unresolved},
			},
		},
		{
			name: "reoccurrence opens a new interval",
			log: stepLog(
				[]domain.FalseBelief{fb("A2", "O1")},
				nil,
				[]domain.FalseBelief{fb("A2", "O1")},
			),
			want: []domain.PersistenceInterval{
				{Agent: "A2", Object: "O1", StartStep: 1, EndStep: 2},
				{Agent: "A2", Object: "O1", StartStep: 3, EndStep: domain.Unresolved},
			},
		},
		{
			name: "ordered by start then agent",
			log: stepLog(
				[]domain.FalseBelief{fb("A3", "O1"), fb("A2", "O2")},
				[]domain.FalseBelief{fb("A3", "O1")},
				[]domain.FalseBelief{fb("A1", "O1"), fb("A3", "O1")},
			),
			want: []domain.PersistenceInterval{
				{Agent: "A2", Object: "O2", StartStep: 1, EndStep: 2},
				{Agent: "A3", Object: "O1", StartStep: 1, EndStep: domain.Unresolved},
				{Agent: "A1", Object: "O1", StartStep: 3, EndStep: domain.Unresolved},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrackPersistence(tt.log)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("intervals mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrackPersistence_ClosureMatchesLog(t *testing.T) {
	log := stepLog(
		[]domain.FalseBelief{fb("A1", "O1")},
		[]domain.FalseBelief{fb("A1", "O1"), fb("A2", "O1")},
		[]domain.FalseBelief{fb("A2", "O1")},
		nil,
	)
	for _, iv := range TrackPersistence(log) {
		for step := iv.StartStep; step <= len(log); step++ {
			if iv.EndStep.IsResolved() && step >= int(iv.EndStep) {
				break
			}
			if !reported(log[step-1], iv.Agent, iv.Object) {
				t.Errorf("%s/%s missing at step %d inside interval [%d, %s)", iv.Agent, iv.Object, step, iv.StartStep, iv.EndStep)
			}
		}
		if iv.EndStep.IsResolved() && reported(log[int(iv.EndStep)-1], iv.Agent, iv.Object) {
			t.Errorf("%s/%s still reported at closing step %s", iv.Agent, iv.Object, iv.EndStep)
		}
	}
}

func reported(step domain.SimulationStep, agent, object string) bool {
	for _, f := range step.FalseBeliefsFound {
		if f.Agent == agent && f.Object == object {
			return true
		}
	}
	return false
}

func TestHasUnresolved(t *testing.T) {
	resolved := []domain.PersistenceInterval{{Agent: "A1", Object: "O1", StartStep: 1, EndStep: 3}}
	if HasUnresolved(resolved) {
		t.Error("all intervals resolved, got true")
	}
	open := append(resolved, domain.PersistenceInterval{Agent: "A2", Object: "O1", StartStep: 2, EndStep: domain.Unresolved})
	if !HasUnresolved(open) {
		t.Error("one interval unresolved, got false")
	}
}
