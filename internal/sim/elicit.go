package sim

import (
	"math/rand/v2"

	"github.com/Harshitk-cp/tombench/internal/domain"
)

type seenKey struct {
	observer string
	target   string
	object   string
}

// LastSeen records, per (observer, target, object), the last step at which the
// observer saw the target witness where the object is. A missing key means the
// observer never shared such a moment with the target.
type LastSeen struct {
	steps map[seenKey]int
}

// Step returns the last shared step, and false when there is no record.
func (l *LastSeen) Step(observer, target, object string) (int, bool) {
	step, ok := l.steps[seenKey{observer, target, object}]
	return step, ok
}

func (l *LastSeen) markRoom(agents, objects []string, step int) {
	for _, a1 := range agents {
		for _, a2 := range agents {
			if a1 == a2 {
				continue
			}
			for _, o := range objects {
				l.steps[seenKey{a1, a2, o}] = step
			}
		}
	}
}

// BuildLastSeen scans a run once. At step 0 every pair of agents sharing a room
// has seen each other see the objects in that room. At every later move, every
// pair of agents in the room of the target container saw the move together.
func BuildLastSeen(run *Run) *LastSeen {
	ls := &LastSeen{steps: make(map[seenKey]int)}

	initial := run.Initial()
	for _, loc := range initial.locations {
		ls.markRoom(initial.AgentsAt(loc), initial.ObjectsAt(loc), 0)
	}

	for i, a := range run.Actions {
		if a.Kind != domain.ActionMove {
			continue
		}
		step := i + 1
		snap := run.Snapshots[step]
		room := snap.ContainerLocation(a.Target)
		ls.markRoom(snap.AgentsAt(room), []string{a.Object}, step)
	}
	return ls
}

// Candidates holds every eligible probe of a run, grouped by category.
type Candidates map[domain.QACategory][]domain.Probe

// Elicit derives ground-truth probes from a finished run.
func Elicit(run *Run) Candidates {
	initial, final := run.Initial(), run.Final()
	out := make(Candidates)

	for _, o := range final.objects {
		out[domain.QAMemory] = append(out[domain.QAMemory], domain.Probe{
			Category: domain.QAMemory, Object: o, Answer: initial.ObjectContainer(o),
		})
		out[domain.QAReality] = append(out[domain.QAReality], domain.Probe{
			Category: domain.QAReality, Object: o, Answer: final.ObjectContainer(o),
		})
	}

	for _, agent := range final.agents {
		for _, o := range final.objects {
			believed, ok := final.Belief(agent, o)
			if !ok {
				continue
			}
			cat := domain.QATrueBelief1
			if believed != final.ObjectContainer(o) {
				cat = domain.QAFalseBelief1
			}
			out[cat] = append(out[cat], domain.Probe{
				Category: cat, Object: o, Agent: agent, Answer: believed,
			})
		}
	}

	ls := BuildLastSeen(run)
	for _, o := range final.objects {
		for _, observer := range final.agents {
			for _, target := range final.agents {
				if observer == target {
					continue
				}
				step, ok := ls.Step(observer, target, o)
				if !ok {
					continue
				}
				guess, ok := run.Snapshots[step].Belief(target, o)
				if !ok {
					continue
				}
				actual, ok := final.Belief(target, o)
				if !ok {
					continue
				}
				cat := domain.QATrueBelief2
				if guess != actual {
					cat = domain.QAFalseBelief2
				}
				out[cat] = append(out[cat], domain.Probe{
					Category: cat, Object: o, Agent: observer, Target: target, Answer: guess,
				})
			}
		}
	}
	return out
}

// Sample draws one probe uniformly from each non-empty category.
func (c Candidates) Sample(rng *rand.Rand) map[domain.QACategory]domain.Probe {
	out := make(map[domain.QACategory]domain.Probe)
	for _, cat := range domain.AllQACategories() {
		probes := c[cat]
		if len(probes) == 0 {
			continue
		}
		out[cat] = probes[rng.IntN(len(probes))]
	}
	return out
}
