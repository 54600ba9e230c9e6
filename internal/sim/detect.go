package sim

import "github.com/Harshitk-cp/tombench/internal/domain"

// DetectFalseBeliefs returns every formed belief that disagrees with reality,
// ordered by agent then object.
func DetectFalseBeliefs(s *WorldState) []domain.FalseBelief {
	var out []domain.FalseBelief
	for _, agent := range s.agents {
		for _, object := range s.objects {
			believed, ok := s.beliefs[agent][object]
			if !ok {
				continue
			}
			if actual := s.objectLoc[object]; believed != actual {
				out = append(out, domain.FalseBelief{
					Agent:      agent,
					Object:     object,
					BelievedIn: believed,
					ActuallyIn: actual,
				})
			}
		}
	}
	return out
}
