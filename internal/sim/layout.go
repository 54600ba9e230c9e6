package sim

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/Harshitk-cp/tombench/internal/domain"
)

// Compositions returns every way to write n as an ordered sum of k non-negative parts.
func Compositions(n, k int) [][]int {
	if k == 0 {
		if n == 0 {
			return [][]int{{}}
		}
		return nil
	}
	if k == 1 {
		return [][]int{{n}}
	}
	var out [][]int
	for i := 0; i <= n; i++ {
		for _, rest := range Compositions(n-i, k-1) {
			out = append(out, append([]int{i}, rest...))
		}
	}
	return out
}

// ValidStructures enumerates agent/container placements over the locations of a
// setting that can produce a move: some room holds at least two containers and
// at least one agent.
func ValidStructures(agents, containers, locations int) []domain.Structure {
	var out []domain.Structure
	for _, la := range Compositions(agents, locations) {
		for _, lc := range Compositions(containers, locations) {
			if structureCanMove(la, lc) {
				out = append(out, domain.Structure{AgentPartition: la, ContainerPartition: lc})
			}
		}
	}
	return out
}

func structureCanMove(la, lc []int) bool {
	for i := range lc {
		if lc[i] > 1 && la[i] > 0 {
			return true
		}
	}
	return false
}

// UniquePermutations returns the distinct orderings of p in lexicographic order.
func UniquePermutations(p []int) [][]int {
	cur := slices.Clone(p)
	slices.Sort(cur)
	out := [][]int{slices.Clone(cur)}
	for nextPermutation(cur) {
		out = append(out, slices.Clone(cur))
	}
	return out
}

// nextPermutation rearranges p into its lexicographic successor, skipping duplicates.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	return true
}

// SampleLayout draws identifiers for a setting from the catalog and places them
// according to a random ordering of the structure's partitions. Objects go into
// uniformly random containers.
func SampleLayout(rng *rand.Rand, world domain.WorldDefinition, setting domain.Setting, st domain.Structure) (domain.Layout, error) {
	if !world.Covers(setting) {
		return domain.Layout{}, fmt.Errorf("%w: catalog too small for %s", ErrInvalidLayout, setting.Label)
	}
	if len(st.AgentPartition) != setting.Locations || len(st.ContainerPartition) != setting.Locations {
		return domain.Layout{}, fmt.Errorf("%w: structure does not match %d locations", ErrInvalidLayout, setting.Locations)
	}

	agents := sample(rng, world.Agents, setting.Agents)
	objects := sample(rng, world.Objects, setting.Objects)
	containers := sample(rng, world.Containers, setting.Containers)
	locations := sample(rng, world.Locations, setting.Locations)

	l := domain.Layout{
		Locations:          locations,
		AgentLocations:     make(map[string]string, len(agents)),
		ContainerLocations: make(map[string]string, len(containers)),
		ObjectLocations:    make(map[string]string, len(objects)),
	}

	laPerms := UniquePermutations(st.AgentPartition)
	lcPerms := UniquePermutations(st.ContainerPartition)
	place(l.AgentLocations, agents, laPerms[rng.IntN(len(laPerms))], locations)
	place(l.ContainerLocations, containers, lcPerms[rng.IntN(len(lcPerms))], locations)

	for _, o := range objects {
		l.ObjectLocations[o] = containers[rng.IntN(len(containers))]
	}
	return l, nil
}

func sample(rng *rand.Rand, pool []string, k int) []string {
	out := make([]string, k)
	for i, idx := range rng.Perm(len(pool))[:k] {
		out[i] = pool[idx]
	}
	return out
}

func place(dst map[string]string, ids []string, counts []int, locations []string) {
	next := 0
	for i, n := range counts {
		for j := 0; j < n; j++ {
			dst[ids[next]] = locations[i]
			next++
		}
	}
}
