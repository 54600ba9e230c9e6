package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// WorldDefinition is the catalog of identifiers stories are sampled from.
type WorldDefinition struct {
	Agents     []string `json:"agents" yaml:"agents"`
	Objects    []string `json:"objects" yaml:"objects"`
	Containers []string `json:"containers" yaml:"containers"`
	Locations  []string `json:"locations" yaml:"locations"`
}

// Covers reports whether the catalog is large enough for the setting.
func (w WorldDefinition) Covers(s Setting) bool {
	return len(w.Agents) >= s.Agents &&
		len(w.Objects) >= s.Objects &&
		len(w.Containers) >= s.Containers &&
		len(w.Locations) >= s.Locations
}

// SyntheticWorld returns a catalog of n placeholder identifiers per kind.
func SyntheticWorld(n int) WorldDefinition {
	w := WorldDefinition{}
	for i := 0; i < n; i++ {
		w.Agents = append(w.Agents, fmt.Sprintf("Agent-%d", i))
		w.Objects = append(w.Objects, fmt.Sprintf("Object-%d", i))
		w.Containers = append(w.Containers, fmt.Sprintf("Container-%d", i))
		w.Locations = append(w.Locations, fmt.Sprintf("Location-%d", i))
	}
	return w
}

// Setting fixes the entity counts of one story configuration.
type Setting struct {
	Label      string `json:"label" yaml:"label"`
	Agents     int    `json:"agents" yaml:"agents"`
	Objects    int    `json:"objects" yaml:"objects"`
	Containers int    `json:"containers" yaml:"containers"`
	Locations  int    `json:"locations" yaml:"locations"`
}

// DefaultLocations is the number of rooms per story unless a setting says otherwise.
const DefaultLocations = 3

// DefaultSettings are the seven benchmark configurations: a 3/3/3 baseline plus
// each entity count raised to 4 and 5.
func DefaultSettings() []Setting {
	mk := func(a, o, c int) Setting {
		return Setting{
			Label:      fmt.Sprintf("A%d_O%d_C%d", a, o, c),
			Agents:     a,
			Objects:    o,
			Containers: c,
			Locations:  DefaultLocations,
		}
	}
	return []Setting{
		mk(3, 3, 3),
		mk(4, 3, 3),
		mk(5, 3, 3),
		mk(3, 4, 3),
		mk(3, 5, 3),
		mk(3, 3, 4),
		mk(3, 3, 5),
	}
}

var settingLabelRe = regexp.MustCompile(`^A(\d+)_O(\d+)_C(\d+)(?:_L(\d+))?$`)

// ParseSetting reads a label such as "A3_O3_C3" or "A3_O3_C3_L4". Without an
// L part the setting has DefaultLocations rooms.
func ParseSetting(label string) (Setting, error) {
	m := settingLabelRe.FindStringSubmatch(label)
	if m == nil {
		return Setting{}, fmt.Errorf("invalid setting label %q (want A<n>_O<n>_C<n>)", label)
	}
	n := func(s string) int {
		v, _ := strconv.Atoi(s)
		return v
	}
	s := Setting{Label: label, Agents: n(m[1]), Objects: n(m[2]), Containers: n(m[3]), Locations: DefaultLocations}
	if m[4] != "" {
		s.Locations = n(m[4])
	}
	if s.Agents < 1 || s.Objects < 1 || s.Containers < 1 || s.Locations < 1 {
		return Setting{}, fmt.Errorf("invalid setting label %q: counts must be positive", label)
	}
	return s, nil
}

// Layout is one concrete placement of entities: the initial condition of a story.
type Layout struct {
	Locations          []string          `json:"locations"`
	AgentLocations     map[string]string `json:"agent_locations"`
	ContainerLocations map[string]string `json:"container_locations"`
	ObjectLocations    map[string]string `json:"object_locations"`
}

// Structure assigns entity counts to location slots before identifiers are drawn.
// AgentPartition[i] agents and ContainerPartition[i] containers go to location i.
type Structure struct {
	AgentPartition     []int `json:"la_partition"`
	ContainerPartition []int `json:"lc_partition"`
}
