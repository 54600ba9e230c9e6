// Package buildconfig exposes values stamped in at link time:
//
//	go build -ldflags "-X github.com/Harshitk-cp/tombench/internal/buildconfig.version=v0.3.0"
package buildconfig

var (
	version = "dev"
	commit  = "unknown"
)

func Version() string { return version }

func Commit() string { return commit }

// Info is the build block reported by /metrics.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func Current() Info {
	return Info{Version: version, Commit: commit}
}
