// Package deps checks that the external binaries a catalog run shells out
// to are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/eigenomarksamy/movie-analytics/internal/config"
)

// Requirement names one external binary.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the lookup result for one requirement.
type Status struct {
	Requirement
	Available bool
	Resolved  string
	Detail    string
}

// Requirements lists the binaries cfg needs.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{{
		Name:        "ffprobe",
		Command:     cfg.Probe.FFprobeBinary,
		Description: "Reads duration and resolution of each video",
	}}
}

// CheckBinaries resolves every requirement on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		switch resolved, err := exec.LookPath(req.Command); {
		case req.Command == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		default:
			status.Available = true
			status.Resolved = resolved
		}
		results = append(results, status)
	}
	return results
}

// Require returns an error naming every missing required binary.
func Require(statuses []Status) error {
	var missing []string
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, fmt.Sprintf("%s (%s)", s.Name, s.Detail))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing dependencies: %s", strings.Join(missing, ", "))
	}
	return nil
}
