package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"debloat/internal/config"
)

// Requirement defines an external tool debloat launches.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// ToolRequirements lists the four tools the dispatch rules invoke.
func ToolRequirements(tools config.Tools) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: tools.FFmpeg, Description: "Converts mp3 audio to Ogg Vorbis"},
		{Name: "ImageMagick", Command: tools.Convert, Description: "Recompresses and resizes images to JPEG"},
		{Name: "sed", Command: tools.Sed, Description: "Rewrites file references in .ssc charts"},
		{Name: "rm", Command: tools.Rm, Description: "Deletes superfluous files"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// Missing returns the required statuses that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			out = append(out, status)
		}
	}
	return out
}
