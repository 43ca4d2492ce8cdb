// Package validation checks an extraction result against the selection
// guarantees before it is handed to the caller.
package validation

import (
	"fmt"
	"strings"

	"github.com/framesieve/framesieve/internal/processing"
	"github.com/framesieve/framesieve/internal/scene"
)

// Step is a single validation check with its outcome.
type Step struct {
	Name    string
	Passed  bool
	Details string
}

// Result aggregates the validation steps for one extraction.
type Result struct {
	Steps []Step
}

// Passed reports whether every step passed.
func (r *Result) Passed() bool {
	for _, s := range r.Steps {
		if !s.Passed {
			return false
		}
	}
	return true
}

// Error returns a combined error message for the failed steps, or the empty
// string when everything passed.
func (r *Result) Error() string {
	var failures []string
	for _, s := range r.Steps {
		if !s.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", s.Name, s.Details))
		}
	}
	return strings.Join(failures, "; ")
}

// VerifySelection checks the selection guarantees on a finished result.
func VerifySelection(result *processing.Result, maxFrames int) *Result {
	v := &Result{}

	v.Steps = append(v.Steps, validateBudget(result, maxFrames))
	v.Steps = append(v.Steps, validateOrdering(result))
	v.Steps = append(v.Steps, validateFirstFrame(result))
	v.Steps = append(v.Steps, validateSceneCoverage(result))

	return v
}

// validateBudget checks the selected frame count is within [1, maxFrames].
func validateBudget(result *processing.Result, maxFrames int) Step {
	n := len(result.Frames)
	if n >= 1 && n <= maxFrames {
		return Step{Name: "budget", Passed: true,
			Details: fmt.Sprintf("%d frames within limit %d", n, maxFrames)}
	}
	return Step{Name: "budget", Passed: false,
		Details: fmt.Sprintf("selected %d frames, limit is %d", n, maxFrames)}
}

// validateOrdering checks timestamps are strictly increasing.
func validateOrdering(result *processing.Result) Step {
	for i := 1; i < len(result.Frames); i++ {
		prev, cur := result.Frames[i-1].Timestamp, result.Frames[i].Timestamp
		if cur <= prev {
			return Step{Name: "ordering", Passed: false,
				Details: fmt.Sprintf("timestamp %.3f follows %.3f at position %d", cur, prev, i)}
		}
	}
	return Step{Name: "ordering", Passed: true, Details: "timestamps strictly increasing"}
}

// validateFirstFrame checks the selection opens with the cut at the start of
// the first scene.
func validateFirstFrame(result *processing.Result) Step {
	if len(result.Frames) == 0 {
		return Step{Name: "first frame", Passed: false, Details: "no frames selected"}
	}
	first := result.Frames[0]
	if first.Role != scene.RoleCut {
		return Step{Name: "first frame", Passed: false,
			Details: fmt.Sprintf("first frame has role %q, want cut", first.Role)}
	}
	return Step{Name: "first frame", Passed: true,
		Details: fmt.Sprintf("cut at %.3fs", first.Timestamp)}
}

// validateSceneCoverage checks every frame references a known scene and
// every scene keeps at least its initiating frame.
func validateSceneCoverage(result *processing.Result) Step {
	selected := make([]int, len(result.Scenes))
	for _, f := range result.Frames {
		if f.Scene < 0 || f.Scene >= len(result.Scenes) {
			return Step{Name: "scene coverage", Passed: false,
				Details: fmt.Sprintf("frame at %.3fs references unknown scene %d", f.Timestamp, f.Scene)}
		}
		selected[f.Scene]++
	}
	for i, n := range selected {
		if n == 0 {
			return Step{Name: "scene coverage", Passed: false,
				Details: fmt.Sprintf("scene %d kept no frames", i)}
		}
	}
	return Step{Name: "scene coverage", Passed: true,
		Details: fmt.Sprintf("all %d scenes represented", len(result.Scenes))}
}
