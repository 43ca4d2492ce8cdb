// Package scene partitions the sampled frame sequence into contiguous scenes
// and selects the frames that fit the extraction budget.
package scene

import "sort"

// Frame is one sampled frame as seen by the segmentation stages. The raster
// data stays with the orchestrator; stages only need position and the cut
// classification.
type Frame struct {
	// Index is the frame's position in the sampled sequence.
	Index int
	// Timestamp is the frame's time in the video, in seconds.
	Timestamp float64
	// Cut reports whether the classifier marked a boundary between this
	// frame and its predecessor. The first sampled frame is always a cut.
	Cut bool
	// Similarity is the combined similarity to the previous frame. Lower
	// means a stronger boundary. Zero for the first frame.
	Similarity float64
}

// Scene is a maximal contiguous run of sampled frames between two detected
// cut boundaries. Scenes are contiguous, non-overlapping, and together cover
// the full sampled sequence in order.
type Scene struct {
	// Start is the timestamp of the scene's first frame.
	Start float64
	// End is the start of the next scene, or the video duration for the
	// last scene.
	End float64
	// Frames are the sampled frames belonging to this scene, in order.
	Frames []Frame
}

// Duration returns the scene length in seconds.
func (s Scene) Duration() float64 {
	return s.End - s.Start
}

// Build partitions the sampled frames into scenes. A new scene starts at the
// first frame and at every frame classified as a cut. Pure function: the
// input slice is not modified.
func Build(frames []Frame, videoDuration float64) []Scene {
	if len(frames) == 0 {
		return nil
	}

	var scenes []Scene
	var current []Frame

	for i, f := range frames {
		if i == 0 || f.Cut {
			if len(current) > 0 {
				scenes = append(scenes, Scene{
					Start:  current[0].Timestamp,
					End:    f.Timestamp,
					Frames: current,
				})
			}
			current = nil
		}
		current = append(current, f)
	}

	scenes = append(scenes, Scene{
		Start:  current[0].Timestamp,
		End:    videoDuration,
		Frames: current,
	})

	return scenes
}

// ReduceCuts limits the number of cut-classified frames to maxCuts, keeping
// the most salient boundaries (lowest combined similarity). The first frame
// is always kept. Frames whose cuts are removed stay in the sequence and
// fold into the preceding scene. Returns a new slice; the input is not
// modified.
//
// This is the policy for the pathological many-rapid-cuts case: reduce by
// salience rather than truncate by time, so the strongest boundaries survive
// no matter where they fall in the video.
func ReduceCuts(frames []Frame, maxCuts int) []Frame {
	if maxCuts < 1 {
		maxCuts = 1
	}

	cutIdx := make([]int, 0, len(frames))
	for i, f := range frames {
		if i == 0 || f.Cut {
			cutIdx = append(cutIdx, i)
		}
	}
	if len(cutIdx) <= maxCuts {
		return frames
	}

	// Rank non-initial cuts by salience; earlier timestamp wins ties.
	candidates := cutIdx[1:]
	sort.SliceStable(candidates, func(a, b int) bool {
		fa, fb := frames[candidates[a]], frames[candidates[b]]
		if fa.Similarity != fb.Similarity {
			return fa.Similarity < fb.Similarity
		}
		return fa.Index < fb.Index
	})

	keep := make(map[int]bool, maxCuts)
	keep[cutIdx[0]] = true
	for _, i := range candidates[:maxCuts-1] {
		keep[i] = true
	}

	out := make([]Frame, len(frames))
	copy(out, frames)
	for i := range out {
		if i == 0 {
			continue
		}
		if out[i].Cut && !keep[i] {
			out[i].Cut = false
		}
	}
	return out
}
