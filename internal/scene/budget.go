package scene

import (
	"math"
	"sort"
)

// Role tags how a selected frame earned its place in the result.
type Role string

const (
	// RoleCut marks a scene-initiating boundary frame.
	RoleCut Role = "cut"
	// RoleFill marks a frame added to satisfy the frame budget.
	RoleFill Role = "fill"
)

// Pick is one selected frame with its role and owning scene.
type Pick struct {
	Frame Frame
	Role  Role
	Scene int
}

// Allocate selects the extracted frame set for the given scenes. Every scene
// contributes its initiating frame as a cut; the remaining budget up to
// target is distributed across scenes proportionally to duration and filled
// with frames at roughly uniform intervals. The returned picks are ordered
// by timestamp and never exceed max.
func Allocate(scenes []Scene, target, max int) []Pick {
	if len(scenes) == 0 {
		return nil
	}

	picks := make([]Pick, 0, target)
	for i, s := range scenes {
		picks = append(picks, Pick{Frame: s.Frames[0], Role: RoleCut, Scene: i})
	}

	remaining := target - len(scenes)
	if remaining < 0 {
		remaining = 0
	}

	counts := distribute(scenes, remaining)

	fills := make([][]Frame, len(scenes))
	for i, s := range scenes {
		fills[i] = pickFills(s, counts[i])
	}

	dropOverCap(fills, len(scenes), max)

	for i, sceneFills := range fills {
		for _, f := range sceneFills {
			picks = append(picks, Pick{Frame: f, Role: RoleFill, Scene: i})
		}
	}

	sort.Slice(picks, func(a, b int) bool {
		return picks[a].Frame.Index < picks[b].Frame.Index
	})

	// Scenes alone past the cap is handled upstream by cut reduction; this
	// is the unconditional backstop.
	if len(picks) > max {
		picks = picks[:max]
	}

	return picks
}

// distribute splits budget across scenes proportionally to duration using
// the largest-remainder method, so the counts sum exactly to budget.
// Leftover frames from rounding go to the scenes with the largest
// remainders, longest scene first on ties.
func distribute(scenes []Scene, budget int) []int {
	counts := make([]int, len(scenes))
	if budget <= 0 {
		return counts
	}

	var totalDur float64
	for _, s := range scenes {
		totalDur += s.Duration()
	}
	if totalDur <= 0 {
		// Degenerate scene list; spread the budget round-robin.
		for i := 0; i < budget; i++ {
			counts[i%len(scenes)]++
		}
		return counts
	}

	remainders := make([]float64, len(scenes))
	allocated := 0
	for i, s := range scenes {
		share := float64(budget) * s.Duration() / totalDur
		counts[i] = int(math.Floor(share))
		remainders[i] = share - float64(counts[i])
		allocated += counts[i]
	}

	order := make([]int, len(scenes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if remainders[ia] != remainders[ib] {
			return remainders[ia] > remainders[ib]
		}
		if scenes[ia].Duration() != scenes[ib].Duration() {
			return scenes[ia].Duration() > scenes[ib].Duration()
		}
		return ia < ib
	})

	for i := 0; i < budget-allocated; i++ {
		counts[order[i%len(order)]]++
	}

	return counts
}

// pickFills selects up to n fill frames inside a scene. Targets sit at
// uniform fractions of the scene span; each target takes the nearest sampled
// frame not already selected. A scene with too few sampled frames yields
// fewer fills than asked.
func pickFills(s Scene, n int) []Frame {
	if n <= 0 || len(s.Frames) <= 1 {
		return nil
	}

	taken := make(map[int]bool, n+1)
	taken[s.Frames[0].Index] = true

	var fills []Frame
	dur := s.Duration()
	for k := 1; k <= n; k++ {
		targetTs := s.Start + dur*float64(k)/float64(n+1)

		best := -1
		bestDist := math.Inf(1)
		for _, f := range s.Frames {
			if taken[f.Index] {
				continue
			}
			dist := math.Abs(f.Timestamp - targetTs)
			if dist < bestDist {
				bestDist = dist
				best = f.Index
				continue
			}
		}
		if best < 0 {
			break // scene exhausted
		}

		for _, f := range s.Frames {
			if f.Index == best {
				fills = append(fills, f)
				break
			}
		}
		taken[best] = true
	}

	sort.Slice(fills, func(a, b int) bool { return fills[a].Index < fills[b].Index })
	return fills
}

// dropOverCap removes fill frames until cuts+fills fit under max. Drops are
// spread across scenes: each round takes one fill from the scene currently
// holding the most, removing the fill farthest from the scene midpoint so
// the retained frames stay representative.
func dropOverCap(fills [][]Frame, cuts, max int) {
	total := cuts
	for _, f := range fills {
		total += len(f)
	}

	for total > max {
		victim := -1
		for i, f := range fills {
			if len(f) == 0 {
				continue
			}
			if victim < 0 || len(f) >= len(fills[victim]) {
				victim = i
			}
		}
		if victim < 0 {
			return // nothing but cut frames left
		}

		fills[victim] = removeOutermost(fills[victim])
		total--
	}
}

// removeOutermost drops the fill farthest from the center of the fill span,
// preferring the later frame on ties.
func removeOutermost(fills []Frame) []Frame {
	if len(fills) <= 1 {
		return fills[:0]
	}

	mid := (fills[0].Timestamp + fills[len(fills)-1].Timestamp) / 2
	worst := 0
	worstDist := -1.0
	for i, f := range fills {
		dist := math.Abs(f.Timestamp - mid)
		if dist >= worstDist {
			worstDist = dist
			worst = i
		}
	}

	return append(fills[:worst], fills[worst+1:]...)
}
