package ai

import "github.com/lox/generala/internal/dice"

// straightCores are the three runs of four that can grow into a straight.
var straightCores = [][]int{
	{1, 2, 3, 4},
	{2, 3, 4, 5},
	{3, 4, 5, 6},
}

// greedyMask holds every die showing the most frequent face. It is the only
// re-roll policy the rollouts follow after their first roll, and the first
// rule of candidate generation.
func greedyMask(h dice.Hand) (dice.Mask, int) {
	face, count := dice.MostFrequent(h)
	return dice.HoldFace(h, face), count
}

// candidateMasks proposes hold masks for h in a fixed priority order and
// truncates the list to maxMasks. The order decides EV ties, so it must not
// change between runs.
func candidateMasks(h dice.Hand, maxMasks int) []dice.Mask {
	masks := []dice.Mask{dice.NoneHeld(len(h))}

	if m, count := greedyMask(h); count >= 2 {
		masks = append(masks, m)
	}

	counts := dice.Counts(h)
	for v := 1; v <= dice.Faces; v++ {
		if counts[v] == 3 {
			masks = append(masks, dice.HoldFace(h, v))
			break
		}
	}

	var pairs []int
	for v := 1; v <= dice.Faces; v++ {
		if counts[v] == 2 {
			pairs = append(pairs, v)
		}
	}
	if len(pairs) >= 1 {
		masks = append(masks, dice.HoldFace(h, pairs[0]))
	}
	if len(pairs) >= 2 {
		masks = append(masks, dice.HoldAny(h, pairs[0], pairs[1]))
	}

	present := dice.Distinct(h)
	distinct := 0
	for v := 1; v <= dice.Faces; v++ {
		if present[v] {
			distinct++
		}
	}
	if distinct >= 4 {
		for _, core := range straightCores {
			if containsAll(present, core) {
				masks = append(masks, dice.HoldAny(h, core...))
			}
		}
	}

	if maxMasks >= holdAllMinMasks {
		masks = append(masks, dice.AllHeld(len(h)))
	}

	if len(masks) > maxMasks {
		masks = masks[:maxMasks]
	}
	if len(masks) == 0 {
		masks = []dice.Mask{dice.NoneHeld(len(h))}
	}
	return masks
}

func containsAll(present [dice.Faces + 1]bool, faces []int) bool {
	for _, f := range faces {
		if !present[f] {
			return false
		}
	}
	return true
}
