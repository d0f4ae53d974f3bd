// Package scoring implements the Generala scoring rules.
//
// Every function here is pure: no randomness, no state. Front ends call
// Score and AllScores directly to show a player's potential points while
// they hold and release dice.
package scoring

import "github.com/lox/generala/internal/dice"

const (
	straightPoints    = 20
	fullHousePoints   = 30
	fourOfAKindPoints = 40
	generalaPoints    = 50

	straightServedBonus    = 5
	fullHouseServedBonus   = 5
	fourOfAKindServedBonus = 10
	generalaServedPoints   = 60
)

// Score returns the points hand earns in category. served means the hand is
// claimed straight off the first roll of the turn.
func Score(c Category, h dice.Hand, served bool) int {
	counts := dice.Counts(h)
	switch c {
	case Ones, Twos, Threes, Fours, Fives, Sixes:
		face := c.Face()
		return face * counts[face]
	case Straight:
		if isStraight(counts) {
			return straightPoints + bonus(served, straightServedBonus)
		}
	case FullHouse:
		if isFullHouse(counts) {
			return fullHousePoints + bonus(served, fullHouseServedBonus)
		}
	case FourOfAKind:
		if hasCount(counts, 4) {
			return fourOfAKindPoints + bonus(served, fourOfAKindServedBonus)
		}
	case Generala:
		if len(h) == dice.Count && hasCount(counts, dice.Count) {
			if served {
				return generalaServedPoints
			}
			return generalaPoints
		}
	}
	return 0
}

// AllScores scores every category not in used. Used categories are left out
// of the map rather than reported as zero.
func AllScores(h dice.Hand, served bool, used CategorySet) map[Category]int {
	out := make(map[Category]int, NumCategories-used.Len())
	for _, c := range Categories {
		if !used.Has(c) {
			out[c] = Score(c, h, served)
		}
	}
	return out
}

// Best returns the first highest scoring unused category in enumeration
// order. ok is false when every category is used.
func Best(h dice.Hand, served bool, used CategorySet) (best Category, points int, ok bool) {
	points = -1
	for _, c := range Categories {
		if used.Has(c) {
			continue
		}
		if s := Score(c, h, served); s > points {
			best, points, ok = c, s, true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return best, points, true
}

func bonus(served bool, points int) int {
	if served {
		return points
	}
	return 0
}

// isStraight accepts exactly 1-2-3-4-5 or 2-3-4-5-6.
func isStraight(counts [dice.Faces + 1]int) bool {
	for v := 2; v <= 5; v++ {
		if counts[v] != 1 {
			return false
		}
	}
	return counts[1]+counts[6] == 1
}

func isFullHouse(counts [dice.Faces + 1]int) bool {
	var three, two bool
	for v := 1; v <= dice.Faces; v++ {
		switch counts[v] {
		case 3:
			three = true
		case 2:
			two = true
		}
	}
	return three && two
}

func hasCount(counts [dice.Faces + 1]int, k int) bool {
	for v := 1; v <= dice.Faces; v++ {
		if counts[v] >= k {
			return true
		}
	}
	return false
}
