// Package dice implements hands of five six-sided dice and the hold masks
// that decide which of them are re-rolled.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Count is the number of dice in a hand.
	Count = 5
	// Faces is the number of sides on each die.
	Faces = 6
)

// ErrMaskLength indicates a hold mask does not line up with its hand.
var ErrMaskLength = errors.New("hold mask length must match hand length")

// ErrInvalidHand indicates a hand does not hold exactly five dice.
var ErrInvalidHand = errors.New("hand must hold exactly five dice")

// ErrInvalidFace indicates a die value outside 1-6.
var ErrInvalidFace = errors.New("die faces must be between 1 and 6")

// Source is the randomness provider for dice rolls. *rand.Rand from
// math/rand/v2 satisfies it.
//
// Implementations are not required to be safe for concurrent use; callers
// serialise access.
type Source interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
}

// Hand is an ordered set of die faces. Order only matters for lining up
// positions with a Mask.
type Hand []int

// Mask marks which positions of a Hand are held (true) on the next roll.
type Mask []bool

// Roll returns a single uniform draw in [1,6].
func Roll(src Source) int {
	return src.IntN(Faces) + 1
}

// RollFresh rolls n independent dice.
func RollFresh(src Source, n int) Hand {
	h := make(Hand, n)
	for i := range h {
		h[i] = Roll(src)
	}
	return h
}

// RollWithMask returns a new hand where held dice keep their value and the
// rest are re-rolled. The input hand is not modified.
func RollWithMask(src Source, h Hand, m Mask) (Hand, error) {
	if len(m) != len(h) {
		return nil, fmt.Errorf("%w: mask %d, hand %d", ErrMaskLength, len(m), len(h))
	}
	out := make(Hand, len(h))
	for i := range h {
		if m[i] {
			out[i] = h[i]
		} else {
			out[i] = Roll(src)
		}
	}
	return out, nil
}

// Copy returns an independent copy of the hand.
func (h Hand) Copy() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// Counts returns how many dice show each face. Index 0 is unused.
func Counts(h Hand) [Faces + 1]int {
	var c [Faces + 1]int
	for _, v := range h {
		if v >= 1 && v <= Faces {
			c[v]++
		}
	}
	return c
}

// AllEqual reports whether every die shows the same face.
func AllEqual(h Hand) bool {
	if len(h) == 0 {
		return false
	}
	for _, v := range h[1:] {
		if v != h[0] {
			return false
		}
	}
	return true
}

// MostFrequent returns the face with the highest count and that count.
// Ties go to the lowest face. An empty hand reports face 1 with count 0.
func MostFrequent(h Hand) (face, count int) {
	c := Counts(h)
	face = 1
	for v := 1; v <= Faces; v++ {
		if c[v] > count {
			face, count = v, c[v]
		}
	}
	return face, count
}

// Distinct returns the set of faces present in the hand.
func Distinct(h Hand) [Faces + 1]bool {
	var seen [Faces + 1]bool
	for _, v := range h {
		if v >= 1 && v <= Faces {
			seen[v] = true
		}
	}
	return seen
}

// HoldFace holds every die showing face.
func HoldFace(h Hand, face int) Mask {
	return HoldAny(h, face)
}

// HoldAny holds every die whose face is one of faces.
func HoldAny(h Hand, faces ...int) Mask {
	m := make(Mask, len(h))
	for i, v := range h {
		for _, f := range faces {
			if v == f {
				m[i] = true
				break
			}
		}
	}
	return m
}

// NoneHeld returns a mask that re-rolls all n dice.
func NoneHeld(n int) Mask {
	return make(Mask, n)
}

// AllHeld returns a mask that keeps all n dice.
func AllHeld(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Validate checks the hand has five dice with faces in range.
func Validate(h Hand) error {
	if len(h) != Count {
		return fmt.Errorf("%w: got %d", ErrInvalidHand, len(h))
	}
	for i, v := range h {
		if v < 1 || v > Faces {
			return fmt.Errorf("%w: die %d is %d", ErrInvalidFace, i+1, v)
		}
	}
	return nil
}

// Parse reads a hand written as "2,2,2,5,5", "2 2 2 5 5" or "22255".
func Parse(s string) (Hand, error) {
	s = strings.TrimSpace(s)
	var fields []string
	if strings.ContainsAny(s, ", ") {
		fields = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	} else {
		fields = strings.Split(s, "")
	}

	h := make(Hand, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFace, f)
		}
		h = append(h, v)
	}
	if err := Validate(h); err != nil {
		return nil, err
	}
	return h, nil
}

// String renders the hand with die glyphs, e.g. "⚀⚁⚂⚃⚄".
func (h Hand) String() string {
	var b strings.Builder
	for _, v := range h {
		if v >= 1 && v <= Faces {
			b.WriteRune(rune(0x2680 + v - 1))
		} else {
			b.WriteRune('?')
		}
	}
	return b.String()
}

// String renders held positions as H and re-rolled ones as dots, e.g. "HH.H.".
func (m Mask) String() string {
	var b strings.Builder
	for _, held := range m {
		if held {
			b.WriteByte('H')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// Held returns the number of held positions.
func (m Mask) Held() int {
	n := 0
	for _, held := range m {
		if held {
			n++
		}
	}
	return n
}
