package scoring

import (
	"fmt"
	"strings"
)

// Category is one of the ten scoring slots a player fills once per game.
type Category int

// Categories in score card order: the six upper faces, then the four
// combinations.
const (
	Ones Category = iota
	Twos
	Threes
	Fours
	Fives
	Sixes
	Straight
	FullHouse
	FourOfAKind
	Generala
)

// NumCategories is the size of the closed category set.
const NumCategories = 10

// Categories lists every category in enumeration order.
var Categories = []Category{
	Ones, Twos, Threes, Fours, Fives, Sixes,
	Straight, FullHouse, FourOfAKind, Generala,
}

var categoryNames = [NumCategories]string{
	"Ones", "Twos", "Threes", "Fours", "Fives", "Sixes",
	"Straight", "FullHouse", "FourOfAKind", "Generala",
}

// String returns the category name.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	return c >= Ones && c <= Generala
}

// Face returns the die face a number category sums, or 0 for the others.
func (c Category) Face() int {
	if c >= Ones && c <= Sixes {
		return int(c-Ones) + 1
	}
	return 0
}

// ParseCategory accepts category names case-insensitively, ignoring spaces,
// dashes and underscores ("full house", "four-of-a-kind", "G").
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s))
	switch key {
	case "1", "ones":
		return Ones, nil
	case "2", "twos":
		return Twos, nil
	case "3", "threes":
		return Threes, nil
	case "4", "fours":
		return Fours, nil
	case "5", "fives":
		return Fives, nil
	case "6", "sixes":
		return Sixes, nil
	case "s", "straight", "escalera":
		return Straight, nil
	case "f", "fullhouse", "full":
		return FullHouse, nil
	case "p", "fourofakind", "poker", "poker4":
		return FourOfAKind, nil
	case "g", "generala":
		return Generala, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// CategorySet is a set of categories. The zero value is empty and sets are
// plain values, so a copy never aliases its source.
type CategorySet uint16

// NewCategorySet returns a set containing cats.
func NewCategorySet(cats ...Category) CategorySet {
	var s CategorySet
	for _, c := range cats {
		s = s.With(c)
	}
	return s
}

// Has reports whether c is in the set.
func (s CategorySet) Has(c Category) bool {
	return c.Valid() && s&(1<<uint(c)) != 0
}

// With returns the set with c added.
func (s CategorySet) With(c Category) CategorySet {
	if !c.Valid() {
		return s
	}
	return s | 1<<uint(c)
}

// Len returns the number of categories in the set.
func (s CategorySet) Len() int {
	n := 0
	for _, c := range Categories {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// Full reports whether every category is in the set.
func (s CategorySet) Full() bool {
	return s.Len() == NumCategories
}

// Slice returns the members in enumeration order.
func (s CategorySet) Slice() []Category {
	var out []Category
	for _, c := range Categories {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}
