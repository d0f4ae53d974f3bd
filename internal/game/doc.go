// Package game runs a two-player Generala match.
//
// The main type is Match, which tracks both score cards, whose turn it is,
// the live hand and how many rolls the current turn has used.
//
// # Basic Usage
//
// A human plays against the computer:
//
//	human := game.NewPlayer("You", game.Human)
//	computer := game.NewPlayer("Computer", game.Computer)
//	m := game.NewMatch(human, computer, rng, logger)
//
//	hand, _ := m.Roll(nil)                 // first roll, nothing held
//	hand, _ = m.Roll(dice.HoldFace(hand, 6))
//	points, _ := m.Claim(scoring.Sixes)
//
//	result, _ := m.PlayComputer(engine)    // engine is an *ai.Engine
//	if m.Outcome().Over {
//	    // announce the winner
//	}
//
// # Served claims
//
// A claim made after exactly one roll is served and earns the bonus points
// of the scoring table. Five equal dice on the first roll of a turn claim
// Generala for 60 and end the match at once, unless the rule is disabled
// with WithFirstRollGeneralaWins(false) or Generala is already used.
//
// # Deterministic Testing
//
// Inject a seeded source and a quartz mock clock:
//
//	rng := randutil.New(42)
//	m := game.NewMatch(a, b, rng, logger, game.WithClock(quartz.NewMock(t)))
package game
