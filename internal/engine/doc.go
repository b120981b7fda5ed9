// Package engine contains the game loop and simulation logic.
// This is the heartbeat of the property game.
//
// Engine.Apply is a pure transition: it takes a state and a command and
// returns the replacement state plus the events it produced. Nothing here
// touches storage or the clock; the Ticker and the store live outside the
// transition and only feed it commands.
package engine
