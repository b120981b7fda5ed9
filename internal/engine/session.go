// Package engine - session.go
// Game lifecycle: new games, speed and pause, prestige resets.
package engine

import (
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
)

// NewGame creates a fresh run with seeded markets and a starter property.
func (e *Engine) NewGame() game.State {
	return e.newGame(game.Prestige{})
}

func (e *Engine) newGame(p game.Prestige) game.State {
	cash := e.balance.StartingCash * (1 + e.balance.PrestigeCashBonus*float64(p.Level))
	s := game.New(e.balance, cash)
	s.Prestige = p

	t := &tx{s: &s, newID: e.newID, actor: events.ActorSystem}
	e.marketSystem.Seed(t)
	s.Stats.PeakNetWorth = s.NetWorth()
	s.Stats.PeakPropertyCount = len(s.Player.Properties)
	return s
}

func (e *Engine) setSpeed(t *tx, c SetSpeed) error {
	if !c.Speed.IsValid() {
		return ErrInvalidArgument
	}
	t.s.GameTime.Speed = c.Speed
	return nil
}

func (e *Engine) togglePause(t *tx) error {
	if t.s.GameOver != nil {
		return ErrGameOver
	}
	t.s.GameTime.IsPaused = !t.s.GameTime.IsPaused
	return nil
}

// reset starts over but keeps prestige progress.
func (e *Engine) reset(t *tx) error {
	*t.s = e.newGame(t.s.Prestige)
	t.emit(events.EventTypeNewGame, "", nil)
	return nil
}

func (e *Engine) openPrestige(t *tx) error {
	if t.s.GameWin == nil || !t.s.GameWin.Achieved {
		return ErrIneligible
	}
	t.s.UI.ShowPrestige = true
	return nil
}

func (e *Engine) prestige(t *tx) error {
	if t.s.GameWin == nil || !t.s.GameWin.Achieved {
		return ErrIneligible
	}
	next := game.Prestige{
		Level:     t.s.Prestige.Level + 1,
		TotalWins: t.s.Prestige.TotalWins + 1,
	}
	*t.s = e.newGame(next)
	e.logger.Event(string(events.EventTypeNewGame), events.ActorPlayer, "prestige reset")
	t.emit(events.EventTypeNewGame, "", next)
	return nil
}
