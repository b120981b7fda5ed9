// Package engine - report_system.go
// Report System - annual balance sheets and the end-of-run win check.
package engine

import (
	"fmt"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
)

// ReportSystem files the yearly balance sheet.
type ReportSystem struct {
	balance *config.Balance
	logger  *logger.Logger
}

// NewReportSystem creates a new report system.
func NewReportSystem(b *config.Balance, log *logger.Logger) *ReportSystem {
	return &ReportSystem{balance: b, logger: log}
}

// Snapshot appends this year's balance sheet, keeping the most recent ones.
// The sheet that fills the history decides the run.
func (rs *ReportSystem) Snapshot(t *tx) {
	sheet := game.BalanceSheet(t.s)
	history := append(t.s.BalanceSheetHistory, sheet)
	if n := len(history) - rs.balance.BalanceSheetHistory; n > 0 {
		history = history[n:]
	}
	t.s.BalanceSheetHistory = history
	t.s.UI.ShowBalanceSheet = true
	t.emit(events.EventTypeBalanceSheet, "", sheet)

	if t.s.GameWin != nil || len(history) < rs.balance.BalanceSheetHistory {
		return
	}
	win := &game.GameWin{
		Date:           t.today(),
		Achieved:       sheet.NetWorth >= rs.balance.WinNetWorth,
		NetWorth:       sheet.NetWorth,
		TargetNetWorth: rs.balance.WinNetWorth,
	}
	t.s.GameWin = win
	t.s.UI.ShowGameWin = true
	t.s.GameTime.IsPaused = true
	rs.logger.Event(string(events.EventTypeGameWin), events.ActorSystem,
		fmt.Sprintf("achieved=%t net worth %s", win.Achieved, game.FormatCurrency(win.NetWorth)))
	t.emit(events.EventTypeGameWin, "", *win)
}
