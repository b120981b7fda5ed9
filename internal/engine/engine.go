package engine

import (
	"fmt"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/domain/calendar"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
	"github.com/google/uuid"
)

// Result is the outcome of applying one command.
type Result struct {
	State   game.State
	Events  []events.GameEvent
	Applied bool
	Reason  error // why the command was rejected; nil when Applied
}

// Engine is the central orchestrator that sequences every subsystem over a
// game state. It holds no game state of its own.
type Engine struct {
	balance config.Balance
	rng     Random
	logger  *logger.Logger
	newID   func() string

	// Sub-systems
	economySystem     *EconomySystem
	interestSystem    *InterestSystem
	staffSystem       *StaffSystem
	mortgageSystem    *MortgageSystem
	tenancySystem     *TenancySystem
	maintenanceSystem *MaintenanceSystem
	salesSystem       *SalesSystem
	marketSystem      *MarketSystem
	reportSystem      *ReportSystem
	foreclosureSystem *ForeclosureSystem
}

// Option customises an Engine.
type Option func(*Engine)

// WithRandom injects the uniform source used for every stochastic roll.
func WithRandom(r Random) Option {
	return func(e *Engine) { e.rng = r }
}

// WithIDGenerator replaces uuid-based identifiers, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// NewEngine initializes the core game systems and dependencies.
func NewEngine(b config.Balance, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		balance: b,
		rng:     NewSeededRandom(1),
		logger:  log,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.economySystem = NewEconomySystem(&e.balance, e.rng, log)
	e.interestSystem = NewInterestSystem(&e.balance, log)
	e.tenancySystem = NewTenancySystem(&e.balance, e.rng, log)
	e.maintenanceSystem = NewMaintenanceSystem(&e.balance, log, e.tenancySystem)
	e.staffSystem = NewStaffSystem(&e.balance, e.rng, log, e.tenancySystem, e.maintenanceSystem)
	e.mortgageSystem = NewMortgageSystem(&e.balance, log)
	e.salesSystem = NewSalesSystem(&e.balance, e.rng, log, e.staffSystem)
	e.marketSystem = NewMarketSystem(&e.balance, e.rng, log)
	e.reportSystem = NewReportSystem(&e.balance, log)
	e.foreclosureSystem = NewForeclosureSystem(&e.balance, log)
	return e
}

// Balance returns the tuning the engine was built with.
func (e *Engine) Balance() config.Balance {
	return e.balance
}

// tx is one in-flight transition over a private copy of the state.
type tx struct {
	s      *game.State
	events []events.GameEvent
	newID  func() string
	actor  string
}

func (t *tx) today() calendar.Date {
	return t.s.GameTime.CurrentDate
}

func (t *tx) emit(typ events.EventType, targetID string, payload interface{}) {
	t.events = append(t.events, events.GameEvent{
		ID:       t.newID(),
		Type:     typ,
		ActorID:  t.actor,
		TargetID: targetID,
		Payload:  payload,
		GameDate: t.s.GameTime.CurrentDate,
		GameDay:  t.s.GameTime.DaysPlayed,
	})
}

func (e *Engine) begin(s game.State, actor string) *tx {
	c := s.Clone()
	return &tx{s: &c, newID: e.newID, actor: actor}
}

// Apply runs cmd against s and returns the replacement state. s itself is
// never modified; a rejected command returns it unchanged.
func (e *Engine) Apply(s game.State, cmd Command) Result {
	actor := events.ActorPlayer
	if _, ok := cmd.(AdvanceDay); ok {
		actor = events.ActorSystem
	}
	t := e.begin(s, actor)

	var err error
	switch c := cmd.(type) {
	case AdvanceDay:
		err = e.advanceDay(t)
	case SetSpeed:
		err = e.setSpeed(t, c)
	case TogglePause:
		err = e.togglePause(t)
	case Reset:
		err = e.reset(t)
	case SetPropertyVacantSettings:
		err = e.tenancySystem.SetVacantSettings(t, c.PropertyID, c.RentMarkup, c.PeriodMonths)
	case SetDefaultRentMarkup:
		err = e.tenancySystem.SetDefaultMarkup(t, c.Markup)
	case CarryOutMaintenance:
		err = e.maintenanceSystem.CarryOut(t, c.PropertyID)
	case BuyPropertyInstant:
		err = e.marketSystem.BuyInstant(t, c.ListingID)
	case MakeOffer:
		err = e.marketSystem.MakeOffer(t, c.ListingID, c.OfferPercentage)
	case BuyPropertyWithMortgage:
		err = e.buyWithMortgage(t, c)
	case BuyAuctionPropertyInstant:
		err = e.marketSystem.BuyAuctionInstant(t, c.LotID)
	case MakeAuctionOffer:
		err = e.marketSystem.MakeAuctionOffer(t, c.LotID, c.OfferPercentage)
	case ListPropertyForSale:
		err = e.salesSystem.List(t, c.PropertyID, c.AskingPercentage)
	case CancelListing:
		err = e.salesSystem.Cancel(t, c.PropertyID)
	case ListPropertyNow:
		err = e.tenancySystem.ListNow(t, c.PropertyID)
	case RemortgageProperty:
		err = e.mortgageSystem.Remortgage(t, c)
	case PayOffMortgage:
		err = e.mortgageSystem.PayOff(t, c.MortgageID)
	case HireStaff:
		err = e.staffSystem.Hire(t, c.Role, c.District)
	case FireStaff:
		err = e.staffSystem.Fire(t, c.StaffID, c.Role)
	case PromoteStaff:
		err = e.staffSystem.Promote(t, c.StaffID, c.Role)
	case AssignPropertyToStaff:
		err = e.staffSystem.Assign(t, c.PropertyID, c.StaffID, c.Role)
	case UnassignProperty:
		err = e.staffSystem.Unassign(t, c.PropertyID, c.Role)
	case DismissBalanceSheetModal:
		t.s.UI.ShowBalanceSheet = false
	case DismissGameWinModal:
		t.s.UI.ShowGameWin = false
	case OpenPrestigeModal:
		err = e.openPrestige(t)
	case Prestige:
		err = e.prestige(t)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	if err != nil {
		e.logger.WithFields(map[string]interface{}{
			"command": commandName(cmd),
			"reason":  err.Error(),
		}).Debug("command rejected")
		return Result{State: s, Applied: false, Reason: err}
	}
	return Result{State: *t.s, Events: t.events, Applied: true}
}

func commandName(cmd Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return cmd.CommandName()
}

// advanceDay moves the clock one day and runs every subsystem in a fixed
// order; later steps observe the effects of earlier ones.
func (e *Engine) advanceDay(t *tx) error {
	s := t.s
	if s.GameOver != nil {
		return ErrGameOver
	}

	previous := s.GameTime.CurrentDate
	s.GameTime.CurrentDate = calendar.AddDays(previous, 1)
	s.GameTime.DaysPlayed++
	today := t.today()

	if calendar.IsNewQuarter(previous, today) {
		e.economySystem.OnNewQuarter(t)
	}
	e.interestSystem.Accrue(t)
	e.staffSystem.GainExperience(t)
	e.mortgageSystem.ResetRates(t)
	e.staffSystem.RunAgents(t)
	e.tenancySystem.AttemptFills(t)
	e.staffSystem.RunCaretakers(t)

	if today.Day == 1 {
		e.interestSystem.PayOut(t)
		e.marketSystem.DriftAreas(t)
		e.tenancySystem.CollectRent(t)
		e.maintenanceSystem.Decay(t)
		e.mortgageSystem.Bill(t)
		e.staffSystem.Payroll(t)
		e.staffSystem.IndexWages(t)
	}

	if today.Month == e.balance.BalanceSheetMonth && today.Day == e.balance.BalanceSheetDay {
		e.reportSystem.Snapshot(t)
	}

	e.maintenanceSystem.CompleteRepairs(t)
	e.tenancySystem.ExpireTenancies(t)
	e.salesSystem.ProcessSales(t)
	e.marketSystem.Churn(t)
	e.foreclosureSystem.TrackPeaks(t)
	e.foreclosureSystem.Check(t)
	t.emit(events.EventTypeDayAdvanced, "", nil)
	return nil
}
