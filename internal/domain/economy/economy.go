// Package economy models the macroeconomic cycle driving interest rates and
// inflation.
// This package is PURE and must NOT import any infrastructure packages.
package economy

// Phase is one stage of the business cycle.
type Phase string

const (
	PhaseRecession Phase = "recession"
	PhaseRecovery  Phase = "recovery"
	PhaseExpansion Phase = "expansion"
	PhasePeak      Phase = "peak"
)

// Range is a closed interval.
type Range struct {
	Min float64
	Max float64
}

// Lerp maps a unit-interval roll into the range.
func (r Range) Lerp(u float64) float64 {
	return r.Min + u*(r.Max-r.Min)
}

// Targets holds the per-phase target ranges for quarterly inflation and the base rate.
type Targets struct {
	Inflation Range
	BaseRate  Range
}

var phaseTargets = map[Phase]Targets{
	PhaseRecession: {Inflation: Range{-0.5, 0.5}, BaseRate: Range{0.25, 2.0}},
	PhaseRecovery:  {Inflation: Range{0.25, 0.75}, BaseRate: Range{1.0, 3.0}},
	PhaseExpansion: {Inflation: Range{0.5, 1.25}, BaseRate: Range{2.5, 5.0}},
	PhasePeak:      {Inflation: Range{1.0, 2.0}, BaseRate: Range{4.0, 7.0}},
}

// TargetsFor returns the target ranges of a phase.
func TargetsFor(p Phase) Targets {
	return phaseTargets[p]
}

// Next returns the phase that follows p in the fixed cycle.
func (p Phase) Next() Phase {
	switch p {
	case PhaseRecession:
		return PhaseRecovery
	case PhaseRecovery:
		return PhaseExpansion
	case PhaseExpansion:
		return PhasePeak
	default:
		return PhaseRecession
	}
}

// HistoryLength is the number of quarterly inflation readings kept.
const HistoryLength = 4

// Economy is the process-wide macro state. It changes only on quarter boundaries.
type Economy struct {
	BaseRate                 float64   `json:"baseRate"`
	InflationRate            float64   `json:"inflationRate"`
	Phase                    Phase     `json:"economicPhase"`
	TargetInflationRate      float64   `json:"targetInflationRate"`
	TargetBaseRate           float64   `json:"targetBaseRate"`
	QuartersSincePhaseChange int       `json:"quartersSincePhaseChange"`
	InflationHistory         []float64 `json:"inflationHistory"`
	HighestInflationRate     float64   `json:"highestInflationRate"`
}

// Initial returns the economy of a new game.
func Initial() Economy {
	return Economy{
		BaseRate:             4.0,
		InflationRate:        0.75,
		Phase:                PhaseExpansion,
		TargetInflationRate:  0.75,
		TargetBaseRate:       4.0,
		InflationHistory:     []float64{0.75},
		HighestInflationRate: 0.75,
	}
}

// Clone returns a deep copy.
func (e Economy) Clone() Economy {
	c := e
	c.InflationHistory = append([]float64(nil), e.InflationHistory...)
	return c
}

// PushInflation records a quarterly reading, keeping the last HistoryLength.
func (e *Economy) PushInflation(rate float64) {
	e.InflationHistory = append(e.InflationHistory, rate)
	if n := len(e.InflationHistory); n > HistoryLength {
		e.InflationHistory = append([]float64(nil), e.InflationHistory[n-HistoryLength:]...)
	}
	if rate > e.HighestInflationRate {
		e.HighestInflationRate = rate
	}
}

// AnnualInflation sums the rolling quarterly history.
func (e *Economy) AnnualInflation() float64 {
	sum := 0.0
	for _, r := range e.InflationHistory {
		sum += r
	}
	return sum
}
