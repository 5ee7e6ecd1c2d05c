package allocator

import (
	"math"
	"sort"
)

// Unit is one weighted entry to allocate a share of the target to
type Unit struct {
	// ID identifies the unit in the outcome (the course unit name)
	ID string

	// Hours is the instructional time the share is proportional to
	Hours float64
}

// Share is the allocation for one unit
type Share struct {
	ID    string
	Hours float64

	// Percentage is Hours / TotalHours, in [0, 1]
	Percentage float64

	// Raw is the exact proportional share before rounding
	Raw float64

	// Score is the rounded (and possibly corrected) share
	Score float64
}

// AllocationOutcome represents the result of an allocation
type AllocationOutcome struct {
	// Shares are in the same order as the input units
	Shares []Share

	// TotalHours is the sum of all unit hours
	TotalHours float64

	// Method is the apportionment method that produced the scores
	Method Method

	// Drift is sum(rounded shares) - target before any correction
	Drift float64

	// CorrectedIndex is the index of the unit that absorbed the drift, or -1
	CorrectedIndex int

	// Residual is sum(scores) - target after correction. It is zero except for
	// configurations where the single correction cannot land on the grid.
	Residual float64
}

// Scores returns the final scores in input order
func (o *AllocationOutcome) Scores() []float64 {
	scores := make([]float64, len(o.Shares))
	for i, share := range o.Shares {
		scores[i] = share.Score
	}
	return scores
}

// Total returns the sum of the final scores
func (o *AllocationOutcome) Total() float64 {
	total := 0.0
	for _, share := range o.Shares {
		total += share.Score
	}
	return total
}

// Allocate splits cfg.Target across units proportionally to their hours and rounds
// every share to cfg.Granularity. The result has one share per unit, in input order.
func Allocate(units []Unit, cfg Config) (*AllocationOutcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, InvalidInput("at least one unit is required")
	}

	totalHours := 0.0
	for _, unit := range units {
		if !(unit.Hours > 0) || math.IsInf(unit.Hours, 0) {
			return nil, InvalidInput("unit %q has non-positive hours (%v)", unit.ID, unit.Hours)
		}
		totalHours += unit.Hours
	}

	shares := make([]Share, len(units))
	for i, unit := range units {
		percentage := unit.Hours / totalHours
		shares[i] = Share{
			ID:         unit.ID,
			Hours:      unit.Hours,
			Percentage: percentage,
			Raw:        percentage * cfg.Target,
		}
	}

	outcome := &AllocationOutcome{
		Shares:         shares,
		TotalHours:     totalHours,
		Method:         cfg.Method,
		CorrectedIndex: -1,
	}

	switch cfg.Method {
	case MethodLargestRemainder:
		largestRemainder(outcome, cfg)
	default:
		singlePass(outcome, cfg)
	}

	outcome.Residual = outcome.Total() - cfg.Target
	if math.Abs(outcome.Residual) <= Tolerance {
		outcome.Residual = 0
	}

	return outcome, nil
}

// singlePass rounds each share, then moves the whole drift onto one unit exactly once.
// Positive drift is taken from the first largest share, negative drift is given to the
// first smallest share.
func singlePass(outcome *AllocationOutcome, cfg Config) {
	shares := outcome.Shares

	sum := 0.0
	for i := range shares {
		shares[i].Score = cfg.Round(shares[i].Raw)
		sum += shares[i].Score
	}

	drift := sum - cfg.Target
	if math.Abs(drift) <= Tolerance {
		return
	}
	outcome.Drift = drift

	idx := 0
	for i := 1; i < len(shares); i++ {
		if drift > 0 && shares[i].Score > shares[idx].Score {
			idx = i
		}
		if drift < 0 && shares[i].Score < shares[idx].Score {
			idx = i
		}
	}

	shares[idx].Score = cfg.Round(shares[idx].Score - drift)
	outcome.CorrectedIndex = idx
}

// largestRemainder works in whole granularity steps: every unit gets the floor of its
// quota and the steps left over go to the largest fractional remainders, earliest
// unit first on ties.
func largestRemainder(outcome *AllocationOutcome, cfg Config) {
	shares := outcome.Shares

	type remainder struct {
		index int
		value float64
	}

	totalSteps := int(math.Round(cfg.Target / cfg.Granularity))
	steps := make([]int, len(shares))
	remainders := make([]remainder, len(shares))

	assigned := 0
	roundedSum := 0.0
	for i := range shares {
		quota := shares[i].Raw / cfg.Granularity
		// Absorb float noise such as 23.999999999 before flooring
		if math.Abs(quota-math.Round(quota)) <= Tolerance {
			quota = math.Round(quota)
		}
		floor := math.Floor(quota)
		steps[i] = int(floor)
		remainders[i] = remainder{index: i, value: quota - floor}
		assigned += steps[i]
		roundedSum += cfg.Round(shares[i].Raw)
	}

	// Drift is still reported against independent rounding so both methods are comparable
	if drift := roundedSum - cfg.Target; math.Abs(drift) > Tolerance {
		outcome.Drift = drift
	}

	sort.SliceStable(remainders, func(i, j int) bool {
		return remainders[i].value > remainders[j].value
	})

	left := totalSteps - assigned
	for i := 0; i < left && i < len(remainders); i++ {
		steps[remainders[i].index]++
	}

	for i := range shares {
		shares[i].Score = float64(steps[i]) * cfg.Granularity
	}
}
