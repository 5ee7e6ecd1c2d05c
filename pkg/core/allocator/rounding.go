package allocator

import "math"

// Rounding selects the tie-break used when a value sits exactly between two steps
type Rounding string

const (
	// RoundHalfEven sends ties to the even step (0.125 -> 0.00, 0.375 -> 0.50)
	RoundHalfEven Rounding = "halfEven"

	// RoundHalfAwayFromZero sends ties away from zero (0.125 -> 0.25)
	RoundHalfAwayFromZero Rounding = "halfAwayFromZero"
)

// IsValid reports whether r is a known rounding mode
func (r Rounding) IsValid() bool {
	return r == RoundHalfEven || r == RoundHalfAwayFromZero
}

// Method selects how rounded shares are reconciled with the target total
type Method string

const (
	// MethodSinglePass rounds every share independently and then moves the whole drift
	// onto one unit, once. This is the default.
	MethodSinglePass Method = "singlePass"

	// MethodLargestRemainder is Hamilton apportionment over granularity steps.
	// It always closes on the target exactly but can give different per-unit scores
	// than MethodSinglePass.
	MethodLargestRemainder Method = "largestRemainder"
)

// IsValid reports whether m is a known apportionment method
func (m Method) IsValid() bool {
	return m == MethodSinglePass || m == MethodLargestRemainder
}

const (
	// DefaultTarget is the score every specification table is marked out of
	DefaultTarget = 20.0

	// DefaultGranularity is quarter-point rounding
	DefaultGranularity = 0.25

	// Tolerance is the absolute tolerance used when comparing sums to a target
	Tolerance = 1e-9
)

// Config carries every tunable of the scoring core. It is passed explicitly to
// Allocate and to the category splitter; nothing is read from package state.
type Config struct {
	// Target is the total the allocated scores must add up to
	Target float64

	// Granularity is the step scores are rounded to (0.25 = quarter points)
	Granularity float64

	// Rounding is the tie-break applied by Round
	Rounding Rounding

	// Method reconciles rounded shares with Target
	Method Method
}

// DefaultConfig returns the quarter-point, out-of-20, single-pass configuration
func DefaultConfig() Config {
	return Config{
		Target:      DefaultTarget,
		Granularity: DefaultGranularity,
		Rounding:    RoundHalfEven,
		Method:      MethodSinglePass,
	}
}

// Validate checks the configuration itself, independently of any input units
func (c Config) Validate() error {
	if !(c.Target > 0) {
		return InvalidInput("target must be positive, got %v", c.Target)
	}
	if !(c.Granularity > 0) {
		return InvalidInput("granularity must be positive, got %v", c.Granularity)
	}
	if !c.Rounding.IsValid() {
		return InvalidInput("unknown rounding mode %q", c.Rounding)
	}
	if !c.Method.IsValid() {
		return InvalidInput("unknown apportionment method %q", c.Method)
	}
	return nil
}

// Round rounds v to the nearest multiple of the configured granularity
func (c Config) Round(v float64) float64 {
	steps := v / c.Granularity
	switch c.Rounding {
	case RoundHalfAwayFromZero:
		steps = math.Round(steps)
	default:
		steps = math.RoundToEven(steps)
	}
	return steps * c.Granularity
}

// IsMultiple reports whether v lies on the granularity grid (within Tolerance)
func (c Config) IsMultiple(v float64) bool {
	steps := v / c.Granularity
	return math.Abs(steps-math.Round(steps)) <= Tolerance
}

// RoundToQuarter rounds v to the nearest 0.25 using the default tie-break
func RoundToQuarter(v float64) float64 {
	return DefaultConfig().Round(v)
}
