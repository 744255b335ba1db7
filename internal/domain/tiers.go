package domain

import (
	"errors"
	"fmt"
)

// Tier is a categorical label assigned by percentile rank within a
// population. ORANGE is the most exclusive, WHITE the baseline.
type Tier string

// Tier constants, most exclusive first.
const (
	TierOrange Tier = "ORANGE"
	TierPurple Tier = "PURPLE"
	TierBlue   Tier = "BLUE"
	TierGreen  Tier = "GREEN"
	TierWhite  Tier = "WHITE"
)

// Rank orders tiers for monotonicity comparisons: higher is better.
func (t Tier) Rank() int {
	switch t {
	case TierOrange:
		return 4
	case TierPurple:
		return 3
	case TierBlue:
		return 2
	case TierGreen:
		return 1
	default:
		return 0
	}
}

// ErrInvalidCutoffs indicates out-of-range or non-increasing tier cutoffs.
var ErrInvalidCutoffs = errors.New("tier cutoffs must be fractions in (0,1), strictly increasing")

// TierCutoffs are the four percentile boundaries measured from the top
// of the population: orange is the most exclusive (smallest fraction).
// Everything below the green boundary falls into the implicit WHITE tier.
type TierCutoffs struct {
	Orange float64 `yaml:"orange" json:"orange"`
	Purple float64 `yaml:"purple" json:"purple"`
	Blue   float64 `yaml:"blue" json:"blue"`
	Green  float64 `yaml:"green" json:"green"`
}

// DefaultTierCutoffs matches the shipped configuration: top 10% orange,
// next to 25% purple, to 50% blue, to 75% green.
func DefaultTierCutoffs() TierCutoffs {
	return TierCutoffs{Orange: 0.10, Purple: 0.25, Blue: 0.50, Green: 0.75}
}

// Validate checks each cutoff is in (0,1) and the sequence is strictly
// increasing: orange < purple < blue < green.
func (c TierCutoffs) Validate() error {
	values := []float64{c.Orange, c.Purple, c.Blue, c.Green}
	for i, v := range values {
		if v <= 0 || v >= 1 {
			return fmt.Errorf("%w: cutoff %d is %v", ErrInvalidCutoffs, i, v)
		}
		if i > 0 && values[i-1] >= v {
			return fmt.Errorf("%w: cutoff %d (%v) not above previous (%v)", ErrInvalidCutoffs, i, v, values[i-1])
		}
	}
	return nil
}

// TierThresholds are concrete fantasy-point values at the four tier
// boundaries, as opposed to TierCutoffs which are population fractions.
type TierThresholds struct {
	Orange float64 `yaml:"orange" json:"orange"`
	Purple float64 `yaml:"purple" json:"purple"`
	Blue   float64 `yaml:"blue" json:"blue"`
	Green  float64 `yaml:"green" json:"green"`
}
