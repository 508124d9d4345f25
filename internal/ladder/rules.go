package ladder

import (
	"fmt"
	"time"
)

// RangeBasis selects whose position decides the challenge span.
type RangeBasis string

const (
	RangeBasisDefender   RangeBasis = "defender"
	RangeBasisChallenger RangeBasis = "challenger"
)

// Rules holds the tunable parts of the ladder rules.
type Rules struct {
	RangeBasis           RangeBasis
	AcceptanceGrantsLife bool
	TopTierSize          int
	TopTierSpan          int
	Span                 int
	ResponseWindow       time.Duration
}

func DefaultRules() Rules {
	return Rules{
		RangeBasis:     RangeBasisDefender,
		TopTierSize:    5,
		TopTierSpan:    2,
		Span:           3,
		ResponseWindow: 24 * time.Hour,
	}
}

func (r Rules) Validate() error {
	switch r.RangeBasis {
	case RangeBasisDefender, RangeBasisChallenger:
	default:
		return fmt.Errorf("unknown range basis %q", r.RangeBasis)
	}
	if r.TopTierSize < 0 || r.TopTierSpan < 1 || r.Span < 1 {
		return fmt.Errorf("invalid challenge spans: topTierSize=%d topTierSpan=%d span=%d", r.TopTierSize, r.TopTierSpan, r.Span)
	}
	if r.ResponseWindow <= 0 {
		return fmt.Errorf("response window must be positive, got %s", r.ResponseWindow)
	}
	return nil
}

// MaxSpan returns how many positions above the challenger the defender may sit.
func (r Rules) MaxSpan(challengerPos, defenderPos int) int {
	tier := defenderPos
	if r.RangeBasis == RangeBasisChallenger {
		tier = challengerPos
	}
	if tier <= r.TopTierSize {
		return r.TopTierSpan
	}
	return r.Span
}

// InRange reports whether a player at challengerPos may challenge one at defenderPos.
func (r Rules) InRange(challengerPos, defenderPos int) bool {
	if challengerPos <= defenderPos {
		return false
	}
	return challengerPos <= defenderPos+r.MaxSpan(challengerPos, defenderPos)
}
