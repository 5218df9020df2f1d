package sim

import (
	"fmt"
	"strings"
)

// ChallengeScenario is a named physiological context that modulates the
// simulated glucose response inside a time window.
type ChallengeScenario string

const (
	ChallengeNone     ChallengeScenario = "none"
	ChallengeExercise ChallengeScenario = "exercise"
	ChallengeStress   ChallengeScenario = "stress"
	ChallengeIllness  ChallengeScenario = "illness"
	ChallengeDawn     ChallengeScenario = "dawn"
)

// ChallengeKeys returns the valid challenge tags in declaration order.
func ChallengeKeys() []string {
	return []string{
		string(ChallengeNone),
		string(ChallengeExercise),
		string(ChallengeStress),
		string(ChallengeIllness),
		string(ChallengeDawn),
	}
}

// ChallengeByKey resolves a tag to its ChallengeScenario. Unknown tags
// return a ConfigError rather than silently defaulting.
func ChallengeByKey(key string) (ChallengeScenario, error) {
	switch c := ChallengeScenario(key); c {
	case ChallengeNone, ChallengeExercise, ChallengeStress, ChallengeIllness, ChallengeDawn:
		return c, nil
	default:
		return "", &ConfigError{
			Field:  "challenge",
			Reason: fmt.Sprintf("unknown key %q; valid: %s", key, strings.Join(ChallengeKeys(), ", ")),
		}
	}
}

// Modulation returns the regime multiplier for the given simulated hour.
// Branch order is fixed (exercise, stress, illness, dawn); the first match
// wins, which keeps overlapping windows deterministic.
func (c ChallengeScenario) Modulation(hour float64) float64 {
	switch {
	case c == ChallengeExercise && hour >= 3 && hour <= 4:
		return 0.7
	case c == ChallengeStress:
		return 1.15
	case c == ChallengeIllness:
		return 1.25
	case c == ChallengeDawn && hour >= 4 && hour <= 7:
		return 1.1
	default:
		return 1.0
	}
}
