package enums

import "fmt"

// SessionPhase tracks where a shopper is in the browse/checkout/confirm flow.
type SessionPhase string

const (
	SessionPhaseBrowsing  SessionPhase = "browsing"
	SessionPhaseCheckout  SessionPhase = "checkout"
	SessionPhaseConfirmed SessionPhase = "confirmed"
)

var validSessionPhases = []SessionPhase{
	SessionPhaseBrowsing,
	SessionPhaseCheckout,
	SessionPhaseConfirmed,
}

// String implements fmt.Stringer.
func (p SessionPhase) String() string {
	return string(p)
}

// IsValid reports whether the value is a known SessionPhase.
func (p SessionPhase) IsValid() bool {
	for _, candidate := range validSessionPhases {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseSessionPhase converts raw input into a SessionPhase.
func ParseSessionPhase(value string) (SessionPhase, error) {
	for _, candidate := range validSessionPhases {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session phase %q", value)
}
