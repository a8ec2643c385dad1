// Package staffing validates the crew assigned to a flight.  The
// validator works on immutable snapshots: the candidate members, the
// flight window and a precomputed availability map.  Callers query
// the schedule index for overlapping assignments before invoking it,
// so the rules themselves stay pure and independently testable.
package staffing

import (
	"fmt"
	"time"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// Rule identifiers carried on violations so clients and tests can
// pin which rule fired.
const (
	RuleMinCrew         = "min_crew"
	RulePilot           = "pilot_required"
	RuleCoPilot         = "co_pilot_required"
	RuleFlightAttendant = "flight_attendant_required"
	RuleLicenseExpired  = "license_expired"
	RuleUnavailable     = "crew_unavailable"
	RuleWindow          = "invalid_window"
)

// MinCrewSize is the smallest crew that may operate a flight.
const MinCrewSize = 3

// Violation names a staffing rule that the candidate crew breaks.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Window is the [departure, arrival) interval of the candidate
// flight.
type Window struct {
	Departure time.Time
	Arrival   time.Time
}

// Valid reports whether departure is strictly before arrival.  This
// is checked independently of the crew rules.
func (w Window) Valid() bool {
	return w.Departure.Before(w.Arrival)
}

// Overlaps reports whether an existing assignment window collides
// with the candidate window: existing.departure < candidate.arrival
// AND existing.arrival > candidate.departure.
func (w Window) Overlaps(departure, arrival time.Time) bool {
	return departure.Before(w.Arrival) && arrival.After(w.Departure)
}

// Validate applies the staffing rules to the candidate crew.  The
// busy map marks members that already have an assignment overlapping
// the window.  Composition rules (size and required roles) abort on
// the first failure; license and availability problems are reported
// for every offending member.  An empty result means the crew may
// fly.
func Validate(members []model.Crew, w Window, now time.Time, busy map[uint64]bool) []Violation {
	if len(members) < MinCrewSize {
		return []Violation{{
			Rule:    RuleMinCrew,
			Message: fmt.Sprintf("there should be at least %d crew on a flight", MinCrewSize),
		}}
	}

	roles := make(map[string]bool, len(members))
	for _, m := range members {
		roles[m.Role] = true
	}
	if !roles[model.CrewRolePilot] {
		return []Violation{{Rule: RulePilot, Message: "flight must include a PILOT"}}
	}
	if !roles[model.CrewRoleCoPilot] {
		return []Violation{{Rule: RuleCoPilot, Message: "flight must include a CO-PILOT"}}
	}
	if !roles[model.CrewRoleFlightAttendant] {
		return []Violation{{Rule: RuleFlightAttendant, Message: "flight must include at least one FLIGHT_ATTENDANT"}}
	}

	var out []Violation
	for _, m := range members {
		if m.IsExpired(now) {
			out = append(out, Violation{
				Rule:    RuleLicenseExpired,
				Message: fmt.Sprintf("%s has an expired license", m.FullName()),
			})
		}
	}
	for _, m := range members {
		if busy[m.ID] {
			out = append(out, Violation{
				Rule:    RuleUnavailable,
				Message: fmt.Sprintf("%s is not available during this flight", m.FullName()),
			})
		}
	}
	return out
}
