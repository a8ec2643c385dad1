package staffing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-reservation/internal/model"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func member(id uint64, role string, licenseValidFor time.Duration) model.Crew {
	return model.Crew{
		ID:                id,
		FirstName:         "Crew",
		LastName:          "Member",
		Role:              role,
		LicenseNumber:     "LIC",
		LicenseExpiration: now.Add(licenseValidFor),
	}
}

func fullCrew() []model.Crew {
	return []model.Crew{
		member(1, model.CrewRolePilot, 365*24*time.Hour),
		member(2, model.CrewRoleCoPilot, 365*24*time.Hour),
		member(3, model.CrewRoleFlightAttendant, 365*24*time.Hour),
	}
}

func window() Window {
	return Window{
		Departure: now.Add(24 * time.Hour),
		Arrival:   now.Add(26 * time.Hour),
	}
}

func TestValidateAccepts(t *testing.T) {
	violations := Validate(fullCrew(), window(), now, nil)
	assert.Empty(t, violations)
}

func TestValidateMinCrew(t *testing.T) {
	crew := fullCrew()[:2]
	violations := Validate(crew, window(), now, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, RuleMinCrew, violations[0].Rule)
}

func TestValidateMissingRoles(t *testing.T) {
	tests := []struct {
		name    string
		replace int // index into fullCrew to swap out
		rule    string
	}{
		{"no pilot", 0, RulePilot},
		{"no co-pilot", 1, RuleCoPilot},
		{"no flight attendant", 2, RuleFlightAttendant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crew := fullCrew()
			crew[tt.replace] = member(9, model.CrewRoleEngineer, 365*24*time.Hour)
			violations := Validate(crew, window(), now, nil)
			require.Len(t, violations, 1)
			assert.Equal(t, tt.rule, violations[0].Rule)
		})
	}
}

func TestValidateExpiredLicense(t *testing.T) {
	crew := fullCrew()
	crew[0].LicenseExpiration = now.Add(-time.Hour)
	violations := Validate(crew, window(), now, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, RuleLicenseExpired, violations[0].Rule)
}

func TestValidateLicenseExpiringExactlyNow(t *testing.T) {
	crew := fullCrew()
	crew[1].LicenseExpiration = now
	violations := Validate(crew, window(), now, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, RuleLicenseExpired, violations[0].Rule)
}

func TestValidateUnavailable(t *testing.T) {
	busy := map[uint64]bool{2: true, 3: true}
	violations := Validate(fullCrew(), window(), now, busy)
	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.Equal(t, RuleUnavailable, v.Rule)
	}
}

func TestValidateCollectsMemberProblems(t *testing.T) {
	crew := fullCrew()
	crew[0].LicenseExpiration = now.Add(-time.Hour)
	busy := map[uint64]bool{3: true}
	violations := Validate(crew, window(), now, busy)
	require.Len(t, violations, 2)
	assert.Equal(t, RuleLicenseExpired, violations[0].Rule)
	assert.Equal(t, RuleUnavailable, violations[1].Rule)
}

func TestValidateCompositionShortCircuits(t *testing.T) {
	// an undersized crew reports only the size problem even when the
	// single member also has an expired license
	crew := []model.Crew{member(1, model.CrewRolePilot, -time.Hour)}
	violations := Validate(crew, window(), now, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, RuleMinCrew, violations[0].Rule)
}

func TestWindowValid(t *testing.T) {
	assert.True(t, window().Valid())
	assert.False(t, Window{Departure: now, Arrival: now}.Valid())
	assert.False(t, Window{Departure: now.Add(time.Hour), Arrival: now}.Valid())
}

func TestWindowOverlaps(t *testing.T) {
	w := window() // [now+24h, now+26h)

	// fully before and fully after do not overlap
	assert.False(t, w.Overlaps(now, now.Add(24*time.Hour)))
	assert.False(t, w.Overlaps(now.Add(26*time.Hour), now.Add(28*time.Hour)))

	// touching boundaries do not overlap, any interior contact does
	assert.True(t, w.Overlaps(now.Add(25*time.Hour), now.Add(27*time.Hour)))
	assert.True(t, w.Overlaps(now.Add(23*time.Hour), now.Add(25*time.Hour)))
	assert.True(t, w.Overlaps(now, now.Add(48*time.Hour)))
}
