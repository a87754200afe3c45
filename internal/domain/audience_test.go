package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleDoctor, NormalizeRole("doctor"))
	assert.Equal(t, RoleLabTechnician, NormalizeRole("lab-technician"))
	assert.Equal(t, RoleLabTechnician, NormalizeRole("LAB_TECHNICIAN"))
	assert.Equal(t, RoleManager, NormalizeRole("  Manager "))
	assert.Equal(t, "", NormalizeRole("janitor"))
	assert.Equal(t, "", NormalizeRole(""))
	assert.Equal(t, "", NormalizeRole("all"))
}

func TestAudienceMatches(t *testing.T) {
	assert.True(t, AllAudience().Matches(7, RolePatient))
	assert.True(t, AllAudience().Matches(1, RoleAdmin))

	role := RoleAudience(RoleDoctor)
	assert.True(t, role.Matches(3, RoleDoctor))
	assert.False(t, role.Matches(3, RoleManager))

	user := UserAudience(42)
	assert.True(t, user.Matches(42, RolePatient))
	assert.False(t, user.Matches(41, RolePatient))
	// identity match does not depend on role
	assert.True(t, user.Matches(42, RoleAdmin))
}

func TestCanAddress(t *testing.T) {
	cases := []struct {
		sender, target string
		want           bool
	}{
		{RolePatient, RoleDoctor, true},
		{RolePatient, RoleManager, false},
		{RolePatient, RoleAdmin, false},
		{RoleDoctor, RoleManager, true},
		{RoleDoctor, RoleLabTechnician, true},
		{RoleDoctor, RolePatient, false},
		{RoleManager, RoleAdmin, true},
		{RoleManager, RoleDoctor, true},
		{RoleAdmin, RoleManager, true},
		{RoleAdmin, RolePatient, false},
		{RoleLabTechnician, RoleDoctor, true},
		{RoleLabTechnician, RoleAdmin, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanAddress(tc.sender, tc.target), "%s -> %s", tc.sender, tc.target)
	}
}

func TestCanBroadcast(t *testing.T) {
	assert.True(t, CanBroadcast(RoleAdmin))
	assert.True(t, CanBroadcast(RoleManager))
	assert.False(t, CanBroadcast(RoleDoctor))
	assert.False(t, CanBroadcast(RolePatient))
	assert.False(t, CanBroadcast(RoleLabTechnician))
}
