package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedStatesDedupes(t *testing.T) {
	app := &ClinicianApplication{
		Licenses: []License{
			{State: "CA", LicenseNumber: "1"},
			{State: "TX", LicenseNumber: "2"},
			{State: "CA", LicenseNumber: "3"},
			{State: "", LicenseNumber: "4"},
		},
	}

	assert.Equal(t, []string{"CA", "TX"}, app.AllowedStates())
}

func TestAllowedStatesEmpty(t *testing.T) {
	app := &ClinicianApplication{}
	assert.Empty(t, app.AllowedStates())
}

func TestAwaitingVerification(t *testing.T) {
	account := &Account{State: PatientStatePendingVerification}
	assert.True(t, account.AwaitingVerification())

	account.State = PatientStateProvisioned
	assert.False(t, account.AwaitingVerification())
}
