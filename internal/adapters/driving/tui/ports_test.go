package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingBreederService)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingBreederService)
	assert.NoError(t, (&Ports{Breeder: newFakeBreeder()}).Validate())
}
