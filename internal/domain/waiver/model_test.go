package waiver

import (
	"testing"
	"time"

	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestWaiverValidate(t *testing.T) {
	w := &Waiver{UserID: "u_1", FullName: "Ana Pérez", DateOfBirth: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)}
	assert.NoError(t, w.Validate())

	future := *w
	future.DateOfBirth = time.Now().Add(48 * time.Hour)
	assert.True(t, ierr.IsValidation(future.Validate()))

	anonymous := *w
	anonymous.FullName = ""
	assert.True(t, ierr.IsValidation(anonymous.Validate()))
}

func TestAgeAt(t *testing.T) {
	w := &Waiver{DateOfBirth: time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 25, w.AgeAt(time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 26, w.AgeAt(time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC)))
}
