package dto

import (
	"encoding/base64"
	"testing"

	ierr "github.com/gymportal/portal/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignWaiverRequestParse(t *testing.T) {
	sig := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nrest"))
	base := SignWaiverRequest{
		FullName:    "Ana",
		DateOfBirth: "1995-04-20",
		AcceptTerms: true,
		Signature:   "data:image/png;base64," + sig,
	}

	dob, data, err := base.Parse()
	require.NoError(t, err)
	assert.Equal(t, 1995, dob.Year())
	assert.Equal(t, byte(0x89), data[0])

	noTerms := base
	noTerms.AcceptTerms = false
	_, _, err = noTerms.Parse()
	assert.True(t, ierr.IsValidation(err))

	badDate := base
	badDate.DateOfBirth = "20/04/1995"
	_, _, err = badDate.Parse()
	assert.True(t, ierr.IsValidation(err))

	badSig := base
	badSig.Signature = "%%%"
	_, _, err = badSig.Parse()
	assert.True(t, ierr.IsValidation(err))
}
