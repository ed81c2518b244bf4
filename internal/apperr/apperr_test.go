package apperr

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTemplate = &Error{Message: "duration %ds is too short"}

func TestFmtMatchesTemplate(t *testing.T) {
	err := errTemplate.Fmt(5)

	assert.Equal(t, "duration 5s is too short", err.Error())
	assert.ErrorIs(t, err, errTemplate)
	assert.NotErrorIs(t, err, &Error{Message: "duration %ds is too short"})
}

func TestWrap(t *testing.T) {
	err := errTemplate.Fmt(3).Wrap(io.ErrUnexpectedEOF)

	assert.ErrorIs(t, err, errTemplate)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "duration 3s is too short: unexpected EOF", err.Error())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Equal(t, "duration 7s is too short", Message(errTemplate.Fmt(7)))
}
