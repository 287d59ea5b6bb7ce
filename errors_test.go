package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLoginError(t *testing.T) {
	loginErr := &LoginError{Endpoint: "https://example.com/nl/login.asp"}

	assert.True(t, IsLoginError(loginErr))
	assert.True(t, IsLoginError(fmt.Errorf("scrape: %w", loginErr)))
	assert.False(t, IsLoginError(errors.New(loginFailedMessage)))
	assert.False(t, IsLoginError(nil))
}
