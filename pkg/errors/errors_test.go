package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationErrorMessage(t *testing.T) {
	assert.Equal(t, "LOG_FILE is required", (&ConfigurationError{Missing: []string{"LOG_FILE"}}).Error())
	assert.Equal(t, "missing required configuration: SFTP_HOST, SFTP_USERNAME",
		(&ConfigurationError{Missing: []string{"SFTP_HOST", "SFTP_USERNAME"}}).Error())
}

func TestTransportErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("list orders: %w", &TransportError{Op: "GET orders.json", Err: io.ErrUnexpectedEOF})

	var te *TransportError
	assert.True(t, errors.As(err, &te))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Method: "POST", Path: "/orders/1/close.json", StatusCode: 422, Body: `{"errors":"x"}`}
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "/orders/1/close.json")
}
