package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatus verifies the HTTP status code
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// ReadBody reads and closes the response body
func ReadBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "read response body")
	return body
}

// ParseJSON decodes the response body into the target
func ParseJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body := ReadBody(t, resp)
	require.NoErrorf(t, json.Unmarshal(body, target), "decode JSON body: %s", string(body))
}

// AssertNoContent verifies that the response body is empty (for 204s)
func AssertNoContent(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Empty(t, ReadBody(t, resp), "expected empty body for 204 No Content")
}

// AssertErrorType verifies an error envelope and returns it
func AssertErrorType(t *testing.T, resp *http.Response, status int, errorType string) map[string]interface{} {
	t.Helper()
	AssertStatus(t, resp, status)
	var envelope map[string]interface{}
	ParseJSON(t, resp, &envelope)
	assert.Equal(t, false, envelope["ok"])
	assert.EqualValues(t, status, envelope["status"])
	if errorType != "" {
		assert.Equal(t, errorType, envelope["type"])
	}
	return envelope
}
