package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloat64(t *testing.T) {
	var body struct {
		Amount *FlexFloat64 `json:"amount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"amount":50.5}`), &body))
	assert.Equal(t, 50.5, body.Amount.Float64())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"1000"}`), &body))
	assert.Equal(t, 1000.0, body.Amount.Float64())

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"fifty"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"amount":true}`), &body))

	out, err := json.Marshal(FlexFloat64(12.25))
	require.NoError(t, err)
	assert.Equal(t, "12.25", string(out))
}

func TestCustomError(t *testing.T) {
	err := &CustomError{Code: 403, Message: "forbidden", Type: "auth.staff"}
	assert.Equal(t, "403: forbidden [type: auth.staff]", err.Error())

	cause := errors.New("insufficient role")
	wrapped := NewError(403, "auth.admin", "Invalid session", cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "403: Invalid session [type: auth.admin]: insufficient role", wrapped.Error())

	var ce *CustomError
	require.ErrorAs(t, fmt.Errorf("route: %w", wrapped), &ce)
	assert.Equal(t, "auth.admin", ce.Type)
}
