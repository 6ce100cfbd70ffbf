package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/canconnect/internal/catalog"
	"github.com/localnerve/canconnect/internal/logger"
	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) (*runtime, models.ApplicationRecord) {
	rt, _, app := seededWithBackend(t)
	return rt, app
}

func seededWithBackend(t *testing.T) (*runtime, store.Backend, models.ApplicationRecord) {
	t.Helper()
	backend := store.NewMemoryBackend()
	rt := newRuntime(backend, catalog.Default(), logger.NewTestLogger(t), nil)

	ctx := context.Background()
	app, err := rt.applications.AddApplication(ctx, "Barangay Clearance", map[string]interface{}{"firstName": "Juan"})
	require.NoError(t, err)
	_, err = rt.applications.AddApplication(ctx, "Business Permit", nil)
	require.NoError(t, err)

	return rt, backend, app
}

func run(t *testing.T, rt *runtime, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(func(context.Context, string) (*runtime, error) {
		return rt, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListAndSearch(t *testing.T) {
	rt, app := seeded(t)

	out, err := run(t, rt, "list")
	require.NoError(t, err)
	assert.Contains(t, out, string(app.ID))
	assert.Contains(t, out, "Business Permit")

	out, err = run(t, rt, "search", "BARANGAY")
	require.NoError(t, err)
	assert.Contains(t, out, string(app.ID))
	assert.NotContains(t, out, "Business Permit")

	out, err = run(t, rt, "list", "--status", "approved")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"), "header only: %q", out)
}

func TestShow(t *testing.T) {
	rt, app := seeded(t)

	out, err := run(t, rt, "show", string(app.ID))
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "Barangay Clearance"`)
	assert.Contains(t, out, `"firstName": "Juan"`)

	_, err = run(t, rt, "show", "NOPE")
	assert.ErrorIs(t, err, errNotFound)
}

func TestSetStatusAndStats(t *testing.T) {
	rt, app := seeded(t)

	out, err := run(t, rt, "set-status", string(app.ID), "approved")
	require.NoError(t, err)
	assert.Equal(t, string(app.ID)+" approved\n", out)

	_, err = run(t, rt, "set-status", string(app.ID), "finished")
	assert.ErrorContains(t, err, "invalid status")

	_, err = run(t, rt, "set-status", "NOPE", "approved")
	assert.ErrorIs(t, err, errNotFound)

	out, err = run(t, rt, "stats")
	require.NoError(t, err)
	assert.Regexp(t, `total\s+2`, out)
	assert.Regexp(t, `approved\s+1`, out)
	assert.Regexp(t, `pending\s+1`, out)
	assert.Regexp(t, `collected\s+₱0\.00`, out)
}

func TestDelete(t *testing.T) {
	rt, app := seeded(t)

	out, err := run(t, rt, "delete", string(app.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = run(t, rt, "delete", string(app.ID))
	assert.ErrorIs(t, err, errNotFound)
	assert.Len(t, rt.applications.AllApplications(context.Background()), 1)
}

func TestPaymentsAndReceipt(t *testing.T) {
	rt, backend, app := seededWithBackend(t)
	ctx := context.Background()

	// seed a completed payment directly in the store
	ts := time.Date(2026, 1, 9, 14, 5, 6, 0, time.UTC)
	payments := store.NewJSONStore[models.PaymentRecord](backend, store.PaymentsKey, logger.NewTestLogger(t))
	require.NoError(t, payments.Save(ctx, []models.PaymentRecord{{
		Amount:        50,
		Currency:      "PHP",
		PaymentMethod: models.PaymentMethodCash,
		ServiceType:   app.Type,
		ApplicationID: app.ID,
		Status:        models.PaymentStatusCompleted,
		TransactionID: "TXN-1-ABCDEFGHI",
		Timestamp:     &ts,
	}}))

	out, err := run(t, rt, "payments", string(app.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "TXN-1-ABCDEFGHI")
	assert.Contains(t, out, "Cash Payment")

	out, err = run(t, rt, "receipt", "TXN-1-ABCDEFGHI")
	require.NoError(t, err)
	assert.Contains(t, out, "Amount: ₱50.00")
	assert.Contains(t, out, "Date: 1/9/2026, 2:05:06 PM")

	_, err = run(t, rt, "receipt", "TXN-0-MISSING")
	assert.ErrorIs(t, err, errNotFound)
}

func TestFees(t *testing.T) {
	rt, _ := seeded(t)

	out, err := run(t, rt, "fees", "--category", catalog.CategoryPermits)
	require.NoError(t, err)
	assert.Contains(t, out, "building-permit")
	assert.Contains(t, out, "₱1000.00")
	assert.NotContains(t, out, "barangay-clearance")
}

func TestEnvFileFlag(t *testing.T) {
	rt, _ := seeded(t)

	var got string
	cmd := newRootCommand(func(_ context.Context, envFile string) (*runtime, error) {
		got = envFile
		return rt, nil
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", "prod.env", "stats"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "prod.env", got)
}
