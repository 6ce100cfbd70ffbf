package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/localnerve/canconnect/internal/models"
	"github.com/localnerve/canconnect/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var applicationIDPattern = regexp.MustCompile(`^[A-Z]{1,3}-\d{4}-\d{7}$`)

func TestGenerateApplicationID(t *testing.T) {
	f := newFixture(t, instant, WithClock(func() time.Time { return fixedNow }), WithRandom(func(int) int { return 7 }, nil))

	id := f.applications.GenerateApplicationID("Barangay Clearance")
	ms := fixedNow.UnixMilli() % 100000
	assert.Equal(t, models.ApplicationID("BC-2026-"+padInt(ms, 5)+"07"), id)

	for _, serviceType := range []string{
		"Barangay Clearance", "CENOMAR", "Certificate of Residency", "4Ps Program",
		"Medical/Burial Assistance", "", "123", "a b c d", "  spaced   out  ",
	} {
		assert.Regexp(t, applicationIDPattern, string(f.applications.GenerateApplicationID(serviceType)), serviceType)
	}
}

func padInt(v int64, width int) string {
	s := ""
	for i := 0; i < width; i++ {
		s = string(rune('0'+v%10)) + s
		v /= 10
	}
	return s
}

func TestInitialSteps(t *testing.T) {
	f := newFixture(t, instant)

	steps := f.applications.InitialSteps("Business Permit")
	require.Len(t, steps, 4)
	assert.Equal(t, models.Step{Label: "Submitted", Completed: true}, steps[0])
	assert.Equal(t, "Under Review", steps[1].Label)
	assert.Equal(t, "Processing", steps[2].Label)
	assert.Equal(t, "Ready for Pickup", steps[3].Label)
	assert.Equal(t, steps, f.applications.InitialSteps("PWD ID"))

	// callers get their own copy
	steps[0].Completed = false
	assert.True(t, f.applications.InitialSteps("x")[0].Completed)
}

func TestAddApplication(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant, WithClock(func() time.Time { return fixedNow }), WithRandom(counter(), nil))

	formData := map[string]interface{}{"firstName": "Juan", "lastName": "Dela Cruz"}
	rec, err := f.applications.AddApplication(ctx, "Barangay Clearance", formData)
	require.NoError(t, err)

	assert.Regexp(t, applicationIDPattern, string(rec.ID))
	assert.Equal(t, "Barangay Clearance", rec.Type)
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.Equal(t, "2026-05-17", rec.Date)
	assert.Equal(t, fixedNow, rec.SubmittedAt)
	require.Len(t, rec.Steps, 4)
	assert.True(t, rec.Steps[0].Completed)
	assert.Equal(t, "Juan", rec.FormData["firstName"])

	// form data is copied
	formData["firstName"] = "Pedro"
	got, ok := f.applications.GetApplicationByID(ctx, rec.ID)
	require.True(t, ok)
	assert.Equal(t, "Juan", got.FormData["firstName"])
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Steps, got.Steps)
	assert.True(t, rec.SubmittedAt.Equal(got.SubmittedAt))

	alias, ok := f.applications.GetApplication(ctx, rec.ID)
	require.True(t, ok)
	assert.Equal(t, got, alias)
}

func TestAddApplication_NotIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant, WithClock(func() time.Time { return fixedNow }), WithRandom(counter(), nil))

	a, err := f.applications.AddApplication(ctx, "Birth Certificate", map[string]interface{}{"x": 1})
	require.NoError(t, err)
	b, err := f.applications.AddApplication(ctx, "Birth Certificate", map[string]interface{}{"x": 1})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, f.applications.AllApplications(ctx), 2)
}

func TestAddApplication_NilFormData(t *testing.T) {
	f := newFixture(t, instant)
	rec, err := f.applications.AddApplication(context.Background(), "PWD ID", nil)
	require.NoError(t, err)
	assert.NotNil(t, rec.FormData)
}

func TestGetApplicationByID_Missing(t *testing.T) {
	f := newFixture(t, instant)
	_, ok := f.applications.GetApplicationByID(context.Background(), "NOPE-2026-0000000")
	assert.False(t, ok)
}

func TestSearchApplications(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant, WithRandom(counter(), nil))

	bc, err := f.applications.AddApplication(ctx, "Barangay Clearance", nil)
	require.NoError(t, err)
	_, err = f.applications.AddApplication(ctx, "Business Permit", nil)
	require.NoError(t, err)
	_, err = f.applications.AddApplication(ctx, "Police Clearance", nil)
	require.NoError(t, err)

	lower := f.applications.SearchApplications(ctx, "barangay")
	upper := f.applications.SearchApplications(ctx, "BARANGAY")
	require.Len(t, lower, 1)
	assert.Equal(t, lower, upper)

	assert.Len(t, f.applications.SearchApplications(ctx, "clearance"), 2)
	assert.Len(t, f.applications.SearchApplications(ctx, ""), 3)
	assert.Empty(t, f.applications.SearchApplications(ctx, "passport"))

	byID := f.applications.SearchApplications(ctx, string(bc.ID)[:2])
	assert.NotEmpty(t, byID)
	assert.Contains(t, byID, bc)
}

func TestUpdateApplicationStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant, WithRandom(counter(), nil))

	rec, err := f.applications.AddApplication(ctx, "Business Permit", nil)
	require.NoError(t, err)

	updated, ok, err := f.applications.UpdateApplicationStatus(ctx, rec.ID, models.StatusProcessing, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.StatusProcessing, updated.Status)
	assert.Equal(t, rec.Steps, updated.Steps)

	steps := []models.Step{
		{Label: "Submitted", Completed: true},
		{Label: "Under Review", Completed: true},
		{Label: "Processing", Completed: true},
		{Label: "Ready for Pickup", Completed: true},
	}
	updated, ok, err = f.applications.UpdateApplicationStatus(ctx, rec.ID, models.StatusApproved, steps)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, steps, updated.Steps)

	stored, _ := f.applications.GetApplicationByID(ctx, rec.ID)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.Equal(t, rec.ID, stored.ID)
}

func TestUpdateApplicationStatus_Missing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant)
	_, err := f.applications.AddApplication(ctx, "Business Permit", nil)
	require.NoError(t, err)

	_, ok, err := f.applications.UpdateApplicationStatus(ctx, "XX-2026-0000000", models.StatusRejected, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, f.applications.AllApplications(ctx), 1)
}

func TestUpdateApplication(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant)

	rec, err := f.applications.AddApplication(ctx, "Birth Certificate", map[string]interface{}{"a": "b"})
	require.NoError(t, err)

	paid := models.PaymentStatusCompleted
	amount := 150.0
	updated, ok, err := f.applications.UpdateApplication(ctx, rec.ID, models.ApplicationUpdate{
		PaymentStatus: &paid,
		PaymentAmount: &amount,
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, models.PaymentStatusCompleted, updated.PaymentStatus)
	assert.Equal(t, 150.0, *updated.PaymentAmount)
	assert.Equal(t, "b", updated.FormData["a"])

	_, ok, err = f.applications.UpdateApplication(ctx, "nope", models.ApplicationUpdate{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteApplication(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant, WithRandom(counter(), nil))

	a, err := f.applications.AddApplication(ctx, "CENOMAR", nil)
	require.NoError(t, err)
	_, err = f.applications.AddApplication(ctx, "CENOMAR", nil)
	require.NoError(t, err)

	removed, err := f.applications.DeleteApplication(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, f.applications.AllApplications(ctx), 2)

	removed, err = f.applications.DeleteApplication(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Len(t, f.applications.AllApplications(ctx), 1)

	_, ok := f.applications.GetApplicationByID(ctx, a.ID)
	assert.False(t, ok)
}

func TestApplicationStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant, WithRandom(counter(), nil))

	statuses := []models.Status{models.StatusPending, models.StatusProcessing, models.StatusApproved, models.StatusApproved, models.StatusRejected}
	for _, status := range statuses {
		rec, err := f.applications.AddApplication(ctx, "Police Clearance", nil)
		require.NoError(t, err)
		_, _, err = f.applications.UpdateApplicationStatus(ctx, rec.ID, status, nil)
		require.NoError(t, err)
	}

	stats := f.applications.ApplicationStats(ctx)
	assert.Equal(t, models.ApplicationStats{Total: 5, Pending: 1, Processing: 1, Approved: 2, Rejected: 1}, stats)
	assert.Equal(t, stats.Total, stats.Pending+stats.Processing+stats.Approved+stats.Rejected)
}

func TestMalformedStoreSelfHeals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant)
	require.NoError(t, f.backend.Set(ctx, store.ApplicationsKey, []byte("{{{ not json")))

	assert.Empty(t, f.applications.AllApplications(ctx))
	assert.Equal(t, models.ApplicationStats{}, f.applications.ApplicationStats(ctx))

	_, err := f.applications.AddApplication(ctx, "Barangay Clearance", nil)
	require.NoError(t, err)
	assert.Len(t, f.applications.AllApplications(ctx), 1)
}

func TestWritesAbortOnReadFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant, WithRandom(counter(), nil))

	var ids []models.ApplicationID
	for _, svc := range []string{"Barangay Clearance", "Birth Certificate", "Police Clearance", "Business Permit", "Pwd ID"} {
		rec, err := f.applications.AddApplication(ctx, svc, nil)
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	f.backend.failNextReads(1)
	_, err := f.applications.AddApplication(ctx, "Business Permit", nil)
	require.ErrorIs(t, err, errReadTimeout)
	assert.Len(t, f.applications.AllApplications(ctx), 5)

	approved := models.StatusApproved
	f.backend.failNextReads(1)
	_, ok, err := f.applications.UpdateApplication(ctx, ids[0], models.ApplicationUpdate{Status: &approved})
	require.ErrorIs(t, err, errReadTimeout)
	assert.False(t, ok)

	f.backend.failNextReads(1)
	_, ok, err = f.applications.UpdateApplicationStatus(ctx, ids[1], models.StatusRejected, nil)
	require.ErrorIs(t, err, errReadTimeout)
	assert.False(t, ok)

	f.backend.failNextReads(1)
	removed, err := f.applications.DeleteApplication(ctx, ids[2])
	require.ErrorIs(t, err, errReadTimeout)
	assert.False(t, removed)

	all := f.applications.AllApplications(ctx)
	require.Len(t, all, 5)
	for _, app := range all {
		assert.Equal(t, models.StatusPending, app.Status)
	}
}

func TestAddApplication_StoredFormDataMatches(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant)

	formData := map[string]interface{}{
		"firstName": "Juan",
		"age":       30,
		"household": []string{"Maria", "Jose"},
		"address":   map[string]interface{}{"zip": 1000},
	}
	rec, err := f.applications.AddApplication(ctx, "Barangay Clearance", formData)
	require.NoError(t, err)

	got, ok := f.applications.GetApplicationByID(ctx, rec.ID)
	require.True(t, ok)
	assert.Equal(t, rec.FormData, got.FormData)
	assert.Equal(t, 30.0, got.FormData["age"])

	_, err = f.applications.AddApplication(ctx, "Barangay Clearance", map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
	assert.Len(t, f.applications.AllApplications(ctx), 1)
}

func TestUpdateApplication_FormDataIsCopied(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, instant)

	rec, err := f.applications.AddApplication(ctx, "Birth Certificate", nil)
	require.NoError(t, err)

	formData := map[string]interface{}{"copies": 2}
	updated, ok, err := f.applications.UpdateApplication(ctx, rec.ID, models.ApplicationUpdate{FormData: formData})
	require.NoError(t, err)
	require.True(t, ok)
	formData["copies"] = 9

	got, ok := f.applications.GetApplicationByID(ctx, rec.ID)
	require.True(t, ok)
	assert.Equal(t, updated.FormData, got.FormData)
	assert.Equal(t, 2.0, got.FormData["copies"])
}
