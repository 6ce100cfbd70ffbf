package store

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/canconnect/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type failingBackend struct {
	err error
}

func (f failingBackend) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingBackend) Set(context.Context, string, []byte) error        { return f.err }
func (f failingBackend) Ping(context.Context) error                      { return f.err }

func TestJSONStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewJSONStore[item](NewMemoryBackend(), "items", logger.NewTestLogger(t))

	assert.Empty(t, s.Load(ctx))

	want := []item{{ID: "1", Name: "one"}, {ID: "2", Name: "two"}}
	require.NoError(t, s.Save(ctx, want))
	assert.Equal(t, want, s.Load(ctx))
	assert.Equal(t, "items", s.Key())
}

func TestJSONStore_LoadFailsSoft(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{"malformed", "{not json"},
		{"null", "null"},
		{"wrong shape", `{"id":"1"}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMemoryBackend()
			require.NoError(t, backend.Set(ctx, "items", []byte(tt.raw)))

			s := NewJSONStore[item](backend, "items", logger.NewTestLogger(t))
			got := s.Load(ctx)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestJSONStore_SelfHealsOnSave(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "items", []byte("[{broken")))

	s := NewJSONStore[item](backend, "items", nil)
	items := append(s.Load(ctx), item{ID: "1"})
	require.NoError(t, s.Save(ctx, items))

	raw, ok, err := backend.Get(ctx, "items")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"1","name":""}]`, string(raw))
}

func TestJSONStore_LoadForUpdate(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := NewJSONStore[item](backend, "items", logger.NewTestLogger(t))

	items, err := s.LoadForUpdate(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	// malformed blobs stay fail soft so the next write heals them
	require.NoError(t, backend.Set(ctx, "items", []byte("[{broken")))
	items, err = s.LoadForUpdate(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, s.Save(ctx, []item{{ID: "1", Name: "one"}}))
	items, err = s.LoadForUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "1", Name: "one"}}, items)
}

func TestJSONStore_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := NewJSONStore[item](backend, "items", nil)

	require.NoError(t, s.Save(ctx, nil))

	raw, _, _ := backend.Get(ctx, "items")
	assert.Equal(t, "[]", string(raw))
}

func TestJSONStore_BackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	s := NewJSONStore[item](failingBackend{err: boom}, "items", logger.NewTestLogger(t))

	assert.Empty(t, s.Load(ctx))

	items, err := s.LoadForUpdate(ctx)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, boom)

	err = s.Save(ctx, []item{{ID: "1"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestMemoryBackend_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	value := []byte("[1]")
	require.NoError(t, m.Set(ctx, "k", value))
	value[1] = '2'

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[1]", string(got))

	_, ok, err = m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, m.Ping(ctx))
}
