package theme

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexcabrera/thinkplay/internal/db"
)

type memStore struct {
	values map[string]string
	fail   error
}

func (s *memStore) GetPreference(_ context.Context, key string) (string, error) {
	if s.fail != nil {
		return "", s.fail
	}
	v, ok := s.values[key]
	if !ok {
		return "", db.ErrNotFound
	}
	return v, nil
}

func (s *memStore) SetPreference(_ context.Context, key, value string) error {
	if s.fail != nil {
		return s.fail
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
	return nil
}

func dark() bool  { return true }
func light() bool { return false }

func TestResolve(t *testing.T) {
	assert.Equal(t, ResolvedLight, Resolve(Light, dark).Resolved)
	assert.Equal(t, ResolvedDark, Resolve(Dark, light).Resolved)
	assert.Equal(t, ResolvedDark, Resolve(System, dark).Resolved)
	assert.Equal(t, ResolvedLight, Resolve(System, light).Resolved)
	assert.Equal(t, ResolvedDark, Resolve(System, nil).Resolved)
	assert.Equal(t, System, Resolve(System, light).Theme)
}

func TestParse(t *testing.T) {
	for _, s := range []string{"light", "dark", "system"} {
		got, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, Theme(s), got)
	}
	_, err := Parse("sepia")
	assert.Error(t, err)
}

func TestInitSavesSystemOnFirstRun(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, light, nil)

	s, err := m.Init(context.Background())
	require.NoError(t, err)
	assert.Equal(t, State{Theme: System, Resolved: ResolvedLight}, s)
	assert.Equal(t, "system", store.values[PreferenceKey])
}

func TestInitLoadsSavedTheme(t *testing.T) {
	store := &memStore{values: map[string]string{PreferenceKey: "dark"}}
	m := NewManager(store, light, nil)

	s, err := m.Init(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Dark())
	assert.Equal(t, Dark, m.Current().Theme)
}

func TestInitIgnoresUnknownSavedTheme(t *testing.T) {
	store := &memStore{values: map[string]string{PreferenceKey: "neon"}}
	m := NewManager(store, dark, nil)

	s, err := m.Init(context.Background())
	require.NoError(t, err)
	assert.Equal(t, System, s.Theme)
}

func TestInitReportsStoreErrors(t *testing.T) {
	m := NewManager(&memStore{fail: errors.New("disk on fire")}, dark, nil)
	_, err := m.Init(context.Background())
	assert.Error(t, err)
}

func TestToggleFollowsSystemWhenMatching(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, light, nil)
	ctx := context.Background()
	_, err := m.Init(ctx)
	require.NoError(t, err)

	// System is light: toggling shows dark, which differs from the system.
	s, err := m.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, State{Theme: Dark, Resolved: ResolvedDark}, s)
	assert.Equal(t, "dark", store.values[PreferenceKey])

	// Back to light, which matches the system, so the choice is System.
	s, err = m.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, State{Theme: System, Resolved: ResolvedLight}, s)
	assert.Equal(t, "system", store.values[PreferenceKey])
}

func TestSet(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, dark, nil)
	ctx := context.Background()

	s, err := m.Set(ctx, Light)
	require.NoError(t, err)
	assert.False(t, s.Dark())
	assert.Equal(t, "light", store.values[PreferenceKey])

	_, err = m.Set(ctx, Theme("sepia"))
	assert.Error(t, err)
	assert.Equal(t, Light, m.Current().Theme)
}

func TestSetKeepsThemeWhenStoreFails(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, dark, nil)
	ctx := context.Background()
	_, err := m.Set(ctx, Light)
	require.NoError(t, err)

	store.fail = errors.New("read-only")
	_, err = m.Set(ctx, Dark)
	assert.Error(t, err)
	assert.Equal(t, Light, m.Current().Theme)
}

func TestManagerWithoutStore(t *testing.T) {
	m := NewManager(nil, dark, nil)
	ctx := context.Background()

	s, err := m.Init(ctx)
	require.NoError(t, err)
	assert.True(t, s.Dark())

	s, err = m.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, Light, s.Theme)
}

func TestManagerWithDatabase(t *testing.T) {
	ctx := context.Background()
	conn, queries, err := db.ConnectWithQueries(ctx, filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer conn.Close()
	defer queries.Close()

	m := NewManager(queries, dark, nil)
	_, err = m.Init(ctx)
	require.NoError(t, err)
	_, err = m.Set(ctx, Light)
	require.NoError(t, err)

	reloaded := NewManager(queries, dark, nil)
	s, err := reloaded.Init(ctx)
	require.NoError(t, err)
	assert.Equal(t, Light, s.Theme)
}
