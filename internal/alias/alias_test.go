package alias

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panechat/internal/errs"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "aliases.json"))
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.Equal(t, "fallback", s.Get(1, "fallback"))
}

func TestSetGetRemoveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, s.Set(1001, "Grace"))
	assert.Equal(t, "Grace", s.Get(1001, "x"))

	// A fresh load sees the saved table.
	s2, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Grace", s2.Get(1001, "x"))

	require.NoError(t, s.Remove(1001))
	assert.Equal(t, "x", s.Get(1001, "x"))

	err = s.Remove(1001)
	assert.True(t, errs.Is(errs.NotFound, err))
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := Load(path)
	assert.True(t, errs.Is(errs.IO, err))
}

func TestWatchReloadsOnExternalEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	s, err := Load(path)
	require.NoError(t, err)
	defer s.Close()

	reloaded, err := s.Watch()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"7": "Marco"}`), 0o644))

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload notification")
	}
	assert.Equal(t, "Marco", s.Get(7, "x"))
}
