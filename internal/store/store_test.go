package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) KV{
		"memory": func(t *testing.T) KV { return NewMemory() },
		"file": func(t *testing.T) KV {
			return NewFile(filepath.Join(t.TempDir(), "save.msgpack"))
		},
	}

	cases := []Progress{
		{},
		{Level: 3, Score: 1234.5, TopScore: 9999.25},
		{Level: 0, Score: 0.1 + 0.2, TopScore: 1e12},
	}

	for name, newKV := range backends {
		t.Run(name, func(t *testing.T) {
			gw := NewGateway(newKV(t), nil)
			for _, want := range cases {
				require.NoError(t, gw.Save(want))
				got, err := gw.Load()
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestGatewayMissingKeysDefaultToZero(t *testing.T) {
	gw := NewGateway(NewMemory(), nil)
	got, err := gw.Load()
	require.NoError(t, err)
	assert.Equal(t, Progress{}, got)

	kv := NewMemory()
	require.NoError(t, kv.SetAll(map[string]string{KeyScore: "150"}))
	got, err = NewGateway(kv, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, Progress{Score: 150}, got)
}

func TestGatewayMalformedValuesDefaultToZero(t *testing.T) {
	kv := NewMemory()
	require.NoError(t, kv.SetAll(map[string]string{
		KeyLevel:    "two",
		KeyScore:    "-40",
		KeyTopScore: "NaN",
	}))

	got, err := NewGateway(kv, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, Progress{}, got)
}

func TestGatewayFractionalLevelTruncates(t *testing.T) {
	kv := NewMemory()
	require.NoError(t, kv.SetAll(map[string]string{KeyLevel: "4.7"}))

	got, err := NewGateway(kv, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, 4, got.Level)
}

func TestGatewaySaveOverwritesAllKeys(t *testing.T) {
	kv := NewMemory()
	gw := NewGateway(kv, nil)
	require.NoError(t, gw.Save(Progress{Level: 5, Score: 500, TopScore: 800}))
	require.NoError(t, gw.Save(Progress{Level: 0, Score: 0, TopScore: 800}))

	for key, want := range map[string]string{KeyLevel: "0", KeyScore: "0", KeyTopScore: "800"} {
		v, ok, err := kv.Get(key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, v, key)
	}
}

func TestFileCorruptReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.msgpack")
	require.NoError(t, os.WriteFile(path, []byte("not msgpack at all"), 0o644))

	got, err := NewGateway(NewFile(path), nil).Load()
	require.NoError(t, err)
	assert.Equal(t, Progress{}, got)

	require.NoError(t, NewGateway(NewFile(path), nil).Save(Progress{Level: 1}))
	got, err = NewGateway(NewFile(path), nil).Load()
	require.NoError(t, err)
	assert.Equal(t, Progress{Level: 1}, got)
}

func TestFileCreatesDirectoryAndLeavesNoTemp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "saves")
	f := NewFile(filepath.Join(dir, "alice.msgpack"))
	require.NoError(t, f.SetAll(map[string]string{"a": "1"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice.msgpack", entries[0].Name())
}

func TestFileClosedRejectsWrites(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "save.msgpack"))
	require.NoError(t, f.Close())
	assert.ErrorIs(t, f.SetAll(map[string]string{"a": "1"}), ErrClosed)

	err := NewGateway(f, nil).Save(Progress{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestUserPathStaysInDir(t *testing.T) {
	dir := filepath.Join("var", "saves")
	assert.Equal(t, filepath.Join(dir, "alice.msgpack"), UserPath(dir, "alice"))
	assert.Equal(t, filepath.Join(dir, "___etc_passwd.msgpack"), UserPath(dir, "../etc/passwd"))
	assert.Equal(t, filepath.Join(dir, "_.msgpack"), UserPath(dir, ""))
	assert.Equal(t, filepath.Join(dir, "bob-2_x.msgpack"), UserPath(dir, "bob-2_x"))
}
