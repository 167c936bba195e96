package device

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "device.db")
	kv, err := OpenFile(path)
	require.NoError(t, err)

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("outbox/a", []byte("1")))
	require.NoError(t, kv.Set("outbox/b", []byte("2")))
	require.NoError(t, kv.Set("outbox/a", []byte("3")))
	require.NoError(t, kv.Set("other", []byte("4")))

	v, ok, err := kv.Get("outbox/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", string(v))

	keys, err := kv.Keys("outbox/")
	require.NoError(t, err)
	assert.Equal(t, []string{"outbox/a", "outbox/b"}, keys)

	require.NoError(t, kv.Delete("outbox/a"))
	require.NoError(t, kv.Close())

	// Values survive a reopen
	kv, err = OpenFile(path)
	require.NoError(t, err)
	defer kv.Close()
	keys, err = kv.Keys("")
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "outbox/b"}, keys)
}

func TestMemoryKVCopiesValues(t *testing.T) {
	kv := NewMemory()
	buf := []byte("hola")
	require.NoError(t, kv.Set("k", buf))
	buf[0] = 'X'

	v, _, _ := kv.Get("k")
	assert.Equal(t, "hola", string(v))
}

// brokenKV fails every operation, like a full or read-only disk.
type brokenKV struct{}

var errBroken = errors.New("disk full")

func (brokenKV) Get(string) ([]byte, bool, error) { return nil, false, errBroken }
func (brokenKV) Set(string, []byte) error         { return errBroken }
func (brokenKV) Delete(string) error              { return errBroken }
func (brokenKV) Keys(string) ([]string, error)    { return nil, errBroken }
func (brokenKV) Close() error                     { return nil }

func TestFeaturesKeepWorkingWhenStorageFails(t *testing.T) {
	app := NewApp(brokenKV{})

	id := app.DeviceID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, app.DeviceID(), "device id must be stable for the session")

	require.NoError(t, app.SetRate(150))
	assert.Equal(t, 150.0, app.Rate())

	cl := app.Checklist("Moi")
	_, err := cl.Toggle("0")
	require.NoError(t, err)
	done, total, _ := cl.Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 12, total)
}
