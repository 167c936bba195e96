package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripjapan/internal/models"
)

func newTestApp(t *testing.T) (*App, *MemoryKV) {
	t.Helper()
	kv := NewMemory()
	return NewApp(kv), kv
}

func TestAppDefaults(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, ThemeLight, app.Theme())
	assert.Equal(t, models.DefaultDisplayName, app.Name())
	assert.Equal(t, 165.0, app.Rate())
	assert.Equal(t, "", app.Token())
	assert.Equal(t, DefaultServerURL, app.ServerURL())
}

func TestAppDeviceIDIsGeneratedOnce(t *testing.T) {
	kv := NewMemory()
	id := NewApp(kv).DeviceID()
	assert.Len(t, id, 36)

	// A new context over the same storage sees the same identity
	assert.Equal(t, id, NewApp(kv).DeviceID())
}

func TestAppDeviceIDDoesNotUseRecordIDs(t *testing.T) {
	app, _ := newTestApp(t)
	calls := 0
	app.newID = func() string { calls++; return "record" }

	assert.Len(t, app.DeviceID(), 36)
	assert.Zero(t, calls)
}

func TestAppToggleThemePersists(t *testing.T) {
	app, kv := newTestApp(t)

	assert.Equal(t, ThemeDark, app.ToggleTheme())
	assert.Equal(t, ThemeDark, NewApp(kv).Theme())
	assert.Equal(t, ThemeLight, app.ToggleTheme())
	assert.Equal(t, ThemeLight, NewApp(kv).Theme())
}

func TestAppSettings(t *testing.T) {
	app, _ := newTestApp(t)

	require.NoError(t, app.SetTheme(ThemeDark))
	assert.Equal(t, ThemeDark, app.Theme())
	assert.Equal(t, ThemeLight, app.ToggleTheme())
	assert.ErrorIs(t, app.SetTheme("sepia"), ErrInvalidTheme)

	app.SetName("  Moi ")
	assert.Equal(t, "Moi", app.Name())
	app.SetName("")
	assert.Equal(t, models.DefaultDisplayName, app.Name())

	assert.Error(t, app.SetRate(0))
	require.NoError(t, app.SetRate(170))
	assert.Equal(t, 170.0, app.Rate())

	yen, err := app.ToYen(10)
	require.NoError(t, err)
	assert.Equal(t, int64(1700), yen)
	eur, err := app.ToEuro(1700)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, eur, 0.01)

	require.NoError(t, app.SetServerURL("https://trip.example/ "))
	assert.Equal(t, "https://trip.example", app.ServerURL())
	assert.ErrorIs(t, app.SetServerURL("trip.example"), ErrInvalidURL)

	app.SetToken("abc")
	assert.Equal(t, "abc", app.Token())
}

func TestMalformedValuesFallBackToDefault(t *testing.T) {
	app, kv := newTestApp(t)

	require.NoError(t, kv.Set(keyRate, []byte("{not json")))
	assert.Equal(t, 165.0, app.Rate())

	require.NoError(t, kv.Set(keyExpenses, []byte(`{"version":1,"data":"oops"}`)))
	assert.Empty(t, app.Ledger().Expenses())

	// Written by a newer build
	require.NoError(t, kv.Set(keyName, []byte(`{"version":9,"data":"Moi"}`)))
	assert.Equal(t, models.DefaultDisplayName, app.Name())
}
