package device

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripjapan/internal/models"
)

func TestChecklistDefaultsAndProgress(t *testing.T) {
	app, _ := newTestApp(t)
	cl := app.Checklist("Moi")

	items := cl.Items()
	require.Len(t, items, 12)
	assert.Equal(t, "0", items[0].ID)
	assert.Equal(t, "Pasaporte (vigencia + copia)", items[0].Label)

	for _, id := range []string{"0", "1", "2"} {
		done, err := cl.Toggle(id)
		require.NoError(t, err)
		assert.True(t, done)
	}
	done, total, pct := cl.Progress()
	assert.Equal(t, 3, done)
	assert.Equal(t, 12, total)
	assert.Equal(t, 25, pct)

	_, err := cl.Toggle("nope")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestChecklistIsPerTraveller(t *testing.T) {
	app, _ := newTestApp(t)
	_, err := app.Checklist("Moi").Toggle("0")
	require.NoError(t, err)

	done, _, _ := app.Checklist("Josué").Progress()
	assert.Equal(t, 0, done)
	done, _, _ = app.Checklist("Moi").Progress()
	assert.Equal(t, 1, done)
}

func TestChecklistAddMarkAllReset(t *testing.T) {
	app, _ := newTestApp(t)
	app.now = func() time.Time { return time.UnixMilli(1760000000000) }
	cl := app.Checklist("Alba")

	_, err := cl.Add("   ")
	assert.ErrorIs(t, err, ErrEmptyLabel)

	item, err := cl.Add(" Kit de costura ")
	require.NoError(t, err)
	assert.Equal(t, "c1760000000000", item.ID)
	assert.Equal(t, "Kit de costura", item.Label)

	items := cl.Items()
	require.Len(t, items, 13)
	assert.Equal(t, item.ID, items[0].ID, "new items go first")

	cl.MarkAll()
	_, _, pct := cl.Progress()
	assert.Equal(t, 100, pct)
	assert.Contains(t, cl.Summary(), "Todo listo ✅")

	cl.Reset()
	items = cl.Items()
	assert.Len(t, items, 12)
	for _, it := range items {
		assert.False(t, it.Done)
	}
}

func TestChecklistSummary(t *testing.T) {
	app, _ := newTestApp(t)
	cl := app.Checklist("Moi")
	for i := 1; i <= 10; i++ {
		_, err := cl.Toggle(strconv.Itoa(i))
		require.NoError(t, err)
	}
	assert.Equal(t,
		"Checklist de Moi\n10/12 completados\nPendiente:\n• Pasaporte (vigencia + copia)\n• Calzado cómodo",
		cl.Summary())
}

func TestLegacyChecklistKey(t *testing.T) {
	tests := []struct {
		traveller string
		want      string
	}{
		{"Josué", "jp_checklist_josue_v1"},
		{"MAngel", "jp_checklist_mangel_v1"},
		{"Mª Ángel!", "jp_checklist_ma-angel-_v1"},
		{" Tani & Isaac ", "jp_checklist_-tani-isaac-_v1"},
		{"", "jp_checklist__v1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LegacyChecklistKey(tt.traveller), tt.traveller)
	}
}

func TestChecklistMigratesLegacyKeyWithEdgePunctuation(t *testing.T) {
	app, kv := newTestApp(t)

	legacy := []models.ChecklistItem{{ID: "c1", Label: "Abanico", Done: true}}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, kv.Set("jp_checklist_yacelly-_v1", raw))

	assert.Equal(t, legacy, app.Checklist("Yacelly!").Items())
}

func TestChecklistMigratesLegacyKey(t *testing.T) {
	app, kv := newTestApp(t)

	legacy := []models.ChecklistItem{
		{ID: "c1", Label: "Kimono", Done: true},
		{ID: "0", Label: "Pasaporte (vigencia + copia)"},
	}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, kv.Set("jp_checklist_josue_v1", raw))

	cl := app.Checklist("Josué")
	assert.Equal(t, legacy, cl.Items())

	// The new key holds a version 2 envelope and the legacy key is untouched
	stored, ok, err := kv.Get("checklist/josue")
	require.NoError(t, err)
	require.True(t, ok)
	var env struct {
		Version int `json:"version"`
		Data    struct {
			Owner string                 `json:"owner"`
			Items []models.ChecklistItem `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stored, &env))
	assert.Equal(t, 2, env.Version)
	assert.Equal(t, "Josué", env.Data.Owner)
	assert.Equal(t, legacy, env.Data.Items)

	old, ok, err := kv.Get("jp_checklist_josue_v1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, string(raw), string(old))

	// Later changes go to the new key only
	_, err = cl.Toggle("0")
	require.NoError(t, err)
	old, _, _ = kv.Get("jp_checklist_josue_v1")
	assert.JSONEq(t, string(raw), string(old))
	assert.True(t, cl.Items()[1].Done)
}

func TestChecklistUpgradesVersionOneEnvelope(t *testing.T) {
	app, kv := newTestApp(t)
	require.NoError(t, kv.Set("checklist/moi", []byte(`{"version":1,"data":[{"id":"x","label":"Yukata","done":false}]}`)))

	items := app.Checklist("Moi").Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Yukata", items[0].Label)

	stored, _, _ := kv.Get("checklist/moi")
	assert.Contains(t, string(stored), `"version":2`)
}

func TestChecklistDefaultsFromContent(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetChecklistDefaults([]string{"Pasaporte", "Yenes"})

	c := app.Checklist("Alba")
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Yenes", items[1].Label)

	_, err := c.Toggle("1")
	require.NoError(t, err)
	c.Reset()
	assert.Len(t, c.Items(), 2)
	assert.False(t, c.Items()[1].Done)

	app.SetChecklistDefaults(nil)
	assert.Len(t, app.Checklist("Moi").Items(), 2)
}
