package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/config"
	"github.com/mmynk/tripjapan/internal/device"
	"github.com/mmynk/tripjapan/internal/hub"
	"github.com/mmynk/tripjapan/internal/metrics"
	"github.com/mmynk/tripjapan/internal/server"
	"github.com/mmynk/tripjapan/internal/storage/sqlite"
	"github.com/mmynk/tripjapan/pkg/api"
)

// setupCLI gives the commands a fresh in-memory device.
func setupCLI(t *testing.T) {
	t.Helper()
	statePath = memoryState
	contentDir = ""
	serverURL = ""
	timeout = 5 * time.Second
	require.NoError(t, setup())

	t.Cleanup(func() {
		kv.Close()
		kv, app, content = nil, nil, nil
		checklistFor = ""
		expenseSplit, expensePayer, expenseWeights, expenseWith = 0, "", nil, nil
		joinName, joinPasscode, joinTrip = "", "", ""
		convertToEuro, dayReset = false, false
		galleryFile = ""
	})
}

// startServer runs a trip server on a temporary database and points the
// device at it.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg, err := config.FromMap(map[string]string{
		"JWT_SECRET": "tripctl-test-secret-0123",
		"DB_PATH":    filepath.Join(t.TempDir(), "trip.db"),
	})
	require.NoError(t, err)

	store, err := sqlite.New(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := server.New(cfg, store, catalog.StaticSource(catalog.MustDefault()), hub.New(hub.DefaultBuffer), metrics.New())
	ts := httptest.NewServer(srv.RegisterRoutes())
	t.Cleanup(ts.Close)
	require.NoError(t, app.SetServerURL(ts.URL))
	return ts
}

func execute(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := fn(cmd, args)
	return out.String(), err
}

func mustExecute(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) string {
	t.Helper()
	out, err := execute(t, fn, args...)
	require.NoError(t, err)
	return out
}

func TestOpenState(t *testing.T) {
	mem, err := openState(memoryState)
	require.NoError(t, err)
	assert.IsType(t, &device.MemoryKV{}, mem)

	path := filepath.Join(t.TempDir(), "nested", "state.db")
	file, err := openState(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, file.Set("k", []byte("v")))
	assert.FileExists(t, path)
}

func TestChecklistUsesContentDefaults(t *testing.T) {
	setupCLI(t)
	checklistFor = "Moi"

	out := mustExecute(t, runChecklist)
	assert.Contains(t, out, "Checklist de Moi: 0/12")
	assert.Contains(t, out, content.Checklist[0])

	out = mustExecute(t, runChecklistToggle, "0")
	assert.Contains(t, out, "1/12")

	out = mustExecute(t, runChecklistAdd, "Palillos", "propios")
	assert.Contains(t, out, "Added Palillos propios")

	checklistFor = "Jani"
	out = mustExecute(t, runChecklist)
	assert.Contains(t, out, "Checklist de Jani: 0/12")

	_, err := execute(t, runChecklistToggle, "nope")
	assert.ErrorIs(t, err, device.ErrUnknownItem)
}

func TestExpensesCommands(t *testing.T) {
	setupCLI(t)

	expensePayer = "Moi"
	out := mustExecute(t, runExpensesAdd, "Cena", "110")
	assert.Contains(t, out, "Added Cena: 110,00 € ÷11")

	expensePayer = "Nobody"
	_, err := execute(t, runExpensesAdd, "Taxi", "20")
	assert.ErrorIs(t, err, device.ErrUnknownPayer)

	expensePayer = ""
	_, err = execute(t, runExpensesAdd, "Nada", "0")
	assert.ErrorIs(t, err, device.ErrZeroAmount)

	out = mustExecute(t, runExpensesShare)
	assert.Contains(t, out, "Total: 110,00 €")
	assert.Contains(t, out, "Por persona: 10,00 €")

	out = mustExecute(t, runExpensesBalances)
	assert.Contains(t, out, "Jani → Moi: 10,00 €")

	id := app.Ledger().Expenses()[0].ID
	out = mustExecute(t, runExpensesRm, shortID(id))
	assert.Contains(t, out, "Deleted Cena")
	assert.Empty(t, app.Ledger().Expenses())

	out = mustExecute(t, runExpensesBalances)
	assert.Contains(t, out, "Nadie debe nada")
}

func TestExpensesSharedByPartOfTheGroup(t *testing.T) {
	setupCLI(t)

	expensePayer = "Moi"
	expenseWith = []string{"Moi", "Jani", "Alba", "Tani"}
	out := mustExecute(t, runExpensesAdd, "Taxi", "22")
	assert.Contains(t, out, "Added Taxi: 22,00 € ÷4")

	out = mustExecute(t, runExpensesBalances)
	assert.Contains(t, out, "Jani → Moi: 5,50 €")
	assert.Contains(t, out, "Tani → Moi: 5,50 €")
	assert.NotContains(t, out, "Isaac")

	expenseWith = []string{"Kenji"}
	_, err := execute(t, runExpensesAdd, "Taxi", "10")
	assert.ErrorIs(t, err, device.ErrUnknownParticipant)

	expenseWith, expenseSplit = nil, 4
	mustExecute(t, runExpensesAdd, "Bus", "8")
	_, err = execute(t, runExpensesBalances)
	assert.ErrorIs(t, err, device.ErrSplitWithoutParticipants)
}

func TestConvert(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, runConvert, "10")
	assert.Equal(t, "10.00 € ≈ 1650 ¥ (tasa 165)\n", out)

	convertToEuro = true
	out = mustExecute(t, runConvert, "1650")
	assert.Contains(t, out, "≈ 10,00 €")

	mustExecute(t, runConfigRate, "0,5")
	assert.Equal(t, 0.5, app.Rate())

	_, err := execute(t, runConfigRate, "0")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	setupCLI(t)

	mustExecute(t, runConfigName, "Moi", "🍣")
	assert.Equal(t, "Moi 🍣", app.Name())

	_, err := execute(t, runConfigName, strings.Repeat("x", 41))
	assert.Error(t, err)

	out := mustExecute(t, runConfigTheme)
	assert.Contains(t, out, "dark")
	_, err = execute(t, runConfigTheme, "sepia")
	assert.ErrorIs(t, err, device.ErrInvalidTheme)

	_, err = execute(t, runConfigServer, "ftp://example.com")
	assert.Error(t, err)

	out = mustExecute(t, runConfigShow)
	assert.Contains(t, out, app.DeviceID())
	assert.Contains(t, out, "joined:  no")
}

func TestItineraryCommands(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, runItineraryDay, "2025-10-22")
	assert.Contains(t, out, "(100%)")

	dayReset = true
	out = mustExecute(t, runItineraryDay, "2025-10-22")
	assert.Contains(t, out, "2025-10-22: 0/")

	out = mustExecute(t, runItineraryDone, catalog.ActivityID("2025-10-22", 0))
	assert.Contains(t, out, "done")

	out = mustExecute(t, runItinerary, "2025-10-22")
	assert.Contains(t, out, "[x] "+catalog.ActivityID("2025-10-22", 0))

	out = mustExecute(t, runItineraryMap, "2025-10-22")
	assert.True(t, strings.HasPrefix(out, "https://www.google.com/maps"), out)

	_, err := execute(t, runItineraryMap, "1999-01-01")
	assert.Error(t, err)

	out = mustExecute(t, runItineraryMap)
	assert.Contains(t, out, "/viewer?mid=")
	assert.Contains(t, out, "embed: https://www.google.com/maps/d/u/0/embed?mid=")
}

func TestInfoShowsFlights(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, runInfo)
	assert.Contains(t, out, "🛫 Vuelos Ida y Vuelta Japón 2025")
	assert.Contains(t, out, "• MU709 (Airbus A350 XWB – avión grande)")
	assert.Contains(t, out, "→ Total: 23 h 05 min (incluye escala)")
	assert.Contains(t, out, "Emergencias")
}

func TestFavoritesCommands(t *testing.T) {
	setupCLI(t)

	mustExecute(t, runPlacesFav, "sensoji")
	out := mustExecute(t, runPlaces)
	assert.True(t, strings.HasPrefix(out, "★ sensoji"), out)

	_, err := execute(t, runPlacesFav, "nope")
	assert.Error(t, err)

	idea := content.PhotoIdeas[0]
	out = mustExecute(t, runPhotosMark(device.SetPhotoDone, "done"), idea.ID)
	assert.Contains(t, out, ": done")
	assert.True(t, app.Set(device.SetPhotoDone).Has(idea.ID))
}

func TestGalleryCommands(t *testing.T) {
	setupCLI(t)

	mustExecute(t, runGalleryAdd, "sensoji", "https://example.com/a.jpg")
	mustExecute(t, runGalleryAdd, "sensoji", "https://example.com/b.jpg")
	mustExecute(t, runGalleryAlbum, "sensoji", "https://photos.example.com/album")

	out := mustExecute(t, runGallery, "sensoji")
	assert.Contains(t, out, "0  https://example.com/b.jpg")
	assert.Contains(t, out, "Album: https://photos.example.com/album")

	mustExecute(t, runGalleryRm, "sensoji", "0")
	assert.Equal(t, []string{"https://example.com/a.jpg"}, app.Gallery().Get("sensoji").Photos)

	_, err := execute(t, runGalleryRm, "sensoji", "x")
	assert.ErrorIs(t, err, device.ErrBadIndex)
}

func TestGalleryAddFile(t *testing.T) {
	setupCLI(t)

	path := filepath.Join(t.TempDir(), "torii.png")
	img := image.NewRGBA(image.Rect(0, 0, 2000, 1000))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	galleryFile = path
	out := mustExecute(t, runGalleryAdd, "miyajima")
	assert.Contains(t, out, "miyajima: 1 photos")
	photo := app.Gallery().Get("miyajima").Photos[0]
	assert.True(t, strings.HasPrefix(photo, "data:image/jpeg;base64,"))

	_, err := execute(t, runGalleryAdd, "miyajima", "https://example.com/a.jpg")
	assert.Error(t, err)

	galleryFile = ""
	_, err = execute(t, runGalleryAdd, "miyajima")
	assert.ErrorIs(t, err, device.ErrEmptyPhoto)
}

func TestHashPasscode(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, runHashPasscode, "sakura")
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("sakura")))
}

func TestJoinAndRanking(t *testing.T) {
	setupCLI(t)
	startServer(t)

	joinName = "Moi"
	out := mustExecute(t, runJoin)
	assert.Contains(t, out, "Joined japon-2025 as Moi")
	assert.NotEmpty(t, app.Token())

	out = mustExecute(t, runMustEatTried, "tokyo-ramen")
	assert.Contains(t, out, "checked, 1 points")
	assert.True(t, app.Toggler(nil).Checked("dish", "tokyo-ramen"))

	out = mustExecute(t, runGastroEaten, "osaka-ichiran-namba")
	assert.Contains(t, out, "checked, 2 points")

	out = mustExecute(t, runRanking)
	assert.Contains(t, out, "Moi")
	assert.Contains(t, out, "← tú")

	out = mustExecute(t, runGastroVote, "osaka-ichiran-namba")
	assert.Contains(t, out, "👍1")

	out = mustExecute(t, runGastro)
	assert.Contains(t, out, "osaka-ichiran-namba")
	assert.Contains(t, out, "(tu voto)")
}

func TestToggleStartsFromServerChecks(t *testing.T) {
	setupCLI(t)
	startServer(t)

	joinName = "Moi"
	mustExecute(t, runJoin)
	mustExecute(t, runMustEatTried, "tokyo-ramen")

	// Local marks lost, as on a reinstalled device.
	app.Toggler(nil).Checks(api.ItemDish).Toggle("tokyo-ramen")
	require.False(t, app.Toggler(nil).Checked(api.ItemDish, "tokyo-ramen"))

	out := mustExecute(t, runMustEatTried, "tokyo-ramen")
	assert.Contains(t, out, "unchecked, 0 points")
	assert.False(t, app.Toggler(nil).Checked(api.ItemDish, "tokyo-ramen"))
}

func TestToggleWithoutTokenRollsBack(t *testing.T) {
	setupCLI(t)
	startServer(t)

	_, err := execute(t, runMustEatTried, "tokyo-ramen")
	require.Error(t, err)
	assert.False(t, app.Toggler(nil).Checked("dish", "tokyo-ramen"))
}

func TestNotesQueuedWhileOffline(t *testing.T) {
	setupCLI(t)

	offline := httptest.NewServer(nil)
	offline.Close()
	require.NoError(t, app.SetServerURL(offline.URL))
	app.SetName("Moi")

	out := mustExecute(t, runNotesPost, "2025-10-20", "Llevad", "el", "pasaporte")
	assert.Contains(t, out, "note queued")

	block := blockID("2025-10-20")
	assert.Equal(t, catalog.BlockID("2025-10-20", "Vuelos a Japón"), block)
	require.Len(t, app.Outbox().Pending(block), 1)

	out = mustExecute(t, runNotes, "2025-10-20")
	assert.Contains(t, out, "Llevad el pasaporte (pending)")

	startServer(t)
	joinName = "Moi"
	out = mustExecute(t, runJoin)
	assert.Contains(t, out, "Sent 1 queued notes")
	assert.Empty(t, app.Outbox().Pending(block))

	out = mustExecute(t, runNotes, "2025-10-20")
	assert.Contains(t, out, "Moi: Llevad el pasaporte")
	assert.NotContains(t, out, "(pending)")
}
