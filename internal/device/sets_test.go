package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/models"
)

func TestSetToggle(t *testing.T) {
	app, _ := newTestApp(t)
	favs := app.Set(SetPlaceFavorites)

	assert.True(t, favs.Toggle("osaka-castle"))
	assert.True(t, favs.Toggle("fushimi-inari"))
	assert.False(t, favs.Toggle("osaka-castle"))
	assert.Equal(t, []string{"fushimi-inari"}, favs.IDs())

	// Sets are independent
	assert.Empty(t, app.Set(SetPhotoFavorites).IDs())
}

func TestItineraryProgress(t *testing.T) {
	app, _ := newTestApp(t)
	it := app.Itinerary()
	day := models.Day{
		Date:  "2025-10-22",
		Title: "Osaka",
		Activities: []models.Activity{
			{Text: "Castillo de Osaka"},
			{Text: "Umeda Sky"},
			{Text: "Acuario Kaiyukan"},
		},
	}

	assert.True(t, it.Toggle(catalog.ActivityID(day.Date, 1)))
	done, total, pct := it.DayProgress(day)
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, total)
	assert.Equal(t, 33, pct)

	it.MarkDay(day, true)
	_, _, pct = it.DayProgress(day)
	assert.Equal(t, 100, pct)

	it.MarkDay(day, false)
	done, _, _ = it.DayProgress(day)
	assert.Equal(t, 0, done)
	assert.False(t, it.IsDone(catalog.ActivityID(day.Date, 1)))
}

func TestGallery(t *testing.T) {
	app, _ := newTestApp(t)
	g := app.Gallery()

	assert.ErrorIs(t, g.Add("osaka-castle", " "), ErrEmptyPhoto)
	for i := 0; i < 10; i++ {
		require.NoError(t, g.Add("osaka-castle", string(rune('a'+i))))
	}
	pg := g.Get("osaka-castle")
	require.Len(t, pg.Photos, MaxPhotos)
	assert.Equal(t, "j", pg.Photos[0], "newest first")
	assert.Equal(t, "c", pg.Photos[MaxPhotos-1])

	require.NoError(t, g.Remove("osaka-castle", 1))
	pg = g.Get("osaka-castle")
	assert.Equal(t, []string{"j", "h", "g", "f", "e", "d", "c"}, pg.Photos)
	assert.ErrorIs(t, g.Remove("osaka-castle", 7), ErrBadIndex)

	g.SetAlbum("kyoto-gion", " https://photos.example/album ")
	assert.Equal(t, "https://photos.example/album", g.Get("kyoto-gion").Album)
	assert.Equal(t, []string{"kyoto-gion", "osaka-castle"}, g.Places())

	g.SetAlbum("kyoto-gion", "")
	assert.Equal(t, []string{"osaka-castle"}, g.Places())
}
