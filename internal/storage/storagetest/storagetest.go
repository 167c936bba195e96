// Package storagetest holds behaviour tests shared by every storage.Store
// implementation.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripjapan/internal/models"
	"github.com/mmynk/tripjapan/internal/storage"
)

// Run exercises store. Each subtest uses its own trip ID so the store can
// be shared.
func Run(t *testing.T, store storage.Store) {
	ctx := context.Background()

	t.Run("UpsertDevice keeps join time and updates name", func(t *testing.T) {
		trip := "devices"
		d := models.NewDevice(trip, "dev-1", "")
		require.NoError(t, store.UpsertDevice(ctx, d))

		got, err := store.GetDevice(ctx, trip, "dev-1")
		require.NoError(t, err)
		assert.Equal(t, models.DefaultDisplayName, got.Name)
		joined := got.JoinedAt

		again := &models.Device{TripID: trip, ID: "dev-1", Name: "Moi", JoinedAt: joined + 100}
		require.NoError(t, store.UpsertDevice(ctx, again))

		got, err = store.GetDevice(ctx, trip, "dev-1")
		require.NoError(t, err)
		assert.Equal(t, "Moi", got.Name)
		assert.Equal(t, joined, got.JoinedAt)

		_, err = store.GetDevice(ctx, trip, "nope")
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})

	t.Run("CreateNote is idempotent on ID", func(t *testing.T) {
		trip := "notes-idem"
		note := &models.Note{ID: "n1", TripID: trip, BlockID: "b", Content: "hola", AuthorName: "Moi", DeviceID: "d1", CreatedAt: 1000}

		created, err := store.CreateNote(ctx, note)
		require.NoError(t, err)
		assert.True(t, created)

		replay := *note
		replay.Content = "changed"
		created, err = store.CreateNote(ctx, &replay)
		require.NoError(t, err)
		assert.False(t, created)

		notes, err := store.ListNotes(ctx, trip, "b", 0)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "hola", notes[0].Content)
	})

	t.Run("ListNotes returns the newest notes oldest first", func(t *testing.T) {
		trip := "notes-order"
		for i := 1; i <= 5; i++ {
			_, err := store.CreateNote(ctx, &models.Note{
				ID: fmt.Sprintf("n%d", i), TripID: trip, BlockID: "b",
				Content: fmt.Sprintf("note %d", i), AuthorName: "Moi", DeviceID: "d1",
				CreatedAt: int64(i * 1000),
			})
			require.NoError(t, err)
		}
		_, err := store.CreateNote(ctx, &models.Note{ID: "other", TripID: trip, BlockID: "c", Content: "x", CreatedAt: 1})
		require.NoError(t, err)

		notes, err := store.ListNotes(ctx, trip, "b", 3)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, "n3", notes[0].ID)
		assert.Equal(t, "n5", notes[2].ID)
	})

	t.Run("ToggleReaction adds and removes", func(t *testing.T) {
		trip := "reactions"
		_, err := store.CreateNote(ctx, &models.Note{ID: "n1", TripID: trip, BlockID: "b", Content: "x", CreatedAt: 1})
		require.NoError(t, err)

		n, err := store.ToggleReaction(ctx, trip, "b", "n1", models.ReactionRamen, "d1")
		require.NoError(t, err)
		assert.Equal(t, []string{"d1"}, n.Reactions[models.ReactionRamen])

		n, err = store.ToggleReaction(ctx, trip, "b", "n1", models.ReactionRamen, "d2")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"d1", "d2"}, n.Reactions[models.ReactionRamen])

		n, err = store.ToggleReaction(ctx, trip, "b", "n1", models.ReactionRamen, "d1")
		require.NoError(t, err)
		assert.Equal(t, []string{"d2"}, n.Reactions[models.ReactionRamen])

		notes, err := store.ListNotes(ctx, trip, "b", 0)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, []string{"d2"}, notes[0].Reactions[models.ReactionRamen])

		_, err = store.ToggleReaction(ctx, trip, "b", "missing", models.ReactionRamen, "d1")
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})

	t.Run("ToggleMark and CountMarks", func(t *testing.T) {
		trip := "marks"
		on, err := store.ToggleMark(ctx, models.MarkVote, trip, "ichiran", "d1")
		require.NoError(t, err)
		assert.True(t, on)
		_, err = store.ToggleMark(ctx, models.MarkVote, trip, "ichiran", "d2")
		require.NoError(t, err)
		_, err = store.ToggleMark(ctx, models.MarkFav, trip, "ichiran", "d2")
		require.NoError(t, err)

		counts, err := store.CountMarks(ctx, trip, "d1")
		require.NoError(t, err)
		assert.Equal(t, models.MarkCounts{Votes: 2, Favs: 1, MyVote: true}, counts["ichiran"])

		on, err = store.ToggleMark(ctx, models.MarkVote, trip, "ichiran", "d1")
		require.NoError(t, err)
		assert.False(t, on)

		counts, err = store.CountMarks(ctx, trip, "d2")
		require.NoError(t, err)
		assert.Equal(t, models.MarkCounts{Votes: 1, Favs: 1, MyVote: true, MyFav: true}, counts["ichiran"])
	})

	t.Run("SetCheck keeps points equal to checks", func(t *testing.T) {
		trip := "checks"
		mark := models.CheckMark{TripID: trip, ItemType: models.ItemDish, ItemID: "ramen", DeviceID: "d1"}

		score, changed, err := store.SetCheck(ctx, mark, true)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 1, score.Points)

		score, changed, err = store.SetCheck(ctx, mark, true)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, 1, score.Points)

		other := mark
		other.ItemType = models.ItemPlace
		other.ItemID = "ichiran"
		score, _, err = store.SetCheck(ctx, other, true)
		require.NoError(t, err)
		assert.Equal(t, 2, score.Points)

		ids, err := store.ListChecks(ctx, trip, "d1", models.ItemDish)
		require.NoError(t, err)
		assert.Equal(t, []string{"ramen"}, ids)

		score, changed, err = store.SetCheck(ctx, mark, false)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 1, score.Points)

		score, changed, err = store.SetCheck(ctx, mark, false)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, 1, score.Points)

		ids, err = store.ListChecks(ctx, trip, "d1", models.ItemDish)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("SetCheck is consistent under concurrent toggles", func(t *testing.T) {
		trip := "checks-concurrent"
		var wg sync.WaitGroup
		errs := make(chan error, 40)
		for i := 0; i < 40; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				mark := models.CheckMark{TripID: trip, ItemType: models.ItemDish, ItemID: fmt.Sprintf("dish-%d", i%8), DeviceID: "d1"}
				_, _, err := store.SetCheck(ctx, mark, i%3 != 0)
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		ids, err := store.ListChecks(ctx, trip, "d1", models.ItemDish)
		require.NoError(t, err)
		score, err := store.GetScore(ctx, trip, "d1")
		require.NoError(t, err)
		assert.Equal(t, len(ids), score.Points)
	})

	t.Run("SetScoreName and ListScores", func(t *testing.T) {
		trip := "scores"
		_, err := store.GetScore(ctx, trip, "d1")
		assert.True(t, errors.Is(err, storage.ErrNotFound))

		require.NoError(t, store.SetScoreName(ctx, trip, "d1", "Moi"))
		_, _, err = store.SetCheck(ctx, models.CheckMark{TripID: trip, ItemType: models.ItemDish, ItemID: "x", DeviceID: "d1"}, true)
		require.NoError(t, err)
		_, _, err = store.SetCheck(ctx, models.CheckMark{TripID: trip, ItemType: models.ItemDish, ItemID: "x", DeviceID: "d2"}, true)
		require.NoError(t, err)
		require.NoError(t, store.SetScoreName(ctx, trip, "d1", "Moi 🍣"))

		scores, err := store.ListScores(ctx, trip)
		require.NoError(t, err)
		require.Len(t, scores, 2)
		assert.Equal(t, "Moi 🍣", scores[0].Name)
		assert.Equal(t, 1, scores[0].Points)
		assert.Equal(t, "", scores[1].Name)
	})

	t.Run("Health reports up", func(t *testing.T) {
		h := store.Health(ctx)
		assert.Equal(t, "up", h["status"])
	})
}
