package device

import (
	"errors"
	"io"
	"sort"
	"strings"
)

// MaxPhotos is how many photos a place gallery keeps.
const MaxPhotos = 8

var (
	ErrEmptyPhoto = errors.New("photo is required")
	ErrBadIndex   = errors.New("no photo at that index")
)

const keyGallery = "gallery"

// PlaceGallery is the photos kept for one place.
type PlaceGallery struct {
	Photos []string `json:"photos"`
	Album  string   `json:"album,omitempty"`
}

var gallerySchema = schema[map[string]PlaceGallery]{
	version: 1,
	def:     func() map[string]PlaceGallery { return map[string]PlaceGallery{} },
}

// Gallery holds photo galleries keyed by place ID. Photos are data URLs or
// links.
type Gallery struct {
	app *App
}

func (g *Gallery) update(fn func(map[string]PlaceGallery) error) error {
	g.app.mu.Lock()
	defer g.app.mu.Unlock()
	all := load(g.app.kv, keyGallery, gallerySchema)
	if all == nil {
		all = map[string]PlaceGallery{}
	}
	if err := fn(all); err != nil {
		return err
	}
	save(g.app.kv, keyGallery, gallerySchema, all)
	return nil
}

// Get returns a place's gallery, newest photo first.
func (g *Gallery) Get(placeID string) PlaceGallery {
	g.app.mu.Lock()
	defer g.app.mu.Unlock()
	return load(g.app.kv, keyGallery, gallerySchema)[placeID]
}

// Places lists the places that have a gallery.
func (g *Gallery) Places() []string {
	g.app.mu.Lock()
	defer g.app.mu.Unlock()
	var ids []string
	for id, pg := range load(g.app.kv, keyGallery, gallerySchema) {
		if len(pg.Photos) > 0 || pg.Album != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Add puts a photo first, dropping the oldest beyond MaxPhotos.
func (g *Gallery) Add(placeID, photo string) error {
	photo = strings.TrimSpace(photo)
	if photo == "" {
		return ErrEmptyPhoto
	}
	return g.update(func(all map[string]PlaceGallery) error {
		pg := all[placeID]
		pg.Photos = append([]string{photo}, pg.Photos...)
		if len(pg.Photos) > MaxPhotos {
			pg.Photos = pg.Photos[:MaxPhotos]
		}
		all[placeID] = pg
		return nil
	})
}

// AddImage compresses an image file to a data URL and adds it.
func (g *Gallery) AddImage(placeID string, r io.Reader) error {
	photo, err := PhotoDataURL(r)
	if err != nil {
		return err
	}
	return g.Add(placeID, photo)
}

// Remove deletes the photo at index.
func (g *Gallery) Remove(placeID string, index int) error {
	return g.update(func(all map[string]PlaceGallery) error {
		pg := all[placeID]
		if index < 0 || index >= len(pg.Photos) {
			return ErrBadIndex
		}
		pg.Photos = append(pg.Photos[:index:index], pg.Photos[index+1:]...)
		all[placeID] = pg
		return nil
	})
}

// SetAlbum links a shared album. An empty link removes it.
func (g *Gallery) SetAlbum(placeID, link string) {
	g.update(func(all map[string]PlaceGallery) error {
		pg := all[placeID]
		pg.Album = strings.TrimSpace(link)
		all[placeID] = pg
		return nil
	})
}
