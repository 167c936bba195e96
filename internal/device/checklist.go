package device

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mmynk/tripjapan/internal/calculator"
	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/models"
)

// DefaultChecklist is the packing list every traveller starts with, unless
// the app is given another one.
var DefaultChecklist = []string{
	"Pasaporte (vigencia + copia)",
	"Billetes y reservas (vuelos/hoteles)",
	"Seguro médico / tarjeta sanitaria",
	"JR Pass / Suica / PASMO",
	"SIM/eSIM o Pocket Wi‑Fi",
	"Adaptador de enchufe tipo A/B",
	"Cables y cargadores",
	"Power bank",
	"Dinero en efectivo (¥) / tarjeta sin comisiones",
	"Botiquín básico / medicación",
	"Paraguas o chubasquero",
	"Calzado cómodo",
}

var (
	ErrEmptyLabel  = errors.New("label is required")
	ErrUnknownItem = errors.New("no checklist item with that id")
)

func checklistItems(labels []string) []models.ChecklistItem {
	items := make([]models.ChecklistItem, len(labels))
	for i, label := range labels {
		items[i] = models.ChecklistItem{ID: strconv.Itoa(i), Label: label}
	}
	return items
}

// checklistDoc is version 2 of a stored checklist. Version 1 was the bare
// item array.
type checklistDoc struct {
	Owner string                 `json:"owner"`
	Items []models.ChecklistItem `json:"items"`
}

func checklistSchema(defaults []string) schema[checklistDoc] {
	return schema[checklistDoc]{
		version: 2,
		def:     func() checklistDoc { return checklistDoc{Items: checklistItems(defaults)} },
		migrations: map[int]migration{
			1: func(data json.RawMessage) (json.RawMessage, error) {
				var items []models.ChecklistItem
				if err := json.Unmarshal(data, &items); err != nil {
					return nil, err
				}
				return json.Marshal(checklistDoc{Items: items})
			},
		},
	}
}

// ChecklistKey is where a traveller's checklist lives.
func ChecklistKey(traveller string) string {
	return "checklist/" + catalog.Slug(traveller)
}

// LegacyChecklistKey is where older builds stored the checklist, as a bare
// JSON array.
func LegacyChecklistKey(traveller string) string {
	return "jp_checklist_" + legacySlug(traveller) + "_v1"
}

var legacySlugSeparators = regexp.MustCompile(`(?i)[^a-z0-9]+`)

// legacySlug is the slug older builds used for keys. Unlike catalog.Slug
// it keeps edge dashes and has no fallback for empty names.
func legacySlug(s string) string {
	folded := strings.Map(func(r rune) rune {
		if r >= 0x0300 && r <= 0x036f {
			return -1
		}
		return r
	}, norm.NFKD.String(s))
	return strings.ToLower(legacySlugSeparators.ReplaceAllString(folded, "-"))
}

// Checklist is the packing checklist of one traveller.
type Checklist struct {
	app   *App
	owner string
}

// load reads the checklist. A checklist found only under the legacy key is
// migrated to the new key; the legacy value is left in place.
func (c *Checklist) load() checklistDoc {
	key := ChecklistKey(c.owner)
	s := checklistSchema(c.app.checklistDefaults)
	if _, ok := c.app.kv.get(key); !ok {
		if raw, ok := c.app.kv.get(LegacyChecklistKey(c.owner)); ok {
			doc, _ := s.decodeData(LegacyChecklistKey(c.owner), 1, raw)
			doc.Owner = c.owner
			save(c.app.kv, key, s, doc)
			return doc
		}
	}
	doc := load(c.app.kv, key, s)
	doc.Owner = c.owner
	return doc
}

func (c *Checklist) update(fn func(*checklistDoc) error) ([]models.ChecklistItem, error) {
	c.app.mu.Lock()
	defer c.app.mu.Unlock()
	doc := c.load()
	if err := fn(&doc); err != nil {
		return nil, err
	}
	save(c.app.kv, ChecklistKey(c.owner), checklistSchema(c.app.checklistDefaults), doc)
	return doc.Items, nil
}

// Owner returns the traveller the checklist belongs to.
func (c *Checklist) Owner() string {
	return c.owner
}

// Items returns the checklist, newest additions first.
func (c *Checklist) Items() []models.ChecklistItem {
	c.app.mu.Lock()
	defer c.app.mu.Unlock()
	return c.load().Items
}

// Add prepends a new item.
func (c *Checklist) Add(label string) (models.ChecklistItem, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return models.ChecklistItem{}, ErrEmptyLabel
	}
	item := models.ChecklistItem{ID: fmt.Sprintf("c%d", c.app.now().UnixMilli()), Label: label}
	_, err := c.update(func(doc *checklistDoc) error {
		doc.Items = append([]models.ChecklistItem{item}, doc.Items...)
		return nil
	})
	return item, err
}

// Toggle flips an item and reports its new state.
func (c *Checklist) Toggle(id string) (bool, error) {
	var done bool
	_, err := c.update(func(doc *checklistDoc) error {
		for i := range doc.Items {
			if doc.Items[i].ID == id {
				doc.Items[i].Done = !doc.Items[i].Done
				done = doc.Items[i].Done
				return nil
			}
		}
		return ErrUnknownItem
	})
	return done, err
}

// MarkAll marks every item as done.
func (c *Checklist) MarkAll() {
	c.update(func(doc *checklistDoc) error {
		for i := range doc.Items {
			doc.Items[i].Done = true
		}
		return nil
	})
}

// Reset restores the default list, dropping added items.
func (c *Checklist) Reset() {
	c.update(func(doc *checklistDoc) error {
		doc.Items = checklistItems(c.app.checklistDefaults)
		return nil
	})
}

// Progress counts the done items.
func (c *Checklist) Progress() (done, total, percent int) {
	items := c.Items()
	for _, it := range items {
		if it.Done {
			done++
		}
	}
	return done, len(items), calculator.Percent(done, len(items))
}

// Summary is the shareable text of the checklist.
func (c *Checklist) Summary() string {
	items := c.Items()
	var pending []string
	for _, it := range items {
		if !it.Done {
			pending = append(pending, "• "+it.Label)
		}
	}
	done := len(items) - len(pending)

	status := "Todo listo ✅"
	if len(pending) > 0 {
		status = "Pendiente:"
	}
	return catalog.Lines(append([]string{
		"Checklist de " + c.owner,
		fmt.Sprintf("%d/%d completados", done, len(items)),
		status,
	}, pending...)...)
}
