package device

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripjapan/internal/calculator"
	"github.com/mmynk/tripjapan/internal/models"
)

// Theme is the color scheme of the app.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultServerURL is used until the traveller points the app elsewhere.
const DefaultServerURL = "http://localhost:8080"

var (
	ErrInvalidTheme = errors.New("theme must be light or dark")
	ErrInvalidURL   = errors.New("server URL must start with http:// or https://")
)

const (
	keyDeviceID  = "app/device_id"
	keyTheme     = "app/theme"
	keyName      = "app/name"
	keyRate      = "app/rate"
	keyToken     = "app/token"
	keyServerURL = "app/server_url"
)

func stringSchema(def string) schema[string] {
	return schema[string]{version: 1, def: func() string { return def }}
}

var rateSchema = schema[float64]{version: 1, def: func() float64 { return calculator.DefaultRate }}

// App is the application context of one device. It is created once at
// startup and handed to whatever needs device state.
type App struct {
	mu    sync.Mutex
	kv    *safeKV
	newID func() string
	now   func() time.Time

	// newDeviceID is separate from newID so the identity never takes a
	// value from the note or expense sequence.
	newDeviceID func() string

	checklistDefaults []string
}

// NewApp wraps kv. Storage errors are logged and never surface to callers.
func NewApp(kv KV) *App {
	return &App{
		kv:    newSafeKV(kv),
		newID: uuid.NewString,
		now:   time.Now,

		newDeviceID:       uuid.NewString,
		checklistDefaults: DefaultChecklist,
	}
}

// SetChecklistDefaults replaces the list new and reset checklists start
// from. An empty list keeps the current one.
func (a *App) SetChecklistDefaults(labels []string) {
	if len(labels) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checklistDefaults = append([]string(nil), labels...)
}

// DeviceID returns the device identifier, generating it on first use.
func (a *App) DeviceID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := stringSchema("")
	if id := load(a.kv, keyDeviceID, s); id != "" {
		return id
	}
	id := a.newDeviceID()
	save(a.kv, keyDeviceID, s, id)
	return id
}

// Theme returns the stored theme, light by default.
func (a *App) Theme() Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := Theme(load(a.kv, keyTheme, stringSchema(string(ThemeLight))))
	if t != ThemeDark {
		return ThemeLight
	}
	return t
}

func (a *App) SetTheme(t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return ErrInvalidTheme
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	save(a.kv, keyTheme, stringSchema(""), string(t))
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (a *App) ToggleTheme() Theme {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := ThemeDark
	if Theme(load(a.kv, keyTheme, stringSchema(string(ThemeLight)))) == ThemeDark {
		next = ThemeLight
	}
	save(a.kv, keyTheme, stringSchema(""), string(next))
	return next
}

// Name returns the display name used for notes and the ranking.
func (a *App) Name() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return load(a.kv, keyName, stringSchema(models.DefaultDisplayName))
}

func (a *App) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.DefaultDisplayName
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	save(a.kv, keyName, stringSchema(""), name)
}

// Rate returns the yen per euro rate of the currency converter.
func (a *App) Rate() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := load(a.kv, keyRate, rateSchema)
	if r <= 0 {
		return calculator.DefaultRate
	}
	return r
}

func (a *App) SetRate(rate float64) error {
	if rate <= 0 {
		return calculator.ErrInvalidRate
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	save(a.kv, keyRate, rateSchema, rate)
	return nil
}

// Token returns the device token issued by the server, empty before joining.
func (a *App) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return load(a.kv, keyToken, stringSchema(""))
}

func (a *App) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	save(a.kv, keyToken, stringSchema(""), token)
}

// ServerURL returns the base URL of the trip server.
func (a *App) ServerURL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return load(a.kv, keyServerURL, stringSchema(DefaultServerURL))
}

func (a *App) SetServerURL(u string) error {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return ErrInvalidURL
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	save(a.kv, keyServerURL, stringSchema(""), u)
	return nil
}

// Checklist returns the packing checklist of a traveller.
func (a *App) Checklist(traveller string) *Checklist {
	return &Checklist{app: a, owner: traveller}
}

// Ledger returns the shared-expense ledger.
func (a *App) Ledger() *Ledger {
	return &Ledger{app: a}
}

// Itinerary returns the done marks of the itinerary activities.
func (a *App) Itinerary() *Itinerary {
	return &Itinerary{set: a.Set(SetItineraryDone)}
}

// Set returns a named set of IDs, such as favorites.
func (a *App) Set(name string) *Set {
	return &Set{app: a, key: "sets/" + name}
}

// Gallery returns the photo galleries of the places.
func (a *App) Gallery() *Gallery {
	return &Gallery{app: a}
}

// Outbox returns the queue of notes waiting to be sent.
func (a *App) Outbox() *Outbox {
	return &Outbox{app: a}
}

// ToYen converts euros at the stored rate.
func (a *App) ToYen(eur float64) (int64, error) {
	return calculator.EURToJPY(eur, a.Rate())
}

// ToEuro converts yen at the stored rate.
func (a *App) ToEuro(jpy float64) (float64, error) {
	return calculator.JPYToEUR(jpy, a.Rate())
}
