// Command tripctl is the terminal companion of the trip: it keeps the
// device-local state (checklists, expenses, favorites, galleries, queued
// notes) in a small SQLite file and talks to the trip server for the shared
// parts.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/device"
	"github.com/mmynk/tripjapan/pkg/api/apiconnect"
	"github.com/mmynk/tripjapan/pkg/logging"
)

// memoryState keeps the device state in memory for the life of the command.
const memoryState = ":memory:"

var (
	// Global flags
	statePath  string
	serverURL  string
	contentDir string
	logLevel   string
	timeout    time.Duration

	kv      device.KV
	app     *device.App
	content *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "tripctl",
	Short: "Japan trip companion",
	Long: `tripctl keeps your part of the trip on this device and syncs the shared
parts (notes, gastronomy votes, ranking) with the trip server.

Run 'tripctl join' once to get a token, then use the other commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetupWithLevel(logging.LevelFromString(logLevel))
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if kv == nil {
			return nil
		}
		return kv.Close()
	},
}

func defaultStatePath() string {
	if p := os.Getenv("TRIPCTL_STATE"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".tripctl", "state.db")
	}
	return filepath.Join(dir, "tripctl", "state.db")
}

func openState(path string) (device.KV, error) {
	if path == memoryState {
		return device.NewMemory(), nil
	}
	return device.OpenFile(path)
}

func loadContent(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default()
	}
	src, err := catalog.NewSource(dir)
	if err != nil {
		return nil, err
	}
	return src.Current(), nil
}

func setup() error {
	var err error
	content, err = loadContent(contentDir)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	kv, err = openState(statePath)
	if err != nil {
		return fmt.Errorf("failed to open state: %w", err)
	}
	app = device.NewApp(kv)
	app.SetChecklistDefaults(content.Checklist)
	if serverURL != "" {
		if err := app.SetServerURL(serverURL); err != nil {
			return err
		}
	}
	return nil
}

// remote holds the clients of the trip server, authenticated with the
// device token.
type remote struct {
	device apiconnect.DeviceServiceClient
	trip   apiconnect.TripServiceClient
	notes  apiconnect.NotesServiceClient
	gastro apiconnect.GastroServiceClient
	game   apiconnect.GameServiceClient
	sync   apiconnect.SyncServiceClient
}

func newRemote() *remote {
	base := app.ServerURL()
	opts := connect.WithInterceptors(apiconnect.BearerToken(app.Token))
	return &remote{
		device: apiconnect.NewDeviceServiceClient(http.DefaultClient, base, opts),
		trip:   apiconnect.NewTripServiceClient(http.DefaultClient, base, opts),
		notes:  apiconnect.NewNotesServiceClient(http.DefaultClient, base, opts),
		gastro: apiconnect.NewGastroServiceClient(http.DefaultClient, base, opts),
		game:   apiconnect.NewGameServiceClient(http.DefaultClient, base, opts),
		sync:   apiconnect.NewSyncServiceClient(http.DefaultClient, base, opts),
	}
}

// callContext bounds a unary call with the --timeout flag.
func callContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&statePath, "state", defaultStatePath(), "Device state file, or :memory: (or set TRIPCTL_STATE)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", os.Getenv("TRIPCTL_SERVER"), "Trip server URL (or set TRIPCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", os.Getenv("CONTENT_DIR"), "Directory overriding the embedded trip content")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "Timeout of server calls")

	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(hashPasscodeCmd)
	rootCmd.AddCommand(itineraryCmd)
	rootCmd.AddCommand(checklistCmd)
	rootCmd.AddCommand(expensesCmd)
	rootCmd.AddCommand(galleryCmd)
	rootCmd.AddCommand(placesCmd)
	rootCmd.AddCommand(photosCmd)
	rootCmd.AddCommand(mustEatCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(gastroCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
