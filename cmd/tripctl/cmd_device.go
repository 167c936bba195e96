package main

import (
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/tripjapan/internal/auth"
	"github.com/mmynk/tripjapan/internal/calculator"
	"github.com/mmynk/tripjapan/internal/device"
	"github.com/mmynk/tripjapan/pkg/api"
)

var (
	joinName     string
	joinPasscode string
	joinTrip     string

	convertToEuro bool
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join the trip and store the device token",
	Long: `Register this device with the trip server. The token is stored with the
rest of the device state and sent with every later call. Notes written while
offline are sent right after joining.`,
	Args: cobra.NoArgs,
	RunE: runJoin,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the device settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configNameCmd = &cobra.Command{
	Use:   "name <name>",
	Short: "Set the display name shown in notes and the ranking",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConfigName,
}

var configThemeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Set the theme, or toggle it without an argument",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTheme,
}

var configRateCmd = &cobra.Command{
	Use:   "rate <yen-per-euro>",
	Short: "Set the exchange rate used by the converter",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigRate,
}

var configServerCmd = &cobra.Command{
	Use:   "server <url>",
	Short: "Set the trip server URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigServer,
}

var convertCmd = &cobra.Command{
	Use:   "convert <amount>",
	Short: "Convert euros to yen, or yen to euros with --to-euro",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var hashPasscodeCmd = &cobra.Command{
	Use:   "hash-passcode <passcode>",
	Short: "Print the TRIP_PASSCODE_HASH value for a passcode",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashPasscode,
}

func init() {
	joinCmd.Flags().StringVar(&joinName, "name", "", "Display name (default: the stored one)")
	joinCmd.Flags().StringVar(&joinPasscode, "passcode", "", "Trip passcode, when the server requires one")
	joinCmd.Flags().StringVar(&joinTrip, "trip", "", "Trip ID (default: the content's trip)")

	convertCmd.Flags().BoolVar(&convertToEuro, "to-euro", false, "Convert yen to euros")

	configCmd.AddCommand(configNameCmd)
	configCmd.AddCommand(configThemeCmd)
	configCmd.AddCommand(configRateCmd)
	configCmd.AddCommand(configServerCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	ctx, cancel := callContext(cmd)
	defer cancel()

	tripID := joinTrip
	if tripID == "" {
		tripID = content.Trip.ID
	}
	name := strings.TrimSpace(joinName)
	if name == "" {
		name = app.Name()
	}

	r := newRemote()
	resp, err := r.device.JoinTrip(ctx, connect.NewRequest(&api.JoinTripRequest{
		TripID:   tripID,
		DeviceID: app.DeviceID(),
		Name:     name,
		Passcode: joinPasscode,
	}))
	if err != nil {
		return fmt.Errorf("failed to join trip: %w", err)
	}
	app.SetToken(resp.Msg.Token)
	app.SetName(resp.Msg.Device.Name)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Joined %s as %s\n", tripID, resp.Msg.Device.Name)

	sent, err := app.Outbox().FlushAll(ctx, r.notes)
	if sent > 0 {
		fmt.Fprintf(out, "Sent %d queued notes\n", sent)
	}
	if err != nil {
		slog.Warn("Some queued notes are still pending", "error", err)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	token := "no"
	if app.Token() != "" {
		token = "yes"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "device:  %s\nname:    %s\ntheme:   %s\nrate:    %v\nserver:  %s\njoined:  %s\n",
		app.DeviceID(), app.Name(), app.Theme(), app.Rate(), app.ServerURL(), token)
	return nil
}

func runConfigName(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len([]rune(name)) > auth.MaxNameLength {
		return fmt.Errorf("name must be at most %d characters", auth.MaxNameLength)
	}
	app.SetName(name)
	fmt.Fprintf(cmd.OutOrStdout(), "Name set to %s\n", app.Name())

	if app.Token() == "" {
		return nil
	}
	ctx, cancel := callContext(cmd)
	defer cancel()
	if _, err := newRemote().game.SetName(ctx, connect.NewRequest(&api.SetNameRequest{Name: name})); err != nil {
		slog.Warn("Ranking name not updated", "error", err)
	}
	return nil
}

func runConfigTheme(cmd *cobra.Command, args []string) error {
	var theme device.Theme
	if len(args) == 0 {
		theme = app.ToggleTheme()
	} else {
		theme = device.Theme(args[0])
		if err := app.SetTheme(theme); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", theme)
	return nil
}

func runConfigRate(cmd *cobra.Command, args []string) error {
	rate, err := calculator.ParseAmount(args[0])
	if err != nil {
		return err
	}
	if err := app.SetRate(rate); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rate: %v ¥/€\n", app.Rate())
	return nil
}

func runConfigServer(cmd *cobra.Command, args []string) error {
	if err := app.SetServerURL(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Server: %s\n", app.ServerURL())
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	amount, err := calculator.ParseAmount(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if convertToEuro {
		eur, err := app.ToEuro(amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%v ¥ ≈ %s\n", amount, calculator.FormatEUR(eur))
		return nil
	}
	jpy, err := app.ToYen(amount)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, calculator.FormatConversion(amount, jpy, app.Rate()))
	return nil
}

func runHashPasscode(cmd *cobra.Command, args []string) error {
	hash, err := auth.HashPasscode(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
