package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripjapan/internal/calculator"
	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/models"
)

var dayReset bool

var itineraryCmd = &cobra.Command{
	Use:   "itinerary [date]",
	Short: "Show the itinerary, or one day of it",
	Long: `Show the trip days with the activities marked as done on this device.
Activity IDs look like 2025-10-22-3 and are what 'itinerary done' takes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runItinerary,
}

var itineraryDoneCmd = &cobra.Command{
	Use:   "done <activity-id>",
	Short: "Toggle an activity as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runItineraryDone,
}

var itineraryDayCmd = &cobra.Command{
	Use:   "day <date>",
	Short: "Mark every activity of a day as done, or pending with --reset",
	Args:  cobra.ExactArgs(1),
	RunE:  runItineraryDay,
}

var itineraryMapCmd = &cobra.Command{
	Use:   "map [date]",
	Short: "Print the Google Maps route of a day, or the trip map",
	Long: `Print the Google Maps route of a day. Without a date the group's My Maps
link is printed with its embeddable form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runItineraryMap,
}

func init() {
	itineraryDayCmd.Flags().BoolVar(&dayReset, "reset", false, "Mark the activities as pending instead")

	itineraryCmd.AddCommand(itineraryDoneCmd)
	itineraryCmd.AddCommand(itineraryDayCmd)
	itineraryCmd.AddCommand(itineraryMapCmd)
}

func findDay(date string) (models.Day, error) {
	day, ok := content.Day(date)
	if !ok {
		return models.Day{}, fmt.Errorf("no itinerary day on %s", date)
	}
	return day, nil
}

func runItinerary(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	days := content.Days
	if len(args) == 1 {
		day, err := findDay(args[0])
		if err != nil {
			return err
		}
		days = []models.Day{day}
	} else {
		p := calculator.CalculateTripProgress(content.StartDate(), content.EndDate(), time.Now())
		fmt.Fprintf(out, "%s: %s, %d%% (%d/%d days)\n\n", content.Trip.Title, p.Status, p.Percent, p.Elapsed, p.Days)
	}

	it := app.Itinerary()
	for _, day := range days {
		done, total, percent := it.DayProgress(day)
		fmt.Fprintf(out, "%s %s %s [%d/%d %d%%]\n", day.Date, day.Emoji, day.Title, done, total, percent)
		for i, a := range day.Activities {
			id := catalog.ActivityID(day.Date, i)
			mark := "[ ]"
			if it.IsDone(id) {
				mark = "[x]"
			}
			fmt.Fprintf(out, "  %s %-14s %s %s\n", mark, id, a.Time, a.Text)
		}
	}
	return nil
}

func runItineraryDone(cmd *cobra.Command, args []string) error {
	if app.Itinerary().Toggle(args[0]) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s done\n", args[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s pending\n", args[0])
	}
	return nil
}

func runItineraryDay(cmd *cobra.Command, args []string) error {
	day, err := findDay(args[0])
	if err != nil {
		return err
	}
	it := app.Itinerary()
	it.MarkDay(day, !dayReset)
	done, total, percent := it.DayProgress(day)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d (%d%%)\n", day.Date, done, total, percent)
	return nil
}

func runItineraryMap(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if content.Trip.Map == "" {
			return fmt.Errorf("no trip map configured")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\nembed: %s\n", content.Trip.Map, catalog.EmbedMapURL(content.Trip.Map))
		return nil
	}
	day, err := findDay(args[0])
	if err != nil {
		return err
	}
	m := catalog.DayMapURL(day, catalog.FallbackLinks(day, content.Places))
	if m.URL == "" {
		return fmt.Errorf("no map points for %s", day.Date)
	}
	fmt.Fprintln(cmd.OutOrStdout(), m.URL)
	return nil
}
