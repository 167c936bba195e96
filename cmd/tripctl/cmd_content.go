package main

import (
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/device"
	"github.com/mmynk/tripjapan/internal/models"
	"github.com/mmynk/tripjapan/pkg/api"
)

var (
	placeFilter catalog.PlaceFilter
	photoFilter catalog.PhotoIdeaFilter
	dishFilter  catalog.DishFilter
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "List the sights, favorites first",
	Args:  cobra.NoArgs,
	RunE:  runPlaces,
}

var placesFavCmd = &cobra.Command{
	Use:   "fav <place-id>",
	Short: "Toggle a sight as favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlacesFav,
}

var placesShareCmd = &cobra.Command{
	Use:   "share <place-id>",
	Short: "Print a sight as shareable text",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlacesShare,
}

var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "List the photo ideas, favorites first",
	Args:  cobra.NoArgs,
	RunE:  runPhotos,
}

var photosFavCmd = &cobra.Command{
	Use:   "fav <idea-id>",
	Short: "Toggle a photo idea as favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhotosMark(device.SetPhotoFavorites, "favorite"),
}

var photosDoneCmd = &cobra.Command{
	Use:   "done <idea-id>",
	Short: "Toggle a photo idea as taken",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhotosMark(device.SetPhotoDone, "done"),
}

var photosShareCmd = &cobra.Command{
	Use:   "share <idea-id>",
	Short: "Print a photo idea as shareable text",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhotosShare,
}

var mustEatCmd = &cobra.Command{
	Use:   "musteat",
	Short: "List the must-eat dishes and the ones you tried",
	Args:  cobra.NoArgs,
	RunE:  runMustEat,
}

var mustEatTriedCmd = &cobra.Command{
	Use:   "tried <dish-id>",
	Short: "Toggle a dish as tried, for a ranking point",
	Args:  cobra.ExactArgs(1),
	RunE:  runMustEatTried,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the practical info: flights, emergency numbers, phrases, apps and facts",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	placesCmd.Flags().StringVarP(&placeFilter.Query, "query", "q", "", "Search text")
	placesCmd.Flags().StringVar(&placeFilter.City, "city", "", "City")
	placesCmd.Flags().BoolVar(&placeFilter.GF, "gf", false, "Only places with gluten-free food nearby")
	placesCmd.Flags().BoolVar(&placeFilter.LF, "lf", false, "Only places with lactose-free food nearby")
	placesCmd.AddCommand(placesFavCmd)
	placesCmd.AddCommand(placesShareCmd)

	photosCmd.Flags().StringVarP(&photoFilter.Query, "query", "q", "", "Search text")
	photosCmd.Flags().StringVar(&photoFilter.City, "city", "", "City")
	photosCmd.Flags().StringVar(&photoFilter.Who, "who", "", "Who is in the photo")
	photosCmd.Flags().StringVar(&photoFilter.Vibe, "vibe", "", "Vibe")
	photosCmd.Flags().StringVar(&photoFilter.Time, "time", "", "Time of day")
	photosCmd.AddCommand(photosFavCmd)
	photosCmd.AddCommand(photosDoneCmd)
	photosCmd.AddCommand(photosShareCmd)

	mustEatCmd.Flags().StringVar(&dishFilter.City, "city", "", "City")
	mustEatCmd.Flags().BoolVar(&dishFilter.GF, "gf", false, "Only gluten-free dishes")
	mustEatCmd.Flags().BoolVar(&dishFilter.LF, "lf", false, "Only lactose-free dishes")
	mustEatCmd.AddCommand(mustEatTriedCmd)
}

func star(on bool) string {
	if on {
		return "★"
	}
	return " "
}

func runPlaces(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	favs := app.Set(device.SetPlaceFavorites).All()
	for _, r := range catalog.FilterPlaces(content.Places, placeFilter, favs) {
		p := r.Place
		fmt.Fprintf(out, "%s %-26s %s %s (%s) %.1f\n", star(r.Favorite), p.ID, p.Emoji, p.Name, p.City, p.Rating)
		for _, f := range r.Foods {
			fmt.Fprintf(out, "      🍴 %s\n", f.Name)
		}
	}
	return nil
}

func runPlacesFav(cmd *cobra.Command, args []string) error {
	p, ok := content.Place(args[0])
	if !ok {
		return fmt.Errorf("unknown place %s", args[0])
	}
	on := app.Set(device.SetPlaceFavorites).Toggle(p.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", star(on), p.Name)
	return nil
}

func runPlacesShare(cmd *cobra.Command, args []string) error {
	p, ok := content.Place(args[0])
	if !ok {
		return fmt.Errorf("unknown place %s", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), catalog.PlaceShareText(p, p.Foods))
	return nil
}

func findPhotoIdea(id string) (models.PhotoIdea, error) {
	for _, p := range content.PhotoIdeas {
		if p.ID == id {
			return p, nil
		}
	}
	return models.PhotoIdea{}, fmt.Errorf("unknown photo idea %s", id)
}

func runPhotos(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	favs := app.Set(device.SetPhotoFavorites).All()
	done := app.Set(device.SetPhotoDone).All()
	for _, r := range catalog.FilterPhotoIdeas(content.PhotoIdeas, photoFilter, favs, done) {
		taken := " "
		if r.Done {
			taken = "📸"
		}
		fmt.Fprintf(out, "%s%s %-24s %s: %s\n", star(r.Favorite), taken, r.Idea.ID, r.Idea.Place, r.Idea.Idea)
	}
	return nil
}

func runPhotosMark(set, label string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		p, err := findPhotoIdea(args[0])
		if err != nil {
			return err
		}
		state := "not " + label
		if app.Set(set).Toggle(p.ID) {
			state = label
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", p.Place, state)
		return nil
	}
}

func runPhotosShare(cmd *cobra.Command, args []string) error {
	p, err := findPhotoIdea(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), catalog.PhotoIdeaShareText(p))
	return nil
}

func runMustEat(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	tried := app.Toggler(nil).Checks(api.ItemDish)
	for _, d := range catalog.FilterDishes(content.Dishes, dishFilter) {
		mark := "[ ]"
		if tried.Has(d.ID) {
			mark = "[x]"
		}
		var diet []string
		if d.GF {
			diet = append(diet, "GF")
		}
		if d.LF {
			diet = append(diet, "LF")
		}
		fmt.Fprintf(out, "%s %-18s %s %s (%s) %s\n", mark, d.ID, d.Emoji, d.Dish, d.City, strings.Join(diet, " "))
	}
	return nil
}

func runMustEatTried(cmd *cobra.Command, args []string) error {
	d, ok := content.Dish(args[0])
	if !ok {
		return fmt.Errorf("unknown dish %s", args[0])
	}
	return toggleCheck(cmd, api.ItemDish, d.ID, d.Dish)
}

// toggleCheck flips a check mark through the server. The local marks are
// synced first so the flip starts from the server's state, and the local
// mark is restored when the server refuses.
func toggleCheck(cmd *cobra.Command, itemType, itemID, label string) error {
	ctx, cancel := callContext(cmd)
	defer cancel()

	r := newRemote()
	t := app.Toggler(r.game)
	if checks, err := r.game.ListChecks(ctx, connect.NewRequest(&api.ListChecksRequest{ItemType: itemType})); err != nil {
		slog.Warn("Checks not synced", "item_type", itemType, "error", err)
	} else {
		t.Reconcile(itemType, checks.Msg.ItemIDs)
	}

	res, err := t.Toggle(ctx, itemType, itemID)
	if err != nil {
		return fmt.Errorf("%s not updated: %w", label, err)
	}
	state := "unchecked"
	if res.Checked {
		state = "checked"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s, %d points\n", label, state, res.Points)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Cambio: %v ¥/€ (tu tasa: %v)\n\n", content.Currency.DefaultRate, app.Rate())

	if flights := catalog.FlightsText(content.Flights); flights != "" {
		fmt.Fprintf(out, "%s\n\n", flights)
	}

	fmt.Fprintln(out, "Emergencias")
	for _, n := range content.Emergency {
		fmt.Fprintf(out, "  %s  %s\n", catalog.EmergencyText(n), catalog.TelURI(n.Number))
	}

	fmt.Fprintln(out, "\nFrases")
	for _, c := range content.Phrases {
		fmt.Fprintf(out, "  %s\n", c.Category)
		for _, p := range c.Items {
			fmt.Fprintf(out, "    %s\n", catalog.PhraseText(p))
		}
	}

	fmt.Fprintln(out, "\nApps")
	for _, a := range content.Apps {
		fmt.Fprintf(out, "  %s: %s %s\n", a.Category, a.Name, a.Link)
	}

	fmt.Fprintf(out, "\n%s\n", catalog.FactsText(content.Facts))
	return nil
}
