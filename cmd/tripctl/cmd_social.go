package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/device"
	"github.com/mmynk/tripjapan/internal/models"
	"github.com/mmynk/tripjapan/pkg/api"
)

var (
	gastroFilter api.ListGastroRequest
	notesLimit   int
)

var gastroCmd = &cobra.Command{
	Use:   "gastro",
	Short: "List the restaurants with the group's votes",
	Long: `List the restaurants with the group's votes and favorites, and the
surprise pick of the day among the listed ones.`,
	Args: cobra.NoArgs,
	RunE: runGastro,
}

var gastroVoteCmd = &cobra.Command{
	Use:   "vote <place-id>",
	Short: "Toggle your vote for a restaurant",
	Args:  cobra.ExactArgs(1),
	RunE:  runGastroVote,
}

var gastroFavCmd = &cobra.Command{
	Use:   "fav <place-id>",
	Short: "Toggle a restaurant as favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runGastroFav,
}

var gastroEatenCmd = &cobra.Command{
	Use:   "eaten <place-id>",
	Short: "Toggle a restaurant as visited, for a ranking point",
	Args:  cobra.ExactArgs(1),
	RunE:  runGastroEaten,
}

var notesCmd = &cobra.Command{
	Use:   "notes <block-id|date>",
	Short: "Show the notes of an itinerary day",
	Long: `Show the notes of an itinerary day. Notes queued on this device are sent
first and shown as (pending) when they could not be.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotes,
}

var notesPostCmd = &cobra.Command{
	Use:   "post <block-id|date> <text>",
	Short: "Post a note, queueing it when the server is unreachable",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runNotesPost,
}

var notesReactCmd = &cobra.Command{
	Use:   "react <block-id|date> <note-id> <emoji>",
	Short: "Toggle a reaction on a note",
	Args:  cobra.ExactArgs(3),
	RunE:  runNotesReact,
}

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Show the group ranking",
	Args:  cobra.NoArgs,
	RunE:  runRanking,
}

var watchCmd = &cobra.Command{
	Use:   "watch [topic...]",
	Short: "Print live trip events",
	Long: `Print live trip events until interrupted. Topics are relative to the trip,
for example 'scores' or 'notes/*'. Without topics every event is printed.
Queued notes are sent whenever the stream connects.`,
	RunE: runWatch,
}

func init() {
	gastroCmd.Flags().StringVar(&gastroFilter.City, "city", "", "City")
	gastroCmd.Flags().StringVar(&gastroFilter.Area, "area", "", "Area")
	gastroCmd.Flags().IntVar(&gastroFilter.Price, "price", 0, "Price level, 1 to 4")
	gastroCmd.Flags().BoolVar(&gastroFilter.NoReservation, "walk-in", false, "Only places without reservation")
	gastroCmd.Flags().StringVarP(&gastroFilter.Query, "query", "q", "", "Search text")
	gastroCmd.AddCommand(gastroVoteCmd)
	gastroCmd.AddCommand(gastroFavCmd)
	gastroCmd.AddCommand(gastroEatenCmd)

	notesCmd.Flags().IntVar(&notesLimit, "limit", 0, "Maximum notes to show")
	notesCmd.AddCommand(notesPostCmd)
	notesCmd.AddCommand(notesReactCmd)
}

func runGastro(cmd *cobra.Command, args []string) error {
	ctx, cancel := callContext(cmd)
	defer cancel()

	req := gastroFilter
	req.Date = time.Now().Format(time.DateOnly)

	r := newRemote()
	resp, err := r.gastro.ListGastro(ctx, connect.NewRequest(&req))
	if err != nil {
		return fmt.Errorf("failed to list restaurants: %w", err)
	}

	t := app.Toggler(r.game)
	if checks, err := r.game.ListChecks(ctx, connect.NewRequest(&api.ListChecksRequest{ItemType: api.ItemPlace})); err != nil {
		slog.Warn("Visited restaurants not synced", "error", err)
	} else {
		t.Reconcile(api.ItemPlace, checks.Msg.ItemIDs)
	}

	out := cmd.OutOrStdout()
	for _, rs := range resp.Msg.Restaurants {
		eaten := " "
		if t.Checked(api.ItemPlace, rs.ID) {
			eaten = "✓"
		}
		vote := ""
		if rs.MyVote {
			vote = " (tu voto)"
		}
		fmt.Fprintf(out, "%s%s %-24s %s %s, %s %s 👍%d ★%d%s\n", eaten, star(rs.MyFav), rs.ID, rs.Name,
			rs.City, rs.Area, rs.PriceLabel, rs.Votes, rs.Favs, vote)
	}
	if s := resp.Msg.Surprise; s != nil {
		fmt.Fprintf(out, "\nSorpresa del día: %s (%s)\n", s.Name, s.Area)
	}
	return nil
}

func runGastroVote(cmd *cobra.Command, args []string) error {
	ctx, cancel := callContext(cmd)
	defer cancel()
	resp, err := newRemote().gastro.ToggleVote(ctx, connect.NewRequest(&api.ToggleVoteRequest{PlaceID: args[0]}))
	if err != nil {
		return fmt.Errorf("vote not recorded: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: 👍%d\n", args[0], resp.Msg.Votes)
	return nil
}

func runGastroFav(cmd *cobra.Command, args []string) error {
	ctx, cancel := callContext(cmd)
	defer cancel()
	resp, err := newRemote().gastro.ToggleFav(ctx, connect.NewRequest(&api.ToggleFavRequest{PlaceID: args[0]}))
	if err != nil {
		return fmt.Errorf("favorite not recorded: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: ★%d\n", star(resp.Msg.On), args[0], resp.Msg.Favs)
	return nil
}

func runGastroEaten(cmd *cobra.Command, args []string) error {
	rs, ok := content.Restaurant(args[0])
	if !ok {
		return fmt.Errorf("unknown restaurant %s", args[0])
	}
	return toggleCheck(cmd, api.ItemPlace, rs.ID, rs.Name)
}

// blockID accepts a block ID or the date of an itinerary day.
func blockID(arg string) string {
	if day, ok := content.Day(arg); ok {
		return catalog.BlockID(day.Date, day.Title)
	}
	return arg
}

func runNotes(cmd *cobra.Command, args []string) error {
	ctx, cancel := callContext(cmd)
	defer cancel()

	block := blockID(args[0])
	r := newRemote()
	outbox := app.Outbox()
	if _, err := outbox.Flush(ctx, r.notes, block); err != nil {
		slog.Warn("Queued notes not sent", "block_id", block, "error", err)
	}

	var remoteNotes []*api.Note
	resp, err := r.notes.ListNotes(ctx, connect.NewRequest(&api.ListNotesRequest{BlockID: block, Limit: notesLimit}))
	if err != nil {
		if len(outbox.Pending(block)) == 0 {
			return fmt.Errorf("failed to list notes: %w", err)
		}
		slog.Warn("Showing queued notes only", "error", err)
	} else {
		remoteNotes = resp.Msg.Notes
	}

	out := cmd.OutOrStdout()
	for _, n := range device.Merge(remoteNotes, outbox.Pending(block), app.DeviceID()) {
		pending := ""
		if n.Local {
			pending = " (pending)"
		}
		at := time.UnixMilli(n.CreatedAt).Format("02/01 15:04")
		fmt.Fprintf(out, "%s %s: %s%s  [%s]\n", at, n.AuthorName, n.Content, pending, shortID(n.ID))
		for _, emoji := range models.ReactionEmojis {
			if who := n.Reactions[emoji]; len(who) > 0 {
				fmt.Fprintf(out, "    %s %d\n", emoji, len(who))
			}
		}
	}
	return nil
}

func runNotesPost(cmd *cobra.Command, args []string) error {
	ctx, cancel := callContext(cmd)
	defer cancel()

	block := blockID(args[0])
	note, err := app.Outbox().Post(ctx, newRemote().notes, block, strings.Join(args[1:], " "), app.Name())
	if err != nil {
		return fmt.Errorf("note not posted: %w", err)
	}
	if note.Local {
		fmt.Fprintln(cmd.OutOrStdout(), "Server unreachable, note queued")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Posted %s\n", shortID(note.ID))
	return nil
}

func runNotesReact(cmd *cobra.Command, args []string) error {
	ctx, cancel := callContext(cmd)
	defer cancel()

	block := blockID(args[0])
	r := newRemote()
	noteID := args[1]
	// Short IDs as printed by 'notes' are expanded against the block.
	if len(noteID) < 36 {
		if resp, err := r.notes.ListNotes(ctx, connect.NewRequest(&api.ListNotesRequest{BlockID: block})); err == nil {
			for _, n := range resp.Msg.Notes {
				if strings.HasPrefix(n.ID, noteID) {
					noteID = n.ID
					break
				}
			}
		}
	}
	resp, err := r.notes.ToggleReaction(ctx, connect.NewRequest(&api.ToggleReactionRequest{
		BlockID: block,
		NoteID:  noteID,
		Emoji:   args[2],
	}))
	if err != nil {
		return fmt.Errorf("reaction not recorded: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", args[2], len(resp.Msg.Note.Reactions[args[2]]))
	return nil
}

func runRanking(cmd *cobra.Command, args []string) error {
	ctx, cancel := callContext(cmd)
	defer cancel()

	resp, err := newRemote().game.GetRanking(ctx, connect.NewRequest(&api.GetRankingRequest{}))
	if err != nil {
		return fmt.Errorf("failed to get ranking: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, e := range resp.Msg.Entries {
		medal := e.Medal
		if medal == "" {
			medal = fmt.Sprintf("%2d.", e.Position)
		}
		me := ""
		if resp.Msg.Me != nil && resp.Msg.Me.DeviceID == e.DeviceID {
			me = " ← tú"
		}
		fmt.Fprintf(out, "%s %-20s %3d %s %s%s\n", medal, e.Name, e.Points, e.TierEmoji, e.Tier, me)
	}
	if resp.Msg.ToNext > 0 {
		fmt.Fprintf(out, "\nTe faltan %d puntos para %d\n", resp.Msg.ToNext, resp.Msg.NextTarget)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r := newRemote()
	stream, err := r.sync.Watch(ctx, connect.NewRequest(&api.WatchRequest{Topics: args}))
	if err != nil {
		return fmt.Errorf("failed to watch: %w", err)
	}
	defer stream.Close()

	out := cmd.OutOrStdout()
	for stream.Receive() {
		msg := stream.Msg()
		if msg.Topic == api.ReadyTopic {
			fmt.Fprintln(out, "Watching trip events")
			if sent, err := app.Outbox().FlushAll(ctx, r.notes); err != nil {
				slog.Warn("Queued notes not sent", "error", err)
			} else if sent > 0 {
				fmt.Fprintf(out, "Sent %d queued notes\n", sent)
			}
			continue
		}
		who := msg.DeviceID
		if who == app.DeviceID() {
			who = "tú"
		}
		fmt.Fprintf(out, "%s %-28s %s\n", time.UnixMilli(msg.At).Format(time.TimeOnly), msg.Topic, who)
	}
	if err := stream.Err(); err != nil && !errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("watch ended: %w", err)
	}
	return nil
}
