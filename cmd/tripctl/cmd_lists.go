package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripjapan/internal/calculator"
	"github.com/mmynk/tripjapan/internal/device"
	"github.com/mmynk/tripjapan/internal/models"
)

var (
	checklistFor string

	expenseSplit   int
	expensePayer   string
	expenseWeights map[string]string
	expenseWith    []string

	galleryFile string
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Show a traveller's packing checklist",
	Long: `Each traveller has their own packing checklist on this device. It belongs
to the stored display name unless --for names someone else.`,
	Args: cobra.NoArgs,
	RunE: runChecklist,
}

var checklistAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add an item at the top of the checklist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChecklistAdd,
}

var checklistToggleCmd = &cobra.Command{
	Use:   "toggle <item-id>",
	Short: "Toggle an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runChecklistToggle,
}

var checklistAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Mark every item as packed",
	Args:  cobra.NoArgs,
	RunE:  runChecklistAll,
}

var checklistResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default checklist",
	Args:  cobra.NoArgs,
	RunE:  runChecklistReset,
}

var checklistShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the checklist as shareable text",
	Args:  cobra.NoArgs,
	RunE:  runChecklistShare,
}

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Aliases: []string{"gastos"},
	Short:   "Show the shared expenses recorded on this device",
	Args:    cobra.NoArgs,
	RunE:    runExpenses,
}

var expensesAddCmd = &cobra.Command{
	Use:   "add <concept> <amount>",
	Short: "Record an expense",
	Long: `Record an expense. The amount accepts a comma as decimal separator. The
split defaults to the whole group. --payer, --with and --weight feed the
balances; an expense shared by part of the group needs --with or --weight.`,
	Args: cobra.ExactArgs(2),
	RunE: runExpensesAdd,
}

var expensesQuickCmd = &cobra.Command{
	Use:   "quick <concept> <price-per-person> <nights> <people>",
	Short: "Record a per-person-per-night cost",
	Args:  cobra.ExactArgs(4),
	RunE:  runExpensesQuick,
}

var expensesRmCmd = &cobra.Command{
	Use:   "rm <expense-id>",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpensesRm,
}

var expensesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every expense",
	Args:  cobra.NoArgs,
	RunE:  runExpensesClear,
}

var expensesBalancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show who owes whom for the expenses with a payer",
	Args:  cobra.NoArgs,
	RunE:  runExpensesBalances,
}

var expensesShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the expenses as shareable text",
	Args:  cobra.NoArgs,
	RunE:  runExpensesShare,
}

var galleryCmd = &cobra.Command{
	Use:   "gallery [place-id]",
	Short: "List the places with photos, or the photos of one place",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGallery,
}

var galleryAddCmd = &cobra.Command{
	Use:   "add <place-id> [photo]",
	Short: "Add a photo link, data URL or image file to a place",
	Long: `Add a photo to a place. --file reads a JPEG, PNG, GIF or WebP image and
stores it as a compressed JPEG data URL, at most 1600 pixels on its longest
side.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGalleryAdd,
}

var galleryRmCmd = &cobra.Command{
	Use:   "rm <place-id> <index>",
	Short: "Remove a photo by its index",
	Args:  cobra.ExactArgs(2),
	RunE:  runGalleryRm,
}

var galleryAlbumCmd = &cobra.Command{
	Use:   "album <place-id> [link]",
	Short: "Set the shared album of a place, or clear it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runGalleryAlbum,
}

func init() {
	checklistCmd.PersistentFlags().StringVar(&checklistFor, "for", "", "Traveller owning the checklist (default: your name)")
	checklistCmd.AddCommand(checklistAddCmd)
	checklistCmd.AddCommand(checklistToggleCmd)
	checklistCmd.AddCommand(checklistAllCmd)
	checklistCmd.AddCommand(checklistResetCmd)
	checklistCmd.AddCommand(checklistShareCmd)

	expensesAddCmd.Flags().IntVar(&expenseSplit, "split", 0, "People sharing the expense (default: the whole group)")
	expensesAddCmd.Flags().StringVar(&expensePayer, "payer", "", "Traveller who paid")
	expensesAddCmd.Flags().StringToStringVar(&expenseWeights, "weight", nil, "Share per traveller, e.g. --weight Moi=2,Jani=1")
	expensesAddCmd.Flags().StringSliceVar(&expenseWith, "with", nil, "Travellers sharing the expense, e.g. --with Moi,Jani")
	expensesCmd.AddCommand(expensesAddCmd)
	expensesCmd.AddCommand(expensesQuickCmd)
	expensesCmd.AddCommand(expensesRmCmd)
	expensesCmd.AddCommand(expensesClearCmd)
	expensesCmd.AddCommand(expensesBalancesCmd)
	expensesCmd.AddCommand(expensesShareCmd)

	galleryAddCmd.Flags().StringVar(&galleryFile, "file", "", "Image file to compress and add")
	galleryCmd.AddCommand(galleryAddCmd)
	galleryCmd.AddCommand(galleryRmCmd)
	galleryCmd.AddCommand(galleryAlbumCmd)
}

func checklist() *device.Checklist {
	owner := strings.TrimSpace(checklistFor)
	if owner == "" {
		owner = app.Name()
	}
	return app.Checklist(owner)
}

func printChecklist(cmd *cobra.Command, c *device.Checklist) {
	out := cmd.OutOrStdout()
	done, total, percent := c.Progress()
	fmt.Fprintf(out, "Checklist de %s: %d/%d (%d%%)\n", c.Owner(), done, total, percent)
	for _, it := range c.Items() {
		mark := "[ ]"
		if it.Done {
			mark = "[x]"
		}
		fmt.Fprintf(out, "  %s %-16s %s\n", mark, it.ID, it.Label)
	}
}

func runChecklist(cmd *cobra.Command, args []string) error {
	printChecklist(cmd, checklist())
	return nil
}

func runChecklistAdd(cmd *cobra.Command, args []string) error {
	c := checklist()
	item, err := c.Add(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", item.Label, item.ID)
	return nil
}

func runChecklistToggle(cmd *cobra.Command, args []string) error {
	c := checklist()
	if _, err := c.Toggle(args[0]); err != nil {
		return err
	}
	printChecklist(cmd, c)
	return nil
}

func runChecklistAll(cmd *cobra.Command, args []string) error {
	c := checklist()
	c.MarkAll()
	printChecklist(cmd, c)
	return nil
}

func runChecklistReset(cmd *cobra.Command, args []string) error {
	c := checklist()
	c.Reset()
	printChecklist(cmd, c)
	return nil
}

func runChecklistShare(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), checklist().Summary())
	return nil
}

func runExpenses(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	l := app.Ledger()
	for _, e := range l.Expenses() {
		payer := ""
		if e.Payer != "" {
			payer = " pagó " + e.Payer
		}
		fmt.Fprintf(out, "%s  %-28s %14s ÷%d%s\n", shortID(e.ID), e.Concept, calculator.FormatEUR(e.Amount), e.Split, payer)
	}
	t := l.Totals()
	fmt.Fprintf(out, "Total: %s  Por persona: %s\n", calculator.FormatEUR(t.Total), calculator.FormatEUR(t.PerPerson))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func parseWeights(raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	weights := make(map[string]float64, len(raw))
	for name, v := range raw {
		if !content.IsTraveller(name) {
			return nil, fmt.Errorf("%w: %s", device.ErrUnknownPayer, name)
		}
		w, err := calculator.ParseAmount(v)
		if err != nil {
			return nil, fmt.Errorf("invalid weight for %s: %w", name, err)
		}
		weights[name] = w
	}
	return weights, nil
}

func runExpensesAdd(cmd *cobra.Command, args []string) error {
	amount, err := calculator.ParseAmount(args[1])
	if err != nil {
		return err
	}
	if expensePayer != "" && !content.IsTraveller(expensePayer) {
		return fmt.Errorf("%w: %s", device.ErrUnknownPayer, expensePayer)
	}
	weights, err := parseWeights(expenseWeights)
	if err != nil {
		return err
	}
	for _, name := range expenseWith {
		if !content.IsTraveller(name) {
			return fmt.Errorf("%w: %s", device.ErrUnknownParticipant, name)
		}
	}
	e, err := app.Ledger().Add(models.Expense{
		Concept:      args[0],
		Amount:       amount,
		Split:        expenseSplit,
		Payer:        expensePayer,
		Participants: expenseWith,
		Weights:      weights,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s ÷%d\n", e.Concept, calculator.FormatEUR(e.Amount), e.Split)
	return nil
}

func runExpensesQuick(cmd *cobra.Command, args []string) error {
	price, err := calculator.ParseAmount(args[1])
	if err != nil {
		return err
	}
	nights, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid nights %q", args[2])
	}
	people, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("invalid people %q", args[3])
	}
	e, err := app.Ledger().AddQuick(args[0], price, nights, people)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s ÷%d\n", e.Concept, calculator.FormatEUR(e.Amount), e.Split)
	return nil
}

func runExpensesRm(cmd *cobra.Command, args []string) error {
	l := app.Ledger()
	for _, e := range l.Expenses() {
		if e.ID == args[0] || strings.HasPrefix(e.ID, args[0]) {
			l.Delete(e.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", e.Concept)
			return nil
		}
	}
	return fmt.Errorf("no expense %s", args[0])
}

func runExpensesClear(cmd *cobra.Command, args []string) error {
	app.Ledger().Clear()
	fmt.Fprintln(cmd.OutOrStdout(), "Expenses cleared")
	return nil
}

func runExpensesBalances(cmd *cobra.Command, args []string) error {
	balances, debts, err := app.Ledger().Balances(content.Travellers)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, b := range balances {
		if b.TotalPaid == 0 && b.TotalOwed == 0 {
			continue
		}
		fmt.Fprintf(out, "%-10s pagó %14s debe %14s neto %14s\n", b.MemberName,
			calculator.FormatEUR(b.TotalPaid), calculator.FormatEUR(b.TotalOwed), calculator.FormatEUR(b.NetBalance))
	}
	if len(debts) == 0 {
		fmt.Fprintln(out, "Nadie debe nada")
		return nil
	}
	for _, d := range debts {
		fmt.Fprintf(out, "%s → %s: %s\n", d.From, d.To, calculator.FormatEUR(d.Amount))
	}
	return nil
}

func runExpensesShare(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), app.Ledger().Summary())
	return nil
}

func runGallery(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	g := app.Gallery()
	if len(args) == 0 {
		for _, id := range g.Places() {
			pg := g.Get(id)
			fmt.Fprintf(out, "%-28s %d/%d photos %s\n", id, len(pg.Photos), device.MaxPhotos, pg.Album)
		}
		return nil
	}
	pg := g.Get(args[0])
	if pg.Album != "" {
		fmt.Fprintf(out, "Album: %s\n", pg.Album)
	}
	for i, p := range pg.Photos {
		fmt.Fprintf(out, "%d  %s\n", i, p)
	}
	return nil
}

func runGalleryAdd(cmd *cobra.Command, args []string) error {
	switch {
	case galleryFile != "" && len(args) == 2:
		return fmt.Errorf("give either a photo or --file, not both")
	case galleryFile != "":
		f, err := os.Open(galleryFile)
		if err != nil {
			return fmt.Errorf("failed to open photo: %w", err)
		}
		defer f.Close()
		if err := app.Gallery().AddImage(args[0], f); err != nil {
			return err
		}
	case len(args) == 2:
		if err := app.Gallery().Add(args[0], args[1]); err != nil {
			return err
		}
	default:
		return device.ErrEmptyPhoto
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d photos\n", args[0], len(app.Gallery().Get(args[0]).Photos))
	return nil
}

func runGalleryRm(cmd *cobra.Command, args []string) error {
	idx, err := strconv.Atoi(args[1])
	if err != nil {
		return device.ErrBadIndex
	}
	if err := app.Gallery().Remove(args[0], idx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d photos\n", args[0], len(app.Gallery().Get(args[0]).Photos))
	return nil
}

func runGalleryAlbum(cmd *cobra.Command, args []string) error {
	link := ""
	if len(args) == 2 {
		link = args[1]
	}
	app.Gallery().SetAlbum(args[0], link)
	return nil
}
