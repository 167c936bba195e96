package device

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mmynk/tripjapan/internal/calculator"
	"github.com/mmynk/tripjapan/internal/catalog"
	"github.com/mmynk/tripjapan/internal/models"
)

var (
	ErrEmptyConcept       = errors.New("concept is required")
	ErrZeroAmount         = errors.New("amount must not be zero")
	ErrBadSplit           = errors.New("split must be at least 1")
	ErrUnknownPayer       = errors.New("payer is not a traveller")
	ErrUnknownParticipant = errors.New("participant is not a traveller")

	// ErrSplitWithoutParticipants is returned by Balances for an expense
	// shared by fewer people than the group that does not say who they are.
	ErrSplitWithoutParticipants = errors.New("split does not match the group and no participants are named")
)

const keyExpenses = "expenses"

var expensesSchema = schema[[]models.Expense]{version: 1, def: func() []models.Expense { return nil }}

// Ledger is the shared-expense list kept on the device.
type Ledger struct {
	app *App
}

// Expenses returns the ledger, newest first.
func (l *Ledger) Expenses() []models.Expense {
	l.app.mu.Lock()
	defer l.app.mu.Unlock()
	return load(l.app.kv, keyExpenses, expensesSchema)
}

// Add validates e, gives it an ID and prepends it. A zero split means the
// whole group. Named participants or weights set the split to their count.
func (l *Ledger) Add(e models.Expense) (models.Expense, error) {
	e.Concept = strings.TrimSpace(e.Concept)
	e.Participants = participantNames(e.Participants)
	switch {
	case len(e.Participants) > 0:
		e.Split = len(e.Participants)
	case e.Split == 0 && len(e.Weights) > 0:
		e.Split = len(e.Weights)
	case e.Split == 0:
		e.Split = models.DefaultExpenseSplit
	}
	switch {
	case e.Concept == "":
		return models.Expense{}, ErrEmptyConcept
	case e.Amount == 0:
		return models.Expense{}, ErrZeroAmount
	case e.Split < 1:
		return models.Expense{}, ErrBadSplit
	}
	e.ID = l.app.newID()

	l.app.mu.Lock()
	defer l.app.mu.Unlock()
	update(l.app.kv, keyExpenses, expensesSchema, func(xs []models.Expense) []models.Expense {
		return append([]models.Expense{e}, xs...)
	})
	return e, nil
}

func participantNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// AddQuick records a per-person-per-night cost for people travellers.
func (l *Ledger) AddQuick(concept string, pricePerPerson float64, nights, people int) (models.Expense, error) {
	total, _ := calculator.QuickCalc(pricePerPerson, nights, people)
	if strings.TrimSpace(concept) == "" {
		concept = "Alojamiento"
	}
	return l.Add(models.Expense{
		Concept: calculator.QuickCalcConcept(strings.TrimSpace(concept), nights),
		Amount:  total,
		Split:   people,
	})
}

// Delete removes an expense. Unknown IDs are ignored.
func (l *Ledger) Delete(id string) {
	l.app.mu.Lock()
	defer l.app.mu.Unlock()
	update(l.app.kv, keyExpenses, expensesSchema, func(xs []models.Expense) []models.Expense {
		out := xs[:0]
		for _, e := range xs {
			if e.ID != id {
				out = append(out, e)
			}
		}
		return out
	})
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.app.mu.Lock()
	defer l.app.mu.Unlock()
	save(l.app.kv, keyExpenses, expensesSchema, nil)
}

// Totals sums the ledger.
func (l *Ledger) Totals() calculator.Totals {
	xs := l.Expenses()
	in := make([]calculator.Expense, len(xs))
	for i, e := range xs {
		in[i] = calculator.Expense{Amount: e.Amount, Split: e.Split}
	}
	return calculator.CalculateTotals(in)
}

// Balances settles the expenses that have a payer between the travellers.
// An expense is charged to its participants, else to its weighted
// travellers, else to the whole group when its split covers everyone.
func (l *Ledger) Balances(travellers []string) ([]calculator.MemberBalance, []calculator.DebtEdge, error) {
	known := make(map[string]bool, len(travellers))
	for _, t := range travellers {
		known[t] = true
	}

	var in []calculator.ExpenseForBalance
	for _, e := range l.Expenses() {
		if e.Payer == "" {
			continue
		}
		if !known[e.Payer] {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownPayer, e.Payer)
		}
		eb := calculator.ExpenseForBalance{Amount: e.Amount, Payer: e.Payer, Weights: e.Weights}
		switch {
		case len(e.Participants) > 0:
			eb.Participants = append(eb.Participants, e.Participants...)
		case len(e.Weights) > 0:
			for p := range e.Weights {
				eb.Participants = append(eb.Participants, p)
			}
			sort.Strings(eb.Participants)
		case e.Split != len(travellers):
			return nil, nil, fmt.Errorf("%w: %s ÷%d", ErrSplitWithoutParticipants, e.Concept, e.Split)
		}
		for _, p := range eb.Participants {
			if !known[p] {
				return nil, nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, p)
			}
		}
		in = append(in, eb)
	}
	return calculator.CalculateBalances(in, travellers)
}

// Summary is the shareable text of the ledger.
func (l *Ledger) Summary() string {
	xs := l.Expenses()
	t := l.Totals()
	lines := []string{
		"Gastos compartidos",
		"Total: " + calculator.FormatEUR(t.Total),
		"Por persona: " + calculator.FormatEUR(t.PerPerson),
	}
	for _, e := range xs {
		lines = append(lines, fmt.Sprintf("• %s: %s (÷%d)", e.Concept, calculator.FormatEUR(e.Amount), e.Split))
	}
	return catalog.Lines(lines...)
}
