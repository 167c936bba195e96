package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Expense represents the minimal information needed for expense totals.
type Expense struct {
	Amount float64
	Split  int
}

// Totals holds the aggregate of an expense ledger.
type Totals struct {
	Total     float64 // Sum of all amounts
	PerPerson float64 // Sum of each amount divided by its own split
}

// ClampSplit returns split, or 1 when split is not positive.
func ClampSplit(split int) int {
	if split < 1 {
		return 1
	}
	return split
}

// Share returns what one person pays of amount split between split people.
func Share(amount float64, split int) float64 {
	return decimal.NewFromFloat(amount).
		Div(decimal.NewFromInt(int64(ClampSplit(split)))).
		InexactFloat64()
}

// CalculateTotals sums an expense ledger.
// total = Σ amount, per_person = Σ amount / split
func CalculateTotals(expenses []Expense) Totals {
	total := decimal.Zero
	perPerson := decimal.Zero
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		perPerson = perPerson.Add(amount.Div(decimal.NewFromInt(int64(ClampSplit(e.Split)))))
	}
	return Totals{
		Total:     total.InexactFloat64(),
		PerPerson: perPerson.InexactFloat64(),
	}
}

// QuickCalc computes an accommodation-style cost: price per person and night.
// The total is rounded to cents.
func QuickCalc(pricePerPerson float64, nights, people int) (total, perPerson float64) {
	if pricePerPerson < 0 || nights < 0 || people < 0 {
		return 0, 0
	}
	pp := decimal.NewFromFloat(pricePerPerson).Mul(decimal.NewFromInt(int64(nights)))
	t := pp.Mul(decimal.NewFromInt(int64(people))).Round(2)
	return t.InexactFloat64(), pp.InexactFloat64()
}

// QuickCalcConcept labels an expense created by QuickCalc.
func QuickCalcConcept(concept string, nights int) string {
	return fmt.Sprintf("%s (%d noche/s)", concept, nights)
}

// SplitEqual divides amount equally between participants, in cents.
// Leftover cents go to the first participants so that the shares add up
// to the rounded amount.
func SplitEqual(amount float64, participants []string) (map[string]float64, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	weights := make(map[string]float64, len(participants))
	order := make([]string, 0, len(participants))
	for _, p := range participants {
		if _, dup := weights[p]; dup {
			continue
		}
		weights[p] = 1
		order = append(order, p)
	}
	return splitByWeight(decimal.NewFromFloat(amount), order, weights)
}

// SplitWeighted divides amount proportionally to each participant's weight.
// Weights must be non-negative and at least one must be positive.
func SplitWeighted(amount float64, participants []string, weights map[string]float64) (map[string]float64, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	for _, p := range participants {
		if weights[p] < 0 {
			return nil, fmt.Errorf("weight for %q cannot be negative", p)
		}
	}
	return splitByWeight(decimal.NewFromFloat(amount), participants, weights)
}

func splitByWeight(amount decimal.Decimal, participants []string, weights map[string]float64) (map[string]float64, error) {
	sum := decimal.Zero
	for _, p := range participants {
		sum = sum.Add(decimal.NewFromFloat(weights[p]))
	}
	if !sum.IsPositive() {
		return nil, fmt.Errorf("weights must add up to more than zero")
	}

	amount = amount.Round(2)
	cent := decimal.New(1, -2)
	if amount.IsNegative() {
		cent = cent.Neg()
	}

	shares := make(map[string]decimal.Decimal, len(participants))
	assigned := decimal.Zero
	for _, p := range participants {
		share := amount.Mul(decimal.NewFromFloat(weights[p])).Div(sum).Truncate(2)
		shares[p] = share
		assigned = assigned.Add(share)
	}

	// Hand out the truncated cents, first participants first
	remainder := amount.Sub(assigned)
	for i := 0; !remainder.IsZero() && i < len(participants); i++ {
		p := participants[i]
		if weights[p] <= 0 {
			continue
		}
		shares[p] = shares[p].Add(cent)
		remainder = remainder.Sub(cent)
	}

	result := make(map[string]float64, len(shares))
	for p, s := range shares {
		result[p] = s.InexactFloat64()
	}
	return result, nil
}
