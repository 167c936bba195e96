package calculator

import (
	"fmt"
	"sort"
)

// ExpenseForBalance represents an expense with the information needed for
// balance calculations.
type ExpenseForBalance struct {
	Amount float64
	Payer  string

	// Participants share the expense. Empty means the whole group.
	Participants []string

	// Weights splits the expense proportionally when set.
	Weights map[string]float64
}

// MemberBalance represents the balance information for one traveller.
type MemberBalance struct {
	MemberName string
	NetBalance float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64
	TotalOwed  float64
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// CalculateBalances computes who owes whom across an expense ledger.
//
// Algorithm:
// - For each expense with a payer: payer contributed +amount, each participant owes their share
// - Aggregate: net_balance = total_paid - total_owed
// - Debt list: simplified using greedy matching, largest amounts first
//
// Expenses without a payer are skipped. group is used when an expense has no
// explicit participants.
func CalculateBalances(expenses []ExpenseForBalance, group []string) ([]MemberBalance, []DebtEdge, error) {
	balances := make(map[string]*MemberBalance)
	get := func(name string) *MemberBalance {
		b, ok := balances[name]
		if !ok {
			b = &MemberBalance{MemberName: name}
			balances[name] = b
		}
		return b
	}

	for _, e := range expenses {
		if e.Payer == "" {
			continue
		}

		participants := e.Participants
		if len(participants) == 0 {
			participants = group
		}

		var shares map[string]float64
		var err error
		if len(e.Weights) > 0 {
			shares, err = SplitWeighted(e.Amount, participants, e.Weights)
		} else {
			shares, err = SplitEqual(e.Amount, participants)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to split expense: %w", err)
		}

		get(e.Payer).TotalPaid += e.Amount
		for participant, share := range shares {
			get(participant).TotalOwed += share
		}
	}

	memberBalances := make([]MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.NetBalance = bal.TotalPaid - bal.TotalOwed
		memberBalances = append(memberBalances, *bal)
	}
	sort.Slice(memberBalances, func(i, j int) bool {
		return memberBalances[i].MemberName < memberBalances[j].MemberName
	})

	// Create lists of creditors (owed money) and debtors (owe money)
	var creditors, debtors []MemberBalance
	for _, bal := range memberBalances {
		if bal.NetBalance > 0.01 {
			creditors = append(creditors, bal)
		} else if bal.NetBalance < -0.01 {
			debtors = append(debtors, bal)
		}
	}
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].NetBalance > creditors[j].NetBalance })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].NetBalance < debtors[j].NetBalance })

	debtorBalance := make(map[string]float64, len(debtors))
	creditorBalance := make(map[string]float64, len(creditors))
	for _, d := range debtors {
		debtorBalance[d.MemberName] = -d.NetBalance
	}
	for _, c := range creditors {
		creditorBalance[c.MemberName] = c.NetBalance
	}

	// Greedy algorithm: match largest debts with largest credits
	var debtEdges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := debtors[i].MemberName
		creditor := creditors[j].MemberName

		amount := debtorBalance[debtor]
		if creditorBalance[creditor] < amount {
			amount = creditorBalance[creditor]
		}

		if amount > 0.01 { // Avoid floating point noise
			debtEdges = append(debtEdges, DebtEdge{From: debtor, To: creditor, Amount: amount})
		}

		debtorBalance[debtor] -= amount
		creditorBalance[creditor] -= amount

		if debtorBalance[debtor] < 0.01 {
			i++
		}
		if creditorBalance[creditor] < 0.01 {
			j++
		}
	}

	return memberBalances, debtEdges, nil
}
