package calculator

import (
	"math"
	"testing"
	"time"
)

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name          string
		expenses      []Expense
		wantTotal     float64
		wantPerPerson float64
	}{
		{
			name: "hotel and taxi",
			expenses: []Expense{
				{Amount: 1760, Split: 11},
				{Amount: 22, Split: 4},
			},
			wantTotal:     1782,
			wantPerPerson: 165.5,
		},
		{
			name:          "empty ledger",
			expenses:      nil,
			wantTotal:     0,
			wantPerPerson: 0,
		},
		{
			name: "zero split counts as one",
			expenses: []Expense{
				{Amount: 30, Split: 0},
			},
			wantTotal:     30,
			wantPerPerson: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(tt.expenses)
			if math.Abs(got.Total-tt.wantTotal) > 0.01 {
				t.Errorf("Total = %v, want %v", got.Total, tt.wantTotal)
			}
			if math.Abs(got.PerPerson-tt.wantPerPerson) > 0.01 {
				t.Errorf("PerPerson = %v, want %v", got.PerPerson, tt.wantPerPerson)
			}
		})
	}
}

func TestQuickCalc(t *testing.T) {
	total, perPerson := QuickCalc(40, 2, 11)
	if math.Abs(total-880) > 0.01 {
		t.Errorf("total = %v, want 880", total)
	}
	if math.Abs(perPerson-80) > 0.01 {
		t.Errorf("perPerson = %v, want 80", perPerson)
	}

	if got := QuickCalcConcept("Hotel", 2); got != "Hotel (2 noche/s)" {
		t.Errorf("concept = %q", got)
	}
}

func TestSplitEqual(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		participants []string
		want         map[string]float64
		wantErr      bool
	}{
		{
			name:         "even split",
			amount:       30,
			participants: []string{"Moi", "Jani", "Alba"},
			want:         map[string]float64{"Moi": 10, "Jani": 10, "Alba": 10},
		},
		{
			name:         "leftover cent goes to first participant",
			amount:       10,
			participants: []string{"Moi", "Jani", "Alba"},
			want:         map[string]float64{"Moi": 3.34, "Jani": 3.33, "Alba": 3.33},
		},
		{
			name:         "duplicate participants are counted once",
			amount:       10,
			participants: []string{"Moi", "Moi", "Jani"},
			want:         map[string]float64{"Moi": 5, "Jani": 5},
		},
		{
			name:         "no participants should error",
			amount:       10,
			participants: nil,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitEqual(tt.amount, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitEqual() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(got), len(tt.want))
			}
			for p, want := range tt.want {
				if math.Abs(got[p]-want) > 0.001 {
					t.Errorf("%s share = %v, want %v", p, got[p], want)
				}
			}
		})
	}
}

func TestSplitWeighted(t *testing.T) {
	got, err := SplitWeighted(100, []string{"Moi", "Jani"}, map[string]float64{"Moi": 3, "Jani": 1})
	if err != nil {
		t.Fatalf("SplitWeighted failed: %v", err)
	}
	if math.Abs(got["Moi"]-75) > 0.001 || math.Abs(got["Jani"]-25) > 0.001 {
		t.Errorf("shares = %v, want Moi 75 Jani 25", got)
	}

	if _, err := SplitWeighted(100, []string{"Moi"}, map[string]float64{"Moi": 0}); err == nil {
		t.Error("expected error when weights add up to zero")
	}
	if _, err := SplitWeighted(100, []string{"Moi"}, map[string]float64{"Moi": -1}); err == nil {
		t.Error("expected error for negative weight")
	}
}

func TestCalculateBalances(t *testing.T) {
	group := []string{"Moi", "Jani", "Alba"}
	expenses := []ExpenseForBalance{
		{Amount: 90, Payer: "Moi"},
		{Amount: 30, Payer: "Jani", Participants: []string{"Jani", "Alba"}},
		{Amount: 50, Payer: ""}, // no payer, ignored
	}

	balances, debts, err := CalculateBalances(expenses, group)
	if err != nil {
		t.Fatalf("CalculateBalances failed: %v", err)
	}

	// Moi paid 90, owes 30 -> +60
	// Jani paid 30, owes 30 + 15 -> -15
	// Alba paid 0, owes 30 + 15 -> -45
	want := map[string]float64{"Moi": 60, "Jani": -15, "Alba": -45}
	for _, b := range balances {
		if math.Abs(b.NetBalance-want[b.MemberName]) > 0.01 {
			t.Errorf("%s net = %v, want %v", b.MemberName, b.NetBalance, want[b.MemberName])
		}
	}

	if len(debts) != 2 {
		t.Fatalf("got %d debts, want 2: %+v", len(debts), debts)
	}
	if debts[0].From != "Alba" || debts[0].To != "Moi" || math.Abs(debts[0].Amount-45) > 0.01 {
		t.Errorf("first debt = %+v, want Alba -> Moi 45", debts[0])
	}
	if debts[1].From != "Jani" || debts[1].To != "Moi" || math.Abs(debts[1].Amount-15) > 0.01 {
		t.Errorf("second debt = %+v, want Jani -> Moi 15", debts[1])
	}
}

func TestCalculateBalancesWeighted(t *testing.T) {
	expenses := []ExpenseForBalance{
		{Amount: 40, Payer: "Moi", Participants: []string{"Moi", "Jani"}, Weights: map[string]float64{"Moi": 1, "Jani": 3}},
	}
	_, debts, err := CalculateBalances(expenses, nil)
	if err != nil {
		t.Fatalf("CalculateBalances failed: %v", err)
	}
	if len(debts) != 1 || debts[0].From != "Jani" || math.Abs(debts[0].Amount-30) > 0.01 {
		t.Errorf("debts = %+v, want Jani -> Moi 30", debts)
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		eur  float64
		rate float64
		jpy  int64
	}{
		{eur: 1, rate: 165, jpy: 165},
		{eur: 10.5, rate: 163.5, jpy: 1717}, // 1716.75
		{eur: 0, rate: 150, jpy: 0},
	}
	for _, tt := range tests {
		got, err := EURToJPY(tt.eur, tt.rate)
		if err != nil {
			t.Fatalf("EURToJPY(%v, %v) failed: %v", tt.eur, tt.rate, err)
		}
		if got != tt.jpy {
			t.Errorf("EURToJPY(%v, %v) = %d, want %d", tt.eur, tt.rate, got, tt.jpy)
		}

		back, err := JPYToEUR(float64(got), tt.rate)
		if err != nil {
			t.Fatalf("JPYToEUR failed: %v", err)
		}
		// Whole-yen rounding loses at most half a yen
		if math.Abs(back-tt.eur) > 0.5/tt.rate+0.005 {
			t.Errorf("round trip %v -> %d -> %v", tt.eur, got, back)
		}
	}

	if _, err := EURToJPY(1, 0); err != ErrInvalidRate {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}
}

func TestFormatEUR(t *testing.T) {
	tests := map[float64]string{
		0:       "0,00 €",
		10:      "10,00 €",
		165.5:   "165,50 €",
		1782:    "1782,00 €",
		17600:   "17.600,00 €",
		1234567: "1.234.567,00 €",
		-22.4:   "-22,40 €",
	}
	for in, want := range tests {
		if got := FormatEUR(in); got != want {
			t.Errorf("FormatEUR(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount(" 12,5 ")
	if err != nil || got != 12.5 {
		t.Errorf("ParseAmount = %v, %v; want 12.5", got, err)
	}
	if _, err := ParseAmount("abc"); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(3, 12); got != 25 {
		t.Errorf("Percent(3, 12) = %d, want 25", got)
	}
	if got := Percent(0, 0); got != 0 {
		t.Errorf("Percent(0, 0) = %d, want 0", got)
	}
	if got := Percent(2, 3); got != 67 {
		t.Errorf("Percent(2, 3) = %d, want 67", got)
	}
}

func TestCalculateTripProgress(t *testing.T) {
	start := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		today       time.Time
		wantElapsed int
		wantStatus  string
	}{
		{"before", time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC), 0, "Comienza en 10 días"},
		{"first day", time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC), 1, "¡Viaje en curso!"},
		{"last day", time.Date(2025, 11, 4, 20, 0, 0, 0, time.UTC), 16, "¡Viaje en curso!"},
		{"after", time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), 16, "Viaje finalizado"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTripProgress(start, end, tt.today)
			if got.Days != 16 {
				t.Errorf("Days = %d, want 16", got.Days)
			}
			if got.Elapsed != tt.wantElapsed {
				t.Errorf("Elapsed = %d, want %d", got.Elapsed, tt.wantElapsed)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
		})
	}
}
