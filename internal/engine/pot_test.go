package engine

import (
	"reflect"
	"testing"
)

func TestTotalPot(t *testing.T) {
	players := []Player{
		{TotalBet: 100},
		{TotalBet: 50, Folded: true},
		{TotalBet: 80},
	}
	// folded contributions stay in the pot
	if got := TotalPot(players); got != 230 {
		t.Errorf("TotalPot = %d, want 230", got)
	}
}

func TestSidePotsNoAllIn(t *testing.T) {
	players := []Player{
		{ID: 0, TotalBet: 60},
		{ID: 1, TotalBet: 60},
		{ID: 2, TotalBet: 60},
	}

	pots := SidePots(players)
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 180 {
		t.Errorf("pot amount = %d, want 180", pots[0].Amount)
	}
	if !reflect.DeepEqual(pots[0].Eligible, []int{0, 1, 2}) {
		t.Errorf("eligible = %v, want [0 1 2]", pots[0].Eligible)
	}
}

func TestSidePotsLayered(t *testing.T) {
	// Player 0 covers everyone; 1 and 2 are all-in for less.
	players := []Player{
		{ID: 0, TotalBet: 100},
		{ID: 1, TotalBet: 50, AllIn: true},
		{ID: 2, TotalBet: 80, AllIn: true},
	}

	pots := SidePots(players)
	want := []Pot{
		{Amount: 150, Eligible: []int{0, 1, 2}},
		{Amount: 60, Eligible: []int{0, 2}},
		{Amount: 20, Eligible: []int{0}},
	}
	if !reflect.DeepEqual(pots, want) {
		t.Errorf("SidePots = %+v, want %+v", pots, want)
	}
}

func TestSidePotsFoldedPaysButCannotWin(t *testing.T) {
	players := []Player{
		{ID: 0, TotalBet: 100},
		{ID: 1, TotalBet: 50, Folded: true},
		{ID: 2, TotalBet: 100},
	}

	pots := SidePots(players)
	want := []Pot{
		{Amount: 150, Eligible: []int{0, 2}},
		{Amount: 100, Eligible: []int{0, 2}},
	}
	if !reflect.DeepEqual(pots, want) {
		t.Errorf("SidePots = %+v, want %+v", pots, want)
	}

	total := 0
	for _, pot := range pots {
		total += pot.Amount
	}
	if total != TotalPot(players) {
		t.Errorf("pot layers sum to %d, want %d", total, TotalPot(players))
	}
}

func TestSidePotsIgnoreZeroContributors(t *testing.T) {
	players := []Player{
		{ID: 0, TotalBet: 40},
		{ID: 1, TotalBet: 0, Folded: true}, // folded before betting
		{ID: 2, TotalBet: 40},
	}

	pots := SidePots(players)
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 80 {
		t.Errorf("pot amount = %d, want 80", pots[0].Amount)
	}
	if !reflect.DeepEqual(pots[0].Eligible, []int{0, 2}) {
		t.Errorf("eligible = %v, want [0 2]", pots[0].Eligible)
	}
}

func TestSplitPot(t *testing.T) {
	tests := []struct {
		name    string
		winners []int
		amount  int
		want    map[int]int
	}{
		{
			name:    "single winner takes all",
			winners: []int{4},
			amount:  250,
			want:    map[int]int{4: 250},
		},
		{
			name:    "even split",
			winners: []int{1, 3},
			amount:  200,
			want:    map[int]int{1: 100, 3: 100},
		},
		{
			name:    "odd chip goes to the earliest winner",
			winners: []int{2, 5},
			amount:  101,
			want:    map[int]int{2: 51, 5: 50},
		},
		{
			name:    "two leftovers go to the first two",
			winners: []int{0, 1, 2},
			amount:  11,
			want:    map[int]int{0: 4, 1: 4, 2: 3},
		},
		{
			name:    "no winners",
			winners: nil,
			amount:  100,
			want:    map[int]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitPot(tt.winners, tt.amount)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitPot = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitPotConservesChips(t *testing.T) {
	winners := []int{1, 2, 3, 4, 5, 6, 7}
	amount := 1003

	total := 0
	for _, share := range SplitPot(winners, amount) {
		total += share
	}
	if total != amount {
		t.Errorf("shares sum to %d, want %d", total, amount)
	}
}

func TestMinimumBet(t *testing.T) {
	if got := MinimumBet(20, 0); got != 20 {
		t.Errorf("MinimumBet(20, 0) = %d, want the big blind 20", got)
	}
	if got := MinimumBet(20, 60); got != 60 {
		t.Errorf("MinimumBet(20, 60) = %d, want the last raise 60", got)
	}
}
