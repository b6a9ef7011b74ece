package engine

import "testing"

func TestPositionOf(t *testing.T) {
	tests := []struct {
		name   string
		idx    int
		dealer int
		n      int
		want   Position
	}{
		{"button is late", 2, 2, 6, LatePosition},
		{"small blind is early", 3, 2, 6, EarlyPosition},
		{"big blind is early", 4, 2, 6, EarlyPosition},
		{"under the gun is middle", 5, 2, 6, MiddlePosition},
		{"cutoff is late", 1, 2, 6, LatePosition},
		{"heads-up button is late", 0, 0, 2, LatePosition},
		{"heads-up blind is early", 1, 0, 2, EarlyPosition},
		{"three-handed has no cutoff", 1, 2, 3, EarlyPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PositionOf(tt.idx, tt.dealer, tt.n); got != tt.want {
				t.Errorf("PositionOf(%d, %d, %d) = %v, want %v", tt.idx, tt.dealer, tt.n, got, tt.want)
			}
		})
	}
}

func TestGameContextCallAmount(t *testing.T) {
	ctx := GameContext{
		Player: Player{ID: 0, CurrentBet: 20},
		Players: []Player{
			{ID: 0, CurrentBet: 20},
			{ID: 1, CurrentBet: 80},
		},
	}
	if got := ctx.CallAmount(); got != 60 {
		t.Errorf("CallAmount = %d, want 60", got)
	}

	// matching the highest bet means a free check
	ctx.Player.CurrentBet = 80
	ctx.Players[0].CurrentBet = 80
	if got := ctx.CallAmount(); got != 0 {
		t.Errorf("CallAmount = %d, want 0", got)
	}
}

func TestGameContextActivePlayers(t *testing.T) {
	ctx := GameContext{
		Players: []Player{
			{},
			{Folded: true},
			{AllIn: true},
			{},
		},
	}
	// all-in players still contest the pot
	if got := ctx.ActivePlayers(); got != 3 {
		t.Errorf("ActivePlayers = %d, want 3", got)
	}
}
