package engine

// Decision is the outcome of a decision maker's turn. Amount only
// matters for raises and is the increment above the table's highest
// bet. Fallback marks decisions that came from the rule-based engine
// after an external advisor failed.
type Decision struct {
	Action     Action
	Amount     int
	Confidence float64
	Reasoning  string
	Fallback   bool
}

// Agent decides an action from a table snapshot. Implementations must
// not block for long; the table invokes them from its think-delay
// timer goroutine.
type Agent interface {
	MakeDecision(ctx GameContext) Decision
}
