package battle

// TurnRecord captures everything the turn resolver observed during one
// turn: the normalized actions submitted, the log lines appended during the
// turn, and every RNG draw consumed, in order.
type TurnRecord struct {
	Turn    int                `json:"turn"`
	Actions []NormalizedAction `json:"actions"`
	Log     []string           `json:"log"`
	RNG     []float64          `json:"rng"`
}

// History is an ordered list of turn records, sufficient to replay a battle
// from an identical initial state.
type History struct {
	Turns []TurnRecord `json:"turns"`
}

// Append records one more turn.
func (h *History) Append(rec TurnRecord) {
	h.Turns = append(h.Turns, rec)
}

// Clone deep-copies the history.
func (h *History) Clone() *History {
	if h == nil {
		return nil
	}
	cp := &History{Turns: make([]TurnRecord, len(h.Turns))}
	for i, t := range h.Turns {
		cp.Turns[i] = TurnRecord{
			Turn:    t.Turn,
			Actions: append([]NormalizedAction(nil), t.Actions...),
			Log:     append([]string(nil), t.Log...),
			RNG:     append([]float64(nil), t.RNG...),
		}
	}
	return cp
}
