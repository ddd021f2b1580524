package battle

// ActionKind is the closed set of legal per-turn action types.
type ActionKind string

const (
	ActionMove     ActionKind = "move"
	ActionSwitch   ActionKind = "switch"
	ActionUseItem  ActionKind = "use_item"
	ActionWait     ActionKind = "wait"
)

// Action is the wire format for a single player's submitted action for a
// turn: {type, playerId, moveId?, slot?, targetId?}.
type Action struct {
	Type     ActionKind `json:"type"`
	PlayerID string     `json:"playerId"`
	MoveID   string     `json:"moveId,omitempty"`
	Slot     *int       `json:"slot,omitempty"`
	TargetID string     `json:"targetId,omitempty"`
}

// NormalizedAction is the form recorded in History: every optional field
// resolved to a concrete value so replay can reconstruct it without
// re-deriving defaults.
type NormalizedAction struct {
	Type     ActionKind `json:"type"`
	PlayerID string     `json:"playerId"`
	MoveID   string     `json:"moveId,omitempty"`
	Slot     int        `json:"slot,omitempty"`
	TargetID string     `json:"targetId,omitempty"`
}

// Normalize converts a wire Action into its recorded form.
func (a Action) Normalize() NormalizedAction {
	n := NormalizedAction{Type: a.Type, PlayerID: a.PlayerID, MoveID: a.MoveID, TargetID: a.TargetID}
	if a.Slot != nil {
		n.Slot = *a.Slot
	}
	return n
}
