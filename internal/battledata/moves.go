package battledata

// MoveCategory is the damage category of a move.
type MoveCategory string

const (
	CategoryPhysical MoveCategory = "physical"
	CategorySpecial  MoveCategory = "special"
	CategoryStatus   MoveCategory = "status"
)

// EffectKind is the tag of a declarative Effect record. Effects are data,
// not code: a move definition lists a sequence of Effect records and the
// effect compiler (internal/effects) lowers each to a sequence of Events.
type EffectKind string

const (
	EffectDamage           EffectKind = "damage"
	EffectSpeedBasedDamage EffectKind = "speed_based_damage"
	EffectOHKO             EffectKind = "ohko"
	EffectApplyStatus      EffectKind = "apply_status"
	EffectRemoveStatus     EffectKind = "remove_status"
	EffectReplaceStatus    EffectKind = "replace_status"
	EffectCureAllStatus    EffectKind = "cure_all_status"
	EffectApplyFieldStatus EffectKind = "apply_field_status"
	EffectRemoveFieldStat  EffectKind = "remove_field_status"
	EffectModifyStage      EffectKind = "modify_stage"
	EffectClearStages      EffectKind = "clear_stages"
	EffectResetStages      EffectKind = "reset_stages"
	EffectDisableMove      EffectKind = "disable_move"
	EffectChance           EffectKind = "chance"
	EffectRepeat           EffectKind = "repeat"
	EffectConditional      EffectKind = "conditional"
	EffectDamageRatio      EffectKind = "damage_ratio"
	EffectDelay            EffectKind = "delay"
	EffectOverTime         EffectKind = "over_time"
	EffectApplyItem        EffectKind = "apply_item"
	EffectRemoveItem       EffectKind = "remove_item"
	EffectConsumeItem      EffectKind = "consume_item"
	EffectProtect          EffectKind = "protect"
	EffectSelfSwitch       EffectKind = "self_switch"
	EffectForceSwitch      EffectKind = "force_switch"
	EffectLog              EffectKind = "log"
	EffectRandomMove       EffectKind = "random_move"
)

// ConditionKind is the tag of a conditional effect's test.
type ConditionKind string

const (
	ConditionTargetHasStatus ConditionKind = "target_has_status"
	ConditionTargetHasItem   ConditionKind = "target_has_item"
	ConditionUserHasStatus   ConditionKind = "user_has_status"
	ConditionUserHasItem     ConditionKind = "user_has_item"
	ConditionUserType        ConditionKind = "user_type"
	ConditionTargetHPLT      ConditionKind = "target_hp_lt"
	ConditionFieldHasStatus  ConditionKind = "field_has_status"
	ConditionWeatherSunny    ConditionKind = "weather_is_sunny"
	ConditionWeatherRaining  ConditionKind = "weather_is_raining"
	ConditionWeatherHail     ConditionKind = "weather_is_hail"
	ConditionWeatherSandstrm ConditionKind = "weather_is_sandstorm"
)

// Condition is a closed-set predicate evaluated by the effect compiler's
// `conditional` effect.
type Condition struct {
	Kind     ConditionKind `json:"kind"`
	StatusID string        `json:"statusId,omitempty"`
	ItemID   string        `json:"itemId,omitempty"`
	TypeID   string        `json:"typeId,omitempty"`
	Ratio    float64       `json:"ratio,omitempty"`
	FieldID  string        `json:"fieldId,omitempty"`
}

// DurationSpec is either a fixed turn count or an inclusive [Min,Max] range
// resolved by one RNG draw at compile time.
type DurationSpec struct {
	Fixed *int `json:"fixed,omitempty"`
	Min   int  `json:"min,omitempty"`
	Max   int  `json:"max,omitempty"`
}

// IsRange reports whether the duration must be resolved by an RNG draw.
func (d DurationSpec) IsRange() bool {
	return d.Fixed == nil
}

// CountSpec is either a fixed repeat count or an inclusive [Min,Max] range.
type CountSpec struct {
	Fixed *int `json:"fixed,omitempty"`
	Min   int  `json:"min,omitempty"`
	Max   int  `json:"max,omitempty"`
}

// IsRange reports whether the count must be resolved by an RNG draw (absent
// a Skill-Link-style force-to-max hook).
func (c CountSpec) IsRange() bool {
	return c.Fixed == nil
}

// SpeedThreshold is one entry of a speed_based_damage effect's threshold
// table: the highest ratio whose Ratio is <= the observed speed ratio wins.
type SpeedThreshold struct {
	Ratio float64 `json:"ratio"`
	Power int     `json:"power"`
}

// Effect is the tagged, declarative record read from a move definition and
// lowered to a sequence of Events by the effect compiler. Only the fields
// relevant to Kind are populated; this mirrors the flat, many-optional-field
// shape used throughout this codebase's own event records rather than a
// family of small per-variant types, since effects are pure data read
// straight off disk.
type Effect struct {
	Kind EffectKind `json:"kind"`

	// damage / speed_based_damage / ohko
	Power    *int     `json:"power,omitempty"`
	Accuracy *float64 `json:"accuracy,omitempty"`

	// speed_based_damage
	Thresholds []SpeedThreshold `json:"thresholds,omitempty"`
	BasePower  *int             `json:"basePower,omitempty"`

	// ohko
	BaseAccuracy            *float64 `json:"baseAccuracy,omitempty"`
	RequiredType             string   `json:"requiredType,omitempty"`
	NonMatchingTypeAccuracy  *float64 `json:"nonMatchingTypeAccuracy,omitempty"`
	LevelScaling             bool     `json:"levelScaling,omitempty"`
	RespectTypeImmunity      bool     `json:"respectTypeImmunity,omitempty"`
	ImmuneTypes              []string `json:"immuneTypes,omitempty"`

	// apply_status / replace_status
	StatusID string                 `json:"statusId,omitempty"`
	Duration *DurationSpec          `json:"duration,omitempty"`
	Stack    bool                   `json:"stack,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
	From     string                 `json:"from,omitempty"`
	To       string                 `json:"to,omitempty"`

	// apply_field_status / remove_field_status
	FieldID string `json:"fieldId,omitempty"`

	// modify_stage / clear_stages / reset_stages
	Stages         map[string]int `json:"stages,omitempty"`
	Clamp          *bool          `json:"clamp,omitempty"`
	FailIfNoChange bool           `json:"failIfNoChange,omitempty"`
	ShowEvent      *bool          `json:"showEvent,omitempty"`

	// disable_move
	MoveID string `json:"moveId,omitempty"`

	// chance
	P    float64  `json:"p,omitempty"`
	Then []Effect `json:"then,omitempty"`
	Else []Effect `json:"else,omitempty"`

	// repeat
	Times   *CountSpec `json:"times,omitempty"`
	Effects []Effect   `json:"effects,omitempty"`

	// conditional
	If *Condition `json:"if,omitempty"`

	// damage_ratio
	RatioMaxHp float64 `json:"ratioMaxHp,omitempty"`
	Target     string  `json:"target,omitempty"` // "self" | "target"

	// delay / over_time
	AfterTurns int    `json:"afterTurns,omitempty"`
	Timing     string `json:"timing,omitempty"` // "turn_start" | "turn_end"

	// apply_item / remove_item / consume_item
	ItemID string `json:"itemId,omitempty"`

	// log
	Message string `json:"message,omitempty"`

	// random_move
	Pool string `json:"pool,omitempty"` // "all" | "self_moves" | "physical" | "special" | "status"
}

// ClampEnabled reports whether a modify_stage effect clamps to [-6,6].
// Defaults to true when unset.
func (e Effect) ClampEnabled() bool {
	if e.Clamp == nil {
		return true
	}
	return *e.Clamp
}

// ShowEventEnabled reports whether a modify_stage effect should log a
// transition line. Defaults to true when unset.
func (e Effect) ShowEventEnabled() bool {
	if e.ShowEvent == nil {
		return true
	}
	return *e.ShowEvent
}

// Move is the read-only definition of a move.
type Move struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Category  MoveCategory `json:"category"`
	PP        *int         `json:"pp"` // nil = unlimited
	Power     *int         `json:"power"`
	Accuracy  *float64     `json:"accuracy"`
	Priority  int          `json:"priority"`
	CritRate  int          `json:"critRate"`
	Tags      []string     `json:"tags"`
	Effects   []Effect     `json:"effects"`
}

// HasTag reports whether the move carries the given tag (e.g. "slicing").
func (m Move) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MoveRegistry is a read-only lookup table keyed by move id.
type MoveRegistry map[string]Move

// Get returns the move for id, or false if unknown.
func (r MoveRegistry) Get(id string) (Move, bool) {
	m, ok := r[id]
	return m, ok
}

// LearnsetRegistry maps a species id to the moves it may learn.
type LearnsetRegistry map[string][]string

// CanLearn reports whether species speciesID may learn moveID.
func (r LearnsetRegistry) CanLearn(speciesID, moveID string) bool {
	for _, m := range r[speciesID] {
		if m == moveID {
			return true
		}
	}
	return false
}
