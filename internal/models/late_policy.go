package models

// LateLevelNone is the mandatory fallback level every policy must carry.
const LateLevelNone = "none"

// LateLevel is one lateness tier inside a policy.
type LateLevel struct {
	Name        string  `json:"name" validate:"required"`
	Multiplier  float64 `json:"multiplier" validate:"gte=0,lte=1"`
	Description string  `json:"description"`
}

// LatePolicy is a named set of lateness levels, each carrying a score multiplier.
type LatePolicy struct {
	ID     string               `json:"id" validate:"required"`
	Name   string               `json:"name"`
	Levels map[string]LateLevel `json:"levels" validate:"required,min=1"`
}

// HasLevel reports whether the policy defines the given level key.
func (p LatePolicy) HasLevel(key string) bool {
	_, ok := p.Levels[key]
	return ok
}

// Clone produces an independent deep copy of the policy.
func (p LatePolicy) Clone() LatePolicy {
	out := p
	out.Levels = make(map[string]LateLevel, len(p.Levels))
	for k, v := range p.Levels {
		out.Levels[k] = v
	}
	return out
}

// DefaultLatePolicyID identifies the built-in three-level policy.
const DefaultLatePolicyID = "standard"

// DefaultLatePolicy returns the built-in late policy: no penalty, 20% within
// 24 hours, zero after 24 hours.
func DefaultLatePolicy() LatePolicy {
	return LatePolicy{
		ID:   DefaultLatePolicyID,
		Name: "Standard Late Policy",
		Levels: map[string]LateLevel{
			LateLevelNone: {Name: "On Time", Multiplier: 1.0, Description: "Submitted on time"},
			"within24":    {Name: "Within 24 Hours", Multiplier: 0.8, Description: "Submitted less than 24 hours late"},
			"after24":     {Name: "After 24 Hours", Multiplier: 0.0, Description: "Submitted more than 24 hours late"},
		},
	}
}
