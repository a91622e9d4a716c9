package dto

import "github.com/edumark/gradebook-go-api/internal/models"

// LateLevelPayload describes one lateness tier in a policy create request.
type LateLevelPayload struct {
	Name        string  `json:"name" validate:"required"`
	Multiplier  float64 `json:"multiplier" validate:"gte=0,lte=1"`
	Description string  `json:"description"`
}

// LatePolicyCreateRequest registers a custom late policy.
type LatePolicyCreateRequest struct {
	ID     string                      `json:"id" validate:"required"`
	Name   string                      `json:"name"`
	Levels map[string]LateLevelPayload `json:"levels" validate:"required,min=1"`
}

// ToModel converts the request into a domain policy.
func (r LatePolicyCreateRequest) ToModel() models.LatePolicy {
	levels := make(map[string]models.LateLevel, len(r.Levels))
	for key, level := range r.Levels {
		levels[key] = models.LateLevel{Name: level.Name, Multiplier: level.Multiplier, Description: level.Description}
	}
	return models.LatePolicy{ID: r.ID, Name: r.Name, Levels: levels}
}

// SetCurrentPolicyRequest switches the active late policy.
type SetCurrentPolicyRequest struct {
	ID string `json:"id" validate:"required"`
}

// LatePoliciesResponse lists registered policies and marks the current one.
type LatePoliciesResponse struct {
	CurrentID string              `json:"current_id"`
	Policies  []models.LatePolicy `json:"policies"`
}
