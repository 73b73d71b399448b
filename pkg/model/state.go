package model

import "time"

// ActivationState replaces a bare active flag on standing claims so the
// moment a claim stopped holding capacity is kept.
type ActivationState string

const (
	StateActive   ActivationState = "active"
	StateInactive ActivationState = "inactive"
)

type Activation struct {
	State          ActivationState `json:"state" bson:"state"`
	StateChangedAt time.Time       `json:"state_changed_at" bson:"state_changed_at"`
}

func (a Activation) IsActive() bool {
	return a.State == StateActive
}

func NewActivation(at time.Time) Activation {
	return Activation{State: StateActive, StateChangedAt: at}
}

// Deactivate reports whether the state changed.
func (a *Activation) Deactivate(at time.Time) bool {
	if a.State == StateInactive {
		return false
	}
	a.State = StateInactive
	a.StateChangedAt = at
	return true
}

func (a *Activation) Activate(at time.Time) bool {
	if a.State == StateActive {
		return false
	}
	a.State = StateActive
	a.StateChangedAt = at
	return true
}
