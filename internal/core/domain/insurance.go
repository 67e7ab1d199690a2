package domain

import (
	"strings"
	"time"
)

// InsuranceStatus represents the lifecycle state of a policy.
type InsuranceStatus string

const (
	InsuranceActive   InsuranceStatus = "active"
	InsuranceExpired  InsuranceStatus = "expired"
	InsuranceCanceled InsuranceStatus = "canceled"
)

// validTransitions defines the allowed state machine transitions.
// Canceled is terminal.
var validTransitions = map[InsuranceStatus][]InsuranceStatus{
	InsuranceActive:  {InsuranceExpired, InsuranceCanceled},
	InsuranceExpired: {InsuranceCanceled},
}

// ParseInsuranceStatus normalises s into a known status.
func ParseInsuranceStatus(s string) (InsuranceStatus, bool) {
	st := InsuranceStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

func (s InsuranceStatus) Valid() bool {
	switch s {
	case InsuranceActive, InsuranceExpired, InsuranceCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s InsuranceStatus) CanTransitionTo(next InsuranceStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InitialStatus decides the status of a policy created at now.
func InitialStatus(endDate, now time.Time) InsuranceStatus {
	if endDate.Before(now) {
		return InsuranceExpired
	}
	return InsuranceActive
}

// Insurance is a travel policy held by exactly one client.
type Insurance struct {
	ID           string          `json:"id" bson:"_id"`
	ClientID     string          `json:"client_id" bson:"client_id"`
	PolicyNumber string          `json:"policy_number" bson:"policy_number"`
	Coverage     string          `json:"coverage" bson:"coverage"`
	StartDate    time.Time       `json:"start_date" bson:"start_date"`
	EndDate      time.Time       `json:"end_date" bson:"end_date"`
	Status       InsuranceStatus `json:"status" bson:"status"`
	CreatedAt    time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" bson:"updated_at"`
}

// EffectiveStatus is the status observed at now: an active policy whose end
// date has passed reads as expired.
func (i *Insurance) EffectiveStatus(now time.Time) InsuranceStatus {
	if i.Status == InsuranceActive && i.EndDate.Before(now) {
		return InsuranceExpired
	}
	return i.Status
}
