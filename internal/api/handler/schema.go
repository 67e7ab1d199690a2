package handler

import (
	"time"

	"github.com/travelguard/backoffice/internal/core/domain"
	"github.com/travelguard/backoffice/internal/core/ports"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginResponse struct {
	User  *domain.PublicUser `json:"user"`
	Token string             `json:"token"`
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role,omitempty" validate:"omitempty,max=10"`
}

func (r createUserRequest) toInput() ports.CreateUserInput {
	return ports.CreateUserInput{Email: r.Email, Password: r.Password, Role: r.Role}
}

type updateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *string `json:"role,omitempty" validate:"omitempty,max=10"`
}

func (r updateUserRequest) toInput() ports.UpdateUserInput {
	return ports.UpdateUserInput{Email: r.Email, Password: r.Password, Role: r.Role}
}

type createClientRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email,omitempty" validate:"omitempty,max=254"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

func (r createClientRequest) toInput() ports.CreateClientInput {
	return ports.CreateClientInput{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

// updateClientRequest sends an empty email to clear it.
type updateClientRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email *string `json:"email,omitempty" validate:"omitempty,max=254"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

func (r updateClientRequest) toInput() ports.UpdateClientInput {
	return ports.UpdateClientInput{Name: r.Name, Email: r.Email, Phone: r.Phone}
}

// Dates are accepted as YYYY-MM-DD or RFC 3339.
type createInsuranceRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	PolicyNumber string `json:"policy_number" validate:"required,max=100"`
	Coverage     string `json:"coverage" validate:"required,max=500"`
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date" validate:"required"`
}

func (r createInsuranceRequest) toInput() (ports.CreateInsuranceInput, error) {
	in := ports.CreateInsuranceInput{
		ClientID:     r.ClientID,
		PolicyNumber: r.PolicyNumber,
		Coverage:     r.Coverage,
	}
	var bad []string
	var err error
	if in.StartDate, err = parseDate(r.StartDate); err != nil {
		bad = append(bad, "start_date must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if in.EndDate, err = parseDate(r.EndDate); err != nil {
		bad = append(bad, "end_date must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if len(bad) > 0 {
		return in, domain.NewValidationError("invalid insurance data", bad...)
	}
	return in, nil
}

type updateInsuranceRequest struct {
	ClientID     *string `json:"client_id,omitempty"`
	PolicyNumber *string `json:"policy_number,omitempty" validate:"omitempty,max=100"`
	Coverage     *string `json:"coverage,omitempty" validate:"omitempty,max=500"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active expired canceled"`
}

func (r updateInsuranceRequest) toInput() (ports.UpdateInsuranceInput, error) {
	in := ports.UpdateInsuranceInput{
		ClientID:     r.ClientID,
		PolicyNumber: r.PolicyNumber,
		Coverage:     r.Coverage,
		Status:       r.Status,
	}
	var bad []string
	for _, f := range []struct {
		name string
		raw  *string
		dst  **time.Time
	}{{"start_date", r.StartDate, &in.StartDate}, {"end_date", r.EndDate, &in.EndDate}} {
		if f.raw == nil {
			continue
		}
		t, err := parseDate(*f.raw)
		if err != nil {
			bad = append(bad, f.name+" must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
			continue
		}
		*f.dst = &t
	}
	if len(bad) > 0 {
		return in, domain.NewValidationError("invalid insurance data", bad...)
	}
	return in, nil
}
