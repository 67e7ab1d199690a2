package domain

import (
	"encoding/json"
	"time"
)

// Client is a customer of the insurance business. Email and Phone are
// optional; an empty string means absent and is rendered as JSON null.
type Client struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email,omitempty"`
	Phone     string    `json:"phone" bson:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type clientJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Client) wire() clientJSON {
	return clientJSON{
		ID:        c.ID,
		Name:      c.Name,
		Email:     optional(c.Email),
		Phone:     optional(c.Phone),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (c Client) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.wire())
}

// ClientWithInsurances is a client together with every policy it owns.
type ClientWithInsurances struct {
	Client
	Insurances []*Insurance `json:"insurances"`
}

func (c ClientWithInsurances) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		clientJSON
		Insurances []*Insurance `json:"insurances"`
	}{c.Client.wire(), c.Insurances})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
