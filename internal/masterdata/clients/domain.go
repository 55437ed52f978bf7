package clients

import "time"

// ClientType distinguishes private individuals from companies.
type ClientType string

const (
	TypeIndividual ClientType = "INDIVIDUAL"
	TypeCompany    ClientType = "COMPANY"
)

// Client is a lessee on file.
type Client struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Type       ClientType `json:"type"`
	Identifier string     `json:"identifier"` // passport or tax number
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CreateClientRequest is the payload for registering a client.
type CreateClientRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Type       string `json:"type" validate:"required,oneof=INDIVIDUAL COMPANY"`
	Identifier string `json:"identifier" validate:"required,max=50"`
	Phone      string `json:"phone" validate:"omitempty,max=50"`
	Email      string `json:"email" validate:"omitempty,email"`
}

// UpdateClientRequest carries optional field updates.
type UpdateClientRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}
