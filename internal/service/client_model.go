package service

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/bank-ledger/internal/storage/client"
)

// Client represents a client in the service layer.
type Client struct {
	ID         uuid.UUID
	FullName   string
	NaturalKey string
	BirthDate  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClientInput carries the editable client fields for create and update.
type ClientInput struct {
	FullName   string
	NaturalKey string
	BirthDate  time.Time
}

type ClientCursor struct {
	Position int
	Limit    int
}

func clientFromStorage(c *client.Client) Client {
	return Client{
		ID:         c.ID,
		FullName:   c.FullName,
		NaturalKey: c.NaturalKey,
		BirthDate:  c.BirthDate,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
