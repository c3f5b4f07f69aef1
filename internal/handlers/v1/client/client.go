package client

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-ledger/internal/service"
)

const birthDateLayout = "2006-01-02"

// Client is the API response model for a client.
type Client struct {
	ID         string `json:"id" doc:"Client UUID"`
	FullName   string `json:"fullName" doc:"Full name"`
	NaturalKey string `json:"naturalKey" doc:"11 digit natural person key"`
	BirthDate  string `json:"birthDate" doc:"Birth date, YYYY-MM-DD"`
	CreatedAt  string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt  string `json:"updatedAt" doc:"RFC3339 last update time"`
}

// ClientBody is the request body for creating or updating a client.
type ClientBody struct {
	FullName   string `json:"fullName" required:"true" minLength:"1" maxLength:"200" doc:"Full name"`
	NaturalKey string `json:"naturalKey" required:"true" doc:"11 digit natural person key"`
	BirthDate  string `json:"birthDate" required:"true" doc:"Birth date, YYYY-MM-DD"`
}

func toClient(c *service.Client) Client {
	return Client{
		ID:         c.ID.String(),
		FullName:   c.FullName,
		NaturalKey: c.NaturalKey,
		BirthDate:  c.BirthDate.Format(birthDateLayout),
		CreatedAt:  c.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func parseClientBody(body ClientBody) (service.ClientInput, error) {
	birthDate, err := time.Parse(birthDateLayout, body.BirthDate)
	if err != nil {
		return service.ClientInput{}, huma.NewError(http.StatusBadRequest, "invalid birthDate", err)
	}
	return service.ClientInput{
		FullName:   body.FullName,
		NaturalKey: body.NaturalKey,
		BirthDate:  birthDate,
	}, nil
}
