package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/carson-networks/bank-ledger/internal/bankerr"
	"github.com/carson-networks/bank-ledger/internal/operator/actions"
	"github.com/carson-networks/bank-ledger/internal/storage"
	"github.com/carson-networks/bank-ledger/internal/storage/client"
)

const (
	naturalKeyLength = 11
	maxFullNameRunes = 200
)

// ClientService handles client registration and lookup.
type ClientService struct {
	storage   *storage.Storage
	processor IActionProcessor
	clock     actions.Clock
}

func NewClientService(store *storage.Storage, processor IActionProcessor) *ClientService {
	return &ClientService{storage: store, processor: processor, clock: actions.SystemClock}
}

// CreateClient registers a client. The natural key must not already be registered.
func (s *ClientService) CreateClient(ctx context.Context, input ClientInput) (*Client, error) {
	input, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateClient{
		FullName:   input.FullName,
		NaturalKey: input.NaturalKey,
		BirthDate:  input.BirthDate,
		Clock:      s.clock,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	created := clientFromStorage(action.Result)
	return &created, nil
}

func (s *ClientService) GetClient(ctx context.Context, id string) (*Client, error) {
	clientID, err := parseID("client", id)
	if err != nil {
		return nil, err
	}
	row, err := s.storage.Read.Clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	found := clientFromStorage(row)
	return &found, nil
}

func (s *ClientService) GetClientByNaturalKey(ctx context.Context, naturalKey string) (*Client, error) {
	row, err := s.storage.Read.Clients.FindByNaturalKey(ctx, strings.TrimSpace(naturalKey))
	if err != nil {
		return nil, err
	}
	found := clientFromStorage(row)
	return &found, nil
}

// ListClients returns a page of clients using cursor pagination.
func (s *ClientService) ListClients(ctx context.Context, cursor *ClientCursor) ([]Client, *ClientCursor, error) {
	filter := &client.ClientFilter{}
	if cursor != nil {
		filter.Limit = cursor.Limit
		filter.Offset = cursor.Position
	}

	result, err := s.storage.Read.Clients.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	if len(result.Clients) == 0 {
		return nil, nil, nil
	}

	clients := make([]Client, len(result.Clients))
	for i, row := range result.Clients {
		clients[i] = clientFromStorage(row)
	}

	var next *ClientCursor
	if result.NextCursor != nil {
		next = &ClientCursor{Position: result.NextCursor.Position, Limit: result.NextCursor.Limit}
	}
	return clients, next, nil
}

// UpdateClient replaces the client's name and birth date. The natural key
// must match the stored one; any change is rejected.
func (s *ClientService) UpdateClient(ctx context.Context, id string, input ClientInput) (*Client, error) {
	clientID, err := parseID("client", id)
	if err != nil {
		return nil, err
	}
	input, err = s.validate(input)
	if err != nil {
		return nil, err
	}

	action := &actions.UpdateClient{
		ID:         clientID,
		FullName:   input.FullName,
		NaturalKey: input.NaturalKey,
		BirthDate:  input.BirthDate,
		Clock:      s.clock,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	updated := clientFromStorage(action.Result)
	return &updated, nil
}

func (s *ClientService) validate(input ClientInput) (ClientInput, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.NaturalKey = strings.TrimSpace(input.NaturalKey)

	if input.FullName == "" {
		return input, bankerr.InvalidClient("full name is required")
	}
	if utf8.RuneCountInString(input.FullName) > maxFullNameRunes {
		return input, bankerr.InvalidClient("full name is too long")
	}
	if !isDigits(input.NaturalKey, naturalKeyLength) {
		return input, bankerr.InvalidClient("natural key must be 11 digits")
	}
	if input.BirthDate.IsZero() {
		return input, bankerr.InvalidClient("birth date is required")
	}

	birth := input.BirthDate.UTC()
	input.BirthDate = time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if !input.BirthDate.Before(s.clock()) {
		return input, bankerr.InvalidClient("birth date must be in the past")
	}
	return input, nil
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
