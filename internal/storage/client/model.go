package client

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

const (
	tableName = "clients"

	// NaturalKeyConstraint is the unique constraint on natural_key.
	NaturalKeyConstraint = "clients_natural_key_key"
)

// Client represents a client record. NaturalKey is the 11-digit personal
// identifier and is unique across clients.
type Client struct {
	ID         uuid.UUID
	FullName   string
	NaturalKey string
	BirthDate  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ClientCreate struct {
	ID         uuid.UUID
	FullName   string
	NaturalKey string
	BirthDate  time.Time
	CreatedAt  time.Time
}

// ClientUpdate replaces the mutable fields of an existing client. The
// natural key is fixed at creation and is never written by Update.
type ClientUpdate struct {
	ID        uuid.UUID
	FullName  string
	BirthDate time.Time
	UpdatedAt time.Time
}

type ClientFilter struct {
	Limit  int
	Offset int
}

type ClientCursor struct {
	Position int
	Limit    int
}

type ClientListResult struct {
	Clients    []*Client
	NextCursor *ClientCursor
}

const DefaultListLimit = 20

//go:generate mockery --name IClientReader --output mock_IClientReader.go
type IClientReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByNaturalKey(ctx context.Context, naturalKey string) (*Client, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByNaturalKey(ctx context.Context, naturalKey string) (bool, error)
	List(ctx context.Context, filter *ClientFilter) (*ClientListResult, error)
}

// IClientWriter fails Insert with bankerr.ErrDuplicateNaturalKey when another
// client already holds the natural key.
type IClientWriter interface {
	IClientReader
	Insert(ctx context.Context, create *ClientCreate) (*Client, error)
	Update(ctx context.Context, update *ClientUpdate) (*Client, error)
}

func ListWindow(filter *ClientFilter) (limit int, offset int) {
	limit = DefaultListLimit
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
	}
	return limit, offset
}

// PageOf trims rows fetched with limit+1 and builds the next cursor.
func PageOf(rows []*Client, limit int, offset int) *ClientListResult {
	if len(rows) == 0 {
		return &ClientListResult{}
	}
	var nextCursor *ClientCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &ClientCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}
	return &ClientListResult{Clients: rows, NextCursor: nextCursor}
}

type clientRow struct {
	ID         uuid.UUID `db:"id"`
	FullName   string    `db:"full_name"`
	NaturalKey string    `db:"natural_key"`
	BirthDate  time.Time `db:"birth_date"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

var columns = []any{"id", "full_name", "natural_key", "birth_date", "created_at", "updated_at"}

func rowToClient(row clientRow) *Client {
	birth := row.BirthDate
	return &Client{
		ID:         row.ID,
		FullName:   row.FullName,
		NaturalKey: row.NaturalKey,
		BirthDate:  time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}
