// Package history records searches made by identified users. Writes are
// best-effort: callers log failures and never surface them.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/skyfinder/internal/models"
)

const (
	BackendNone     = "none"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

// Entry is one search as seen by the user who made it.
type Entry struct {
	ID          string
	UserID      string
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  *string
	Passengers  int
	TripType    string
	Filters     *models.SearchFilters
	Mock        bool
	ResultCount int
	CreatedAt   time.Time
}

type Store interface {
	Record(ctx context.Context, e Entry) error
	Backend() string
	Close() error
}

// NewEntry builds an entry from a normalized request.
func NewEntry(userID string, req models.SearchRequest, mock bool, resultCount int) Entry {
	return Entry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartDate:  req.DepartDate,
		ReturnDate:  req.ReturnDate,
		Passengers:  req.Passengers,
		TripType:    req.TripType,
		Filters:     req.Filters,
		Mock:        mock,
		ResultCount: resultCount,
		CreatedAt:   time.Now().UTC(),
	}
}

type NoOpStore struct{}

func NewNoOpStore() *NoOpStore {
	return &NoOpStore{}
}

func (NoOpStore) Record(ctx context.Context, e Entry) error { return nil }
func (NoOpStore) Backend() string                           { return BackendNone }
func (NoOpStore) Close() error                              { return nil }

type Options struct {
	Backend     string
	DatabaseURL string
	Table       string
	Region      string
	Retention   time.Duration
}

// Open returns the store selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNoOpStore(), nil
	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("history backend %q requires DATABASE_URL", opts.Backend)
		}
		return NewGormStore(opts.DatabaseURL)
	case BackendDynamoDB:
		if opts.Table == "" {
			return nil, fmt.Errorf("history backend %q requires HISTORY_TABLE", opts.Backend)
		}
		return NewDynamoStoreFromEnv(ctx, opts.Region, opts.Table, opts.Retention)
	default:
		return nil, fmt.Errorf("unknown history backend %q", opts.Backend)
	}
}
