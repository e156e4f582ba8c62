package i

import (
	"context"

	"github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/google/uuid"
)

// UserRepo defines the interface for user persistence operations.
type UserRepo interface {
	// Save inserts or updates a user in the repository.
	// If the user already exists, it updates the record. Otherwise, it creates a new one.
	Save(user *domain.User) error

	// ByID retrieves a user by their unique ID.
	// Returns an error if the user is not found or in case of an unexpected error.
	ByID(id uuid.UUID) (*domain.User, error)

	// ByUsername retrieves a user by their username.
	// Returns an error if the user is not found or in case of an unexpected error.
	ByUsername(username string) (*domain.User, error)
}

// JourneyLog keeps the outcome of every journey request.
type JourneyLog interface {
	// Append stores a journey record.
	Append(ctx context.Context, record *domain.JourneyRecord) error

	// ByOwner returns up to limit records of the owner, newest first.
	ByOwner(ctx context.Context, ownerID uuid.UUID, limit int64) ([]*domain.JourneyRecord, error)
}

// RouteBoard ranks the longest routes found.
type RouteBoard interface {
	Submit(ctx context.Context, entry domain.RouteEntry) error
	Top(ctx context.Context, n int64) ([]domain.RouteEntry, error)
}
