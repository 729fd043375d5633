package user

import "context"

// Repository is the durable principal directory.
type Repository interface {
	// Create stores a new principal. ErrConflict when the email is taken.
	Create(ctx context.Context, p Principal) error

	// FindByEmail looks a principal up by its login identifier.
	// ErrNotFound when absent.
	FindByEmail(ctx context.Context, email string) (Principal, error)

	// FindByID looks a principal up by ID. ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (Principal, error)

	// List returns all principals ordered by creation time.
	List(ctx context.Context) ([]Principal, error)

	// Delete removes a principal. ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}
