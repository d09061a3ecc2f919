package repo

import (
	"context"
	"errors"

	"github.com/htol/libapi/model"
)

// ErrNotFound is returned when a record is not found in the repository
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for data access operations
type Repository interface {
	// Close closes the database connection
	Close() error

	// Health check
	Ping(ctx context.Context) error

	// Books
	CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error)
	// UpdateBook applies patch to the stored book in one transaction and
	// returns the result
	UpdateBook(ctx context.Context, id int64, patch model.BookPatch) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	// PageBooks returns one page of books ordered by id together with the
	// total number of books
	PageBooks(ctx context.Context, p model.Pagination) ([]model.Book, int64, error)
	// SearchBooks matches case-insensitive substrings of title and author,
	// both must match when both are set
	SearchBooks(ctx context.Context, q model.BookQuery) ([]model.Book, error)

	// Members
	CreateMember(ctx context.Context, in model.MemberInput) (*model.Member, error)
}

var _ Repository = (*Repo)(nil)
