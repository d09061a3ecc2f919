// Package service provides business logic layer between HTTP handlers and repository
package service

import (
	"context"
	"fmt"

	"github.com/htol/libapi/model"
	"github.com/htol/libapi/repo"
	"github.com/htol/libapi/validator"
)

// Service provides business logic for the application
type Service struct {
	repo repo.Repository
}

// New creates a new Service with the given repository
func New(repo repo.Repository) *Service {
	return &Service{repo: repo}
}

// Books

// CreateBook stores a validated book
func (s *Service) CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error) {
	b, err := s.repo.CreateBook(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return b, nil
}

// UpdateBook applies a partial update. Ids that cannot exist report repo.ErrNotFound.
func (s *Service) UpdateBook(ctx context.Context, id int64, patch model.BookPatch) (*model.Book, error) {
	if err := validator.ValidateID(id); err != nil {
		return nil, fmt.Errorf("update book: %w", repo.ErrNotFound)
	}
	b, err := s.repo.UpdateBook(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update book %d: %w", id, err)
	}
	return b, nil
}

// DeleteBook removes a book by ID
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	if err := validator.ValidateID(id); err != nil {
		return fmt.Errorf("delete book: %w", repo.ErrNotFound)
	}
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}

// ListBooks returns one page of books with its page metadata
func (s *Service) ListBooks(ctx context.Context, p model.Pagination) (model.BookPage, error) {
	books, total, err := s.repo.PageBooks(ctx, p)
	if err != nil {
		return model.BookPage{}, fmt.Errorf("list books page %d: %w", p.Page, err)
	}
	return model.NewBookPage(p, total, books), nil
}

// SearchBooks finds books by case-insensitive title and/or author substring
func (s *Service) SearchBooks(ctx context.Context, q model.BookQuery) ([]model.Book, error) {
	if q.Title == "" && q.Author == "" {
		return []model.Book{}, nil
	}
	books, err := s.repo.SearchBooks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// Members

// CreateMember stores a new member
func (s *Service) CreateMember(ctx context.Context, in model.MemberInput) (*model.Member, error) {
	m, err := s.repo.CreateMember(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}
	return m, nil
}

// Health

// Ping checks the health of the service and its dependencies
func (s *Service) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository ping: %w", err)
	}
	return nil
}
