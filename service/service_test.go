package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htol/libapi/logger"
	"github.com/htol/libapi/model"
	"github.com/htol/libapi/repo"
)

func init() {
	// Initialize logger for tests
	logger.Init("info")
}

// Mock repository for testing
type mockRepository struct {
	books     map[int64]model.Book
	members   []model.Member
	nextID    int64
	repoError error
	pingError error

	lastPage  model.Pagination
	lastQuery model.BookQuery
	calls     int
}

func newMockRepository() *mockRepository {
	return &mockRepository{books: make(map[int64]model.Book)}
}

func (m *mockRepository) Close() error {
	return nil
}

func (m *mockRepository) Ping(ctx context.Context) error {
	return m.pingError
}

func (m *mockRepository) CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error) {
	m.calls++
	if m.repoError != nil {
		return nil, m.repoError
	}
	m.nextID++
	b := model.Book{ID: m.nextID, Title: in.Title, Author: in.Author, Available: in.Available}
	m.books[b.ID] = b
	return &b, nil
}

func (m *mockRepository) UpdateBook(ctx context.Context, id int64, patch model.BookPatch) (*model.Book, error) {
	m.calls++
	b, ok := m.books[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	b = patch.Apply(b)
	m.books[id] = b
	return &b, nil
}

func (m *mockRepository) DeleteBook(ctx context.Context, id int64) error {
	m.calls++
	if _, ok := m.books[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *mockRepository) PageBooks(ctx context.Context, p model.Pagination) ([]model.Book, int64, error) {
	m.calls++
	m.lastPage = p
	if m.repoError != nil {
		return nil, 0, m.repoError
	}
	var books []model.Book
	for id := int64(1); id <= m.nextID; id++ {
		if b, ok := m.books[id]; ok {
			books = append(books, b)
		}
	}
	total := int64(len(books))
	if p.PastEnd(total) {
		return nil, total, nil
	}
	start := p.Offset()
	end := start + p.PerPage
	if end > len(books) {
		end = len(books)
	}
	return books[start:end], total, nil
}

func (m *mockRepository) SearchBooks(ctx context.Context, q model.BookQuery) ([]model.Book, error) {
	m.calls++
	m.lastQuery = q
	if m.repoError != nil {
		return nil, m.repoError
	}
	return []model.Book{}, nil
}

func (m *mockRepository) CreateMember(ctx context.Context, in model.MemberInput) (*model.Member, error) {
	m.calls++
	if m.repoError != nil {
		return nil, m.repoError
	}
	mem := model.Member{ID: int64(len(m.members) + 1), Name: in.Name, Email: in.Email}
	m.members = append(m.members, mem)
	return &mem, nil
}

func TestService_CreateBook(t *testing.T) {
	mock := newMockRepository()
	svc := New(mock)

	b, err := svc.CreateBook(context.Background(), model.BookInput{Title: "Dune", Author: "Frank Herbert", Available: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)
}

func TestService_CreateBook_WrapsRepositoryError(t *testing.T) {
	mock := newMockRepository()
	mock.repoError = errors.New("disk full")
	svc := New(mock)

	_, err := svc.CreateBook(context.Background(), model.BookInput{Title: "Dune", Author: "Frank Herbert"})
	require.Error(t, err)
	assert.ErrorIs(t, err, mock.repoError)
	assert.Contains(t, err.Error(), "create book")
}

func TestService_UpdateBook_InvalidIDIsNotFound(t *testing.T) {
	mock := newMockRepository()
	svc := New(mock)

	_, err := svc.UpdateBook(context.Background(), 0, model.BookPatch{})
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.Zero(t, mock.calls, "repository must not be reached for impossible ids")
}

func TestService_DeleteBook_Twice(t *testing.T) {
	mock := newMockRepository()
	svc := New(mock)
	ctx := context.Background()

	b, err := svc.CreateBook(ctx, model.BookInput{Title: "Dune", Author: "Frank Herbert", Available: true})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, b.ID))
	assert.ErrorIs(t, svc.DeleteBook(ctx, b.ID), repo.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteBook(ctx, -1), repo.ErrNotFound)
}

func TestService_ListBooks(t *testing.T) {
	mock := newMockRepository()
	svc := New(mock)
	ctx := context.Background()
	for _, title := range []string{"A", "B", "C"} {
		_, err := svc.CreateBook(ctx, model.BookInput{Title: title, Author: "X", Available: true})
		require.NoError(t, err)
	}

	page, err := svc.ListBooks(ctx, model.Pagination{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, model.Pagination{Page: 2, PerPage: 2}, mock.lastPage)
	assert.EqualValues(t, 3, page.TotalBooks)
	assert.EqualValues(t, 2, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "C", page.Books[0].Title)
}

func TestService_SearchBooks_EmptyQuery(t *testing.T) {
	mock := newMockRepository()
	svc := New(mock)

	books, err := svc.SearchBooks(context.Background(), model.BookQuery{})
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.Zero(t, mock.calls)

	_, err = svc.SearchBooks(context.Background(), model.BookQuery{Author: "herbert"})
	require.NoError(t, err)
	assert.Equal(t, model.BookQuery{Author: "herbert"}, mock.lastQuery)
}

func TestService_CreateMember(t *testing.T) {
	mock := newMockRepository()
	svc := New(mock)

	m, err := svc.CreateMember(context.Background(), model.MemberInput{Name: "Anna Li", Email: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, model.Member{ID: 1, Name: "Anna Li", Email: "a@b.com"}, *m)
}

func TestService_Ping(t *testing.T) {
	mock := newMockRepository()
	svc := New(mock)
	assert.NoError(t, svc.Ping(context.Background()))

	mock.pingError = errors.New("connection refused")
	err := svc.Ping(context.Background())
	assert.ErrorIs(t, err, mock.pingError)
}
