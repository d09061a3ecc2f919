package repo

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htol/libapi/model"
)

func seedBooks(t *testing.T, r *Repo, inputs ...model.BookInput) []model.Book {
	t.Helper()
	books := make([]model.Book, 0, len(inputs))
	for _, in := range inputs {
		b, err := r.CreateBook(context.Background(), in)
		require.NoError(t, err)
		books = append(books, *b)
	}
	return books
}

func TestCreateAndGetBook(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.CreateBook(ctx, model.BookInput{Title: "Dune", Author: "Frank Herbert", Available: true})
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	got, err := r.GetBookByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	_, err = r.GetBookByID(ctx, created.ID+1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBook_PartialPatch(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBooks(t, r, model.BookInput{Title: "Dune", Author: "Frank Herbert", Available: true})[0]

	unavailable := false
	updated, err := r.UpdateBook(ctx, book.ID, model.BookPatch{Available: &unavailable})
	require.NoError(t, err)
	assert.Equal(t, model.Book{ID: book.ID, Title: "Dune", Author: "Frank Herbert", Available: false}, *updated)

	stored, err := r.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *stored)

	title := "Dune Messiah"
	updated, err = r.UpdateBook(ctx, book.ID, model.BookPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.False(t, updated.Available)

	unchanged, err := r.UpdateBook(ctx, book.ID, model.BookPatch{})
	require.NoError(t, err)
	assert.Equal(t, *updated, *unchanged)
}

func TestUpdateBook_NotFound(t *testing.T) {
	r := newTestRepo(t)
	title := "Nothing"
	_, err := r.UpdateBook(context.Background(), 99999, model.BookPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBook(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBooks(t, r, model.BookInput{Title: "Dune", Author: "Frank Herbert", Available: true})[0]

	require.NoError(t, r.DeleteBook(ctx, book.ID))
	assert.ErrorIs(t, r.DeleteBook(ctx, book.ID), ErrNotFound)
	assert.ErrorIs(t, r.DeleteBook(ctx, 99999), ErrNotFound)
}

func TestPageBooks(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	inputs := make([]model.BookInput, 0, 25)
	for i := 1; i <= 25; i++ {
		inputs = append(inputs, model.BookInput{Title: fmt.Sprintf("Book %02d", i), Author: "Author", Available: true})
	}
	seeded := seedBooks(t, r, inputs...)

	books, total, err := r.PageBooks(ctx, model.Pagination{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	require.Len(t, books, 10)
	assert.Equal(t, seeded[0], books[0], "pages are ordered by insertion")

	books, _, err = r.PageBooks(ctx, model.Pagination{Page: 3, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, books, 5)
	assert.Equal(t, seeded[24], books[4])

	books, total, err = r.PageBooks(ctx, model.Pagination{Page: 4, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.Empty(t, books)

	books, total, err = r.PageBooks(ctx, model.Pagination{Page: math.MaxInt, PerPage: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestSearchBooks(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedBooks(t, r,
		model.BookInput{Title: "Dune", Author: "Frank Herbert", Available: true},
		model.BookInput{Title: "Dune Messiah", Author: "Frank Herbert", Available: true},
		model.BookInput{Title: "Hyperion", Author: "Dan Simmons", Available: false},
	)

	books, err := r.SearchBooks(ctx, model.BookQuery{Title: "dun"})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Title)

	books, err = r.SearchBooks(ctx, model.BookQuery{Author: "SIMMONS"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Hyperion", books[0].Title)

	books, err = r.SearchBooks(ctx, model.BookQuery{Title: "messiah", Author: "herbert"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune Messiah", books[0].Title)

	books, err = r.SearchBooks(ctx, model.BookQuery{Title: "dune", Author: "simmons"})
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)
}
