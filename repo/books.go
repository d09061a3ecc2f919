package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/htol/libapi/model"
)

const (
	booksTable = "books"

	colID        = "id"
	colTitle     = "title"
	colAuthor    = "author"
	colAvailable = "available"
)

var bookColumns = []interface{}{colID, colTitle, colAuthor, colAvailable}

func (r *Repo) CreateBook(ctx context.Context, in model.BookInput) (*model.Book, error) {
	ds := r.dialect.Insert(booksTable).Rows(goqu.Record{
		colTitle:     in.Title,
		colAuthor:    in.Author,
		colAvailable: in.Available,
	})

	id, err := r.insertID(ctx, r.db, ds)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	return &model.Book{ID: id, Title: in.Title, Author: in.Author, Available: in.Available}, nil
}

// GetBookByID reads one book back; no route serves it
func (r *Repo) GetBookByID(ctx context.Context, id int64) (*model.Book, error) {
	return r.getBook(ctx, r.db, id)
}

func (r *Repo) getBook(ctx context.Context, db sqlx.QueryerContext, id int64) (*model.Book, error) {
	query, args, err := toSQL(r.dialect.From(booksTable).
		Select(bookColumns...).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	var b model.Book
	if err := sqlx.GetContext(ctx, db, &b, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &b, nil
}

func (r *Repo) UpdateBook(ctx context.Context, id int64, patch model.BookPatch) (*model.Book, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer rollback(tx)

	current, err := r.getBook(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*current)

	if !patch.Empty() {
		query, args, err := toSQL(r.dialect.Update(booksTable).
			Set(goqu.Record{
				colTitle:     updated.Title,
				colAuthor:    updated.Author,
				colAvailable: updated.Available,
			}).
			Where(goqu.C(colID).Eq(id)).
			Prepared(true))
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("update book %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return &updated, nil
}

func (r *Repo) DeleteBook(ctx context.Context, id int64) error {
	query, args, err := toSQL(r.dialect.Delete(booksTable).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true))
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) PageBooks(ctx context.Context, p model.Pagination) ([]model.Book, int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin list: %w", err)
	}
	defer rollback(tx)

	countQuery, countArgs, err := toSQL(r.dialect.From(booksTable).
		Select(goqu.COUNT(goqu.Star())).
		Prepared(true))
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := sqlx.GetContext(ctx, tx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	if p.PastEnd(total) {
		if err := tx.Commit(); err != nil {
			return nil, 0, fmt.Errorf("commit list: %w", err)
		}
		return []model.Book{}, total, nil
	}

	query, args, err := toSQL(r.dialect.From(booksTable).
		Select(bookColumns...).
		Order(goqu.C(colID).Asc()).
		Limit(uint(p.PerPage)).
		Offset(uint(p.Offset())).
		Prepared(true))
	if err != nil {
		return nil, 0, err
	}
	books := make([]model.Book, 0, p.PerPage)
	if err := sqlx.SelectContext(ctx, tx, &books, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit list: %w", err)
	}
	return books, total, nil
}

func (r *Repo) SearchBooks(ctx context.Context, q model.BookQuery) ([]model.Book, error) {
	ds := r.dialect.From(booksTable).Select(bookColumns...)
	if q.Title != "" {
		ds = ds.Where(goqu.C(colTitle).ILike("%" + q.Title + "%"))
	}
	if q.Author != "" {
		ds = ds.Where(goqu.C(colAuthor).ILike("%" + q.Author + "%"))
	}

	query, args, err := toSQL(ds.Order(goqu.C(colID).Asc()).Prepared(true))
	if err != nil {
		return nil, err
	}

	books := make([]model.Book, 0)
	if err := sqlx.SelectContext(ctx, r.db, &books, query, args...); err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}
