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
	membersTable = "members"

	colName  = "name"
	colEmail = "email"
)

func (r *Repo) CreateMember(ctx context.Context, in model.MemberInput) (*model.Member, error) {
	ds := r.dialect.Insert(membersTable).Rows(goqu.Record{
		colName:  in.Name,
		colEmail: in.Email,
	})

	id, err := r.insertID(ctx, r.db, ds)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return &model.Member{ID: id, Name: in.Name, Email: in.Email}, nil
}

// GetMemberByID reads one member back; no route serves it
func (r *Repo) GetMemberByID(ctx context.Context, id int64) (*model.Member, error) {
	query, args, err := toSQL(r.dialect.From(membersTable).
		Select(colID, colName, colEmail).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true))
	if err != nil {
		return nil, err
	}

	var m model.Member
	if err := sqlx.GetContext(ctx, r.db, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get member %d: %w", id, err)
	}
	return &m, nil
}
