package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/auro-editor/auro/internal/db/dbgen"
	"github.com/auro-editor/auro/internal/typeid"
)

type Postgres struct {
	pool    *pgxpool.Pool
	queries *dbgen.Queries
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, queries: dbgen.New(pool)}
}

func (s *Postgres) Create(ctx context.Context, id, ownerID, name string, data []byte) (*Meta, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)
	q := s.queries.WithTx(tx)

	doc, err := q.CreateDocument(ctx, dbgen.CreateDocumentParams{
		ID:      id,
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	_, err = q.CreateRevision(ctx, dbgen.CreateRevisionParams{
		ID:         typeid.NewRevisionID(),
		DocumentID: id,
		Version:    1,
		Data:       data,
	})
	if err != nil {
		return nil, fmt.Errorf("create initial revision: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return toMeta(doc, 1), nil
}

func (s *Postgres) Get(ctx context.Context, id string) (*Meta, error) {
	doc, err := s.queries.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	version := 0
	rev, err := s.queries.GetLatestRevision(ctx, id)
	switch {
	case err == nil:
		version = int(rev.Version)
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("get latest revision: %w", err)
	}
	return toMeta(doc, version), nil
}

func (s *Postgres) List(ctx context.Context, ownerID string) ([]Meta, error) {
	docs, err := s.queries.ListDocumentsForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]Meta, len(docs))
	for i, d := range docs {
		out[i] = *toMeta(d, 0)
	}
	return out, nil
}

func (s *Postgres) Load(ctx context.Context, id string) ([]byte, int, error) {
	rev, err := s.queries.GetLatestRevision(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("get latest revision: %w", err)
	}
	return rev.Data, int(rev.Version), nil
}

func (s *Postgres) Save(ctx context.Context, id string, data []byte) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)
	q := s.queries.WithTx(tx)

	if _, err := q.GetDocument(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get document: %w", err)
	}

	next := int32(1)
	latest, err := q.GetLatestRevision(ctx, id)
	switch {
	case err == nil:
		next = latest.Version + 1
	case !errors.Is(err, pgx.ErrNoRows):
		return 0, fmt.Errorf("get latest revision: %w", err)
	}

	_, err = q.CreateRevision(ctx, dbgen.CreateRevisionParams{
		ID:         typeid.NewRevisionID(),
		DocumentID: id,
		Version:    next,
		Data:       data,
	})
	if err != nil {
		return 0, fmt.Errorf("create revision: %w", err)
	}
	if err := q.TouchDocument(ctx, id); err != nil {
		return 0, fmt.Errorf("touch document: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int(next), nil
}

func (s *Postgres) Delete(ctx context.Context, id string) error {
	n, err := s.queries.DeleteDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toMeta(d dbgen.Document, version int) *Meta {
	return &Meta{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		Version:   version,
		CreatedAt: d.CreatedAt.Time,
		UpdatedAt: d.UpdatedAt.Time,
	}
}
