package dbgen

import (
	"context"
)

const createRevision = `-- name: CreateRevision :one
INSERT INTO document_revisions (id, document_id, version, data)
VALUES ($1, $2, $3, $4)
RETURNING id, document_id, version, data, created_at
`

type CreateRevisionParams struct {
	ID         string
	DocumentID string
	Version    int32
	Data       []byte
}

func (q *Queries) CreateRevision(ctx context.Context, arg CreateRevisionParams) (DocumentRevision, error) {
	row := q.db.QueryRow(ctx, createRevision,
		arg.ID,
		arg.DocumentID,
		arg.Version,
		arg.Data,
	)
	var i DocumentRevision
	err := row.Scan(
		&i.ID,
		&i.DocumentID,
		&i.Version,
		&i.Data,
		&i.CreatedAt,
	)
	return i, err
}

const getLatestRevision = `-- name: GetLatestRevision :one
SELECT id, document_id, version, data, created_at FROM document_revisions
WHERE document_id = $1
ORDER BY version DESC
LIMIT 1
`

func (q *Queries) GetLatestRevision(ctx context.Context, documentID string) (DocumentRevision, error) {
	row := q.db.QueryRow(ctx, getLatestRevision, documentID)
	var i DocumentRevision
	err := row.Scan(
		&i.ID,
		&i.DocumentID,
		&i.Version,
		&i.Data,
		&i.CreatedAt,
	)
	return i, err
}
