package dbgen

import (
	"context"
)

const createDocument = `-- name: CreateDocument :one
INSERT INTO documents (id, name, owner_id)
VALUES ($1, $2, $3)
RETURNING id, name, owner_id, created_at, updated_at
`

type CreateDocumentParams struct {
	ID      string
	Name    string
	OwnerID string
}

func (q *Queries) CreateDocument(ctx context.Context, arg CreateDocumentParams) (Document, error) {
	row := q.db.QueryRow(ctx, createDocument, arg.ID, arg.Name, arg.OwnerID)
	var i Document
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.OwnerID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getDocument = `-- name: GetDocument :one
SELECT id, name, owner_id, created_at, updated_at FROM documents
WHERE id = $1
`

func (q *Queries) GetDocument(ctx context.Context, id string) (Document, error) {
	row := q.db.QueryRow(ctx, getDocument, id)
	var i Document
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.OwnerID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listDocumentsForOwner = `-- name: ListDocumentsForOwner :many
SELECT id, name, owner_id, created_at, updated_at FROM documents
WHERE owner_id = $1
ORDER BY updated_at DESC
`

func (q *Queries) ListDocumentsForOwner(ctx context.Context, ownerID string) ([]Document, error) {
	rows, err := q.db.Query(ctx, listDocumentsForOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Document
	for rows.Next() {
		var i Document
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.OwnerID,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const touchDocument = `-- name: TouchDocument :exec
UPDATE documents SET updated_at = now()
WHERE id = $1
`

func (q *Queries) TouchDocument(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, touchDocument, id)
	return err
}

const deleteDocument = `-- name: DeleteDocument :execrows
DELETE FROM documents
WHERE id = $1
`

func (q *Queries) DeleteDocument(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteDocument, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
