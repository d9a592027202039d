package dbgen

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   pgtype.Timestamptz
}

type Document struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type DocumentRevision struct {
	ID         string
	DocumentID string
	Version    int32
	Data       []byte
	CreatedAt  pgtype.Timestamptz
}
