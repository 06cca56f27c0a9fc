package postgres

import (
	"context"
	"database/sql"
)

// Queryer é o mínimo que os repositórios precisam de uma conexão SQL.
// *sql.DB, *sql.Tx e as conexões deste pacote e do pacote mysql o satisfazem.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
