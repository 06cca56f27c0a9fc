// Package mysql conecta a fonte de notificações a um MySQL/MariaDB
package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/vfg2006/casos-es-api/internal/config"
)

type Connection struct {
	*sql.DB
}

// FormatDSN converte DATABASE_URL (host:porta/banco[?params]) no DSN do driver
func FormatDSN(cfg config.Database) (string, error) {
	address, database, found := strings.Cut(cfg.URL, "/")
	if !found || address == "" || database == "" {
		return "", errors.Errorf("mysql: DATABASE_URL inválida, esperado host:porta/banco: %q", cfg.URL)
	}

	database, rawParams, _ := strings.Cut(database, "?")

	driverCfg := mysql.NewConfig()
	driverCfg.User = cfg.User
	driverCfg.Passwd = cfg.Password
	driverCfg.Net = "tcp"
	driverCfg.Addr = address
	driverCfg.DBName = database

	if rawParams != "" {
		driverCfg.Params = make(map[string]string)
		for _, pair := range strings.Split(rawParams, "&") {
			key, value, _ := strings.Cut(pair, "=")
			if key != "" {
				driverCfg.Params[key] = value
			}
		}
	}

	return driverCfg.FormatDSN(), nil
}

func NewConnection(ctx context.Context, cfg config.Database) (*Connection, error) {
	dsn, err := FormatDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "mysql: erro ao abrir conexão")
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "mysql: erro ao testar conexão")
	}

	return &Connection{DB: db}, nil
}
