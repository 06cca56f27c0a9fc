// Package datasource escolhe a fonte da tabela de notificações conforme a configuração
package datasource

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/casos-es-api/infrastructure/database/mysql"
	"github.com/vfg2006/casos-es-api/infrastructure/database/postgres"
	"github.com/vfg2006/casos-es-api/infrastructure/datasource/fixture"
	"github.com/vfg2006/casos-es-api/infrastructure/repository"
	"github.com/vfg2006/casos-es-api/internal/config"
)

// Handle é a fonte aberta uma vez por processo e fechada no desligamento
type Handle struct {
	Repository repository.CaseNotificationRepository
	close      func() error
}

func (h *Handle) Close() error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close()
}

// Open abre a fonte configurada. Para bancos, a conexão é testada antes de retornar.
func Open(ctx context.Context, cfg *config.Config) (*Handle, error) {
	switch cfg.Source.Type {
	case config.SourceFixture:
		logrus.WithField("path", cfg.Source.FixturePath).Info("Usando fixture YAML como fonte de notificações")
		return &Handle{Repository: fixture.NewSource(cfg.Source.FixturePath)}, nil

	case config.SourceDatabase:
		return openDatabase(ctx, cfg)

	default:
		return nil, errors.Errorf("datasource: tipo de fonte desconhecido: %q", cfg.Source.Type)
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (*Handle, error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		conn, err := mysql.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		logrus.Info("Conexão com MySQL estabelecida com sucesso")
		return &Handle{
			Repository: repository.NewCaseNotificationRepository(conn, cfg.Database.Driver, cfg.Source.Table),
			close:      conn.Close,
		}, nil

	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
		return &Handle{
			Repository: repository.NewCaseNotificationRepository(conn, cfg.Database.Driver, cfg.Source.Table),
			close:      conn.Close,
		}, nil

	default:
		return nil, errors.Errorf("datasource: driver de banco não suportado: %q", cfg.Database.Driver)
	}
}
