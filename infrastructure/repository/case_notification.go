// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/casos-es-api/infrastructure/database/postgres"
	"github.com/vfg2006/casos-es-api/internal/config"
	"github.com/vfg2006/casos-es-api/internal/domain"
)

// Colunas lidas da tabela de notificações do SINAN
const (
	columnDescription         = "descricao"
	columnMunicipality        = "municipio_paciente"
	columnNotificationDate    = "data_notificacao"
	columnFinalClassification = "classif_final"
	columnCaseOutcome         = "evoluc_caso"
)

//go:generate mockgen -source=case_notification.go -destination=mocks/mock_case_notification.go -package=mocks

// CaseNotificationRepository entrega a tabela completa de notificações.
// Nenhum filtro, ordenação ou paginação é enviado à fonte.
type CaseNotificationRepository interface {
	ListCases(ctx context.Context) ([]domain.CaseRecord, error)
}

type caseNotificationRepository struct {
	conn        postgres.Queryer
	table       string
	placeholder squirrel.PlaceholderFormat
}

func NewCaseNotificationRepository(conn postgres.Queryer, driver string, table string) CaseNotificationRepository {
	var placeholder squirrel.PlaceholderFormat = squirrel.Dollar
	if driver == config.DriverMySQL {
		placeholder = squirrel.Question
	}

	return &caseNotificationRepository{
		conn:        conn,
		table:       table,
		placeholder: placeholder,
	}
}

func (r *caseNotificationRepository) ListCases(ctx context.Context) ([]domain.CaseRecord, error) {
	sqlQuery, args, err := squirrel.
		Select(
			columnDescription,
			columnMunicipality,
			columnNotificationDate,
			columnFinalClassification,
			columnCaseOutcome,
		).
		From(r.table).
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de casos")
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao consultar a tabela %s", r.table)
	}
	defer rows.Close()

	cases := make([]domain.CaseRecord, 0)
	for rows.Next() {
		record, err := scanCaseRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear notificação")
		}
		cases = append(cases, record)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de linhas")
	}

	return cases, nil
}

// scanCaseRecord lê todas as colunas como texto; colunas DATE/TIMESTAMP chegam
// formatadas em RFC3339 e são interpretadas pela série semanal.
func scanCaseRecord(rows *sql.Rows) (domain.CaseRecord, error) {
	var description, municipality, notificationDate, classification, outcome sql.NullString

	err := rows.Scan(
		&description,
		&municipality,
		&notificationDate,
		&classification,
		&outcome,
	)
	if err != nil {
		return domain.CaseRecord{}, err
	}

	return domain.CaseRecord{
		Description:         nullable(description),
		Municipality:        nullable(municipality),
		NotificationDate:    nullable(notificationDate),
		FinalClassification: nullable(classification),
		CaseOutcome:         nullable(outcome),
	}, nil
}

func nullable(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}
