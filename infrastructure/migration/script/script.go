// Script de carga local: cria a tabela de notificações no Postgres e a
// preenche a partir do fixture YAML configurado em SOURCE_FIXTURE_PATH.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/vfg2006/casos-es-api/infrastructure/database/postgres"
	"github.com/vfg2006/casos-es-api/infrastructure/datasource/fixture"
	"github.com/vfg2006/casos-es-api/internal/aggregation"
	"github.com/vfg2006/casos-es-api/internal/config"
	"github.com/vfg2006/casos-es-api/internal/domain"
	"github.com/vfg2006/casos-es-api/pkg/utils"
)

func setupLogger() {
	// Configura o logger para incluir data, hora e arquivo
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Iniciando script de carga das notificações...")
}

// quoteTable aceita "tabela" ou "schema.tabela"
func quoteTable(table string) (schema string, quoted string) {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 1 {
		return "", pq.QuoteIdentifier(parts[0])
	}
	return parts[0], pq.QuoteIdentifier(parts[0]) + "." + pq.QuoteIdentifier(parts[1])
}

func createTable(ctx context.Context, conn *postgres.Connection, table string) error {
	schema, quoted := quoteTable(table)

	if schema != "" {
		log.Printf("Garantindo schema %s...", schema)
		if _, err := conn.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(schema)); err != nil {
			return fmt.Errorf("erro ao criar schema %s: %w", schema, err)
		}
	}

	log.Printf("Garantindo tabela %s...", table)
	_, err := conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+quoted+` (
		id VARCHAR(8) PRIMARY KEY,
		descricao TEXT,
		municipio_paciente TEXT,
		data_notificacao DATE,
		classif_final TEXT,
		evoluc_caso TEXT
	)`)
	if err != nil {
		return fmt.Errorf("erro ao criar tabela %s: %w", table, err)
	}

	return nil
}

// notificationDate converte a data do fixture para a coluna DATE; datas inválidas viram NULL
func notificationDate(raw *string) sql.NullTime {
	date, ok := aggregation.ParseNotificationDate(raw)
	if !ok {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: date, Valid: true}
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func insertCases(ctx context.Context, tx *sql.Tx, table string, cases []domain.CaseRecord) (int, error) {
	log.Printf("Iniciando inserção de %d notificações...", len(cases))
	startTime := time.Now()

	_, quoted := quoteTable(table)
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+quoted+` (id, descricao, municipio_paciente, data_notificacao, classif_final, evoluc_caso) VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return 0, fmt.Errorf("erro ao preparar statement para %s: %w", table, err)
	}
	defer stmt.Close()

	successCount := 0
	invalidDateCount := 0

	for i, c := range cases {
		id, err := utils.GenerateID()
		if err != nil {
			return successCount, fmt.Errorf("erro ao gerar id da notificação %d: %w", i+1, err)
		}

		date := notificationDate(c.NotificationDate)
		if !date.Valid && c.NotificationDate != nil {
			log.Printf("AVISO: data inválida na notificação [%d/%d]: %q, gravada como NULL", i+1, len(cases), *c.NotificationDate)
			invalidDateCount++
		}

		_, err = stmt.ExecContext(ctx,
			id,
			nullString(c.Description),
			nullString(c.Municipality),
			date,
			nullString(c.FinalClassification),
			nullString(c.CaseOutcome),
		)
		if err != nil {
			return successCount, fmt.Errorf("erro ao inserir notificação [%d/%d]: %w", i+1, len(cases), err)
		}
		successCount++

		if i > 0 && i%50 == 0 {
			log.Printf("Progresso: %d/%d notificações processadas", i+1, len(cases))
		}
	}

	elapsed := time.Since(startTime)
	log.Printf("Inserção concluída em %v. Sucesso: %d, Datas inválidas: %d", elapsed, successCount, invalidDateCount)

	return successCount, nil
}

// seed recria o conteúdo da tabela dentro de uma única transação
func seed(ctx context.Context, conn *postgres.Connection, table string, cases []domain.CaseRecord) error {
	if err := createTable(ctx, conn, table); err != nil {
		return err
	}

	_, quoted := quoteTable(table)
	return conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+quoted); err != nil {
			return fmt.Errorf("erro ao limpar %s: %w", table, err)
		}

		_, err := insertCases(ctx, tx, table, cases)
		return err
	})
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("ERRO ao carregar configuração: %v", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("ERRO: o script de carga só suporta %s, recebido %q", config.DriverPostgres, cfg.Database.Driver)
	}

	f, err := os.Open(cfg.Source.FixturePath)
	if err != nil {
		log.Fatalf("ERRO ao abrir fixture %s: %v", cfg.Source.FixturePath, err)
	}
	cases, err := fixture.Decode(f)
	f.Close()
	if err != nil {
		log.Fatalf("ERRO ao ler fixture: %v", err)
	}
	log.Printf("Total de %d notificações lidas de %s", len(cases), cfg.Source.FixturePath)

	ctx := context.Background()

	log.Println("Conectando ao banco de dados...")
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("ERRO ao conectar ao banco de dados: %v", err)
	}
	defer conn.Close()
	log.Println("Conexão com o banco de dados estabelecida com sucesso")

	startTime := time.Now()
	if err := seed(ctx, conn, cfg.Source.Table, cases); err != nil {
		log.Printf("ERRO na carga: %v", err)
		os.Exit(1)
	}

	log.Printf("Carga inicial concluída em %v!", time.Since(startTime))
}
