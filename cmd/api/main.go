package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/casos-es-api/infrastructure/datasource"
	"github.com/vfg2006/casos-es-api/internal/api"
	"github.com/vfg2006/casos-es-api/internal/config"
	"github.com/vfg2006/casos-es-api/internal/scheduler"
	"github.com/vfg2006/casos-es-api/internal/usecases/dashboard"
	"github.com/vfg2006/casos-es-api/pkg/metrics"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, err := datasource.Open(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir a fonte de notificações")
	}
	defer func() {
		if err := source.Close(); err != nil {
			logrus.WithError(err).Error("Erro ao fechar a fonte de notificações")
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	dashboardService := dashboard.NewService(source.Repository, recorder, cfg.Dashboard)

	datasetAuditService := scheduler.NewDatasetAuditService(source.Repository, recorder, cfg)
	if err := datasetAuditService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de auditoria da tabela")
	} else {
		logrus.Info("Agendador de auditoria da tabela iniciado com sucesso")
	}

	server, err := api.New(cfg, dashboardService, datasetAuditService, registry)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
