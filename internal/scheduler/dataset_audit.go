// Package scheduler contém os serviços agendados que acompanham a tabela de notificações
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/casos-es-api/infrastructure/repository"
	"github.com/vfg2006/casos-es-api/internal/aggregation"
	"github.com/vfg2006/casos-es-api/internal/config"
	"github.com/vfg2006/casos-es-api/internal/domain"
	"github.com/vfg2006/casos-es-api/pkg/metrics"
)

type DatasetAuditConfig struct {
	CronSchedule string
	Enabled      bool
}

// DatasetAuditService lê a tabela completa periodicamente e publica a
// contagem de linhas, de valores ausentes e de datas inválidas
type DatasetAuditService struct {
	scheduler            *gocron.Scheduler
	caseRepository       repository.CaseNotificationRepository
	recorder             *metrics.Recorder
	config               DatasetAuditConfig
	now                  func() time.Time
	auditRunning         bool
	auditMutex           sync.Mutex
	lastAuditStartedAt   time.Time
	lastAuditCompletedAt time.Time
	lastAudit            *domain.DatasetAudit
	lastAuditError       string
}

func NewDatasetAuditService(
	caseRepository repository.CaseNotificationRepository,
	recorder *metrics.Recorder,
	cfg *config.Config,
) *DatasetAuditService {
	auditConfig := DatasetAuditConfig{
		CronSchedule: cfg.DatasetAudit.CronSchedule, // Default: 6h da manhã todos os dias
		Enabled:      cfg.DatasetAudit.Enabled,      // Default: desabilitado
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": auditConfig.CronSchedule,
	}).Info("Configuração do agendador de auditoria da tabela carregada")

	return &DatasetAuditService{
		scheduler:      gocron.NewScheduler(time.Local),
		caseRepository: caseRepository,
		recorder:       recorder,
		config:         auditConfig,
		now:            time.Now,
	}
}

func (s *DatasetAuditService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de auditoria da tabela desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de auditoria da tabela")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.RunAudit(ctx); err != nil {
			logrus.WithError(err).Error("Erro na auditoria da tabela de notificações")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar auditoria da tabela: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de auditoria da tabela")
		s.scheduler.Stop()
	}()

	return nil
}

// RunAudit executa uma auditoria completa. Retorna nil sem erro quando outra
// auditoria já está em andamento.
func (s *DatasetAuditService) RunAudit(ctx context.Context) (*domain.DatasetAudit, error) {
	s.auditMutex.Lock()
	if s.auditRunning {
		s.auditMutex.Unlock()
		logrus.Warn("Auditoria da tabela já está em execução")
		return nil, nil
	}
	s.auditRunning = true
	s.lastAuditStartedAt = s.now()
	s.auditMutex.Unlock()

	audit, err := s.audit(ctx)

	s.auditMutex.Lock()
	defer s.auditMutex.Unlock()

	s.auditRunning = false
	s.lastAuditCompletedAt = s.now()
	if err != nil {
		s.lastAuditError = err.Error()
		return nil, err
	}
	s.lastAuditError = ""
	s.lastAudit = audit

	return audit, nil
}

func (s *DatasetAuditService) audit(ctx context.Context) (*domain.DatasetAudit, error) {
	logrus.Info("Iniciando auditoria da tabela de notificações")

	startedAt := time.Now()
	dataset, err := s.caseRepository.ListCases(ctx)
	s.recorder.ObserveFetch(time.Since(startedAt), err)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar notificações para auditoria: %w", err)
	}

	audit := aggregation.Audit(dataset, s.now())
	s.recorder.SetDatasetAudit(audit.Rows, audit.MissingByColumn(), audit.AuditedAt)

	logrus.WithFields(logrus.Fields{
		"dataset_rows":                 audit.Rows,
		"dataset_missing_description":  audit.MissingDescription,
		"dataset_missing_municipality": audit.MissingMunicipality,
		"dataset_unparseable_date":     audit.UnparseableDate,
		"dataset_diseases":             audit.Diseases,
		"dataset_municipalities":       audit.Municipalities,
	}).Info("Auditoria da tabela de notificações concluída")

	return &audit, nil
}

// TriggerManualSync inicia manualmente uma auditoria da tabela
func (s *DatasetAuditService) TriggerManualSync() {
	s.auditMutex.Lock()
	if s.auditRunning {
		s.auditMutex.Unlock()
		logrus.Info("Auditoria da tabela já em andamento, ignorando solicitação manual")
		return
	}
	s.auditMutex.Unlock()

	logrus.Info("Iniciando auditoria manual da tabela")
	go func() {
		if _, err := s.RunAudit(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na auditoria manual da tabela de notificações")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *DatasetAuditService) GetStatus() map[string]any {
	s.auditMutex.Lock()
	defer s.auditMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"running":                s.auditRunning,
		"last_sync_started_at":   s.lastAuditStartedAt,
		"last_sync_completed_at": s.lastAuditCompletedAt,
		"last_error":             s.lastAuditError,
		"last_audit":             s.lastAudit,
	}
}
