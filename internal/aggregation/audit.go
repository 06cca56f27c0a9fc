package aggregation

import (
	"time"

	"github.com/vfg2006/casos-es-api/internal/domain"
)

// Audit resume valores ausentes e datas inválidas da tabela completa
func Audit(dataset []domain.CaseRecord, now time.Time) domain.DatasetAudit {
	audit := domain.DatasetAudit{
		Rows:      len(dataset),
		AuditedAt: now,
	}

	for _, record := range dataset {
		if record.Description == nil {
			audit.MissingDescription++
		}
		if record.Municipality == nil {
			audit.MissingMunicipality++
		}
		if _, ok := ParseNotificationDate(record.NotificationDate); !ok {
			audit.UnparseableDate++
		}
		if record.FinalClassification == nil {
			audit.MissingFinalClassification++
		}
		if record.CaseOutcome == nil {
			audit.MissingCaseOutcome++
		}
	}

	options := Options(dataset)
	audit.Diseases = len(options.Diseases)
	audit.Municipalities = len(options.Municipalities) - 1

	return audit
}
