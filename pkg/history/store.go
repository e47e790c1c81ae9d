package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/noshow-ai/platform/pkg/common/logger"
	"github.com/noshow-ai/platform/pkg/common/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Estados that count as a no-show in the historical aggregates. These
// match the scheduler's appointment states, not a cleaned-up enum.
var noShowEstados = []string{"Cancelada", "No llegó"}

const estadoCompletada = "Completada"

// Cita is one row of the scheduler's appointment ledger.
type Cita struct {
	ID            uint              `gorm:"primaryKey;column:id"`
	PacienteID    *string           `gorm:"column:paciente_id;index"`
	FechaConsulta time.Time         `gorm:"column:fecha_consulta"`
	Estado        string            `gorm:"column:estado"`
	Archivado     bool              `gorm:"column:archivado"`
	Metadata      datatypes.JSONMap `gorm:"column:metadata"`
}

func (Cita) TableName() string {
	return "citas"
}

// Store computes per-patient historical aggregates from the ledger, with
// a Redis cache in front so repeated scoring of the same patient does not
// hit Postgres each time.
type Store struct {
	db       *gorm.DB
	cache    *redis.Client
	cacheTTL time.Duration
	now      func() time.Time
}

func NewStore(db *gorm.DB, cache *redis.Client, cacheTTL time.Duration) *Store {
	return &Store{db: db, cache: cache, cacheTTL: cacheTTL, now: time.Now}
}

func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&Cita{})
}

func cacheKey(patientID string) string {
	return fmt.Sprintf("history:%s", patientID)
}

// GetHistory returns the aggregates for a registered patient, from cache
// when fresh.
func (s *Store) GetHistory(ctx context.Context, patientID string) (*models.PatientHistory, error) {
	if patientID == "" {
		return nil, errors.New("patient id required")
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey(patientID)).Result(); err == nil {
			var history models.PatientHistory
			if err := json.Unmarshal([]byte(cached), &history); err == nil {
				return &history, nil
			}
		}
	}

	history, err := s.computeHistory(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(history); err == nil {
			if err := s.cache.Set(ctx, cacheKey(patientID), payload, s.cacheTTL).Err(); err != nil {
				logger.Log.WithError(err).WithField("patient_id", patientID).Warn("Failed to cache history")
			}
		}
	}

	return history, nil
}

func (s *Store) computeHistory(ctx context.Context, patientID string) (*models.PatientHistory, error) {
	now := s.now()
	base := s.db.WithContext(ctx).Model(&Cita{}).
		Where("paciente_id = ?", patientID).
		Where("fecha_consulta < ?", now).
		Where("archivado = ?", false).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var noShows int64
	if err := base.Where("estado IN ?", noShowEstados).Count(&noShows).Error; err != nil {
		return nil, err
	}

	var lastCompleted sql.NullTime
	err := base.Where("estado = ?", estadoCompletada).
		Select("MAX(fecha_consulta)").
		Scan(&lastCompleted).Error
	if err != nil {
		return nil, err
	}

	history := &models.PatientHistory{
		PatientID:    patientID,
		TotalCitas:   int(total),
		TotalNoShows: int(noShows),
	}
	if total > 0 {
		history.PctNoShowHistorico = float64(noShows) / float64(total)
	}
	if lastCompleted.Valid {
		history.DiasDesdeUltimaCita = int(now.Sub(lastCompleted.Time).Hours() / 24)
	}
	return history, nil
}

// Enrich fills the historical aggregate fields of a record that names a
// registered patient but arrived without them. Records that already carry
// aggregates are left untouched: the caller's numbers win.
func (s *Store) Enrich(ctx context.Context, record *models.AppointmentRecord, patientID string) {
	if patientID == "" {
		return
	}
	if record.TotalCitas != nil || record.TotalNoShows != nil ||
		record.PctNoShowHistorico != nil || record.DiasDesdeUltimaCita != nil {
		return
	}
	history, err := s.GetHistory(ctx, patientID)
	if err != nil {
		logger.Log.WithError(err).WithField("patient_id", patientID).Warn("History enrichment failed")
		return
	}
	record.TotalCitas = history.TotalCitas
	record.TotalNoShows = history.TotalNoShows
	record.PctNoShowHistorico = history.PctNoShowHistorico
	record.DiasDesdeUltimaCita = history.DiasDesdeUltimaCita
}
