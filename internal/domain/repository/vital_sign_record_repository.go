package repository

import (
	"context"

	"github.com/abreuwilliam/Desafio/internal/domain/entity"

	"gorm.io/gorm"
)

// VitalSignRecordRepository is the storage port of the ingestion
// pipeline and query service. All list results are ordered by
// timestamp descending. Lookup methods return (nil, nil) when no
// record exists.
type VitalSignRecordRepository interface {
	Create(ctx context.Context, db *gorm.DB, record *entity.VitalSignRecord) error
	FindMostRecentByPatientID(ctx context.Context, db *gorm.DB, patientID string) (*entity.VitalSignRecord, error)
	FindTopNByPatientID(ctx context.Context, db *gorm.DB, patientID string, n int) ([]entity.VitalSignRecord, error)
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID string) ([]entity.VitalSignRecord, error)
	FindTopNGlobal(ctx context.Context, db *gorm.DB, n int) ([]entity.VitalSignRecord, error)
	FindAllGlobal(ctx context.Context, db *gorm.DB) ([]entity.VitalSignRecord, error)
}
