package repository

import (
	"context"
	"errors"

	"github.com/abreuwilliam/Desafio/internal/domain/entity"
	domainRepo "github.com/abreuwilliam/Desafio/internal/domain/repository"

	"gorm.io/gorm"
)

type vitalSignRecordRepository struct{}

func NewVitalSignRecordRepository() domainRepo.VitalSignRecordRepository {
	return &vitalSignRecordRepository{}
}

func (r *vitalSignRecordRepository) Create(ctx context.Context, db *gorm.DB, record *entity.VitalSignRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *vitalSignRecordRepository) FindMostRecentByPatientID(ctx context.Context, db *gorm.DB, patientID string) (*entity.VitalSignRecord, error) {
	var record entity.VitalSignRecord
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("timestamp DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *vitalSignRecordRepository) FindTopNByPatientID(ctx context.Context, db *gorm.DB, patientID string, n int) ([]entity.VitalSignRecord, error) {
	var records []entity.VitalSignRecord
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("timestamp DESC").
		Limit(n).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *vitalSignRecordRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID string) ([]entity.VitalSignRecord, error) {
	var records []entity.VitalSignRecord
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("timestamp DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *vitalSignRecordRepository) FindTopNGlobal(ctx context.Context, db *gorm.DB, n int) ([]entity.VitalSignRecord, error) {
	var records []entity.VitalSignRecord
	err := db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(n).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *vitalSignRecordRepository) FindAllGlobal(ctx context.Context, db *gorm.DB) ([]entity.VitalSignRecord, error) {
	var records []entity.VitalSignRecord
	err := db.WithContext(ctx).
		Order("timestamp DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
