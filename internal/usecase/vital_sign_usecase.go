package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abreuwilliam/Desafio/config"
	"github.com/abreuwilliam/Desafio/internal/converter"
	"github.com/abreuwilliam/Desafio/internal/delivery/dto"
	"github.com/abreuwilliam/Desafio/internal/domain/entity"
	"github.com/abreuwilliam/Desafio/internal/domain/repository"
	"github.com/abreuwilliam/Desafio/internal/service"
	"github.com/abreuwilliam/Desafio/pkg/crypto"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientIDRequired   = errors.New("patientId is required")
	ErrInvalidTimestamp    = errors.New("invalid timestamp format, use ISO-8601")
	ErrFirstRecordIdentity = errors.New("patientName and patientCpf are required on the first record")
	ErrDecryptionFailed    = errors.New("failed to decrypt identity field")
)

// latestPerPatientLimit is the fixed size of the per-patient latest query.
const latestPerPatientLimit = 10

// timestampLayout accepts ISO-8601 local date-time literals with or
// without fractional seconds.
const timestampLayout = "2006-01-02T15:04:05.999999999"

type VitalSignUsecase interface {
	Ingest(ctx context.Context, req *dto.IngestVitalSignRequest) (*dto.StoredVitalSignResponse, error)
	LatestByPatient(ctx context.Context, patientID string) (*dto.VitalSignListResponse, error)
	HistoryByPatient(ctx context.Context, patientID string) (*dto.VitalSignListResponse, error)
	LatestGlobal(ctx context.Context, limit int) (*dto.VitalSignListResponse, error)
	HistoryGlobal(ctx context.Context) (*dto.VitalSignListResponse, error)
}

type vitalSignUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	recordRepo  repository.VitalSignRecordRepository
	resolver    *service.IdentityResolver
	cipher      *crypto.FieldCipher
	broadcaster service.Broadcaster
	queryConfig config.QueryConfig
	now         func() time.Time
}

func NewVitalSignUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	recordRepo repository.VitalSignRecordRepository,
	resolver *service.IdentityResolver,
	cipher *crypto.FieldCipher,
	broadcaster service.Broadcaster,
	queryConfig config.QueryConfig,
) VitalSignUsecase {
	return &vitalSignUsecase{
		db:          db,
		log:         log,
		recordRepo:  recordRepo,
		resolver:    resolver,
		cipher:      cipher,
		broadcaster: broadcaster,
		queryConfig: queryConfig,
		now:         time.Now,
	}
}

// Ingest runs a reading through validation, identity resolution,
// encryption and the durable write, then hands the stored record to
// the broadcaster. Success is defined by the write alone; broadcast
// outcome never changes the response.
func (u *vitalSignUsecase) Ingest(ctx context.Context, req *dto.IngestVitalSignRequest) (*dto.StoredVitalSignResponse, error) {
	if strings.TrimSpace(req.PatientID) == "" {
		return nil, ErrPatientIDRequired
	}

	timestamp, err := u.resolveTimestamp(req.Timestamp)
	if err != nil {
		return nil, err
	}

	// The lookup happens immediately before resolution. There is no
	// lock around lookup+write; concurrent same-patient ingests may
	// inherit from a record that is not truly the latest.
	prev, err := u.recordRepo.FindMostRecentByPatientID(ctx, u.db, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to look up most recent record for %s: %+v", req.PatientID, err)
		return nil, err
	}

	name, cpf, err := u.resolver.Resolve(req, prev)
	if err != nil {
		u.log.Warnf("Identity resolution failed for %s: %+v", req.PatientID, err)
		return nil, err
	}

	if prev == nil && (name == "" || cpf == "") {
		return nil, fmt.Errorf("%w: patient %s", ErrFirstRecordIdentity, req.PatientID)
	}

	record := &entity.VitalSignRecord{
		ID:                uuid.New(),
		PatientID:         req.PatientID,
		PatientName:       name,
		PatientCPF:        cpf,
		HeartRate:         req.HeartRate,
		OxygenSaturation:  req.OxygenSaturation,
		SystolicPressure:  req.SystolicPressure,
		DiastolicPressure: req.DiastolicPressure,
		Temperature:       req.Temperature,
		RespiratoryRate:   req.RespiratoryRate,
		Status:            req.Status,
		Timestamp:         timestamp,
	}

	if err := u.recordRepo.Create(ctx, u.db, record); err != nil {
		u.log.Warnf("Failed to persist record for %s: %+v", req.PatientID, err)
		return nil, err
	}

	u.broadcast(record)

	return converter.RecordToStoredResponse(record), nil
}

// broadcast enqueues the decrypted view of a stored record. Failures
// are logged and swallowed; the record is already durable.
func (u *vitalSignUsecase) broadcast(record *entity.VitalSignRecord) {
	view, err := converter.RecordToView(record, u.cipher)
	if err != nil {
		u.log.Warnf("Failed to build broadcast view for %s: %+v", record.PatientID, err)
		return
	}
	u.broadcaster.Publish(view)
}

func (u *vitalSignUsecase) resolveTimestamp(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return u.now(), nil
	}

	parsed, err := time.ParseInLocation(timestampLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidTimestamp
	}
	return parsed, nil
}

func (u *vitalSignUsecase) LatestByPatient(ctx context.Context, patientID string) (*dto.VitalSignListResponse, error) {
	records, err := u.recordRepo.FindTopNByPatientID(ctx, u.db, patientID, latestPerPatientLimit)
	if err != nil {
		u.log.Warnf("Failed to load latest records for %s: %+v", patientID, err)
		return nil, err
	}
	return u.toListResponse(records)
}

func (u *vitalSignUsecase) HistoryByPatient(ctx context.Context, patientID string) (*dto.VitalSignListResponse, error) {
	records, err := u.recordRepo.FindByPatientID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to load history for %s: %+v", patientID, err)
		return nil, err
	}
	return u.toListResponse(records)
}

// LatestGlobal returns the newest records across all patients. A
// non-positive limit falls back to the configured default; anything
// else is clamped into the configured bounds.
func (u *vitalSignUsecase) LatestGlobal(ctx context.Context, limit int) (*dto.VitalSignListResponse, error) {
	if limit <= 0 {
		limit = u.queryConfig.DefaultLimit
	}
	if limit < u.queryConfig.MinLimit {
		limit = u.queryConfig.MinLimit
	}
	if limit > u.queryConfig.MaxLimit {
		limit = u.queryConfig.MaxLimit
	}

	records, err := u.recordRepo.FindTopNGlobal(ctx, u.db, limit)
	if err != nil {
		u.log.Warnf("Failed to load latest global records: %+v", err)
		return nil, err
	}
	return u.toListResponse(records)
}

func (u *vitalSignUsecase) HistoryGlobal(ctx context.Context) (*dto.VitalSignListResponse, error) {
	records, err := u.recordRepo.FindAllGlobal(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to load global history: %+v", err)
		return nil, err
	}
	return u.toListResponse(records)
}

// toListResponse decrypts every record; a single cipher failure fails
// the whole call rather than returning a partial list.
func (u *vitalSignUsecase) toListResponse(records []entity.VitalSignRecord) (*dto.VitalSignListResponse, error) {
	views := make([]dto.VitalSignView, len(records))
	for i := range records {
		view, err := converter.RecordToView(&records[i], u.cipher)
		if err != nil {
			u.log.Warnf("Failed to decrypt record %s: %+v", records[i].ID, err)
			return nil, fmt.Errorf("%w: record %s", ErrDecryptionFailed, records[i].ID)
		}
		views[i] = *view
	}

	return &dto.VitalSignListResponse{
		Records: views,
		Total:   len(views),
	}, nil
}
