package converter

import (
	"github.com/abreuwilliam/Desafio/internal/delivery/dto"
	"github.com/abreuwilliam/Desafio/internal/domain/entity"
	"github.com/abreuwilliam/Desafio/pkg/crypto"
)

// TimestampLayout is the ISO-8601 local date-time literal used on the
// wire, matching the format readings are ingested with.
const TimestampLayout = "2006-01-02T15:04:05"

// RecordToStoredResponse maps a persisted record to the ingestion
// response. Identity fields stay as the stored ciphertext tokens.
func RecordToStoredResponse(record *entity.VitalSignRecord) *dto.StoredVitalSignResponse {
	if record == nil {
		return nil
	}

	return &dto.StoredVitalSignResponse{
		ID:                record.ID,
		PatientID:         record.PatientID,
		PatientName:       record.PatientName,
		PatientCPF:        record.PatientCPF,
		HeartRate:         record.HeartRate,
		OxygenSaturation:  record.OxygenSaturation,
		SystolicPressure:  record.SystolicPressure,
		DiastolicPressure: record.DiastolicPressure,
		Temperature:       record.Temperature,
		RespiratoryRate:   record.RespiratoryRate,
		Status:            record.Status,
		Timestamp:         record.Timestamp.Format(TimestampLayout),
	}
}

// RecordToView maps a persisted record to its public view, decrypting
// the identity fields. A cipher failure on either field fails the
// whole conversion.
func RecordToView(record *entity.VitalSignRecord, cipher *crypto.FieldCipher) (*dto.VitalSignView, error) {
	name := record.PatientName
	if name != "" {
		decrypted, err := cipher.Decrypt(name)
		if err != nil {
			return nil, err
		}
		name = decrypted
	}

	cpf := record.PatientCPF
	if cpf != "" {
		decrypted, err := cipher.Decrypt(cpf)
		if err != nil {
			return nil, err
		}
		cpf = decrypted
	}

	return &dto.VitalSignView{
		ID:                record.ID,
		PatientID:         record.PatientID,
		PatientName:       name,
		PatientCPF:        cpf,
		HeartRate:         record.HeartRate,
		OxygenSaturation:  record.OxygenSaturation,
		SystolicPressure:  record.SystolicPressure,
		DiastolicPressure: record.DiastolicPressure,
		Temperature:       record.Temperature,
		RespiratoryRate:   record.RespiratoryRate,
		Status:            record.Status,
		Timestamp:         record.Timestamp.Format(TimestampLayout),
	}, nil
}
