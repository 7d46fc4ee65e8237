package entity

import (
	"time"

	"github.com/google/uuid"
)

// VitalSignRecord is one persisted vital-sign sample. PatientName and
// PatientCPF hold ciphertext tokens, never plaintext; the CPF is reduced
// to digits before encryption. Records are immutable once created.
type VitalSignRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID string    `gorm:"type:varchar(64);index;not null" json:"patient_id"`

	PatientName string `gorm:"type:text;not null" json:"patient_name"`
	PatientCPF  string `gorm:"column:patient_cpf;type:text;not null" json:"patient_cpf"`

	HeartRate         *int     `gorm:"type:integer" json:"heart_rate,omitempty"`
	OxygenSaturation  *float64 `gorm:"type:double precision" json:"oxygen_saturation,omitempty"`
	SystolicPressure  *float64 `gorm:"type:double precision" json:"systolic_pressure,omitempty"`
	DiastolicPressure *float64 `gorm:"type:double precision" json:"diastolic_pressure,omitempty"`
	Temperature       *float64 `gorm:"type:double precision" json:"temperature,omitempty"`
	RespiratoryRate   *float64 `gorm:"type:double precision" json:"respiratory_rate,omitempty"`

	Status    string    `gorm:"type:varchar(32)" json:"status"`
	Timestamp time.Time `gorm:"index:idx_vital_sign_records_timestamp,sort:desc;not null" json:"timestamp"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (VitalSignRecord) TableName() string {
	return "vital_sign_records"
}
