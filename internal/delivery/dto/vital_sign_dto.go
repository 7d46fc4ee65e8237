package dto

import (
	"github.com/google/uuid"
)

// IngestVitalSignRequest is one inbound reading. PatientName and
// PatientCPF are required only on the first reading for a patient;
// afterwards they may be omitted and are inherited from the most
// recent stored record. Timestamp is an optional ISO-8601 local
// date-time literal; the server clock is used when it is absent.
type IngestVitalSignRequest struct {
	PatientID   string `json:"patientId" validate:"required"`
	PatientName string `json:"patientName,omitempty"`
	PatientCPF  string `json:"patientCpf,omitempty"`

	HeartRate         *int     `json:"heartRate,omitempty"`
	OxygenSaturation  *float64 `json:"oxygenSaturation,omitempty"`
	SystolicPressure  *float64 `json:"systolicPressure,omitempty"`
	DiastolicPressure *float64 `json:"diastolicPressure,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	RespiratoryRate   *float64 `json:"respiratoryRate,omitempty"`

	Status    string `json:"status,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// StoredVitalSignResponse mirrors what was persisted: the identity
// fields carry the ciphertext tokens exactly as written to storage.
type StoredVitalSignResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	PatientCPF  string    `json:"patientCpf"`

	HeartRate         *int     `json:"heartRate,omitempty"`
	OxygenSaturation  *float64 `json:"oxygenSaturation,omitempty"`
	SystolicPressure  *float64 `json:"systolicPressure,omitempty"`
	DiastolicPressure *float64 `json:"diastolicPressure,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	RespiratoryRate   *float64 `json:"respiratoryRate,omitempty"`

	Status    string `json:"status,omitempty"`
	Timestamp string `json:"timestamp"`
}

// VitalSignView is the decrypted public view returned by the read
// paths and published to the dashboard and per-patient channels.
type VitalSignView struct {
	ID          uuid.UUID `json:"id"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	PatientCPF  string    `json:"patientCpf"`

	HeartRate         *int     `json:"heartRate,omitempty"`
	OxygenSaturation  *float64 `json:"oxygenSaturation,omitempty"`
	SystolicPressure  *float64 `json:"systolicPressure,omitempty"`
	DiastolicPressure *float64 `json:"diastolicPressure,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	RespiratoryRate   *float64 `json:"respiratoryRate,omitempty"`

	Status    string `json:"status,omitempty"`
	Timestamp string `json:"timestamp"`
}

// VitalSignListResponse wraps a list of decrypted views.
type VitalSignListResponse struct {
	Records []VitalSignView `json:"records"`
	Total   int             `json:"total"`
}
