package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abreuwilliam/Desafio/internal/delivery/dto"
	"github.com/abreuwilliam/Desafio/internal/usecase"
	"github.com/abreuwilliam/Desafio/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVitalSignUsecase struct {
	ingestErr    error
	queryErr     error
	lastLimit    int
	ingestResult *dto.StoredVitalSignResponse
}

func (s *stubVitalSignUsecase) Ingest(ctx context.Context, req *dto.IngestVitalSignRequest) (*dto.StoredVitalSignResponse, error) {
	if s.ingestErr != nil {
		return nil, s.ingestErr
	}
	if s.ingestResult != nil {
		return s.ingestResult, nil
	}
	return &dto.StoredVitalSignResponse{ID: uuid.New(), PatientID: req.PatientID}, nil
}

func (s *stubVitalSignUsecase) LatestByPatient(ctx context.Context, patientID string) (*dto.VitalSignListResponse, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return &dto.VitalSignListResponse{Records: []dto.VitalSignView{{PatientID: patientID}}, Total: 1}, nil
}

func (s *stubVitalSignUsecase) HistoryByPatient(ctx context.Context, patientID string) (*dto.VitalSignListResponse, error) {
	return s.LatestByPatient(ctx, patientID)
}

func (s *stubVitalSignUsecase) LatestGlobal(ctx context.Context, limit int) (*dto.VitalSignListResponse, error) {
	s.lastLimit = limit
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return &dto.VitalSignListResponse{}, nil
}

func (s *stubVitalSignUsecase) HistoryGlobal(ctx context.Context) (*dto.VitalSignListResponse, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return &dto.VitalSignListResponse{}, nil
}

func newHandler(stub *stubVitalSignUsecase) *VitalSignHandler {
	return NewVitalSignHandler(stub, validator.NewValidator())
}

func postReading(t *testing.T, h *VitalSignHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vital-signs", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	h.Ingest(w, req)
	return w
}

func TestIngestHandlerCreated(t *testing.T) {
	w := postReading(t, newHandler(&stubVitalSignUsecase{}), dto.IngestVitalSignRequest{
		PatientID:   "P1",
		PatientName: "Ana",
		PatientCPF:  "12345678900",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestIngestHandlerMissingPatientID(t *testing.T) {
	w := postReading(t, newHandler(&stubVitalSignUsecase{}), map[string]interface{}{
		"heartRate": 80,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestHandlerInvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vital-signs", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	newHandler(&stubVitalSignUsecase{}).Ingest(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{usecase.ErrPatientIDRequired, http.StatusBadRequest},
		{usecase.ErrInvalidTimestamp, http.StatusBadRequest},
		{fmt.Errorf("%w: patient P1", usecase.ErrFirstRecordIdentity), http.StatusBadRequest},
		{fmt.Errorf("storage is down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := postReading(t, newHandler(&stubVitalSignUsecase{ingestErr: tc.err}), dto.IngestVitalSignRequest{PatientID: "P1"})
		assert.Equal(t, tc.status, w.Code, "error %v", tc.err)
	}
}

func TestGetLatestGlobalParsesLimit(t *testing.T) {
	stub := &stubVitalSignUsecase{}
	h := newHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-signs/latest?limit=5", nil)
	w := httptest.NewRecorder()
	h.GetLatestGlobal(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, stub.lastLimit)
}

func TestGetLatestGlobalRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-signs/latest?limit=abc", nil)
	w := httptest.NewRecorder()
	newHandler(&stubVitalSignUsecase{}).GetLatestGlobal(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLatestByPatient(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-signs/patient/P1/latest", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "P1"})
	w := httptest.NewRecorder()
	newHandler(&stubVitalSignUsecase{}).GetLatestByPatient(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data dto.VitalSignListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Data.Total)
	assert.Equal(t, "P1", body.Data.Records[0].PatientID)
}

func TestQueryDecryptionFailureIsServerError(t *testing.T) {
	stub := &stubVitalSignUsecase{queryErr: fmt.Errorf("%w: record x", usecase.ErrDecryptionFailed)}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-signs/history", nil)
	w := httptest.NewRecorder()
	newHandler(stub).GetHistoryGlobal(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
