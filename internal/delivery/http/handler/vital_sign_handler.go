package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/abreuwilliam/Desafio/internal/delivery/dto"
	"github.com/abreuwilliam/Desafio/internal/service"
	"github.com/abreuwilliam/Desafio/internal/usecase"
	"github.com/abreuwilliam/Desafio/pkg/response"
	"github.com/abreuwilliam/Desafio/pkg/validator"

	"github.com/gorilla/mux"
)

type VitalSignHandler struct {
	vitalSignUsecase usecase.VitalSignUsecase
	validator        *validator.CustomValidator
}

func NewVitalSignHandler(vitalSignUsecase usecase.VitalSignUsecase, validator *validator.CustomValidator) *VitalSignHandler {
	return &VitalSignHandler{
		vitalSignUsecase: vitalSignUsecase,
		validator:        validator,
	}
}

func (h *VitalSignHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req dto.IngestVitalSignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.vitalSignUsecase.Ingest(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPatientIDRequired):
			response.Error(w, http.StatusBadRequest, "patientId is required", nil)
		case errors.Is(err, usecase.ErrInvalidTimestamp):
			response.Error(w, http.StatusBadRequest, "Invalid timestamp format, use ISO-8601", nil)
		case errors.Is(err, usecase.ErrFirstRecordIdentity):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrEncryptionFailed):
			response.InternalServerError(w, "Failed to encrypt identity fields")
		default:
			response.InternalServerError(w, "Failed to store reading")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Reading stored successfully", record)
}

func (h *VitalSignHandler) GetLatestByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID := vars["id"]

	records, err := h.vitalSignUsecase.LatestByPatient(r.Context(), patientID)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Readings retrieved successfully", records)
}

func (h *VitalSignHandler) GetHistoryByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID := vars["id"]

	records, err := h.vitalSignUsecase.HistoryByPatient(r.Context(), patientID)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Readings retrieved successfully", records)
}

func (h *VitalSignHandler) GetLatestGlobal(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid limit parameter", nil)
			return
		}
		limit = parsed
	}

	records, err := h.vitalSignUsecase.LatestGlobal(r.Context(), limit)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Readings retrieved successfully", records)
}

func (h *VitalSignHandler) GetHistoryGlobal(w http.ResponseWriter, r *http.Request) {
	records, err := h.vitalSignUsecase.HistoryGlobal(r.Context())
	if err != nil {
		h.writeQueryError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Readings retrieved successfully", records)
}

func (h *VitalSignHandler) writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, usecase.ErrDecryptionFailed) {
		response.InternalServerError(w, "Failed to decrypt identity fields")
		return
	}
	response.InternalServerError(w, "Failed to retrieve readings")
}
