package handler

import (
	"errors"
	"net/http"

	"contactnorm/internal/contacts/repository"
	"contactnorm/internal/contacts/service"
	apperrors "contactnorm/pkg/errors"
	httputil "contactnorm/pkg/http"
	"contactnorm/pkg/logger"
	"contactnorm/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// MaxBatchSize caps the records accepted by one normalize request.
const MaxBatchSize = 10000

type ContactHandler struct {
	service service.ContactService
	repo    repository.ContactRepository
	log     *logger.Logger
}

// NewContactHandler serves the normalize endpoints. repo may be nil, in
// which case persistence and lookups are not offered.
func NewContactHandler(service service.ContactService, repo repository.ContactRepository, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		repo:    repo,
		log:     log,
	}
}

func (h *ContactHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/phones/normalize", h.NormalizePhone)
	router.POST("/api/v1/dobs/normalize", h.NormalizeDOB)
	router.POST("/api/v1/contacts/normalize", h.NormalizeContacts)
	if h.repo != nil {
		router.GET("/api/v1/contacts/:id", h.GetContact)
	}
}

func (h *ContactHandler) NormalizePhone(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.NormalizePhoneRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "NormalizePhone", err)
		return
	}

	phone, err := h.service.NormalizePhone(req.Phone)
	if err != nil {
		h.writeError(w, "NormalizePhone", apperrors.Normalization("phone", err))
		return
	}

	h.writeSuccess(w, "NormalizePhone", model.NormalizePhoneResponse{Input: req.Phone, Phone: phone})
}

func (h *ContactHandler) NormalizeDOB(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.NormalizeDOBRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "NormalizeDOB", err)
		return
	}

	dob, err := h.service.NormalizeDOB(req.DOB)
	if err != nil {
		h.writeError(w, "NormalizeDOB", apperrors.Normalization("dob", err))
		return
	}

	h.writeSuccess(w, "NormalizeDOB", model.NormalizeDOBResponse{Input: req.DOB, DOB: dob})
}

// NormalizeContacts answers 200 even when every record is skipped; the
// rejections are part of the result.
func (h *ContactHandler) NormalizeContacts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.NormalizeContactsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "NormalizeContacts", err)
		return
	}

	switch {
	case len(req.Contacts) == 0:
		h.writeError(w, "NormalizeContacts", apperrors.InvalidInput("contacts must not be empty"))
		return
	case len(req.Contacts) > MaxBatchSize:
		h.writeError(w, "NormalizeContacts", apperrors.Validation("too many contacts", map[string]any{
			"max":      MaxBatchSize,
			"received": len(req.Contacts),
		}))
		return
	case req.Persist && h.repo == nil:
		h.writeError(w, "NormalizeContacts", apperrors.InvalidInput("persistence is not configured"))
		return
	}

	res, err := h.service.NormalizeAll(r.Context(), req.Contacts)
	if err != nil {
		h.writeError(w, "NormalizeContacts", apperrors.Timeout("normalization was cancelled"))
		return
	}

	resp := model.NormalizeContactsResponse{
		RunID:      res.RunID,
		Processed:  res.Processed,
		Normalized: res.Normalized,
		Skipped:    res.Skipped,
		Contacts:   res.Contacts(),
		Rejections: res.Rejections(),
	}

	if req.Persist {
		if _, err := h.repo.UpsertContacts(r.Context(), res.RunID, resp.Contacts); err != nil {
			h.writeError(w, "NormalizeContacts", apperrors.Internal("failed to persist contacts", err))
			return
		}
		if err := h.repo.InsertRejections(r.Context(), res.RunID, resp.Rejections); err != nil {
			h.writeError(w, "NormalizeContacts", apperrors.Internal("failed to persist rejections", err))
			return
		}
	}

	h.writeSuccess(w, "NormalizeContacts", resp)
}

func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	contact, err := h.repo.FindByKey(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, "GetContact", apperrors.NotFound("contact"))
			return
		}
		h.writeError(w, "GetContact", apperrors.Internal("failed to load contact", err))
		return
	}

	h.writeSuccess(w, "GetContact", contact)
}

func (h *ContactHandler) writeError(w http.ResponseWriter, handler string, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.log.Error("Request failed", "handler", handler, "error", err)
	}
	if writeErr := httputil.WriteError(w, appErr); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ContactHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}
