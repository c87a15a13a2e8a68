package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shakytails/shakytails-backend/api/responses"
	"github.com/shakytails/shakytails-backend/api/validators"
	"github.com/shakytails/shakytails-backend/internal/foundreports"
	"github.com/shakytails/shakytails-backend/internal/inventory"
	"github.com/shakytails/shakytails-backend/internal/pets"
	pkgerrors "github.com/shakytails/shakytails-backend/pkg/errors"
	"github.com/shakytails/shakytails-backend/pkg/logger"
)

const maxScanLocationLen = 255

func codeIDParam(r *http.Request) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "codeId"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "codeId is required")
	}
	return raw, nil
}

// PublicResolve serves the landing page payload for a scanned tag. Every hit
// counts as a scan, on purpose: owners want each sighting recorded.
func PublicResolve(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pets service unavailable"))
			return
		}

		codeID, err := codeIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		origin := pets.ScanOrigin{
			IPAddress: clientIP(r),
			Location:  validators.SanitizeString(r.URL.Query().Get("location"), maxScanLocationLen),
		}

		result, err := svc.Resolve(r.Context(), codeID, origin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PublicVerifyCode answers whether a printed code exists and is assigned.
// No pet or owner data leaks through this endpoint.
func PublicVerifyCode(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		codeID, err := codeIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Verify(r.Context(), codeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// FoundReportSubmit lets an anonymous finder report a scanned pet.
func FoundReportSubmit(svc foundreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "found reports service unavailable"))
			return
		}

		codeID, err := codeIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body foundreports.SubmitReportRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), codeID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
