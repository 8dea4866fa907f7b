package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sheetbooks/sheetbooks-backend/api/middleware"
	"github.com/sheetbooks/sheetbooks-backend/api/responses"
	"github.com/sheetbooks/sheetbooks-backend/api/validators"
	"github.com/sheetbooks/sheetbooks-backend/internal/ledger"
	pkgerrors "github.com/sheetbooks/sheetbooks-backend/pkg/errors"
	"github.com/sheetbooks/sheetbooks-backend/pkg/logger"
)

// The record controllers are shared between invoices and quotations:
// the router instantiates each handler once per record kind with that
// kind's service.

func RecordSave(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var payload saveRecordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := payload.toRecord()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Save(r.Context(), ledger.SaveInput{
			Ref:    sheetRefFromBody(r, payload.SheetURL, payload.SheetTab),
			Record: record,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toRecordResponse(result))
	}
}

func RecordGet(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		ref, err := sheetRefFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), ref, recordID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toRecordResponse(result))
	}
}

func RecordUpdate(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var payload saveRecordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := payload.toRecord()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), ledger.UpdateInput{
			Ref:    sheetRefFromBody(r, payload.SheetURL, payload.SheetTab),
			ID:     recordID(r),
			Record: record,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toRecordResponse(result))
	}
}

func RecordDelete(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		ref, err := sheetRefFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := recordID(r)
		if err := svc.Delete(r.Context(), ref, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"record_id": id})
	}
}

func RecordSetStatus(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var payload setStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := recordID(r)
		status := strings.TrimSpace(payload.Status)
		ref := sheetRefFromBody(r, payload.SheetURL, payload.SheetTab)

		if err := svc.SetStatus(r.Context(), ref, id, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"record_id": id, "status": status})
	}
}

// RecordPreview computes totals without touching the spreadsheet.
func RecordPreview(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		var payload previewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := toLineItems(payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toTotalsResponse(svc.Preview(items)))
	}
}

func recordID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "recordId"))
}

func sheetRefFromBody(r *http.Request, sheetURL, sheetTab string) ledger.SheetRef {
	return ledger.SheetRef{
		SheetURL:    strings.TrimSpace(sheetURL),
		TabTitle:    strings.TrimSpace(sheetTab),
		AccessToken: middleware.AccessTokenFromContext(r.Context()),
	}
}

func sheetRefFromQuery(r *http.Request) (ledger.SheetRef, error) {
	sheetURL, err := validators.RequireQuery(r, "sheet_url")
	if err != nil {
		return ledger.SheetRef{}, err
	}
	return ledger.SheetRef{
		SheetURL:    sheetURL,
		TabTitle:    validators.OptionalQuery(r, "sheet_tab"),
		AccessToken: middleware.AccessTokenFromContext(r.Context()),
	}, nil
}
