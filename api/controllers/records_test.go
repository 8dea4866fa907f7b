package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sheetbooks/sheetbooks-backend/api/middleware"
	"github.com/sheetbooks/sheetbooks-backend/internal/ledger"
	"github.com/sheetbooks/sheetbooks-backend/pkg/enums"
	pkgerrors "github.com/sheetbooks/sheetbooks-backend/pkg/errors"
	"github.com/sheetbooks/sheetbooks-backend/pkg/logger"
	"github.com/sheetbooks/sheetbooks-backend/pkg/types"
)

type stubLedgerService struct {
	saveInput   *ledger.SaveInput
	updateInput *ledger.UpdateInput
	getRef      *ledger.SheetRef
	getID       string
	statusSet   string
	deletedID   string
	result      *ledger.RecordResult
	err         error
}

func (s *stubLedgerService) Save(_ context.Context, input ledger.SaveInput) (*ledger.RecordResult, error) {
	s.saveInput = &input
	return s.result, s.err
}

func (s *stubLedgerService) Get(_ context.Context, ref ledger.SheetRef, id string) (*ledger.RecordResult, error) {
	s.getRef = &ref
	s.getID = id
	return s.result, s.err
}

func (s *stubLedgerService) Update(_ context.Context, input ledger.UpdateInput) (*ledger.RecordResult, error) {
	s.updateInput = &input
	return s.result, s.err
}

func (s *stubLedgerService) Delete(_ context.Context, _ ledger.SheetRef, id string) error {
	s.deletedID = id
	return s.err
}

func (s *stubLedgerService) SetStatus(_ context.Context, _ ledger.SheetRef, id, status string) error {
	s.getID = id
	s.statusSet = status
	return s.err
}

func (s *stubLedgerService) Preview(items []ledger.LineItem) ledger.Totals {
	return ledger.TotalsFor(items)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func stubResult() *ledger.RecordResult {
	total := decimal.RequireFromString("94.5")
	return &ledger.RecordResult{
		Record: ledger.Record{
			ID:       "INV-1",
			Kind:     enums.RecordKindInvoice,
			Customer: ledger.Party{Name: "Acme GmbH"},
			Items: []ledger.LineItem{{
				Name:      "Consulting",
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("50"),
			}},
			Total:  total,
			Status: "pending",
		},
		Totals: ledger.Totals{
			Subtotal:   decimal.RequireFromString("100"),
			Discount:   decimal.RequireFromString("10"),
			Tax:        decimal.RequireFromString("4.5"),
			GrandTotal: total,
		},
	}
}

const testSheetURL = "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit"

func saveBody() string {
	return `{
		"sheet_url": "` + testSheetURL + `",
		"issue_date": "2026-03-01",
		"due_date": "2026-03-31",
		"customer": {"name": "Acme GmbH", "email": "billing@acme.example"},
		"items": [
			{"name": "Consulting", "quantity": 2, "price": 50, "discount": {"kind": "percentage", "value": 10}, "tax": {"kind": "percentage", "value": 5}}
		]
	}`
}

func withRecordID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("recordId", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func withAccessToken(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithAccessToken(req.Context(), "ya29.test"))
}

func TestRecordSave(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubLedgerService{result: stubResult()}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(saveBody()))
		req = withAccessToken(req)
		rec := httptest.NewRecorder()

		RecordSave(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.saveInput == nil {
			t.Fatalf("expected Save to be invoked")
		}
		if stub.saveInput.Ref.AccessToken != "ya29.test" {
			t.Fatalf("access token not forwarded: %q", stub.saveInput.Ref.AccessToken)
		}
		if got := stub.saveInput.Record.Items[0].Discount.Value.String(); got != "10" {
			t.Fatalf("discount not carried, got %s", got)
		}

		var body types.SuccessEnvelope
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		payload := body.Data.(map[string]any)
		if payload["id"] != "INV-1" {
			t.Fatalf("unexpected id %v", payload["id"])
		}
		totals := payload["totals"].(map[string]any)
		if totals["grand_total"] != "94.50" {
			t.Fatalf("unexpected grand total %v", totals["grand_total"])
		}
	})

	t.Run("missing sheet url", func(t *testing.T) {
		stub := &stubLedgerService{result: stubResult()}
		body := `{"issue_date": "2026-03-01", "customer": {"name": "Acme"}, "items": [{"name": "A", "price": 1}]}`
		req := withAccessToken(httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(body)))
		rec := httptest.NewRecorder()

		RecordSave(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.saveInput != nil {
			t.Fatalf("service must not be called on invalid payload")
		}
	})

	t.Run("bad date", func(t *testing.T) {
		stub := &stubLedgerService{result: stubResult()}
		body := strings.Replace(saveBody(), "2026-03-01", "March 1st", 1)
		req := withAccessToken(httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(body)))
		rec := httptest.NewRecorder()

		RecordSave(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown money kind", func(t *testing.T) {
		stub := &stubLedgerService{result: stubResult()}
		body := strings.Replace(saveBody(), `"kind": "percentage"`, `"kind": "flat"`, 1)
		req := withAccessToken(httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(body)))
		rec := httptest.NewRecorder()

		RecordSave(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("service conflict surfaces", func(t *testing.T) {
		stub := &stubLedgerService{err: pkgerrors.New(pkgerrors.CodeConflict, "record id already exists")}
		req := withAccessToken(httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(saveBody())))
		rec := httptest.NewRecorder()

		RecordSave(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestRecordGet(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubLedgerService{result: stubResult()}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/INV-1?sheet_url="+testSheetURL+"&sheet_tab=Archive", nil)
		req = withAccessToken(withRecordID(req, "INV-1"))
		rec := httptest.NewRecorder()

		RecordGet(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.getID != "INV-1" {
			t.Fatalf("unexpected id %q", stub.getID)
		}
		if stub.getRef.TabTitle != "Archive" {
			t.Fatalf("tab override lost: %q", stub.getRef.TabTitle)
		}
	})

	t.Run("missing sheet url", func(t *testing.T) {
		stub := &stubLedgerService{result: stubResult()}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/INV-1", nil)
		req = withAccessToken(withRecordID(req, "INV-1"))
		rec := httptest.NewRecorder()

		RecordGet(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		stub := &stubLedgerService{err: pkgerrors.New(pkgerrors.CodeNotFound, "record not found")}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/INV-404?sheet_url="+testSheetURL, nil)
		req = withAccessToken(withRecordID(req, "INV-404"))
		rec := httptest.NewRecorder()

		RecordGet(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRecordUpdate(t *testing.T) {
	stub := &stubLedgerService{result: stubResult()}
	req := httptest.NewRequest(http.MethodPut, "/api/v1/invoices/INV-1", strings.NewReader(saveBody()))
	req = withAccessToken(withRecordID(req, "INV-1"))
	rec := httptest.NewRecorder()

	RecordUpdate(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.updateInput == nil || stub.updateInput.ID != "INV-1" {
		t.Fatalf("expected update with path id, got %+v", stub.updateInput)
	}
}

func TestRecordDelete(t *testing.T) {
	stub := &stubLedgerService{}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/invoices/INV-1?sheet_url="+testSheetURL, nil)
	req = withAccessToken(withRecordID(req, "INV-1"))
	rec := httptest.NewRecorder()

	RecordDelete(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.deletedID != "INV-1" {
		t.Fatalf("unexpected deleted id %q", stub.deletedID)
	}
}

func TestRecordSetStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubLedgerService{}
		body := `{"sheet_url": "` + testSheetURL + `", "status": "paid"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/invoices/INV-1/status", strings.NewReader(body))
		req = withAccessToken(withRecordID(req, "INV-1"))
		rec := httptest.NewRecorder()

		RecordSetStatus(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.statusSet != "paid" {
			t.Fatalf("unexpected status %q", stub.statusSet)
		}
	})

	t.Run("illegal transition surfaces", func(t *testing.T) {
		stub := &stubLedgerService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "illegal status transition")}
		body := `{"sheet_url": "` + testSheetURL + `", "status": "accepted"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/quotations/QUO-1/status", strings.NewReader(body))
		req = withAccessToken(withRecordID(req, "QUO-1"))
		rec := httptest.NewRecorder()

		RecordSetStatus(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}

func TestRecordPreview(t *testing.T) {
	stub := &stubLedgerService{}
	body := `{"items": [{"name": "Consulting", "quantity": 2, "price": 50, "discount": {"kind": "percentage", "value": 10}, "tax": {"kind": "percentage", "value": 5}}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()

	RecordPreview(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	totals := envelope.Data.(map[string]any)
	if totals["grand_total"] != "94.50" {
		t.Fatalf("unexpected grand total %v", totals["grand_total"])
	}
}
