package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/shakytails/shakytails-backend/internal/foundreports"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	pkgerrors "github.com/shakytails/shakytails-backend/pkg/errors"
)

func TestFoundReportsForOwnerPaginates(t *testing.T) {
	svc := &stubFoundReportService{list: &foundreports.ReportListDTO{
		Reports:  []foundreports.ReportDTO{{ID: uuid.New(), Status: enums.FoundReportStatusPending}},
		Total:    1,
		Page:     1,
		PageSize: 20,
	}}
	handler := FoundReportsForOwner(svc, nil)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/v1/found-reports?page=1&page_size=20", nil), uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data foundreports.ReportListDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 1 || len(envelope.Data.Reports) != 1 {
		t.Fatalf("unexpected page %+v", envelope.Data)
	}
}

func TestFoundReportAdvanceStateConflict(t *testing.T) {
	svc := &stubFoundReportService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move report from resolved to contacted")}
	handler := FoundReportAdvance(svc, nil)

	reportID := uuid.New()
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/found-reports/"+reportID.String()+"/status", bytes.NewReader([]byte(`{"status":"contacted"}`))), uuid.New())
	req = withURLParam(req, "reportId", reportID.String())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestFoundReportAdvanceRejectsMalformedID(t *testing.T) {
	handler := FoundReportAdvance(&stubFoundReportService{}, nil)

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/found-reports/xyz/status", bytes.NewReader([]byte(`{"status":"contacted"}`))), uuid.New())
	req = withURLParam(req, "reportId", "xyz")
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
