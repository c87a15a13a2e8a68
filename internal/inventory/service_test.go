package inventory

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	pkgerrors "github.com/shakytails/shakytails-backend/pkg/errors"
	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/pagination"
)

type stubCodeRepo struct {
	codes      map[string]*models.InventoryCode
	failEvery  int
	createCall int
}

func newStubCodeRepo() *stubCodeRepo {
	return &stubCodeRepo{codes: map[string]*models.InventoryCode{}}
}

func (r *stubCodeRepo) Create(ctx context.Context, code *models.InventoryCode) error {
	r.createCall++
	if r.failEvery > 0 && r.createCall%r.failEvery == 0 {
		return fmt.Errorf("simulated insert failure")
	}
	if _, exists := r.codes[code.CodeID]; exists {
		return fmt.Errorf(`duplicate key value violates unique constraint "idx_inventory_codes_code_id"`)
	}
	stored := *code
	r.codes[code.CodeID] = &stored
	return nil
}

func (r *stubCodeRepo) FindByCodeID(ctx context.Context, codeID string) (*models.InventoryCode, error) {
	code, ok := r.codes[codeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return code, nil
}

func (r *stubCodeRepo) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.InventoryCode, int64, error) {
	var rows []models.InventoryCode
	for _, code := range r.codes {
		if filter.Status != nil && code.Status != *filter.Status {
			continue
		}
		if filter.BatchID != nil && code.BatchID != *filter.BatchID {
			continue
		}
		rows = append(rows, *code)
	}
	return rows, int64(len(rows)), nil
}

func (r *stubCodeRepo) StatusCounts(ctx context.Context) (map[enums.CodeStatus]int64, error) {
	counts := map[enums.CodeStatus]int64{}
	for _, code := range r.codes {
		counts[code.Status]++
	}
	return counts, nil
}

func (r *stubCodeRepo) BatchStats(ctx context.Context) ([]BatchStats, error) {
	byBatch := map[string]*BatchStats{}
	for _, code := range r.codes {
		stats, ok := byBatch[code.BatchID]
		if !ok {
			stats = &BatchStats{BatchID: code.BatchID}
			byBatch[code.BatchID] = stats
		}
		stats.Count++
		switch code.Status {
		case enums.CodeStatusAvailable:
			stats.Available++
		case enums.CodeStatusAssigned:
			stats.Assigned++
		}
	}
	out := make([]BatchStats, 0, len(byBatch))
	for _, stats := range byBatch {
		out = append(out, *stats)
	}
	return out, nil
}

func (r *stubCodeRepo) DeleteAvailableByBatch(ctx context.Context, batchID string) ([]string, error) {
	var deleted []string
	for codeID, code := range r.codes {
		if code.BatchID == batchID && code.Status == enums.CodeStatusAvailable {
			delete(r.codes, codeID)
			deleted = append(deleted, codeID)
		}
	}
	return deleted, nil
}

func (r *stubCodeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.codes)), nil
}

type stubRenderer struct {
	failOn     map[int]bool
	calls      int
	removed    []string
	removeFail bool
}

func (s *stubRenderer) Render(codeID string) (string, error) {
	s.calls++
	if s.failOn[s.calls] {
		return "", fmt.Errorf("simulated render failure")
	}
	return "/qrcodes/" + codeID + ".png", nil
}

func (s *stubRenderer) Remove(codeID string) error {
	if s.removeFail {
		return fmt.Errorf("simulated remove failure")
	}
	s.removed = append(s.removed, codeID)
	return nil
}

func buildTestService(t *testing.T, repo codeRepository, renderer codeRenderer) Service {
	t.Helper()
	if renderer == nil {
		renderer = &stubRenderer{}
	}
	svc, err := NewService(ServiceParams{
		CodeRepo: repo,
		Renderer: renderer,
		Logger:   logger.New(logger.Options{}),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestBulkGenerateQuantityBounds(t *testing.T) {
	svc := buildTestService(t, newStubCodeRepo(), nil)

	for _, quantity := range []int{0, -1, 1001} {
		_, err := svc.BulkGenerate(context.Background(), BulkGenerateRequest{Quantity: quantity})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("quantity %d: expected validation error, got %v", quantity, err)
		}
	}
}

func TestBulkGenerateCreatesBatch(t *testing.T) {
	repo := newStubCodeRepo()
	svc := buildTestService(t, repo, nil)

	result, err := svc.BulkGenerate(context.Background(), BulkGenerateRequest{
		Quantity: 25,
		BatchID:  "spring-run",
	})
	if err != nil {
		t.Fatalf("bulk generate: %v", err)
	}
	if result.BatchID != "spring-run" {
		t.Fatalf("expected batch tag preserved, got %q", result.BatchID)
	}
	if len(result.Created) != 25 || result.Failed != 0 {
		t.Fatalf("expected 25 created / 0 failed, got %d / %d", len(result.Created), result.Failed)
	}
	for _, dto := range result.Created {
		if dto.Status != enums.CodeStatusAvailable {
			t.Fatalf("expected available status, got %s", dto.Status)
		}
		if dto.BatchID != "spring-run" {
			t.Fatalf("expected batch tag on code, got %q", dto.BatchID)
		}
		if dto.ImagePath == "" {
			t.Fatal("expected rendered image path")
		}
	}
}

func TestBulkGenerateDefaultsBatchID(t *testing.T) {
	svc := buildTestService(t, newStubCodeRepo(), nil)
	result, err := svc.BulkGenerate(context.Background(), BulkGenerateRequest{Quantity: 1})
	if err != nil {
		t.Fatalf("bulk generate: %v", err)
	}
	if result.BatchID == "" {
		t.Fatal("expected generated batch id")
	}
}

func TestBulkGeneratePartialFailureKeepsSuccesses(t *testing.T) {
	repo := newStubCodeRepo()
	repo.failEvery = 3 // every third insert fails
	svc := buildTestService(t, repo, nil)

	result, err := svc.BulkGenerate(context.Background(), BulkGenerateRequest{
		Quantity: 9,
		BatchID:  "flaky",
	})
	if err != nil {
		t.Fatalf("partial failure should not fail the call: %v", err)
	}
	if result.Failed != 3 {
		t.Fatalf("expected 3 failures, got %d", result.Failed)
	}
	if len(result.Created) != 6 {
		t.Fatalf("expected 6 persisted codes, got %d", len(result.Created))
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected aggregated error detail, got %v", result.Errors)
	}
}

func TestBulkGenerateRenderFailure(t *testing.T) {
	repo := newStubCodeRepo()
	renderer := &stubRenderer{failOn: map[int]bool{1: true}}
	svc := buildTestService(t, repo, renderer)

	result, err := svc.BulkGenerate(context.Background(), BulkGenerateRequest{Quantity: 2, BatchID: "b"})
	if err != nil {
		t.Fatalf("bulk generate: %v", err)
	}
	if len(result.Created) != 1 || result.Failed != 1 {
		t.Fatalf("expected 1 created / 1 failed, got %d / %d", len(result.Created), result.Failed)
	}
	if len(repo.codes) != 1 {
		t.Fatalf("render failure must not persist a row, have %d", len(repo.codes))
	}
}

func TestVerify(t *testing.T) {
	repo := newStubCodeRepo()
	repo.codes["avail1"] = &models.InventoryCode{CodeID: "avail1", Status: enums.CodeStatusAvailable}
	repo.codes["taken1"] = &models.InventoryCode{CodeID: "taken1", Status: enums.CodeStatusAssigned}
	svc := buildTestService(t, repo, nil)

	res, err := svc.Verify(context.Background(), "avail1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.IsAssigned {
		t.Fatal("available code reported as assigned")
	}

	res, err = svc.Verify(context.Background(), "taken1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !res.IsAssigned {
		t.Fatal("assigned code reported as available")
	}

	_, err = svc.Verify(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteBatchSparesAssignedRows(t *testing.T) {
	repo := newStubCodeRepo()
	repo.codes["a"] = &models.InventoryCode{CodeID: "a", BatchID: "b1", Status: enums.CodeStatusAvailable}
	repo.codes["b"] = &models.InventoryCode{CodeID: "b", BatchID: "b1", Status: enums.CodeStatusAssigned}
	repo.codes["c"] = &models.InventoryCode{CodeID: "c", BatchID: "b2", Status: enums.CodeStatusAvailable}
	renderer := &stubRenderer{}
	svc := buildTestService(t, repo, renderer)

	result, err := svc.DeleteBatch(context.Background(), "b1")
	if err != nil {
		t.Fatalf("delete batch: %v", err)
	}
	if result.DeletedCount != 1 {
		t.Fatalf("expected 1 deleted, got %d", result.DeletedCount)
	}
	if _, ok := repo.codes["b"]; !ok {
		t.Fatal("assigned row must survive batch deletion")
	}
	if _, ok := repo.codes["c"]; !ok {
		t.Fatal("other batches must be untouched")
	}
	if len(renderer.removed) != 1 || renderer.removed[0] != "a" {
		t.Fatalf("expected artifact cleanup for deleted code only, got %v", renderer.removed)
	}
}

func TestDeleteBatchSurvivesArtifactCleanupFailure(t *testing.T) {
	repo := newStubCodeRepo()
	repo.codes["a"] = &models.InventoryCode{CodeID: "a", BatchID: "b1", Status: enums.CodeStatusAvailable}
	renderer := &stubRenderer{removeFail: true}
	svc := buildTestService(t, repo, renderer)

	result, err := svc.DeleteBatch(context.Background(), "b1")
	if err != nil {
		t.Fatalf("artifact cleanup failure must not fail the call: %v", err)
	}
	if result.DeletedCount != 1 {
		t.Fatalf("expected 1 deleted, got %d", result.DeletedCount)
	}
}

func TestStatsAggregation(t *testing.T) {
	repo := newStubCodeRepo()
	repo.codes["a"] = &models.InventoryCode{CodeID: "a", BatchID: "b1", Status: enums.CodeStatusAvailable}
	repo.codes["b"] = &models.InventoryCode{CodeID: "b", BatchID: "b1", Status: enums.CodeStatusAssigned}
	svc := buildTestService(t, repo, nil)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 {
		t.Fatalf("expected total 2, got %d", stats.Total)
	}
	if stats.ByStatus[enums.CodeStatusAvailable] != 1 || stats.ByStatus[enums.CodeStatusAssigned] != 1 {
		t.Fatalf("unexpected status counts %v", stats.ByStatus)
	}
	if len(stats.Batches) != 1 || stats.Batches[0].Count != 2 {
		t.Fatalf("unexpected batch stats %v", stats.Batches)
	}
}
