package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shakytails/shakytails-backend/internal/admin"
	"github.com/shakytails/shakytails-backend/internal/auth"
	"github.com/shakytails/shakytails-backend/internal/foundreports"
	"github.com/shakytails/shakytails-backend/internal/inventory"
	"github.com/shakytails/shakytails-backend/internal/pets"
	"github.com/shakytails/shakytails-backend/internal/reminders"
	"github.com/shakytails/shakytails-backend/internal/users"
	pkgAuth "github.com/shakytails/shakytails-backend/pkg/auth"
	"github.com/shakytails/shakytails-backend/pkg/config"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterRequest) (*auth.LoginResponse, error) {
	return nil, nil
}
func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, nil
}
func (stubAuthService) Refresh(context.Context, *pkgAuth.AccessTokenClaims, string) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{AccessToken: "a", RefreshToken: "r"}, nil
}
func (stubAuthService) Logout(context.Context, string) error { return nil }
func (stubAuthService) Me(context.Context, uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New()}, nil
}
func (stubAuthService) UpdateProfile(context.Context, uuid.UUID, auth.UpdateProfileRequest) (*users.UserDTO, error) {
	return nil, nil
}
func (stubAuthService) ChangePassword(context.Context, uuid.UUID, auth.ChangePasswordRequest) error {
	return nil
}

type stubPetService struct{}

func (stubPetService) Create(context.Context, uuid.UUID, pets.CreatePetRequest) (*pets.PetDTO, error) {
	return nil, nil
}
func (stubPetService) Update(context.Context, uuid.UUID, uuid.UUID, pets.UpdatePetRequest) (*pets.PetDTO, error) {
	return nil, nil
}
func (stubPetService) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (stubPetService) Mine(context.Context, uuid.UUID) ([]pets.PetDTO, error) {
	return []pets.PetDTO{}, nil
}
func (stubPetService) Get(context.Context, uuid.UUID, uuid.UUID) (*pets.PetDTO, error) {
	return nil, nil
}
func (stubPetService) Resolve(context.Context, string, pets.ScanOrigin) (*pets.PublicPetDTO, error) {
	return &pets.PublicPetDTO{PetName: "Canela"}, nil
}
func (stubPetService) MarkLost(context.Context, uuid.UUID, uuid.UUID, pets.MarkLostRequest) (*pets.PetDTO, error) {
	return nil, nil
}
func (stubPetService) AddVaccination(context.Context, uuid.UUID, uuid.UUID, pets.AddVaccinationRequest) (*pets.PetDTO, error) {
	return nil, nil
}
func (stubPetService) Stats(context.Context, uuid.UUID, uuid.UUID) (*pets.PetStatsDTO, error) {
	return nil, nil
}
func (stubPetService) Regenerate(context.Context, uuid.UUID, uuid.UUID) (*pets.RegenerateResult, error) {
	return nil, nil
}
func (stubPetService) DataURL(context.Context, uuid.UUID, uuid.UUID) (*pets.DataURLResult, error) {
	return nil, nil
}

type stubInventoryService struct{}

func (stubInventoryService) BulkGenerate(context.Context, inventory.BulkGenerateRequest) (*inventory.BulkGenerateResult, error) {
	return nil, nil
}
func (stubInventoryService) Verify(context.Context, string) (*inventory.VerifyResult, error) {
	return &inventory.VerifyResult{CodeID: "STQR-250829-ABCDEF"}, nil
}
func (stubInventoryService) List(context.Context, inventory.ListFilter, pagination.Params) ([]inventory.CodeDTO, int64, error) {
	return nil, 0, nil
}
func (stubInventoryService) Stats(context.Context) (*inventory.Stats, error) { return nil, nil }
func (stubInventoryService) DeleteBatch(context.Context, string) (*inventory.DeleteBatchResult, error) {
	return nil, nil
}

type stubReminderService struct{}

func (stubReminderService) List(context.Context, uuid.UUID) ([]reminders.ReminderDTO, error) {
	return nil, nil
}
func (stubReminderService) Pending(context.Context, uuid.UUID) ([]reminders.ReminderDTO, error) {
	return nil, nil
}
func (stubReminderService) Complete(context.Context, uuid.UUID, uuid.UUID) (*reminders.ReminderDTO, error) {
	return nil, nil
}
func (stubReminderService) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type stubFoundReportService struct{}

func (stubFoundReportService) Submit(context.Context, string, foundreports.SubmitReportRequest) (*foundreports.ReportDTO, error) {
	return nil, nil
}
func (stubFoundReportService) ListForOwner(context.Context, uuid.UUID, pagination.Params) (*foundreports.ReportListDTO, error) {
	return nil, nil
}
func (stubFoundReportService) ListForPet(context.Context, uuid.UUID, uuid.UUID) ([]foundreports.ReportDTO, error) {
	return nil, nil
}
func (stubFoundReportService) AdvanceStatus(context.Context, uuid.UUID, uuid.UUID, foundreports.AdvanceStatusRequest) (*foundreports.ReportDTO, error) {
	return nil, nil
}

type stubAdminService struct{}

func (stubAdminService) Dashboard(context.Context) (*admin.DashboardDTO, error) {
	return &admin.DashboardDTO{}, nil
}
func (stubAdminService) ListUsers(context.Context, pagination.Params) (*admin.UserListDTO, error) {
	return nil, nil
}
func (stubAdminService) UserDetail(context.Context, uuid.UUID) (*admin.UserDetailDTO, error) {
	return nil, nil
}
func (stubAdminService) SetUserActive(context.Context, uuid.UUID, bool) error { return nil }
func (stubAdminService) DeleteUser(context.Context, uuid.UUID) error          { return nil }
func (stubAdminService) ListPets(context.Context, pagination.Params) (*admin.PetListDTO, error) {
	return nil, nil
}
func (stubAdminService) DeletePet(context.Context, uuid.UUID) error { return nil }

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "test-secret-test-secret-test-secret",
			Issuer:            "shakytails-test",
			ExpirationMinutes: 60,
		},
		QR: config.QRConfig{OutputDir: "public/qrcodes", PublicPath: "/qrcodes"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.Disabled, Output: io.Discard})
	return NewRouter(
		testRouterConfig(),
		logg,
		stubPinger{},
		nil,
		stubSessionChecker{},
		stubAuthService{},
		stubPetService{},
		stubInventoryService{},
		stubReminderService{},
		stubFoundReportService{},
		stubAdminService{},
	)
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-ShakyTails-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestRouterPublicResolveIsOpen(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/resolve/STQR-250829-ABCDEF", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestRouterPetsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pets", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterAdminRequiresAdminRole(t *testing.T) {
	router := newTestRouter(t)
	cfg := testRouterConfig()

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.SystemRoleUser,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRouterAdminDashboardWithAdminToken(t *testing.T) {
	router := newTestRouter(t)
	cfg := testRouterConfig()

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.SystemRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
}
