package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shakytails/shakytails-backend/api/controllers"
	"github.com/shakytails/shakytails-backend/api/middleware"
	"github.com/shakytails/shakytails-backend/internal/admin"
	"github.com/shakytails/shakytails-backend/internal/auth"
	"github.com/shakytails/shakytails-backend/internal/foundreports"
	"github.com/shakytails/shakytails-backend/internal/inventory"
	"github.com/shakytails/shakytails-backend/internal/pets"
	"github.com/shakytails/shakytails-backend/internal/reminders"
	"github.com/shakytails/shakytails-backend/pkg/auth/session"
	"github.com/shakytails/shakytails-backend/pkg/config"
	"github.com/shakytails/shakytails-backend/pkg/db"
	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	petService pets.Service,
	inventoryService inventory.Service,
	reminderService reminders.Service,
	foundReportService foundreports.Service,
	adminService admin.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	// Anything a scanned tag points at stays public. Finders never log in.
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/resolve/{codeId}", controllers.PublicResolve(petService, logg))
		r.Get("/verify/{codeId}", controllers.PublicVerifyCode(inventoryService, logg))
		r.Post("/resolve/{codeId}/found", controllers.FoundReportSubmit(foundReportService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.AuthMe(authService, logg))
			r.Put("/", controllers.AuthUpdateProfile(authService, logg))
			r.Post("/password", controllers.AuthChangePassword(authService, logg))
		})

		r.Route("/pets", func(r chi.Router) {
			r.Get("/", controllers.PetList(petService, logg))
			r.Post("/", controllers.PetCreate(petService, logg))
			r.Route("/{petId}", func(r chi.Router) {
				r.Get("/", controllers.PetGet(petService, logg))
				r.Put("/", controllers.PetUpdate(petService, logg))
				r.Delete("/", controllers.PetDelete(petService, logg))
				r.Post("/lost", controllers.PetMarkLost(petService, logg))
				r.Post("/vaccinations", controllers.PetAddVaccination(petService, logg))
				r.Get("/stats", controllers.PetStats(petService, logg))
				r.Post("/code/regenerate", controllers.PetRegenerateCode(petService, logg))
				r.Get("/code/data-url", controllers.PetCodeDataURL(petService, logg))
				r.Get("/found-reports", controllers.FoundReportsForPet(foundReportService, logg))
			})
		})

		r.Route("/found-reports", func(r chi.Router) {
			r.Get("/", controllers.FoundReportsForOwner(foundReportService, logg))
			r.Post("/{reportId}/status", controllers.FoundReportAdvance(foundReportService, logg))
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Get("/", controllers.ReminderList(reminderService, logg))
			r.Get("/pending", controllers.ReminderPending(reminderService, logg))
			r.Post("/{reminderId}/complete", controllers.ReminderComplete(reminderService, logg))
			r.Delete("/{reminderId}", controllers.ReminderDelete(reminderService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Get("/dashboard", controllers.AdminDashboard(adminService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(adminService, logg))
			r.Get("/{userId}", controllers.AdminUserDetail(adminService, logg))
			r.Post("/{userId}/active", controllers.AdminSetUserActive(adminService, logg))
			r.Delete("/{userId}", controllers.AdminDeleteUser(adminService, logg))
		})

		r.Route("/pets", func(r chi.Router) {
			r.Get("/", controllers.AdminListPets(adminService, logg))
			r.Delete("/{petId}", controllers.AdminDeletePet(adminService, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/generate", controllers.InventoryBulkGenerate(inventoryService, logg))
			r.Get("/", controllers.InventoryList(inventoryService, logg))
			r.Get("/stats", controllers.InventoryStats(inventoryService, logg))
			r.Delete("/batches/{batchId}", controllers.InventoryDeleteBatch(inventoryService, logg))
		})
	})

	mountQRArtifacts(r, cfg)

	return r
}

// mountQRArtifacts serves rendered code images straight off disk.
func mountQRArtifacts(r chi.Router, cfg *config.Config) {
	public := strings.TrimSuffix(cfg.QR.PublicPath, "/")
	if public == "" {
		return
	}
	fs := http.StripPrefix(public+"/", http.FileServer(http.Dir(cfg.QR.OutputDir)))
	r.Get(public+"/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}
