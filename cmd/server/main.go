package main

import (
	"encoding/json"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/perspecta/perspecta/internal/api"
	"github.com/perspecta/perspecta/internal/clients/billing"
	"github.com/perspecta/perspecta/internal/clients/jobsearch"
	dbstore "github.com/perspecta/perspecta/internal/db"
	"github.com/perspecta/perspecta/internal/logger"
	"github.com/perspecta/perspecta/internal/middleware"
	"github.com/perspecta/perspecta/internal/services"
	"github.com/perspecta/perspecta/internal/utils"
)

func main() {
	log, err := logger.New(utils.SafeEnv("PERSPECTA_MODE", "dev"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	addr := utils.SafeEnv("PERSPECTA_ADDR", ":8080")
	commit := os.Getenv("PERSPECTA_COMMIT")
	buildTime := os.Getenv("PERSPECTA_BUILD_TIME")

	store, cleanup, err := buildStore(log)
	if err != nil {
		log.Fatal("store init failed", zap.Error(err))
	}
	defer cleanup()

	router := api.NewRouter(store, log, buildPaymentChecker(log), buildJobSearcher(log))
	if err := router.SeedDefaults(); err != nil {
		log.Fatal("questionnaire seeding failed", zap.Error(err))
	}

	mux := http.NewServeMux()
	router.Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"name":   "Perspecta API",
			"locale": locale,
			"msg":    utils.T(locale, "health.ok"),
			"commit": commit,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	handler := middleware.CORS(
		middleware.SecureHeaders(
			middleware.NoStore(
				middleware.LocaleMiddleware(
					middleware.WithAuth(
						middleware.RequestLogging(log)(mux))))))

	log.Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

// buildStore picks sqlite when PERSPECTA_DB_PATH is set and falls back to the
// in-memory store otherwise.
func buildStore(log *zap.Logger) (api.Store, func(), error) {
	path := os.Getenv("PERSPECTA_DB_PATH")
	if path == "" {
		log.Warn("PERSPECTA_DB_PATH not set, using in-memory store")
		return api.NewMemoryStore(), func() {}, nil
	}
	sqliteDB, err := openSQLite(path, os.Getenv("PERSPECTA_MIGRATIONS_DIR"))
	if err != nil {
		return nil, nil, err
	}
	store, err := dbstore.NewStore(sqliteDB, log)
	if err != nil {
		_ = sqliteDB.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := sqliteDB.Close(); err != nil {
			log.Warn("closing sqlite", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func buildPaymentChecker(log *zap.Logger) services.PaymentChecker {
	base := os.Getenv("PERSPECTA_BILLING_URL")
	if base == "" {
		log.Warn("PERSPECTA_BILLING_URL not set, certificate payment gate disabled")
		return nil
	}
	return billing.NewClient(base, os.Getenv("PERSPECTA_BILLING_KEY"))
}

func buildJobSearcher(log *zap.Logger) api.JobSearcher {
	base := os.Getenv("PERSPECTA_JOBS_BASE_URL")
	if base == "" {
		log.Warn("PERSPECTA_JOBS_BASE_URL not set, job search disabled")
		return nil
	}
	return jobsearch.NewClient(jobsearch.Config{
		BaseURL:      base,
		TokenURL:     os.Getenv("PERSPECTA_JOBS_TOKEN_URL"),
		ClientID:     os.Getenv("PERSPECTA_JOBS_CLIENT_ID"),
		ClientSecret: os.Getenv("PERSPECTA_JOBS_CLIENT_SECRET"),
		Scope:        os.Getenv("PERSPECTA_JOBS_SCOPE"),
	})
}
