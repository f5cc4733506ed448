// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	composersfeature "github.com/dalemusser/scorehub/internal/app/features/composers"
	healthfeature "github.com/dalemusser/scorehub/internal/app/features/health"
	instrumentsfeature "github.com/dalemusser/scorehub/internal/app/features/instruments"
	loginfeature "github.com/dalemusser/scorehub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/scorehub/internal/app/features/logout"
	profilefeature "github.com/dalemusser/scorehub/internal/app/features/profile"
	sheetsfeature "github.com/dalemusser/scorehub/internal/app/features/sheets"
	systemusersfeature "github.com/dalemusser/scorehub/internal/app/features/systemusers"
	tagsfeature "github.com/dalemusser/scorehub/internal/app/features/tags"
	sheetstore "github.com/dalemusser/scorehub/internal/app/store/sheets"
	userstore "github.com/dalemusser/scorehub/internal/app/store/users"
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/dalemusser/scorehub/internal/app/system/mailer"
	"github.com/dalemusser/scorehub/internal/app/system/passcode"
	"github.com/dalemusser/scorehub/internal/app/system/token"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ScoreHub builds the token manager and
// auth middleware, applies the session loader globally, and mounts the API
// feature routers: sign in/out, profile, user administration, sheets, and
// the catalog listings.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies everywhere except dev mode.
	secure := coreCfg.Env != "dev"

	users := userstore.New(deps.MongoDatabase)
	sheets := sheetstore.New(deps.MongoDatabase)

	tokens := token.New(appCfg.TokenSecret, appCfg.TokenTTL)
	authMgr := auth.NewManager(tokens, users, appCfg.CookieName, secure, logger)
	passcodes := passcode.New(deps.Secrets, appCfg.SecretTTL, appCfg.BaseURL)
	mail := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort,
		appCfg.MailSMTPUser, appCfg.MailSMTPPass,
		appCfg.MailFrom, appCfg.MailFromName, logger)

	r := chi.NewRouter()

	// Global auth middleware: resolves the session cookie to a fresh user
	// record so role changes and disabled accounts take effect immediately.
	r.Use(authMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Secrets, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication: passcode request/confirm plus registration, with
	// admin user management nested under the same prefix.
	loginHandler := loginfeature.NewHandler(users, passcodes, authMgr, mail, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(authMgr, logger)
	r.Mount("/auth/sign-out", logoutfeature.Routes(logoutHandler))

	sysUsersHandler := systemusersfeature.NewHandler(users, logger)
	r.Mount("/auth/users", systemusersfeature.Routes(sysUsersHandler, authMgr))

	// Self-service profile.
	profileHandler := profilefeature.NewHandler(users, logger)
	r.Mount("/me", profilefeature.Routes(profileHandler, authMgr))

	// Sheet library: CRUD, version history, restore, file access.
	sheetsHandler := sheetsfeature.NewHandler(sheets, deps.Files, logger)
	r.Mount("/sheets", sheetsfeature.Routes(sheetsHandler, authMgr))

	// Catalog listings derived from the owner's sheets.
	tagsHandler := tagsfeature.NewHandler(sheets, logger)
	r.Mount("/tags", tagsfeature.Routes(tagsHandler, authMgr))

	instrumentsHandler := instrumentsfeature.NewHandler(sheets, logger)
	r.Mount("/instruments", instrumentsfeature.Routes(instrumentsHandler, authMgr))

	composersHandler := composersfeature.NewHandler(sheets, logger)
	r.Mount("/composers", composersfeature.Routes(composersHandler, authMgr))

	return r, nil
}
