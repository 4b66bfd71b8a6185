// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountsfeature "github.com/adityachugh/Announcements-Web/internal/app/features/accounts"
	commentsfeature "github.com/adityachugh/Announcements-Web/internal/app/features/comments"
	followfeature "github.com/adityachugh/Announcements-Web/internal/app/features/follow"
	healthfeature "github.com/adityachugh/Announcements-Web/internal/app/features/health"
	organizationsfeature "github.com/adityachugh/Announcements-Web/internal/app/features/organizations"
	postsfeature "github.com/adityachugh/Announcements-Web/internal/app/features/posts"
	profilefeature "github.com/adityachugh/Announcements-Web/internal/app/features/profile"
	"github.com/adityachugh/Announcements-Web/internal/app/policy/orgpolicy"
	"github.com/adityachugh/Announcements-Web/internal/app/store/comments"
	"github.com/adityachugh/Announcements-Web/internal/app/store/devices"
	"github.com/adityachugh/Announcements-Web/internal/app/store/followers"
	"github.com/adityachugh/Announcements-Web/internal/app/store/organizations"
	"github.com/adityachugh/Announcements-Web/internal/app/store/posts"
	"github.com/adityachugh/Announcements-Web/internal/app/store/users"
	"github.com/adityachugh/Announcements-Web/internal/app/system/auditlog"
	"github.com/adityachugh/Announcements-Web/internal/app/system/auth"
	"github.com/adityachugh/Announcements-Web/internal/app/system/notify"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed, so the push sender chosen in Startup is
// available here for the admin notifier.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	orgs := organizationstore.New(deps.MongoDatabase)
	follows := followerstore.New(deps.MongoDatabase)
	posts := poststore.New(deps.MongoDatabase)
	comments := commentstore.New(deps.MongoDatabase)
	devices := devicestore.New(deps.MongoDatabase)

	policy := orgpolicy.New(follows, orgs)
	notifier := notify.NewAdminNotifier(follows, devices, pushSender, logger)
	audit := auditlog.New(deps.MongoDatabase, logger)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	accountsHandler := accountsfeature.NewHandler(users, logger)
	orgHandler := organizationsfeature.NewHandler(orgs, follows, policy, logger)
	followHandler := followfeature.NewHandler(follows, orgs, users, policy, notifier, logger)
	followHandler.Audit = audit
	postsHandler := postsfeature.NewHandler(posts, follows, orgs, policy, notifier, logger)
	postsHandler.Audit = audit
	commentsHandler := commentsfeature.NewHandler(comments, posts, orgs, policy, logger)
	profileHandler := profilefeature.NewHandler(users, devices, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged
	// in, making the caller available to handlers via auth.CurrentUser.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Mount("/auth", accountsfeature.Routes(accountsHandler))
	r.Mount("/organizations", organizationsfeature.Routes(orgHandler, followHandler, postsHandler))
	r.Mount("/follow-requests", followfeature.RequestRoutes(followHandler))
	r.Mount("/posts", postsfeature.Routes(postsHandler, commentsHandler))
	r.Mount("/comments", commentsfeature.Routes(commentsHandler))
	r.Mount("/feed", postsfeature.FeedRoutes(postsHandler))
	r.Mount("/me", profilefeature.Routes(profileHandler, followHandler))

	return r, nil
}
