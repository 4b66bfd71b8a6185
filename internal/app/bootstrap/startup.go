// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/adityachugh/Announcements-Web/internal/app/store/devices"
	"github.com/adityachugh/Announcements-Web/internal/app/store/followers"
	"github.com/adityachugh/Announcements-Web/internal/app/store/organizations"
	"github.com/adityachugh/Announcements-Web/internal/app/store/posts"
	"github.com/adityachugh/Announcements-Web/internal/app/system/push"
	"github.com/adityachugh/Announcements-Web/internal/app/system/workers"
)

// pushSender and notifyWorker are created in Startup and shared with
// BuildHandler and Shutdown.
var (
	pushSender   push.Sender
	notifyWorker *workers.PostNotify
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It selects the push sender from config and starts the background
// dispatcher that fans approved posts out to follower devices.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.PushGatewayURL != "" {
		pushSender = push.NewGatewaySender(appCfg.PushGatewayURL, appCfg.PushGatewayKey, logger)
		logger.Info("push notifications enabled", zap.String("gateway", appCfg.PushGatewayURL))
	} else {
		pushSender = push.NopSender{}
		logger.Warn("push_gateway_url not set; notifications disabled")
	}

	notifyWorker = workers.NewPostNotify(
		poststore.New(deps.MongoDatabase),
		followerstore.New(deps.MongoDatabase),
		devicestore.New(deps.MongoDatabase),
		organizationstore.New(deps.MongoDatabase),
		pushSender,
		logger,
		appCfg.NotifyInterval,
	)
	notifyWorker.Start()

	return nil
}
