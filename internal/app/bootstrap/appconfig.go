// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging, CORS, request limits). AppConfig carries everything specific
// to this service: the MongoDB connection, session cookies, and the push
// gateway used for notification fanout.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: announcements-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Push notification gateway. When PushGatewayURL is blank the
	// service runs with notifications disabled and logs each batch
	// instead of sending it.
	PushGatewayURL string // HTTPS endpoint that relays notifications to APNs/FCM
	PushGatewayKey string // Bearer token for the gateway

	// NotifyInterval is how often the background dispatcher scans for
	// approved posts whose display window has opened.
	NotifyInterval time.Duration
}
