// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to this platform:
// database coordinates, session cookies, the contact webhook, the map
// tile server, and the bootstrap admin account.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: soleilhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL used when composing absolute links (notifications, exports)
	BaseURL string

	// ContactWebhookURL receives public contact-form submissions as JSON.
	// Blank disables the contact form endpoint.
	ContactWebhookURL string

	// TileURLTemplate is the {z}/{x}/{y} template for the project map
	// widget. Blank falls back to the public OSM tile server.
	TileURLTemplate string

	// Bootstrap admin account, created on startup when no admin exists.
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// SeedDemoData loads the demo project catalog on startup when the
	// catalog is empty.
	SeedDemoData bool
}
