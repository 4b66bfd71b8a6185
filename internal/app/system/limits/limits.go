// internal/app/system/limits/limits.go
package limits

// Request body size limits for the JSON API.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the default cap for JSON request bodies:
	// credentials, organization edits, follow decisions, and similar
	// small payloads.
	MaxJSONBodySize = 64 << 10 // 64 KB

	// MaxPostBodySize is the cap for post and comment submissions,
	// whose bodies carry user-written text. Images travel as URLs,
	// never as inline payloads.
	MaxPostBodySize = 1 << 20 // 1 MB
)
