package config

const (
	// MaxDocumentTitleLength is the maximum length for document titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxDocumentTitleLength = 255

	// MaxDocumentContentBytes caps markdown content at 10 MiB.
	MaxDocumentContentBytes = 10 << 20

	// MaxRequestBodyBytes bounds JSON request bodies; content plus envelope.
	MaxRequestBodyBytes = MaxDocumentContentBytes + 64<<10

	// MaxUserNameLength is the maximum length for display names.
	MaxUserNameLength = 100

	// MaxEmailLength follows the RFC 5321 path limit.
	MaxEmailLength = 254

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6

	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72

	// CopyTitleSuffix is appended to the title of a duplicated document.
	CopyTitleSuffix = " (Copy)"
)
