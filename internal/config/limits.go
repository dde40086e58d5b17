package config

const (
	// MaxProjectTitleLength is the maximum length for project titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxProjectTitleLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file display names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxUploadBytes caps a single multipart file upload (25 MB). The
	// external provider accepts far more, but classroom material beyond
	// this suggests a video that belongs on a streaming host instead.
	MaxUploadBytes = 25 << 20

	// MinSharePINLength / MaxSharePINLength bound PINs on pin-protected
	// share links.
	MinSharePINLength = 4
	MaxSharePINLength = 12
)
