package constants

const (
	MAX_PAGE_SIZE           = 200
	DEFAULT_TRANSFERS_LIMIT = 50
	DEFAULT_PATTERNS_LIMIT  = 50
	// MAX_REQUEST_RETRIES caps the retry budget a caller may ask for
	MAX_REQUEST_RETRIES = 10
	// MAX_FLEXIBILITY_MINUTES caps the half-width of the slot window
	MAX_FLEXIBILITY_MINUTES = 12 * 60
)
