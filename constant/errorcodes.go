package constant

// Domain service error codes
const (
	// Payload builder - Validation errors (1xx)
	ErrCodeEmptyInput   = "SVC101"
	ErrCodeEmptySSID    = "SVC102"
	ErrCodeEmptyName    = "SVC103"
	ErrCodeInvalidColor = "SVC104"
	ErrCodeInvalidLevel = "SVC105"

	// Encoder errors (2xx)
	ErrCodeEncodeFailure  = "SVC201"
	ErrCodeLevelDowngrade = "SVC202"

	// Composer errors (3xx)
	ErrCodeLogoDecode  = "SVC301"
	ErrCodeLogoMissing = "SVC302"

	// History errors (4xx)
	ErrCodeHistoryLoad  = "SVC401"
	ErrCodeHistoryWrite = "SVC402"
	ErrCodeHistoryClear = "SVC403"

	// Batch errors (5xx)
	ErrCodeBatchItem = "SVC501"
	ErrCodeSaveImage = "SVC502"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Append operation errors (1xx)
	ErrCodeDBInsert = "DB101"
	ErrCodeDBTrim   = "DB102"

	// Load operation errors (2xx)
	ErrCodeDBLookup = "DB201"

	// Clear operation errors (3xx)
	ErrCodeDBClear = "DB301"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation  = "validation"
	ErrTypeEncoding    = "encoding"
	ErrTypeComposition = "composition"
	ErrTypePersistence = "persistence"
	ErrTypeBatch       = "batch"

	// Infrastructure error types
	ErrTypeDB = "db"
)
