package constant

// Request context keys
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
)

// HTTP header names
const (
	HeaderRequestID = "X-Request-ID"
	HeaderQRType    = "X-QR-Type"
	HeaderQRPayload = "X-QR-Payload"
	HeaderQRVersion = "X-QR-Version"
	HeaderLogoError = "X-QR-Logo-Error"
	HeaderHistError = "X-QR-History-Error"
	HeaderCache     = "X-Cache"
)

// Function/Context names
const (
	// Domain context names
	CtxDomain        = "domain"
	CtxClassify      = "Classify"
	CtxGenerate      = "Generate"
	CtxGenerateText  = "GenerateText"
	CtxGenerateWiFi  = "GenerateWiFi"
	CtxGenerateVCard = "GenerateVCard"
	CtxBatch         = "Batch"
	CtxHistory       = "History"

	// Infrastructure context names
	CtxEncoder  = "Encoder"
	CtxComposer = "Composer"
	CtxDB       = "db"
	CtxJSONFile = "JSONFileStore"
	CtxAppend   = "Append"
	CtxLoad     = "Load"
	CtxClear    = "Clear"
	CtxClose    = "Close"
	CtxOutput   = "Output"
	CtxAPI      = "api"

	// General context names
	CtxRouter     = "Router"
	CtxMain       = "Main"
	CtxCLI        = "CLI"
	CtxPreviewQR  = "PreviewQR"
	CtxGetHistory = "GetHistory"
	CtxGenerateQR = "GenerateQR"
	CtxClearHist  = "ClearHistory"
)

// Data field keys
const (
	// Service data fields
	DataService   = "service"
	DataInput     = "input"
	DataPayload   = "payload"
	DataKind      = "kind"
	DataLevel     = "level"
	DataVersion   = "version"
	DataSize      = "size"
	DataLogo      = "logo"
	DataRatio     = "ratio"
	DataIndex     = "index"
	DataTotal     = "total"
	DataSucceeded = "succeeded"
	DataFailed    = "failed"
	DataFilename  = "filename"
	DataEntries   = "entries"

	// Database data fields
	DataPath         = "path"
	DataElapsed      = "elapsed"
	DataRows         = "rows"
	DataSQL          = "sql"
	DataData         = "data"
	DataRowsAffected = "rows_affected"

	// API data fields
	DataMethod      = "method"
	DataStatus      = "status"
	DataLatency     = "latency"
	DataRemoteAddr  = "remote_addr"
	DataUserAgent   = "user_agent"
	DataPort        = "port"
	DataBackend     = "backend"
	DataEnvironment = "environment"
	DataCacheHit    = "cache_hit"
	DataCommand     = "command"
)

// Error message constants
const (
	ErrEmptyInput        = "input cannot be empty"
	ErrEmptySSID         = "WiFi SSID cannot be empty"
	ErrEmptyName         = "vCard name cannot be empty"
	ErrInvalidColor      = "invalid color"
	ErrInvalidLevel      = "invalid error correction level"
	ErrPayloadTooLong    = "payload exceeds maximum QR capacity"
	ErrHistoryIndexRange = "history index out of range"
)

// Error codes
const (
	ErrCodeAPIDecodeRequest  = "API001"
	ErrCodeAPIServiceError   = "API002"
	ErrCodeAPIValidation     = "API003"
	ErrCodeAPIEncodeResponse = "API004"
	ErrCodeAPINotFound       = "API005"
	ErrCodeAppHistoryInit    = "APP001"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
	ErrCodeAppConfig         = "APP004"
)

// Error types
const (
	ErrTypeAPI = "api"
	ErrTypeApp = "application"
)

// API routes
const (
	RouteClassify     = "/api/classify"
	RouteQRCode       = "/api/qr"
	RouteWiFiQRCode   = "/api/qr/wifi"
	RouteVCardQRCode  = "/api/qr/vcard"
	RouteHistory      = "/api/history"
	RouteHistoryEntry = "/api/history/{index}"
	RouteHealthcheck  = "/health"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
)

// History backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Message constants for application
const (
	MsgApplicationStarting    = "Application starting"
	MsgFailedToInitHistory    = "Failed to initialize history store"
	MsgInvalidConfig          = "Invalid configuration"
	MsgServerStarting         = "Server starting"
	MsgServerFailedToStart    = "Server failed to start"
	MsgServerShuttingDown     = "Server shutting down"
	MsgServerShutdownError    = "Error during server shutdown"
	MsgServerStopped          = "Server stopped"
	MsgRequestReceived        = "Request received"
	MsgRequestCompleted       = "Request completed"
	MsgSettingUpRoutes        = "Setting up API routes"
	MsgHealthcheckRequest     = "Handling healthcheck request"
	MsgHealthy                = "Healthy"
	MsgLogoCompositionSkipped = "Logo composition failed, rendering without logo"
	MsgHistoryWriteSkipped    = "History write failed, entry dropped"
	MsgHistoryLoadReset       = "History unreadable, starting empty"
	MsgInvalidRequest         = "Invalid request"
	MsgGenerationFailed       = "Failed to generate QR code"
	MsgHistoryNotFound        = "History entry not found"
)
