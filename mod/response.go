package mod

type ResponseValue struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ResponseData struct {
	ResponseValue
	Data interface{} `json:"data"`
}

type ResponseNotFound struct {
	ResponseValue
	SimilarBINs []string `json:"similarBINs,omitempty"`
}

type ResponseRetry struct {
	ResponseValue
	RetryAfter int `json:"retryAfter"` //秒
}

type ResponseBulk struct {
	ResponseValue
	Results []BulkItem `json:"results"`
}

type ResponseStats struct {
	ResponseValue
	Stats Stats `json:"stats"`
}

type DatabaseStatus struct {
	Loaded       bool `json:"loaded"`
	TotalRecords int  `json:"totalRecords"`
}

type ResponseProbe struct {
	DatabaseStatus DatabaseStatus `json:"databaseStatus"`
	TestResults    []BulkItem     `json:"testResults"`
}

const (
	MsgInvalidBIN     = "Invalid BIN. Must be at least 6 digits."
	MsgNotFound       = "BIN not found in database"
	MsgNotReady       = "Service initializing. Please try again in a moment."
	MsgUnavailable    = "BIN data unavailable. Service is degraded."
	MsgMissingBins    = "Missing bins parameter"
	MsgTooManyBins    = "Too many bins requested"
	MsgInternalError  = "Internal server error"
	MsgInvalidBulkBIN = "invalid BIN"
)
