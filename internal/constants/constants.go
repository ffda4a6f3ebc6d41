package constants

// Context and session keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "user"
	SessionCookieName = "task_session"
)

// Validation limits
const (
	MinPasswordLength   = 8
	MaxAIGeneratedTasks = 20
)

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Domain defaults
const (
	DefaultTaskStatus = "Pending"
	BearerTokenType   = "bearer"
	UploadURLPrefix   = "/uploads"
)
