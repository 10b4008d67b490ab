package constant

import (
	"time"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Appointment lifecycle. A pending appointment is confirmed by the host or
// cancelled by either party; confirmed can only move to cancelled.
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
)

// Feedback review lifecycle.
const (
	FeedbackStatusPending  = "pending"
	FeedbackStatusAccepted = "accepted"
	FeedbackStatusRejected = "rejected"
)

// Session lifecycle events published to the broker.
const (
	EventSessionBooked    = "session.booked"
	EventSessionCancelled = "session.cancelled"
)

// Case recommendation modes.
const (
	RecommendModeFixWeaknesses  = "fix_weaknesses"
	RecommendModeBuildStrengths = "build_strengths"
)

// Partner recommendation modes.
const (
	PartnerModeSimilar    = "similar"
	PartnerModeComplement = "complement"
)

// SlotDurationMinutes is the fixed length of every availability slot.
const SlotDurationMinutes = 90

// NeutralSkillRating fills skills a member has no feedback for yet.
const NeutralSkillRating = 3.0

// MaxSkillRating is the top of the 1..5 feedback scale.
const MaxSkillRating = 5.0

// Skills every member is rated on.
var Skills = []string{
	"Estimation",
	"Framework",
	"Brainstorming",
	"Chart Interpretation",
	"Numerical Calculations",
}

const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	RequestParamID       = "id"
	RequestParamTimezone = "timezone"
	RequestParamMode     = "mode"
	RequestParamStatus   = "status"

	RequestParamIncludeBooked = "include_booked"
)

const (
	DefaultValuePage    = 1
	DefaultValueLimit   = 10
	DefaultValueSortBy  = "created_at"
	DefaultValueSortDir = "DESC"
)

const (
	DefaultTimezone = "Europe/Paris"
)

const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
)

const (
	DateFormat      = time.RFC3339
	LocalTimeFormat = "2006-01-02T15:04"
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEventScopeName      = "event"
	OtelS3ScopeName         = "s3"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Asterix = "*"
	Empty   = ""
)
