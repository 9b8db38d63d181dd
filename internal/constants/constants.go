package constants

import "time"

// Session
const (
	SessionCookieName = "kanban_session"
	ContextKeyUserID  = "user_id"
	SessionMaxAge     = 86400 * 7 // 7 days
)

// Context keys populated by access middleware
const (
	ContextKeyTask    = "task"
	ContextKeyProject = "project"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Magic-link sign-in
const (
	SignInTokenTTL   = 15 * time.Minute
	SignInTokenBytes = 32
)
