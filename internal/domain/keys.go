package domain

type ContextKey string

// Keys set by the auth middleware on the request context.
const (
	KeyUserID    ContextKey = "UserID"
	KeyUserEmail ContextKey = "UserEmail"
	KeyUserRole  ContextKey = "UserRole"
)
