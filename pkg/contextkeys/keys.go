package contextkeys

type contextKey string

const (
	// SessionKey holds the *service.Session decoded from the bearer token.
	SessionKey contextKey = "Session"
)
