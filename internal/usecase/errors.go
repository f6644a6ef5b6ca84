package usecase

import crerr "github.com/cockroachdb/errors"

// Request-level failures shared by every engine service. Tournament rule
// violations use the tournament.Err* kinds instead.
var (
	ErrInvalidInput          = crerr.New("invalid tournament request")
	ErrNotFound              = crerr.New("player or tournament resource not found")
	ErrUnauthorized          = crerr.New("caller is not authenticated")
	ErrDependencyUnavailable = crerr.New("identity service unavailable")
)
