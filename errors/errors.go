package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrEmptyName        = fmt.Errorf("empty display name")
	ErrDuplicateSession = fmt.Errorf("session id already registered")
)
