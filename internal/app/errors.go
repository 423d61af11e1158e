package service

import "errors"

// ErrNotStarted is returned by operations that need Start to have run.
var ErrNotStarted = errors.New("service not started")
