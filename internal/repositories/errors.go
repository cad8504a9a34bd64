package repositories

import "errors"

// Sentinel errors shared across repositories so callers can discriminate
// duplicate-conflict and not-found outcomes from real store failures.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateLike = errors.New("like already exists")
	ErrLikeNotFound  = errors.New("like not found")
)
