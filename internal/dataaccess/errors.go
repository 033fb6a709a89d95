package dataaccess

import (
	"errors"

	"github.com/mahinuzzaman/pulsefeed/internal/repositories"
)

// ErrNotFound reports that the requested entity does not exist, as opposed to
// the store request having failed.
var ErrNotFound = repositories.ErrNotFound

// ErrEmptyContent reports that a post or comment body was empty after
// trimming. It is returned before any store call is made.
var ErrEmptyContent = errors.New("content must not be empty")

// ErrForbidden reports that the acting user does not own the target entity.
var ErrForbidden = errors.New("not the owner of this entity")
