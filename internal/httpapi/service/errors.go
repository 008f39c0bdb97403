package service

import (
	"errors"

	"gorm.io/gorm"
)

// ErrPermissionDenied means the actor is authenticated but lacks the role or
// ownership the operation requires.
var ErrPermissionDenied = errors.New("permission denied")

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
