package store

import "errors"

var (
	ErrUnauthenticated    = errors.New("user not authenticated")
	ErrIssueNotFound      = errors.New("issue not found")
	ErrForbidden          = errors.New("only architects can respond to issues")
	ErrInvalidInput       = errors.New("invalid input")
	ErrResolveUnsupported = errors.New("resolving issues is not supported")
)
