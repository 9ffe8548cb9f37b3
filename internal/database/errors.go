package database

import "errors"

var (
	// ErrDatabaseNotFound is returned when opening a missing database without CreateIfNotExists.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrNilRecord is returned when Insert receives a nil record.
	ErrNilRecord = errors.New("nil record")

	// ErrUnknownDriver is returned by OpenStore for an unsupported storage driver.
	ErrUnknownDriver = errors.New("unknown storage driver")
)
