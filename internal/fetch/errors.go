package fetch

import "errors"

var (
	// ErrEmptyTarget is returned for a blank target address.
	ErrEmptyTarget = errors.New("empty target address")

	// ErrInvalidTarget is returned when a target cannot be turned into an http(s) URL.
	ErrInvalidTarget = errors.New("invalid target address")

	// ErrNoClient is returned when Fetch is called without an HTTP client.
	ErrNoClient = errors.New("no session client")

	// ErrDisallowedByRobots is returned when robots.txt forbids the target path.
	ErrDisallowedByRobots = errors.New("target disallowed by robots.txt")
)
