package services

import "errors"

// Dashboard service errors
var (
	// ErrNoData is returned while no cycle has produced a record yet.
	ErrNoData = errors.New("no production data loaded")

	// ErrRefresherRunning is returned by Start on an already started refresher.
	ErrRefresherRunning = errors.New("refresher already running")
)
