// Package http implements the HTTP handlers of the dashboard. Handlers are
// thin: they read from the dashboard and health services, render JSON with
// go-chi/render and hand every failure to the central errors.ErrorHandler,
// which answers with RFC 7807 problem details.
//
// # Endpoints
//
//	GET  /                              dashboard page
//	GET  /api/dashboard                 current record as JSON
//	GET  /api/dashboard/status          load cycle state
//	POST /api/dashboard/refresh         run (or join) a fetch and parse cycle
//	GET  /api/dashboard/export.csv      CSV download
//	GET  /api/dashboard/export.xlsx     XLSX download
//	GET  /api/dashboard/export?format=  either, by query
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//
// # Error Handling
//
// Service errors carry an errors.AppError type that selects the status:
//
//	UNAVAILABLE  503  no record loaded yet
//	FETCH        502  the source could not be read
//	PARSE        502  the source was malformed
//	VALIDATION   400  bad query parameter
//
// The page itself never fails on a load error; it renders the generic banner
// and keeps showing the last good record.
package http
