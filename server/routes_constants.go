package server

// Route path constants
// All relay routes are defined here to ensure consistency and prevent typos
const (
	// Browser-facing routes
	RouteRoot        = "/{$}"
	RouteRedirect    = "/redirect"
	RouteSetClientID = "/setclientid"
	RouteCallback    = "/callback"

	// Machine-facing routes polled by the headless client
	RouteHeartbeat  = "/heartbeat"
	RouteAccessCode = "/access_code"
)
