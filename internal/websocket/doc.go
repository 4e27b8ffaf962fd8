// Package websocket pushes dashboard events to open browser tabs.
//
// The Hub is an http.Handler for the /ws route. Each upgraded connection gets
// a Client with a read pump, which only watches for disconnects and
// heartbeats, and a write pump, which forwards hub messages and sends pings.
// After a successful load the dashboard service broadcasts a data_update
// message and the page reloads itself.
//
//	{"type":"data_update","data":{"date":"Thursday 12th June 2025",...},"timestamp":"..."}
package websocket
