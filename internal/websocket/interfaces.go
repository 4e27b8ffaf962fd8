package websocket

import (
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// Connection is the part of a websocket connection the client pumps use.
// *websocket.Conn satisfies it directly.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	RemoteAddr() net.Addr
}

var _ Connection = (*websocket.Conn)(nil)

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
