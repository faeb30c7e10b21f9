package server

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// Client represents one connected browser tab.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Endpoint paths reserved by the reload channel.
const (
	// SocketPath is the websocket endpoint browser clients connect to.
	SocketPath = "/__turbo_reload"
	// ClientScriptPath serves the browser-side listener script.
	ClientScriptPath = "/__turbo_reload/client.js"
)
