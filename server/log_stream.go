package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"pvsizer/internal"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// LogStream fans FeatureLogMessages out to connected websocket clients. It
// implements internal.MessageService, so the logger writer goroutine is the
// only sender; the mutex only guards the client set against connects.
type LogStream struct {
	logger   internal.LogHandler
	upgrader websocket.Upgrader
	mutex    sync.Mutex
	clients  map[*websocket.Conn]bool
}

func NewLogStream(logger internal.LogHandler) *LogStream {
	return &LogStream{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

func (ls *LogStream) handleWsRequest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := ls.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ls.logger.Error("log stream upgrade failed", err)
		return
	}
	ls.logger.Debug(fmt.Sprintf("log stream client connected from %s", r.RemoteAddr))

	ls.mutex.Lock()
	ls.clients[conn] = true
	ls.mutex.Unlock()

	go ls.closeReader(conn)
}

// closeReader drains the connection until the client leaves.
func (ls *LogStream) closeReader(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	ls.mutex.Lock()
	delete(ls.clients, conn)
	ls.mutex.Unlock()
	_ = conn.Close()
}

func (ls *LogStream) Send(msg internal.Message) error {
	if msg.MessageType() != internal.FeatureLogMessageType {
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding log message: %w", err)
	}

	ls.mutex.Lock()
	defer ls.mutex.Unlock()
	for conn := range ls.clients {
		if err = conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(ls.clients, conn)
			_ = conn.Close()
		}
	}
	return nil
}
