package handlers

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// IncidentFeed pushes incident lifecycle events to connected dashboards
type IncidentFeed struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

// NewIncidentFeed returns an empty feed
func NewIncidentFeed() *IncidentFeed {
	return &IncidentFeed{
		clients: make(map[string]*websocket.Conn),
	}
}

// ServeWS upgrades the request and keeps the connection registered until the
// client goes away
func (f *IncidentFeed) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	clientID := uuid.New().String()
	f.mutex.Lock()
	f.clients[clientID] = conn
	f.mutex.Unlock()
	zap.S().Infow("client connected to incident feed", "client", clientID)

	conn.SetCloseHandler(func(code int, text string) error {
		f.drop(clientID)
		return nil
	})

	// drain reads so close frames and pings are processed
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			f.drop(clientID)
			break
		}
	}
}

// Broadcast sends an event to every connected client, dropping clients whose
// writes fail
func (f *IncidentFeed) Broadcast(event string, data map[string]interface{}) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for clientID, conn := range f.clients {
		err := conn.WriteJSON(map[string]interface{}{
			"event": event,
			"data":  data,
		})
		if err != nil {
			zap.S().Warnw("failed to write to incident feed client", "client", clientID, "error", err)
			delete(f.clients, clientID)
			conn.Close()
		}
	}
}

func (f *IncidentFeed) drop(clientID string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if conn, ok := f.clients[clientID]; ok {
		delete(f.clients, clientID)
		conn.Close()
		zap.S().Infow("client disconnected from incident feed", "client", clientID)
	}
}
