package live

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server upgrades incoming HTTP requests to websocket subscribers of hub.
type Server struct {
	hub  *Hub
	auth Authenticator
}

// NewServer returns a Server that authenticates connections with auth
// before registering them with hub.
func NewServer(hub *Hub, auth Authenticator) *Server {
	return &Server{hub: hub, auth: auth}
}

// ServeHTTP implements http.Handler, upgrading the connection and
// registering it as a subscriber to the "spec" query parameter's reports
// (or every report, if unset).
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := s.auth.Authenticate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	specName := r.URL.Query().Get("spec")
	client := newClient(s.hub, subscriberID+":"+uuid.NewString(), specName, conn)
	s.hub.register <- client

	go client.writePump()
	go client.readPump()
}
