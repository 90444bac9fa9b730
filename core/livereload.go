package core

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	ReloadPath    = "/__boostday_reload"
	reloadMessage = "reload"
)

type LiveReloaderInterface interface {
	BroadcastReload()
	Handler(http.ResponseWriter, *http.Request)
}

// LiveReloader keeps the dev pages' websockets and tells them to reload.
type LiveReloader struct {
	clients  map[*websocket.Conn]struct{}
	lock     sync.Mutex
	upgrader websocket.Upgrader
}

var NewLiveReloader = func() LiveReloaderInterface {
	return &LiveReloader{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (lr *LiveReloader) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	lr.lock.Lock()
	lr.clients[conn] = struct{}{}
	lr.lock.Unlock()

	go lr.drain(conn)
}

// drain reads until the browser goes away, then forgets the connection.
func (lr *LiveReloader) drain(conn *websocket.Conn) {
	defer func() {
		lr.lock.Lock()
		delete(lr.clients, conn)
		lr.lock.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (lr *LiveReloader) Clients() int {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	return len(lr.clients)
}

func (lr *LiveReloader) BroadcastReload() {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	for conn := range lr.clients {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reloadMessage)); err != nil {
			conn.Close()
			delete(lr.clients, conn)
		}
	}
}
