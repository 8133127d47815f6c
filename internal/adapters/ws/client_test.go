package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// dialTestConn upgrades a loopback connection and returns the server side.
func dialTestConn(t *testing.T) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connCh <- conn
	}))
	t.Cleanup(srv.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	return <-connCh
}

func TestStopIsSafeAgainstConcurrentSend(t *testing.T) {
	client := NewClient(WsClientParams{
		UserID: uuid.New(),
		Conn:   dialTestConn(t),
		Logger: zerolog.Nop(),
	})
	client.Start()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_ = client.Send(NewServerMessage(MessageTypePong))
			}
		}()
	}

	client.Stop()
	wg.Wait()

	require.Error(t, client.Send(NewServerMessage(MessageTypePong)))
}

func TestStopIsIdempotent(t *testing.T) {
	client := NewClient(WsClientParams{
		UserID: uuid.New(),
		Conn:   dialTestConn(t),
		Logger: zerolog.Nop(),
	})
	client.Start()

	client.Stop()
	client.Stop()
}
