package ws

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/DoyleJ11/library-dashboard/internal/live"
	"github.com/DoyleJ11/library-dashboard/internal/types"
	"github.com/DoyleJ11/library-dashboard/internal/view"
	"github.com/coder/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const writeTimeout = 3 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler streams a freshly rendered library fragment to the browser every
// time the model publishes. The browser never sends anything we act on.
func Handler(m *live.Model, r *view.Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		conn, err := websocket.Accept(w, req, nil)
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		// Reads are discarded; ctx ends when the browser goes away.
		ctx := conn.CloseRead(req.Context())

		clientID := randID()
		out := make(chan live.Update, 8)
		m.Subscribe(clientID, out)
		defer m.Unsubscribe(clientID)

		clog := log.With(zap.String("client", clientID))
		clog.Debug("view client connected")

		for {
			select {
			case <-ctx.Done():
				clog.Debug("view client gone")
				return
			case u, ok := <-out:
				if !ok {
					// dropped for falling behind, or shutting down
					conn.Close(websocket.StatusTryAgainLater, "resubscribe")
					return
				}
				if err := push(ctx, conn, r, u); err != nil {
					clog.Debug("view push failed", zap.Error(err))
					return
				}
			}
		}
	}
}

func push(ctx context.Context, conn *websocket.Conn, r *view.Renderer, u live.Update) error {
	msg := types.ServerMessage{Type: types.MsgView, Version: u.Version}

	var html bytes.Buffer
	if err := r.Fragment(&html, u.Snapshot); err != nil {
		msg = types.ServerMessage{Type: types.MsgError, Version: u.Version, Error: "render failed"}
	} else {
		msg.HTML = html.String()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

func randID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
