package main

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const eventBuffer = 64

// streamEvents writes every compositor event to the socket as JSON until
// the peer goes away.
func (as *APIServer) streamEvents(ctx context.Context, c *websocket.Conn) {
	var hub *EventHub
	if err := as.loop.Do(ctx, func(comp *Compositor) error {
		hub = comp.Events()
		return nil
	}); err != nil {
		return
	}
	events, unsubscribe := hub.Subscribe(eventBuffer)
	defer unsubscribe()

	// Reads are only needed to notice the close handshake.
	ctx = c.CloseRead(ctx)
	for {
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, c, ev); err != nil {
				logrus.WithError(err).Debugln("event stream write failed")
				return
			}
		}
	}
}

func makeWSHandler(
	handler func(context.Context, *websocket.Conn),
) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			logrus.WithError(err).Warnln("websocket connect error")
			return
		}
		log := logrus.WithFields(logrus.Fields{
			"path":   r.URL.Path,
			"remote": r.RemoteAddr,
		})
		log.Infoln("connect")
		defer log.Infoln("disconnect")
		defer c.Close(websocket.StatusInternalError, "")
		handler(r.Context(), c)
	}
}
