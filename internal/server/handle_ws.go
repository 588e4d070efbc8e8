package server

import (
	"context"
	"log/slog"
	"net/http"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// handleWS upgrades the connection and runs its read loop. Events are
// dispatched synchronously, so each connection's events are processed in
// the order they were sent.
func handleWS(logger *slog.Logger, g *game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		c := newClient()

		// Write pump: everything queued on c.send goes out here, so event
		// emission never blocks the game core.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case data := <-c.send:
					if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
						logger.Debug("websocket write failed", "error", err)
						cancel()
						return
					}
				}
			}
		}()

		for {
			var ev inboundEvent
			if err := wsjson.Read(ctx, conn, &ev); err != nil {
				logger.Debug("websocket read ended", "error", err)
				break
			}
			dispatch(ctx, logger, g, c, ev)
		}

		// Disconnect implies leave. The request context is dead by now, so
		// the departure broadcast gets its own.
		g.Leave(context.Background(), c)
	}
}

func dispatch(ctx context.Context, logger *slog.Logger, g *game, c *client, ev inboundEvent) {
	switch ev.Type {
	case evJoinRoom:
		p, err := decodePayload[joinRoomPayload](ev.Data)
		if err != nil {
			c.sendEvent(event{Type: evJoinError, Data: joinErrorPayload{Message: "Geçersiz istek."}})
			return
		}
		g.Join(ctx, c, p)

	case evLeaveRoom:
		g.Leave(ctx, c)

	case evSelectCity:
		p, err := decodePayload[selectCityPayload](ev.Data)
		if err != nil {
			c.sendEvent(ack(reasonServerError))
			return
		}
		g.StartQuestionCity(ctx, c, p.CityCode)

	case evSelectColor:
		p, err := decodePayload[selectColorPayload](ev.Data)
		if err != nil {
			c.sendEvent(ack(reasonServerError))
			return
		}
		g.StartQuestionColor(ctx, c, p.Color)

	case evSubmitAnswer:
		p, err := decodePayload[submitAnswerPayload](ev.Data)
		if err != nil {
			c.sendEvent(ack(reasonServerError))
			return
		}
		g.SubmitAnswer(ctx, c, p.ChoiceIndex)

	default:
		logger.Debug("unknown event", "type", ev.Type)
	}
}
