package websocket

import (
	"context"

	"github.com/abreuwilliam/Desafio/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Relay subscribes to the vitals pub/sub channels and forwards every
// message into the hub. Running the fan-out through Redis means any
// instance's ingestion reaches this instance's websocket clients.
type Relay struct {
	client *redis.Client
	hub    *Hub
	log    *logrus.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRelay(client *redis.Client, hub *Hub, log *logrus.Logger) *Relay {
	return &Relay{
		client: client,
		hub:    hub,
		log:    log,
		done:   make(chan struct{}),
	}
}

// Start begins relaying in a background goroutine.
func (r *Relay) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	pubsub := r.client.PSubscribe(ctx, service.DashboardChannel, service.PatientChannelPrefix+"*")

	go func() {
		defer close(r.done)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				r.hub.Broadcast(msg.Channel, []byte(msg.Payload))
			case <-ctx.Done():
				return
			}
		}
	}()

	r.log.Info("Websocket relay subscribed to vitals channels")
}

// Stop terminates the relay and waits for the goroutine to exit.
func (r *Relay) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	<-r.done
}
