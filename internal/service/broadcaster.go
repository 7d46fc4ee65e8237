package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/abreuwilliam/Desafio/internal/delivery/dto"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// DashboardChannel receives every stored reading.
	DashboardChannel = "vitals:dashboard"

	// PatientChannelPrefix scopes a channel to one patient key.
	PatientChannelPrefix = "vitals:patient:"
)

// Broadcaster disseminates stored readings. Publish is fire-and-forget:
// it never blocks the ingestion caller and its failures never surface
// to them.
type Broadcaster interface {
	Publish(view *dto.VitalSignView)
}

// redisPublisher is the slice of *redis.Client the broadcaster needs.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisBroadcaster fans stored readings out over Redis pub/sub. A
// single worker goroutine drains a buffered queue, so publishes happen
// in enqueue order (one enqueue per completed persist) while the
// ingest path only pays for a channel send. When the queue is full the
// reading is dropped and logged; subscribers get no replay anyway.
type RedisBroadcaster struct {
	client redisPublisher
	log    *logrus.Logger

	queue    chan *dto.VitalSignView
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewRedisBroadcaster(client redisPublisher, log *logrus.Logger, queueSize int) *RedisBroadcaster {
	b := &RedisBroadcaster{
		client:   client,
		log:      log,
		queue:    make(chan *dto.VitalSignView, queueSize),
		stopChan: make(chan struct{}),
	}

	b.wg.Add(1)
	go b.run()

	return b
}

// Publish enqueues the view for dissemination.
func (b *RedisBroadcaster) Publish(view *dto.VitalSignView) {
	if b.stopped.Load() {
		return
	}

	select {
	case b.queue <- view:
	default:
		b.log.Warnf("Broadcast queue full, dropping reading for patient %s", view.PatientID)
	}
}

// Stop drains the queue and stops the worker.
func (b *RedisBroadcaster) Stop() {
	if b.stopped.Swap(true) {
		return
	}
	close(b.stopChan)
	b.wg.Wait()
}

func (b *RedisBroadcaster) run() {
	defer b.wg.Done()

	for {
		select {
		case view := <-b.queue:
			b.send(view)
		case <-b.stopChan:
			// Drain whatever was enqueued before Stop.
			for {
				select {
				case view := <-b.queue:
					b.send(view)
				default:
					return
				}
			}
		}
	}
}

func (b *RedisBroadcaster) send(view *dto.VitalSignView) {
	payload, err := json.Marshal(view)
	if err != nil {
		b.log.Warnf("Failed to marshal broadcast payload: %+v", err)
		return
	}

	ctx := context.Background()

	if err := b.client.Publish(ctx, DashboardChannel, payload).Err(); err != nil {
		b.log.Warnf("Failed to publish to dashboard channel: %+v", err)
	}

	patientChannel := fmt.Sprintf("%s%s", PatientChannelPrefix, view.PatientID)
	if err := b.client.Publish(ctx, patientChannel, payload).Err(); err != nil {
		b.log.Warnf("Failed to publish to %s: %+v", patientChannel, err)
	}
}
