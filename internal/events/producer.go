package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/neotech_storefront/internal/logging"
)

const (
	publishTimeout = 5 * time.Second
	queueSize      = 256
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type queued struct {
	kind string
	msg  kafka.Message
}

// Producer publishes events to Kafka from a background sender so callers
// never wait on the broker. When the queue is full the event is dropped.
type Producer struct {
	writer  messageWriter
	topic   string
	profile string
	log     *slog.Logger

	queue     chan queued
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewProducer(brokers []string, topic, profile string, log *slog.Logger) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           publishTimeout,
		AllowAutoTopicCreation: true,
	}
	return newProducer(w, topic, profile, log)
}

func newProducer(w messageWriter, topic, profile string, log *slog.Logger) *Producer {
	if log == nil {
		log = slog.Default()
	}
	p := &Producer{
		writer:  w,
		topic:   topic,
		profile: profile,
		log:     log.With("component", "kafka_producer", "topic", topic),
		queue:   make(chan queued, queueSize),
		done:    make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func message(topic, key string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{Topic: topic, Key: []byte(key), Value: data}, nil
}

// PublishEvent writes one event and waits for the broker.
func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	msg, err := message(topic, key, event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

// Publish queues the event and returns at once.
func (p *Producer) Publish(ctx context.Context, e Event) {
	l := logging.FromContext(ctx)
	e.Profile = p.profile
	msg, err := message(p.topic, p.profile, e)
	if err != nil {
		l.Error("kafka_publish_error", "event", e.Type, "error", err)
		return
	}

	select {
	case <-p.done:
		l.Warn("kafka_publish_dropped", "event", e.Type, "reason", "closed")
		return
	default:
	}
	select {
	case p.queue <- queued{kind: e.Type, msg: msg}:
	default:
		l.Warn("kafka_publish_dropped", "event", e.Type, "reason", "queue_full")
	}
}

func (p *Producer) run() {
	defer p.wg.Done()
	for {
		select {
		case q := <-p.queue:
			p.send(q)
		case <-p.done:
			for {
				select {
				case q := <-p.queue:
					p.send(q)
				default:
					return
				}
			}
		}
	}
}

func (p *Producer) send(q queued) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, q.msg); err != nil {
		p.log.Error("kafka_publish_error", "event", q.kind, "error", err)
	}
}

// Close flushes queued events, then closes the writer.
func (p *Producer) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	p.wg.Wait()
	return p.writer.Close()
}
