// Package stream moves session data over NATS and pushes computed reports
// to websocket clients.
package stream

import (
	"encoding/json"
	"strings"
	"sync"
	"unicode"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/facial"
	"codeberg.org/mutker/biofeedback/internal/logger"
	"codeberg.org/mutker/biofeedback/internal/session"
	"github.com/nats-io/nats.go"
)

// Subject suffixes handled by the bridge.
const (
	OpOpen   = "open"
	OpClose  = "close"
	OpRR     = "rr"
	OpFacial = "facial"
	OpPPG    = "ppg"
	OpPulse  = "pulse"
	OpClear  = "clear"

	metricsSuffix = "metrics"
)

// Conn is the subset of *nats.Conn the bridge uses.
type Conn interface {
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
	Publish(subj string, data []byte) error
}

// Broadcaster receives every published report.
type Broadcaster interface {
	Broadcast(b []byte)
}

// Envelope is the payload of every inbound message. Which data field is
// read depends on the subject: Waveform feeds respiration, Pulse is
// converted into heart rate and RR intervals.
type Envelope struct {
	Session     string          `json:"session,omitempty"`
	RRIntervals []float64       `json:"rr_intervals,omitempty"`
	Facial      []facial.Sample `json:"facial,omitempty"`
	Waveform    []float64       `json:"waveform,omitempty"`
	Pulse       []float64       `json:"pulse,omitempty"`
}

// Reply answers request messages.
type Reply struct {
	Session string           `json:"session,omitempty"`
	Error   string           `json:"error,omitempty"`
	Code    errors.ErrorCode `json:"code,omitempty"`
}

// Bridge applies inbound NATS messages to sessions and publishes a report
// to <subject>.metrics.<session> after every change.
type Bridge struct {
	conn     Conn
	subject  string
	registry *session.Registry
	out      Broadcaster
	log      logger.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

type BridgeOption func(*Bridge)

// WithBroadcaster also sends every report to b.
func WithBroadcaster(b Broadcaster) BridgeOption {
	return func(br *Bridge) {
		br.out = b
	}
}

func WithLogger(l logger.Logger) BridgeOption {
	return func(br *Bridge) {
		br.log = l
	}
}

func NewBridge(conn Conn, subject string, registry *session.Registry, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		conn:     conn,
		subject:  strings.TrimSuffix(subject, "."),
		registry: registry,
		log:      logger.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Subject returns the full subject for op.
func (b *Bridge) Subject(op string) string {
	return b.subject + "." + op
}

// MetricsSubject is where reports for session id are published.
func (b *Bridge) MetricsSubject(id string) string {
	return b.subject + "." + metricsSuffix + "." + id
}

// ValidSessionID reports whether id can be used as one NATS subject token:
// non-empty, with no dots, wildcards or whitespace.
func ValidSessionID(id string) bool {
	if id == "" {
		return false
	}

	return strings.IndexFunc(id, func(r rune) bool {
		return r == '.' || r == '*' || r == '>' || unicode.IsSpace(r)
	}) < 0
}

// Start subscribes to all inbound subjects.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, op := range []string{OpOpen, OpClose, OpRR, OpFacial, OpPPG, OpPulse, OpClear} {
		op := op
		sub, err := b.conn.Subscribe(b.Subject(op), func(msg *nats.Msg) {
			b.Handle(op, msg)
		})
		if err != nil {
			b.unsubscribe()
			return errors.New().Wrap(ErrSubscribe, err).WithData(b.Subject(op))
		}
		b.subs = append(b.subs, sub)
	}
	b.log.Info().Str("subject", b.subject+".>").Msg("Bridge started")

	return nil
}

// Stop removes all subscriptions.
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unsubscribe()
}

func (b *Bridge) unsubscribe() {
	for _, sub := range b.subs {
		if sub != nil {
			_ = sub.Unsubscribe()
		}
	}
	b.subs = nil
}

// Handle processes one inbound message for op.
func (b *Bridge) Handle(op string, msg *nats.Msg) {
	if err := b.handle(op, msg); err != nil {
		b.fail(msg, err)
	}
}

func (b *Bridge) handle(op string, msg *nats.Msg) error {
	errFactory := errors.New()

	var env Envelope
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			return errFactory.Wrap(ErrDecodeInput, err)
		}
	}
	if env.Session != "" && !ValidSessionID(env.Session) {
		return errFactory.WithMessage(ErrInvalidArgument, "session id must be a single subject token: "+env.Session)
	}

	switch op {
	case OpOpen:
		var s *session.Session
		if env.Session != "" {
			s = b.registry.GetOrCreate(env.Session)
		} else {
			s = b.registry.Open()
		}
		b.reply(msg, Reply{Session: s.ID()})
		return nil

	case OpClose:
		if err := b.registry.Close(env.Session); err != nil {
			return err
		}
		b.reply(msg, Reply{Session: env.Session})
		return nil
	}

	if env.Session == "" {
		return errFactory.WithMessage(ErrInvalidArgument, "session id is required")
	}
	s, err := b.registry.Get(env.Session)
	if err != nil {
		return err
	}

	switch op {
	case OpRR:
		s.AddRR(env.RRIntervals)
	case OpFacial:
		s.AddFacial(env.Facial...)
	case OpPPG:
		s.AddWaveform(env.Waveform)
	case OpPulse:
		if _, err := s.AddPulse(env.Pulse); err != nil {
			return err
		}
	case OpClear:
		s.Clear()
	default:
		return errFactory.WithData(ErrInvalidArgument, op)
	}

	if err := b.publish(s); err != nil {
		return err
	}
	b.reply(msg, Reply{Session: s.ID()})

	return nil
}

func (b *Bridge) publish(s *session.Session) error {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	if err := b.conn.Publish(b.MetricsSubject(s.ID()), data); err != nil {
		return errors.New().Wrap(ErrPublish, err)
	}
	if b.out != nil {
		b.out.Broadcast(data)
	}

	return nil
}

func (b *Bridge) reply(msg *nats.Msg, r Reply) {
	if msg.Reply == "" {
		return
	}

	data, _ := json.Marshal(r)
	if err := b.conn.Publish(msg.Reply, data); err != nil {
		b.log.Warn().Err(err).Str("reply", msg.Reply).Msg("Failed to send reply")
	}
}

func (b *Bridge) fail(msg *nats.Msg, err error) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		b.log.ErrorWithCode(appErr).Str("subject", msg.Subject).Msg("Message rejected")
	} else {
		b.log.Error().Err(err).Str("subject", msg.Subject).Msg("Message rejected")
	}

	code, _ := errors.CodeOf(err)
	b.reply(msg, Reply{Error: err.Error(), Code: code})
}
