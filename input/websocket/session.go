package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/c360/scanstream/gs1"
	"github.com/c360/scanstream/scanbox"
)

// surfaceName labels feed scans in metrics and published events.
const surfaceName = "feed"

// Envelope is the frame format in both directions
type Envelope struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// keyPayload mirrors the browser KeyboardEvent fields the reconstructor needs
type keyPayload struct {
	Key       string `json:"key"`
	Code      string `json:"code"`
	CharCode  int    `json:"charCode"`
	Ctrl      bool   `json:"ctrl"`
	Alt       bool   `json:"alt"`
	Shift     bool   `json:"shift"`
	Meta      bool   `json:"meta"`
	Repeat    bool   `json:"repeat"`
	Composing bool   `json:"composing"`
}

type scanningPayload struct {
	Display string `json:"display"`
}

type completePayload struct {
	ID      string          `json:"id,omitempty"`
	Raw     string          `json:"raw"`
	Display string          `json:"display"`
	Data    *gs1.ParsedData `json:"data"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type clearPayload struct {
	Reason string `json:"reason"`
}

// session binds one feed connection to its scan reconstruction state
type session struct {
	id   string
	conn *websocket.Conn
	feed *Feed

	box     *scanbox.Box
	limiter *rate.Limiter

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newSession(id string, conn *websocket.Conn, feed *Feed) *session {
	s := &session{
		id:   id,
		conn: conn,
		feed: feed,
	}

	limit := rate.Inf
	burst := 0
	if feed.cfg.RateLimit.PerSecond > 0 {
		limit = rate.Limit(feed.cfg.RateLimit.PerSecond)
		burst = feed.cfg.RateLimit.Burst
		if burst <= 0 {
			burst = int(feed.cfg.RateLimit.PerSecond)
		}
	}
	s.limiter = rate.NewLimiter(limit, burst)

	opts := []scanbox.Option{
		scanbox.OnScanComplete(s.onScanComplete),
		scanbox.OnScanning(s.onScanning),
		scanbox.OnScanError(s.onScanError),
		scanbox.OnClear(s.onClear),
	}
	scanCfg := feed.scanCfg
	if scanCfg.MinLength > 0 {
		opts = append(opts, scanbox.WithMinLength(scanCfg.MinLength))
	}
	if scanCfg.MaxLength > 0 {
		opts = append(opts, scanbox.WithMaxLength(scanCfg.MaxLength))
	}
	if scanCfg.Timeout > 0 {
		opts = append(opts, scanbox.WithTimeout(scanCfg.Timeout.Std()))
	}
	if scanCfg.SuccessVisible > 0 {
		opts = append(opts, scanbox.WithSuccessVisible(scanCfg.SuccessVisible.Std()))
	}
	if scanCfg.Disabled {
		opts = append(opts, scanbox.Disabled())
	}
	s.box = scanbox.New(opts...)

	return s
}

// readLoop consumes frames until the connection drops or the context ends
func (s *session) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.feed.shutdown:
			return
		default:
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.feed.trackError("bad_frame")
			continue
		}

		switch env.Type {
		case "key":
			s.handleKeyFrame(env.Payload)
		case "clear":
			s.box.Clear()
		case "ping":
			s.send("pong", nil)
		default:
			s.feed.trackError("unknown_frame_type")
		}
	}
}

func (s *session) handleKeyFrame(payload json.RawMessage) {
	if !s.limiter.Allow() {
		if s.feed.metrics != nil {
			s.feed.metrics.rateLimited.Inc()
		}
		return
	}

	var key keyPayload
	if err := json.Unmarshal(payload, &key); err != nil {
		s.feed.trackError("bad_key_payload")
		return
	}

	if s.feed.metrics != nil {
		s.feed.metrics.keysReceived.Inc()
	}

	s.box.HandleKey(scanbox.KeyEvent{
		Key:       key.Key,
		Code:      key.Code,
		CharCode:  key.CharCode,
		Ctrl:      key.Ctrl,
		Alt:       key.Alt,
		Shift:     key.Shift,
		Meta:      key.Meta,
		Repeat:    key.Repeat,
		Composing: key.Composing,
		Time:      time.Now(),
	})
}

// onScanComplete decodes the finished scan, publishes it and echoes the
// result to the station
func (s *session) onScanComplete(raw, display string) {
	start := time.Now()
	result, data := gs1.DecodeAndValidate(raw)

	if s.feed.core != nil {
		s.feed.core.RecordDecodeDuration("decode_validate", time.Since(start))
		status := "invalid"
		if data.Valid {
			status = "valid"
		}
		s.feed.core.RecordDecode(string(result.Format), status)
		s.feed.core.RecordScanCompleted(surfaceName)
		for category, elements := range data.Categories {
			for range elements {
				s.feed.core.RecordElement(string(category))
			}
		}
	}

	eventID, err := s.feed.sink.PublishScan(surfaceName, raw, display, &data)
	if err != nil {
		s.feed.trackError("publish_failed")
		s.feed.logError(fmt.Sprintf("Failed to publish scan from %s", s.id), err)
	}

	s.send("complete", completePayload{
		ID:      eventID,
		Raw:     raw,
		Display: display,
		Data:    &data,
	})
}

func (s *session) onScanning(display string) {
	s.send("scanning", scanningPayload{Display: display})
}

// onScanError reports a length rejection to the sink and the station
func (s *session) onScanError(message string) {
	if s.feed.core != nil {
		s.feed.core.RecordScanRejected(surfaceName)
	}

	if err := s.feed.sink.PublishRejected(surfaceName, "", message); err != nil {
		s.feed.trackError("publish_failed")
	}

	s.send("error", errorPayload{Message: message})
}

func (s *session) onClear(reason scanbox.ClearReason) {
	if s.feed.core != nil {
		s.feed.core.RecordScanAbandoned(surfaceName, string(reason))
	}

	s.send("clear", clearPayload{Reason: string(reason)})
}

// send writes an envelope frame; write errors close the connection and the
// read loop notices on its next read
func (s *session) send(frameType string, payload any) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.feed.trackError("marshal_error")
			return
		}
		raw = data
	}

	env := Envelope{
		Type:      frameType,
		Timestamp: time.Now().UnixMilli(),
		Payload:   raw,
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteJSON(env); err != nil {
		s.feed.trackError("write_error")
		_ = s.conn.Close()
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		s.box.Close()
		_ = s.conn.Close()
	})
}
