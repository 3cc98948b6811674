package push

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"hypersonic/internal/engine"
	"hypersonic/internal/logger"

	webpush "github.com/SherClockHolmes/webpush-go"
)

const (
	DefaultTitle = "HyperSonic Notification"
	DefaultBody  = "You have a new notification"
	DefaultURL   = "/"
	DefaultIcon  = "/favicon.ico"
)

// Payload is the message a service worker receives.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
	Badge string `json:"badge,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// WithDefaults fills empty fields with the relay defaults.
func (p Payload) WithDefaults() Payload {
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Body == "" {
		p.Body = DefaultBody
	}
	if p.URL == "" {
		p.URL = DefaultURL
	}
	if p.Icon == "" {
		p.Icon = DefaultIcon
	}
	if p.Badge == "" {
		p.Badge = DefaultIcon
	}
	return p
}

type VAPID struct {
	Subject    string
	PublicKey  string
	PrivateKey string
	TTL        int
}

func (v VAPID) Configured() bool {
	return v.Subject != "" && v.PublicKey != "" && v.PrivateKey != ""
}

// Sender fans a payload out to every stored subscription.
type Sender struct {
	store  *MemoryStore
	vapid  VAPID
	client webpush.HTTPClient
}

func NewSender(store *MemoryStore, vapid VAPID) *Sender {
	return &Sender{store: store, vapid: vapid, client: http.DefaultClient}
}

// WithHTTPClient overrides the client used to reach push services.
func (s *Sender) WithHTTPClient(client webpush.HTTPClient) *Sender {
	s.client = client
	return s
}

func (s *Sender) PublicKey() string {
	return s.vapid.PublicKey
}

func (s *Sender) Configured() bool {
	return s.vapid.Configured()
}

func (s *Sender) options() *webpush.Options {
	ttl := s.vapid.TTL
	if ttl <= 0 {
		ttl = 30
	}
	return &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.vapid.Subject,
		VAPIDPublicKey:  s.vapid.PublicKey,
		VAPIDPrivateKey: s.vapid.PrivateKey,
		TTL:             ttl,
	}
}

// Send delivers payload to every subscription and returns how many were
// attempted. Failures are per subscription: 410 Gone removes the
// subscription, anything else is logged and skipped.
func (s *Sender) Send(ctx context.Context, payload Payload) (int, error) {
	if !s.Configured() {
		logger.Warn("Web push not configured - skipping notification", "tag", payload.Tag)
		return 0, nil
	}

	payloadJSON, err := json.Marshal(payload.WithDefaults())
	if err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	subs := s.store.All()
	options := s.options()
	delivered := 0

	for _, sub := range subs {
		resp, err := webpush.SendNotificationWithContext(ctx, payloadJSON, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.Keys.P256dh,
				Auth:   sub.Keys.Auth,
			},
		}, options)
		if err != nil {
			logger.Warn("Failed to send push", "endpoint", sub.Endpoint, "error", err)
			continue
		}

		if resp.StatusCode == http.StatusGone {
			s.store.Delete(sub.Endpoint)
			logger.Info("Removed expired subscription", "endpoint", sub.Endpoint)
		} else if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			logger.Warn("Push service rejected notification", "endpoint", sub.Endpoint, "status", resp.StatusCode, "response", string(body))
		} else {
			delivered++
		}
		resp.Body.Close()
	}

	logger.Debug("Push fan-out finished", "subscriptions", len(subs), "delivered", delivered)
	return len(subs), nil
}

// Notify delivers an engine reminder through web push.
func (s *Sender) Notify(ctx context.Context, n engine.Notification) error {
	_, err := s.Send(ctx, Payload{Title: n.Title, Body: n.Body, Tag: n.Tag})
	return err
}
