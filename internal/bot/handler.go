// Package bot turns inbound webhook events into replies: it parses the
// event, fetches the triggering message, matches it against the known
// phrases and posts the canned answer back to the room.
package bot

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"sparkbot/internal/metrics"
	"sparkbot/internal/spark"
)

// placeholderID marks events built from GET test-mode requests. Replies are
// never dispatched for the placeholder room.
const placeholderID = "FAKE"

// MessagingAPI is what the handler needs from the messaging façade.
type MessagingAPI interface {
	PostMessage(ctx context.Context, msg spark.OutboundMessage) error
	GetMessage(ctx context.Context, messageID string) (string, error)
	GetPersonDetails(ctx context.Context, personID string) (*spark.Person, error)
	GetRooms(ctx context.Context) (*spark.RoomList, error)
}

// Handler serves the webhook endpoint. Each request runs the full pipeline
// synchronously; the only shared state is read-only configuration.
type Handler struct {
	api              MessagingAPI
	secret           string
	tokenProvisioned bool
	logger           *slog.Logger
	now              func() time.Time
}

// HandlerConfig configures the webhook handler.
type HandlerConfig struct {
	API              MessagingAPI
	WebhookSecret    string // verify X-Spark-Signature on POST when set
	TokenProvisioned bool   // false when the config still holds the placeholder token
	Logger           *slog.Logger
	Now              func() time.Time // test override
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Handler{
		api:              cfg.API,
		secret:           cfg.WebhookSecret,
		tokenProvisioned: cfg.TokenProvisioned,
		logger:           cfg.Logger,
		now:              cfg.Now,
	}
}

// inboundEvent is the per-request view of one webhook delivery.
type inboundEvent struct {
	messageID   string
	personID    string
	personEmail string
	roomID      string
	text        string
}

// webhookEnvelope is the platform's POST delivery payload.
type webhookEnvelope struct {
	Data struct {
		ID          string `json:"id"`
		PersonID    string `json:"personId"`
		PersonEmail string `json:"personEmail"`
		RoomID      string `json:"roomId"`
	} `json:"data"`
}

// ServeHTTP answers every pipeline outcome with HTTP 200 and a plain-text
// body: the dispatched reply text, "Success" when nothing matched, or the
// failure message. The platform retries non-2xx deliveries, so errors stay
// in the body and the logs. Only a bad signature is rejected outright.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.WebhookRequests.Inc()

	var body []byte
	if r.Method == http.MethodPost {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB max
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if h.secret != "" {
			sig := r.Header.Get("X-Spark-Signature")
			if !verifySignature(body, h.secret, sig) {
				h.logger.Warn("webhook delivery rejected, bad signature")
				http.Error(w, "Invalid signature", http.StatusUnauthorized)
				return
			}
		}
	}

	output := h.process(r, body)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, output)

	metrics.RequestLatency.Observe(time.Since(start).Seconds())
}

func (h *Handler) process(r *http.Request, body []byte) string {
	ev, err := h.parseEvent(r, body)
	if err == nil {
		h.logger.Info("received", "message", ev.text, "room", ev.roomID)
		var output string
		output, err = h.respond(r.Context(), ev)
		if err == nil {
			return output
		}
	}

	metrics.PipelineFailures.Inc()
	h.logger.Error("webhook processing failed", "err", err)
	return err.Error()
}

// parseEvent extracts the identifying fields and the message text. POST
// deliveries carry only the message id, so the text is fetched from the
// API; GET requests are manual test invocations carrying the text directly.
func (h *Handler) parseEvent(r *http.Request, body []byte) (inboundEvent, error) {
	switch r.Method {
	case http.MethodGet:
		return inboundEvent{
			messageID:   placeholderID,
			personID:    placeholderID,
			personEmail: placeholderID,
			roomID:      placeholderID,
			text:        r.URL.Query().Get("message"),
		}, nil

	case http.MethodPost:
		var env webhookEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return inboundEvent{}, fmt.Errorf("decode webhook payload: %w", err)
		}
		ev := inboundEvent{
			messageID:   env.Data.ID,
			personID:    env.Data.PersonID,
			personEmail: env.Data.PersonEmail,
			roomID:      env.Data.RoomID,
		}
		text, err := h.api.GetMessage(r.Context(), ev.messageID)
		if err != nil {
			return ev, h.readError(err)
		}
		ev.text = text
		return ev, nil

	default:
		return inboundEvent{}, &UnsupportedMethodError{Method: r.Method}
	}
}

// readError explains a failed message fetch. The unprovisioned-token hint is
// a diagnostic fallback after the call already failed, never a precondition
// check against the remote service.
func (h *Handler) readError(cause error) error {
	msg := readFailureText
	if !h.tokenProvisioned {
		msg = tokenSetupText
	}
	return &ReadError{Msg: msg, Cause: cause}
}

// respond runs intent matching and, when something matched, builds the reply
// and dispatches it to the originating room.
func (h *Handler) respond(ctx context.Context, ev inboundEvent) (string, error) {
	id, ok := matchIntent(ev.text)
	if !ok {
		return "Success", nil
	}
	metrics.IntentsMatched.Inc()

	rep, err := h.buildReply(ctx, id, ev)
	if err != nil {
		return "", err
	}

	if ev.roomID != placeholderID {
		msg := spark.OutboundMessage{RoomID: ev.roomID, Text: rep.text, Files: rep.files}
		if err := h.api.PostMessage(ctx, msg); err != nil {
			return "", &WriteError{Cause: err}
		}
		metrics.RepliesDispatched.Inc()
	}
	return rep.text, nil
}

// verifySignature checks the hex HMAC-SHA1 the platform computes over the
// raw delivery body with the webhook's registered secret.
func verifySignature(body []byte, secret, signature string) bool {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
