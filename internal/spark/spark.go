// Package spark wraps the Spark REST API: a generic status-classifying HTTP
// client plus a typed messaging façade over the messages, rooms, webhooks
// and people endpoints.
package spark

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const apiVersion = "v1"

// Resource segments of the remote API. URLs are only ever built through
// endpoint() so base URL and version have a single source of truth.
const (
	resourceMessages = "messages"
	resourceRooms    = "rooms"
	resourceWebhooks = "webhooks"
	resourcePeople   = "people"
)

// MaxMessageChars is the hard limit the messages endpoint puts on the text
// and markdown fields. Longer content is truncated, not rejected.
const MaxMessageChars = 7439

// API is the messaging façade. It holds the provisioned auth header set,
// built once at construction and never mutated, so a single value is safe to
// share across requests.
type API struct {
	sender  Sender
	baseURL string
	headers http.Header
	logger  *slog.Logger
}

// APIConfig configures the façade.
type APIConfig struct {
	BaseURL    string
	Token      string
	AuthScheme string        // default "Bearer"
	Timeout    time.Duration // HTTP timeout for the default client
	Sender     Sender        // optional; default is a NewClient
	Logger     *slog.Logger
}

// NewAPI creates the façade and its header template.
func NewAPI(cfg APIConfig) *API {
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Sender == nil {
		cfg.Sender = NewClient("spark", cfg.Timeout, cfg.Logger)
	}
	headers := http.Header{}
	headers.Set("Authorization", cfg.AuthScheme+" "+cfg.Token)
	headers.Set("Content-Type", "application/json")
	headers.Set("Cache-Control", "no-cache")
	return &API{
		sender:  cfg.Sender,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: headers,
		logger:  cfg.Logger,
	}
}

func (a *API) endpoint(resource string, parts ...string) string {
	url := fmt.Sprintf("%s/%s/%s", a.baseURL, apiVersion, resource)
	for _, p := range parts {
		url += "/" + p
	}
	return url
}

// PostMessage sends a message. Text and markdown are truncated independently
// to MaxMessageChars before serialization.
func (a *API) PostMessage(ctx context.Context, msg OutboundMessage) error {
	msg.Text = truncate(msg.Text, MaxMessageChars)
	msg.Markdown = truncate(msg.Markdown, MaxMessageChars)
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	_, err = a.sender.Send(ctx, http.MethodPost, a.endpoint(resourceMessages), a.headers, body)
	return err
}

// CreateWebhook registers a webhook. If any required field is missing the
// call is a no-op: a warning is logged and no error is returned.
func (a *API) CreateWebhook(ctx context.Context, wh Webhook) error {
	if wh.Name == "" || wh.TargetURL == "" || wh.Resource == "" || wh.Event == "" {
		a.logger.Warn("webhook registration skipped, required fields missing",
			"name", wh.Name, "targetUrl", wh.TargetURL, "resource", wh.Resource, "event", wh.Event)
		return nil
	}
	body, err := json.Marshal(wh)
	if err != nil {
		return fmt.Errorf("encode webhook: %w", err)
	}
	_, err = a.sender.Send(ctx, http.MethodPost, a.endpoint(resourceWebhooks), a.headers, body)
	return err
}

// CreateWebhookSimplified registers a message-created webhook scoped to one
// room.
func (a *API) CreateWebhookSimplified(ctx context.Context, name, targetURL, resource, roomID string) error {
	return a.CreateWebhook(ctx, Webhook{
		Name:      name,
		TargetURL: targetURL,
		Resource:  resource,
		Event:     "created",
		Filter:    "roomId=" + roomID,
	})
}

// GetPersonDetails fetches a person by id. An empty id is a logged no-op
// returning (nil, nil).
func (a *API) GetPersonDetails(ctx context.Context, personID string) (*Person, error) {
	if personID == "" {
		a.logger.Warn("person lookup skipped, empty person id")
		return nil, nil
	}
	var p Person
	if err := a.sender.SendJSON(ctx, http.MethodGet, a.endpoint(resourcePeople, personID), a.headers, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetMessage fetches a message by id and returns only its text field.
func (a *API) GetMessage(ctx context.Context, messageID string) (string, error) {
	var msg struct {
		Text string `json:"text"`
	}
	if err := a.sender.SendJSON(ctx, http.MethodGet, a.endpoint(resourceMessages, messageID), a.headers, nil, &msg); err != nil {
		return "", err
	}
	return msg.Text, nil
}

// GetRooms fetches the room collection the bot is part of.
func (a *API) GetRooms(ctx context.Context) (*RoomList, error) {
	var rooms RoomList
	if err := a.sender.SendJSON(ctx, http.MethodGet, a.endpoint(resourceRooms), a.headers, nil, &rooms); err != nil {
		return nil, err
	}
	return &rooms, nil
}

// truncate cuts s to at most limit characters without splitting a rune.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
