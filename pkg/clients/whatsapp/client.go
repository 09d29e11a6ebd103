package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/traders/internal/config"
)

// MaxBodyLen is the Cloud API limit for a text message body, in bytes.
const MaxBodyLen = 4096

// Notifier delivers text reports to a WhatsApp number.
type Notifier interface {
	SendReport(ctx context.Context, report Report) (*Delivery, error)
}

// Report is a titled, line-oriented text report for one recipient.
type Report struct {
	Recipient string
	Title     string
	Lines     []string
}

// Delivery lists the message ids assigned to each part of a report, in order.
type Delivery struct {
	MessageIDs []string
}

// APIError is the error payload returned by the Cloud API.
type APIError struct {
	Status    int    `json:"-"`
	Code      int    `json:"code"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	FBTraceID string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	code := e.Code
	if code == 0 {
		code = e.Status
	}
	return fmt.Sprintf("whatsapp api error: code=%d, message=%s", code, e.Message)
}

// APIClient sends reports through the Cloud API messages endpoint.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClient builds a WhatsApp API client using the provided configuration values.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type sendResult struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// SendReport posts the report as one message, or as several when the text
// exceeds MaxBodyLen. Parts are split on line boundaries and sent in order;
// the first failure stops delivery and the ids sent so far are returned.
func (c *APIClient) SendReport(ctx context.Context, report Report) (*Delivery, error) {
	if report.Recipient == "" {
		return nil, errors.New("send whatsapp report: recipient is empty")
	}

	parts := report.Parts()
	delivery := &Delivery{MessageIDs: make([]string, 0, len(parts))}
	for i, body := range parts {
		id, err := c.sendText(ctx, report.Recipient, body)
		if err != nil {
			return delivery, fmt.Errorf("send whatsapp report part %d/%d: %w", i+1, len(parts), err)
		}
		delivery.MessageIDs = append(delivery.MessageIDs, id)
	}
	return delivery, nil
}

func (c *APIClient) sendText(ctx context.Context, to, body string) (string, error) {
	result := new(sendResult)
	envelope := new(errorEnvelope)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(textMessage{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "text",
			Text:             textBody{Body: body},
		}).
		SetResult(result).
		SetError(envelope).
		Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return "", err
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		apiErr := envelope.Error
		apiErr.Status = resp.StatusCode()
		return "", &apiErr
	}
	if len(result.Messages) == 0 {
		return "", nil
	}
	return result.Messages[0].ID, nil
}

// Parts renders the report as message bodies of at most MaxBodyLen bytes.
// The title is bold on the first part only.
func (r Report) Parts() []string {
	var (
		parts []string
		cur   strings.Builder
	)
	add := func(line string) {
		if cur.Len() > 0 && cur.Len()+1+len(line) > MaxBodyLen {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}

	if r.Title != "" {
		add("*" + r.Title + "*")
	}
	for _, line := range r.Lines {
		for _, piece := range splitLong(line) {
			add(piece)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// splitLong cuts a line longer than MaxBodyLen on rune boundaries.
func splitLong(line string) []string {
	var out []string
	for len(line) > MaxBodyLen {
		cut := MaxBodyLen
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		out = append(out, line[:cut])
		line = line[cut:]
	}
	return append(out, line)
}
