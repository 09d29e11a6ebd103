package whatsapp_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/traders/internal/config"
	"github.com/mamadbah2/traders/pkg/clients/whatsapp"
)

func newClient(url string) *whatsapp.APIClient {
	return whatsapp.NewClient(config.WhatsAppConfig{
		AccessToken:   "secret",
		PhoneNumberID: "12345",
		BaseURL:       url + "/",
		APIVersion:    "v20.0",
	})
}

func TestSendReport(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	delivery, err := newClient(srv.URL).SendReport(context.Background(), whatsapp.Report{
		Recipient: "923001234567",
		Title:     "Monthly sales summary",
		Lines:     []string{"2024-06: 3 units"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"wamid.1"}, delivery.MessageIDs)
	assert.Equal(t, "923001234567", got["to"])
	assert.Equal(t, "text", got["type"])
	assert.Equal(t, "*Monthly sales summary*\n2024-06: 3 units", got["text"].(map[string]any)["body"])
}

func TestSendReportSplitsLongReports(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg struct {
			Text struct {
				Body string `json:"body"`
			} `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		bodies = append(bodies, msg.Text.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"messages":[{"id":"wamid.%d"}]}`, len(bodies))
	}))
	defer srv.Close()

	line := strings.Repeat("x", 1500)
	delivery, err := newClient(srv.URL).SendReport(context.Background(), whatsapp.Report{
		Recipient: "1",
		Title:     "Report",
		Lines:     []string{line, line, line},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"wamid.1", "wamid.2"}, delivery.MessageIDs)
	require.Len(t, bodies, 2)
	assert.Equal(t, "*Report*\n"+line+"\n"+line, bodies[0])
	assert.Equal(t, line, bodies[1])
}

func TestReportPartsCutsOverlongLineOnRuneBoundary(t *testing.T) {
	line := strings.Repeat("é", whatsapp.MaxBodyLen)
	parts := whatsapp.Report{Lines: []string{line}}.Parts()

	require.Len(t, parts, 2)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), whatsapp.MaxBodyLen)
		assert.True(t, strings.HasPrefix(p, "é"))
	}
	assert.Equal(t, line, parts[0]+parts[1])
}

func TestSendReportAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190}}`))
	}))
	defer srv.Close()

	delivery, err := newClient(srv.URL).SendReport(context.Background(), whatsapp.Report{Recipient: "1", Lines: []string{"x"}})
	require.Error(t, err)
	assert.Empty(t, delivery.MessageIDs)

	var apiErr *whatsapp.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 190, apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestSendReportRequiresRecipient(t *testing.T) {
	_, err := newClient("http://127.0.0.1:1").SendReport(context.Background(), whatsapp.Report{Lines: []string{"x"}})
	assert.ErrorContains(t, err, "recipient is empty")
}
