package mailer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_NotConfigured(t *testing.T) {
	_, err := NewMailgun("", "", "shop@example.com").Send(context.Background(), Message{To: "a@example.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	var m *Mailgun
	assert.False(t, m.Configured())
}

func TestSend_PostsMessage(t *testing.T) {
	var subject, to, html string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/mg.example.com/messages") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		subject = r.FormValue("subject")
		to = r.FormValue("to")
		html = r.FormValue("html")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"<20260101.1@mg.example.com>","message":"Queued. Thank you."}`)
	}))
	defer srv.Close()

	m := NewMailgun("mg.example.com", "key-test", "StyleShop <shop@mg.example.com>")
	m.BaseURL = srv.URL + "/v3"

	id, err := m.Send(context.Background(), Message{
		To:      "asha@example.com",
		Subject: "Your order ORD-20260101-AAAAAAAA",
		Text:    "Thanks",
		HTML:    "<p>Thanks</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "<20260101.1@mg.example.com>", id)
	assert.Equal(t, "Your order ORD-20260101-AAAAAAAA", subject)
	assert.Equal(t, "asha@example.com", to)
	assert.Equal(t, "<p>Thanks</p>", html)
}
