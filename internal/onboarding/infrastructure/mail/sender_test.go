package mail

import (
	"context"
	"log/slog"
	"net/smtp"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

func TestSMTPSender_Send(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	sender := NewSMTPSender("smtp.example.com", 587, "hr", "secret",
		"onboarding@joinflow.example", t.TempDir(), slog.New(slog.DiscardHandler))
	sender.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	err := sender.Send(context.Background(), services.OutboundMessage{
		To:      "priya@example.com",
		Subject: "Documents needed, Priya",
		Body:    "Hi Priya, please upload your documents.",
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "onboarding@joinflow.example", gotFrom)
	assert.Equal(t, []string{"priya@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Documents needed, Priya")
	assert.Contains(t, string(gotMsg), "Hi Priya, please upload your documents.")
	assert.Contains(t, string(gotMsg), "Content-Type: text/plain")
}

func TestSMTPSender_SendWithAttachment(t *testing.T) {
	fileDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(fileDir, "files"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fileDir, "files", "offer.pdf"), []byte("%PDF-1.4"), 0o644))

	var gotMsg []byte
	sender := NewSMTPSender("localhost", 1025, "", "",
		"onboarding@joinflow.example", fileDir, slog.New(slog.DiscardHandler))
	sender.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Nil(t, a)
		gotMsg = msg
		return nil
	}

	err := sender.Send(context.Background(), services.OutboundMessage{
		To:          "priya@example.com",
		Subject:     "Your offer letter",
		Body:        "Please find your offer attached.",
		Attachments: []string{"files/offer.pdf"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(gotMsg), "multipart/mixed")
	assert.Contains(t, string(gotMsg), `filename="offer.pdf"`)
	assert.Contains(t, string(gotMsg), "Content-Transfer-Encoding: base64")
}

func TestSMTPSender_MissingAttachmentFailsSend(t *testing.T) {
	called := false
	sender := NewSMTPSender("localhost", 1025, "", "",
		"onboarding@joinflow.example", t.TempDir(), slog.New(slog.DiscardHandler))
	sender.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	err := sender.Send(context.Background(), services.OutboundMessage{
		To:          "priya@example.com",
		Subject:     "Your offer letter",
		Body:        "Please find your offer attached.",
		Attachments: []string{"files/missing.pdf"},
	})
	require.Error(t, err)
	assert.False(t, called)
}
