// Package mail dispatches rendered onboarding messages over SMTP.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

// SMTPSender implements services.MessageProvider over SMTP. Attachment
// refs are resolved relative to the configured file directory.
type SMTPSender struct {
	addr     string
	from     string
	auth     smtp.Auth
	fileDir  string
	logger   *slog.Logger
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an SMTP message sender. Auth is skipped when
// username is empty, for local relays.
func NewSMTPSender(host string, port int, username, password, from, fileDir string, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr:     fmt.Sprintf("%s:%d", host, port),
		from:     from,
		auth:     auth,
		fileDir:  fileDir,
		logger:   logger,
		sendMail: smtp.SendMail,
	}
}

const mimeBoundary = "joinflow-mime-boundary"

// Send dispatches a rendered message. A missing attachment file fails
// the send: the message is not complete without it.
func (s *SMTPSender) Send(ctx context.Context, msg services.OutboundMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := s.buildMIME(msg)
	if err != nil {
		return err
	}

	if err := s.sendMail(s.addr, s.auth, s.from, []string{msg.To}, body); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", msg.To, err)
	}
	s.logger.Debug("message dispatched", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (s *SMTPSender) buildMIME(msg services.OutboundMessage) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", s.from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		buf.WriteString(msg.Body)
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(msg.Body)
	buf.WriteString("\r\n")

	for _, ref := range msg.Attachments {
		data, err := os.ReadFile(filepath.Join(s.fileDir, filepath.Clean(ref)))
		if err != nil {
			return nil, fmt.Errorf("reading attachment %s: %w", ref, err)
		}

		fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
		buf.WriteString("Content-Type: application/octet-stream\r\n")
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", filepath.Base(ref))

		encoded := base64.StdEncoding.EncodeToString(data)
		for len(encoded) > 76 {
			buf.WriteString(encoded[:76])
			buf.WriteString("\r\n")
			encoded = encoded[76:]
		}
		buf.WriteString(encoded)
		buf.WriteString("\r\n")
	}
	fmt.Fprintf(&buf, "--%s--\r\n", mimeBoundary)

	return buf.Bytes(), nil
}
