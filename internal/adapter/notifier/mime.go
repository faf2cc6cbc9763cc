package notifier

import (
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/iho/ledgerlens/internal/domain"
)

// compose renders msg as an RFC 5322 message with CRLF line endings.
// Headers are written in a fixed order so the output is reproducible.
func compose(from string, msg *domain.EmailMessage, id string, date time.Time) []byte {
	contentType := "text/plain; charset=UTF-8"
	if msg.HTML {
		contentType = "text/html; charset=UTF-8"
	}

	headers := [][2]string{
		{"From", from},
		{"To", strings.Join(msg.To, ", ")},
	}
	if len(msg.CC) > 0 {
		headers = append(headers, [2]string{"Cc", strings.Join(msg.CC, ", ")})
	}
	headers = append(headers,
		[2]string{"Subject", mime.QEncoding.Encode("utf-8", msg.Subject)},
		[2]string{"Date", date.Format(time.RFC1123Z)},
		[2]string{"Message-ID", fmt.Sprintf("<%s@ledgerlens>", id)},
		[2]string{"MIME-Version", "1.0"},
		[2]string{"Content-Type", contentType},
	)

	var b strings.Builder
	for _, h := range headers {
		b.WriteString(h[0])
		b.WriteString(": ")
		b.WriteString(h[1])
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.Body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String())
}

// recipients returns every envelope recipient of msg.
func recipients(msg *domain.EmailMessage) []string {
	out := make([]string, 0, len(msg.To)+len(msg.CC))
	out = append(out, msg.To...)
	return append(out, msg.CC...)
}
