package intake

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"github.com/mikey/phish-dashboard/internal/core"
)

// maxPartDepth bounds recursion into nested multipart bodies
const maxPartDepth = 5

var headerDecoder = new(mime.WordDecoder)

// ParseMessage reads an RFC 5322 message into an email check request.
// Multipart bodies contribute their text/plain parts only.
func ParseMessage(r io.Reader) (core.EmailCheckRequest, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return core.EmailCheckRequest{}, fmt.Errorf("failed to parse message: %w", err)
	}

	body, err := extractText(textproto.MIMEHeader(msg.Header), msg.Body, 0)
	if err != nil {
		return core.EmailCheckRequest{}, fmt.Errorf("failed to read message body: %w", err)
	}

	return core.EmailCheckRequest{
		Subject: decodeHeader(msg.Header.Get("Subject")),
		Sender:  senderAddress(msg.Header.Get("From")),
		Body:    strings.TrimSpace(body),
	}, nil
}

func decodeHeader(value string) string {
	decoded, err := headerDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

func senderAddress(from string) string {
	if from == "" {
		return ""
	}
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return decodeHeader(from)
	}
	return addr.Address
}

func extractText(header textproto.MIMEHeader, body io.Reader, depth int) (string, error) {
	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		content, err := io.ReadAll(decodeTransfer(header.Get("Content-Transfer-Encoding"), body))
		if err != nil {
			return "", err
		}
		return string(content), nil
	}

	var text bytes.Buffer
	mr := multipart.NewReader(body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if text.Len() > 0 {
				return text.String(), nil
			}
			return "", err
		}

		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		switch {
		case strings.HasPrefix(partType, "multipart/") && depth < maxPartDepth:
			nested, err := extractText(part.Header, part, depth+1)
			if err != nil {
				continue
			}
			text.WriteString(nested)
		case partType == "text/plain" || partType == "":
			content, err := io.ReadAll(decodeTransfer(part.Header.Get("Content-Transfer-Encoding"), part))
			if err != nil {
				continue
			}
			text.Write(content)
			text.WriteString("\n")
		}
	}
	return text.String(), nil
}

// decodeTransfer undoes the declared Content-Transfer-Encoding.
// multipart.Reader already decodes quoted-printable parts and drops the header.
func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}
