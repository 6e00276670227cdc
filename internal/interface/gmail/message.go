package gmail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"tabelog-sync-service/internal/domain/entity"

	"golang.org/x/text/encoding/htmlindex"
	"google.golang.org/api/gmail/v1"
)

// convertToEmail converts a Gmail message to the domain entity
func convertToEmail(msg *gmail.Message) (*entity.Email, error) {
	if msg.Payload == nil {
		return nil, fmt.Errorf("message %s has no payload", msg.Id)
	}

	email := &entity.Email{
		EmailID:       msg.Id,
		ThreadID:      msg.ThreadId,
		Labels:        msg.LabelIds,
		ProcessStatus: entity.StatusPending,
		ReceivedAt:    time.UnixMilli(msg.InternalDate),
	}

	// Extract headers
	for _, header := range msg.Payload.Headers {
		switch header.Name {
		case "From":
			email.From = header.Value
		case "To":
			email.To = header.Value
		case "Subject":
			email.Subject = header.Value
		}
	}

	if err := collectBodies(msg.Payload, email); err != nil {
		return nil, err
	}
	return email, nil
}

// collectBodies walks nested multipart parts and keeps the first text/plain
// and text/html body it finds
func collectBodies(part *gmail.MessagePart, email *entity.Email) error {
	if part.Body != nil && part.Body.Data != "" && part.Filename == "" {
		switch {
		case strings.HasPrefix(part.MimeType, "text/plain") && email.Body == "":
			text, err := decodePart(part)
			if err != nil {
				return err
			}
			email.Body = text
		case strings.HasPrefix(part.MimeType, "text/html") && email.HTMLBody == "":
			text, err := decodePart(part)
			if err != nil {
				return err
			}
			email.HTMLBody = text
		}
	}

	for _, child := range part.Parts {
		if err := collectBodies(child, email); err != nil {
			return err
		}
	}
	return nil
}

func decodePart(part *gmail.MessagePart) (string, error) {
	data, err := decodeBase64URL(part.Body.Data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s part: %w", part.MimeType, err)
	}

	charset := partCharset(part)
	if charset == "" || isUTF8(charset) {
		return string(data), nil
	}
	if utf8.Valid(data) && !bytes.Contains(data, []byte{0x1b}) {
		return string(data), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(data), nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s body: %w", charset, err)
	}
	return string(decoded), nil
}

func decodeBase64URL(s string) ([]byte, error) {
	data, err := base64.URLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}

func partCharset(part *gmail.MessagePart) string {
	for _, header := range part.Headers {
		if !strings.EqualFold(header.Name, "Content-Type") {
			continue
		}
		_, params, err := mime.ParseMediaType(header.Value)
		if err != nil {
			return ""
		}
		return strings.ToLower(params["charset"])
	}
	return ""
}

func isUTF8(charset string) bool {
	return charset == "utf-8" || charset == "utf8" || charset == "us-ascii"
}
