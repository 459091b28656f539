package crypto

import (
	"encoding/base64"
	"log"
)

// MessageCodec is the message-body "encryption" scheme: plain base64, not
// real cryptography. Encoding is applied unconditionally to outgoing mail;
// a genuine scheme can be swapped in behind the same two calls.
type MessageCodec struct{}

// NewMessageCodec creates a MessageCodec.
func NewMessageCodec() *MessageCodec {
	return &MessageCodec{}
}

// Encode encodes a message body for storage.
func (c *MessageCodec) Encode(body string) string {
	return base64.StdEncoding.EncodeToString([]byte(body))
}

// Decode decodes a stored message body for display. If the value is not
// valid base64 the failure is logged and the input is returned unchanged, so
// the reader sees the still-encoded text rather than an error.
func (c *MessageCodec) Decode(encoded string) string {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		log.Printf("MessageCodec: failed to decode message body: %v", err)
		return encoded
	}
	return string(decoded)
}
