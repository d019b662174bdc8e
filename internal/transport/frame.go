package transport

import (
	"fmt"
	"strings"
)

// A frame carries one logical message as "<username>:<body>". The body may
// contain further colons; decoding splits on the first one only. Each frame
// travels as a single WebSocket text message, so one read always yields
// exactly one frame.
const frameDelimiter = ":"

// EncodeFrame builds the wire representation of one message. The username
// must not contain the delimiter.
func EncodeFrame(username, body string) (string, error) {
	if username == "" || body == "" {
		return "", fmt.Errorf("frame requires a username and a body")
	}
	if strings.Contains(username, frameDelimiter) {
		return "", fmt.Errorf("username must not contain %q", frameDelimiter)
	}
	return username + frameDelimiter + body, nil
}

// DecodeFrame splits a wire frame back into its sender username and body.
func DecodeFrame(raw string) (username, body string, err error) {
	username, body, ok := strings.Cut(raw, frameDelimiter)
	if !ok {
		return "", "", fmt.Errorf("malformed frame: missing delimiter")
	}
	if username == "" || body == "" {
		return "", "", fmt.Errorf("malformed frame: empty username or body")
	}
	return username, body, nil
}
