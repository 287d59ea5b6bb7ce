package main

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// Encode returns the standard base64 encoding of msg.
func Encode(msg string) string {
	return base64.StdEncoding.EncodeToString([]byte(msg))
}

// Decode reverses Encode. The decoded text must be ASCII.
func Decode(b64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	for i, b := range raw {
		if b >= utf8.RuneSelf {
			return "", fmt.Errorf("decode base64: non-ASCII byte 0x%02x at offset %d", b, i)
		}
	}
	return string(raw), nil
}
