package security

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrMalformedCredentials = errors.New("malformed credentials")

// DecodeBasicCredentials decodes a base64 "username password" pair. Any
// transport scheme prefix must already be stripped.
func DecodeBasicCredentials(encoded string) (identifier string, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", ErrMalformedCredentials
	}

	fields := strings.Fields(string(raw))
	if len(fields) < 2 {
		return "", "", ErrMalformedCredentials
	}
	return fields[0], fields[1], nil
}
