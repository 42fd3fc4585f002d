package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// SignArchive returns an HMAC over the object key and the body checksum. It is
// stored in the archive object's metadata.
func SignArchive(secret string, objectKey string, body []byte) string {
	sum := sha256.Sum256(body)
	mac := hmac.New(sha256.New, []byte(secret))
	payload := strings.Join([]string{objectKey, base64.RawURLEncoding.EncodeToString(sum[:])}, ":")
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
