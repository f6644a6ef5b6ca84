package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var errAnubisTransient = crerr.New("anubis transient failure")

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errAnubisTransient)
}

func isTransientStatus(code int) bool {
	return code == 408 || code == 429 || code >= 500
}

// hashToken keeps raw bearer tokens out of cache keys and logs.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}

func abbreviate(raw []byte, max int) string {
	value := strings.TrimSpace(string(raw))
	if len(value) <= max {
		return value
	}
	return value[:max] + "..."
}
