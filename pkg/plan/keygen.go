package plan

import (
	"crypto/rand"
	"io"
	"strings"
)

const keyCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateKey builds an activation key like PRO-7KQ2M9XF from the plan name.
func GenerateKey(planName string) (string, error) {
	prefix := "KEY"
	cleaned := strings.ToUpper(strings.TrimSpace(planName))
	if len(cleaned) >= 3 {
		prefix = cleaned[:3]
	} else if cleaned != "" {
		prefix = cleaned
	}

	buf := make([]byte, 8)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = keyCharset[int(b)%len(keyCharset)]
	}

	return prefix + "-" + string(buf), nil
}
