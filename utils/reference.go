package utils

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strconv"
	"time"
)

// NewBookingReference generates an opaque, globally-unique booking reference.
// The token carries 20 bytes of crypto/rand entropy so it is unguessable; it
// doubles as the idempotency key for the whole confirmation flow and as the
// secret in "manage my booking" links. A timestamp suffix keeps references
// sortable in operator tooling.
func NewBookingReference() (string, error) {
	randomBytes := make([]byte, 20)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	token := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	return "BK-" + token + "-" + strconv.FormatInt(time.Now().Unix(), 36), nil
}
