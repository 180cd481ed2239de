package service

import (
	"crypto/rand"
	"math/big"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// GenerateOrderCode issues a short human-readable code like "TD-7KQ2MX".
// Uniqueness is enforced by the database; callers retry on collision.
func GenerateOrderCode(prefix string) string {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// fall back to the first symbol rather than panic mid-checkout.
			buf[i] = codeAlphabet[0]
			continue
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return prefix + "-" + string(buf)
}
