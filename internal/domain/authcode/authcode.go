package authcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Alphabet for generated codes. Ambiguous glyphs (0/O, 1/I) are excluded so
// codes can be read over the phone or from a printed slip.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const DefaultCodeLength = 8

// AuthorizationCode is a single-use disbursement token bound to one
// application. Issuing a new code marks every earlier unused code for the
// same application as superseded.
type AuthorizationCode struct {
	ID            int64
	ApplicationID int64
	Code          string
	IssuedBy      string
	IssuedAt      time.Time
	ExpiresAt     time.Time
	UsedAt        *time.Time
	UsedBy        *string
	Superseded    bool
}

func (c *AuthorizationCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

func (c *AuthorizationCode) IsUsed() bool {
	return c.UsedAt != nil
}

// GenerateCode draws length characters from the code alphabet using the
// crypto random source.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	buf := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate authorization code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
