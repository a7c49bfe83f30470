package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ReferralCodeLength = 6
	referralAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateReferralCode creates a random 6-character uppercase alphanumeric code
func GenerateReferralCode() (string, error) {
	var b strings.Builder
	b.Grow(ReferralCodeLength)

	max := big.NewInt(int64(len(referralAlphabet)))
	for i := 0; i < ReferralCodeLength; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}
		b.WriteByte(referralAlphabet[idx.Int64()])
	}

	return b.String(), nil
}

// IsReferralCode reports whether s has the shape of a generated referral code
func IsReferralCode(s string) bool {
	if len(s) != ReferralCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(referralAlphabet, rune(s[i])) {
			return false
		}
	}
	return true
}

// GenerateOrderReference creates a human-quotable order number like "FT-20240131-9F1C2A7B"
func GenerateOrderReference(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("FT-%s-%s", now.UTC().Format("20060102"), id[:8])
}
