package task

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"time"
)

const (
	minIDLength = 3
	maxIDLength = 8
	nonceSize   = 16 // 128 bits of entropy
)

// GenerateID creates a short base36 task ID from a hash of the title, the
// creation instant and a random nonce. The ID starts at minIDLength
// characters and grows up to maxIDLength until taken reports it free.
func GenerateID(title string, createdAt time.Time, taken func(string) bool) string {
	for {
		encoded := hashID(title, createdAt)
		for length := minIDLength; length <= maxIDLength && length <= len(encoded); length++ {
			if candidate := encoded[:length]; !taken(candidate) {
				return candidate
			}
		}
		// Every prefix collided; retry with a fresh nonce.
	}
}

func hashID(title string, createdAt time.Time) string {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}

	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte(createdAt.Format(time.RFC3339Nano)))
	h.Write(nonce)

	return new(big.Int).SetBytes(h.Sum(nil)).Text(36)
}
