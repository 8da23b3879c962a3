package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const ticketAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateTicketID returns a human-readable ticket identifier such as
// VOR-7KQ2M9-0431. Ambiguous characters (0/O, 1/I) are excluded.
func GenerateTicketID() string {
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(ticketAlphabet))))
		if err != nil {
			// crypto/rand failing is unrecoverable for ID generation
			return fmt.Sprintf("VOR-%d", time.Now().UnixNano())
		}
		code[i] = ticketAlphabet[n.Int64()]
	}
	suffix, _ := rand.Int(rand.Reader, big.NewInt(10000))
	return fmt.Sprintf("VOR-%s-%04d", code, suffix.Int64())
}

// GenerateOTP returns a 6-digit one-time password for password resets.
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
