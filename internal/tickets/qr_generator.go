package tickets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
)

// QRGenerator renders a booking ticket as a QR PNG under the public codes
// directory. The encoded payload is AES-encrypted so gate-check scanners
// holding the secret can validate tickets offline.
type QRGenerator struct {
	secret   []byte
	codesDir string
}

type ticketPayload struct {
	TicketID string  `json:"ticket_id"`
	EventID  string  `json:"event_id"`
	UserID   string  `json:"user_id"`
	Seats    int     `json:"seats"`
	Amount   float64 `json:"amount"`
}

func NewQRGenerator(secret, codesDir string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:], codesDir: codesDir}
}

// Generate writes the QR PNG for a ticket and returns its path.
func (q *QRGenerator) Generate(ticketID, eventID, userID string, seats int, amount float64) (string, error) {
	data, err := json.Marshal(ticketPayload{
		TicketID: ticketID,
		EventID:  eventID,
		UserID:   userID,
		Seats:    seats,
		Amount:   amount,
	})
	if err != nil {
		return "", err
	}

	encrypted, err := encryptAES(data, q.secret)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(q.codesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create codes directory: %w", err)
	}

	path := filepath.Join(q.codesDir, ticketID+".png")
	if err := qrcode.WriteFile(encrypted, qrcode.Medium, 256, path); err != nil {
		return "", fmt.Errorf("failed to write QR code: %w", err)
	}
	return path, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}
