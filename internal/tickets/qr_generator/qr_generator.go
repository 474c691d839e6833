package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"

	"ms-storefront/internal/models"
)

// ErrInvalidCode means the code was not produced by this generator's key.
var ErrInvalidCode = errors.New("invalid ticket code")

type QRGenerator struct {
	secret []byte
	size   int
}

func NewQRGenerator(secret string, size int) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	if size <= 0 {
		size = 256
	}
	return &QRGenerator{secret: hashed[:], size: size}
}

// EncryptClaim seals the claim with AES-GCM and returns it URL-safe encoded.
func (q *QRGenerator) EncryptClaim(claim models.TicketClaim) (string, error) {
	data, err := json.Marshal(claim)
	if err != nil {
		return "", err
	}

	gcm, err := q.aead()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptClaim opens a code produced by EncryptClaim.
func (q *QRGenerator) DecryptClaim(code string) (*models.TicketClaim, error) {
	raw, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return nil, ErrInvalidCode
	}

	gcm, err := q.aead()
	if err != nil {
		return nil, err
	}
	if len(raw) < gcm.NonceSize() {
		return nil, ErrInvalidCode
	}

	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	data, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrInvalidCode
	}

	var claim models.TicketClaim
	if err := json.Unmarshal(data, &claim); err != nil {
		return nil, ErrInvalidCode
	}
	return &claim, nil
}

// GenerateEncryptedQR renders the sealed claim as a PNG QR code.
func (q *QRGenerator) GenerateEncryptedQR(claim models.TicketClaim) ([]byte, error) {
	code, err := q.EncryptClaim(claim)
	if err != nil {
		return nil, fmt.Errorf("encrypt claim: %w", err)
	}
	return qrcode.Encode(code, qrcode.Medium, q.size)
}

func (q *QRGenerator) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(q.secret)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
