package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// CardCipher encrypts card numbers with XChaCha20-Poly1305 under a
// process-wide key. Only the resulting token is ever persisted.
type CardCipher struct {
	aead cipher.AEAD
}

// KeySize is the required key length in bytes.
const KeySize = chacha20poly1305.KeySize

// NewCardCipher creates a cipher from a raw 32-byte key.
func NewCardCipher(key []byte) (*CardCipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("card encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise cipher: %w", err)
	}

	return &CardCipher{aead: aead}, nil
}

// NewCardCipherFromBase64 creates a cipher from a base64-encoded key, the
// form the key takes in configuration.
func NewCardCipherFromBase64(encoded string) (*CardCipher, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("card encryption key is not valid base64: %w", err)
	}
	return NewCardCipher(key)
}

// Encrypt seals the card number and returns a base64 token of nonce||ciphertext.
func (c *CardCipher) Encrypt(cardNo string) (string, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(cardNo), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It fails if the token was tampered with or was
// produced under a different key.
func (c *CardCipher) Decrypt(token string) (string, error) {
	sealed, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("invalid card token encoding: %w", err)
	}

	if len(sealed) < chacha20poly1305.NonceSizeX {
		return "", fmt.Errorf("card token too short")
	}

	nonce, ciphertext := sealed[:chacha20poly1305.NonceSizeX], sealed[chacha20poly1305.NonceSizeX:]
	plain, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt card token: %w", err)
	}

	return string(plain), nil
}
