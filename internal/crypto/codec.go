package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const envelopeSeparator = ":"

// Codec encrypts and decrypts message bodies with a static symmetric
// key. The at-rest form is an envelope "ivHex:cipherHex" so decryption
// is self-contained given the envelope and the key.
type Codec struct {
	key []byte
}

// NewCodec creates a Codec from a hex-encoded AES-256 key.
func NewCodec(hexKey string) (*Codec, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode message key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("message key must be 32 bytes, got %d", len(key))
	}
	return &Codec{key: key}, nil
}

// Encrypt produces an envelope for the given plaintext with a fresh
// random IV. Empty input is returned unchanged: "no text" is a valid
// unencrypted sentinel, not an empty ciphertext.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to init cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + envelopeSeparator + hex.EncodeToString(ciphertext), nil
}

// Decrypt recovers the plaintext from an envelope. Malformed or
// undecryptable input is returned unchanged rather than reported:
// corrupted or legacy data degrades to raw text on the read path.
func (c *Codec) Decrypt(envelope string) string {
	if envelope == "" {
		return envelope
	}

	ivHex, cipherHex, ok := strings.Cut(envelope, envelopeSeparator)
	if !ok {
		return envelope
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return envelope
	}
	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return envelope
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return envelope
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpad(plaintext, aes.BlockSize)
	if err != nil {
		return envelope
	}

	return string(unpadded)
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding byte %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
