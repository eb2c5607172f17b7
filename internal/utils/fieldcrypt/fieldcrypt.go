// Package fieldcrypt provides per-field encryption for customer PII with two
// deliberately separate strategies: deterministic encryption for the few
// fields that must be searchable by exact match, and randomized encryption
// for everything else.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// KeySize is the required length of the symmetric key in bytes (AES-256).
const KeySize = 32

// Codec encrypts and decrypts individual field values. The same codec handles
// both strategies so the key material lives in one place, but the two code
// paths never mix: searchable fields get a synthetic nonce derived from the
// plaintext, private fields get a fresh random nonce per write.
type Codec struct {
	aead     cipher.AEAD
	nonceKey []byte
}

// NewCodec builds a Codec from a raw 32-byte key.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise GCM: %w", err)
	}

	// Separate key for nonce derivation so the AES key is never reused as a
	// MAC key directly.
	nonceKey := sha256.Sum256(append([]byte("fieldcrypt/searchable-nonce:"), key...))

	return &Codec{aead: aead, nonceKey: nonceKey[:]}, nil
}

// NewCodecFromHex builds a Codec from a 64-character hex-encoded key, the
// form the key arrives in from the environment.
func NewCodecFromHex(hexKey string) (*Codec, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}
	return NewCodec(key)
}

// EncryptSearchable deterministically encrypts a field value. Identical
// plaintext always yields identical ciphertext, which is what makes exact
// match lookups possible without decrypting the table.
func (c *Codec) EncryptSearchable(plaintext string) string {
	mac := hmac.New(sha256.New, c.nonceKey)
	mac.Write([]byte(plaintext))
	nonce := mac.Sum(nil)[:c.aead.NonceSize()]

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(append(nonce, sealed...))
}

// EncryptPrivate encrypts a field value with a fresh random nonce, so the same
// plaintext produces different ciphertext on every write.
func (c *Codec) EncryptPrivate(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(append(nonce, sealed...)), nil
}

// Decrypt reverses either strategy; the nonce travels with the ciphertext.
func (c *Codec) Decrypt(ciphertext string) (string, error) {
	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("ciphertext is not valid hex: %w", err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt field: %w", err)
	}
	return string(plaintext), nil
}
