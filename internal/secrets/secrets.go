// Package secrets seals API keys for at-rest storage. The envelope format
// is a fixed contract shared with other consumers of the store: PBKDF2 key
// derivation over SHA-256 and AES-256-GCM, with a fresh salt and nonce per
// seal, all base64-encoded into a single string.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Derivation parameters. Changing any of these breaks every stored envelope.
const (
	iterations = 100_000
	keyLen     = 32
	saltLen    = 16

	envelopePrefix = "lfsealed:"
)

var (
	// ErrMalformedEnvelope is returned when a sealed value cannot be parsed.
	ErrMalformedEnvelope = errors.New("malformed sealed envelope")

	// ErrDecryptFailed is returned when authentication fails, usually a
	// wrong passphrase.
	ErrDecryptFailed = errors.New("decryption failed")
)

// Seal encrypts plaintext under a passphrase-derived key and returns the
// envelope string. Each call uses a fresh random salt and nonce.
func Seal(plaintext, passphrase string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	ct := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	enc := base64.StdEncoding.EncodeToString
	return envelopePrefix + enc(salt) + ":" + enc(nonce) + ":" + enc(ct), nil
}

// Open decrypts an envelope produced by Seal.
func Open(envelope, passphrase string) (string, error) {
	rest, ok := strings.CutPrefix(envelope, envelopePrefix)
	if !ok {
		return "", fmt.Errorf("%w: missing prefix", ErrMalformedEnvelope)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: want 3 segments, got %d", ErrMalformedEnvelope, len(parts))
	}
	dec := base64.StdEncoding.DecodeString
	salt, err := dec(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: salt: %v", ErrMalformedEnvelope, err)
	}
	nonce, err := dec(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: nonce: %v", ErrMalformedEnvelope, err)
	}
	ct, err := dec(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext: %v", ErrMalformedEnvelope, err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}
	if len(nonce) != gcm.NonceSize() {
		return "", fmt.Errorf("%w: bad nonce length %d", ErrMalformedEnvelope, len(nonce))
	}
	pt, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(pt), nil
}

// IsSealed reports whether a stored value is a sealed envelope rather than
// a plaintext key.
func IsSealed(v string) bool {
	return strings.HasPrefix(v, envelopePrefix)
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
