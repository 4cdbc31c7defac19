// Package obfuscate implements the reversible scrambling applied to
// sensitive record fields before they reach the key-value store.
//
// This is obfuscation, not encryption: the key is derivable from the
// username plus a fixed application constant, and the XOR/base64 transform
// provides no confidentiality guarantees. The scheme is kept byte-for-byte
// compatible with already-persisted data. SealedCodec offers a real
// AES-GCM alternative behind the same interface for deployments that do not
// carry legacy records.
package obfuscate

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

const appSecret = "student_management_app_secret_key_2025"

const keyLength = 16

// DeriveKey produces the per-user scramble key from the username and the
// fixed application secret, truncated to a fixed length.
func DeriveKey(username string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(username + appSecret))
	if len(encoded) > keyLength {
		encoded = encoded[:keyLength]
	}
	return encoded
}

// Codec encodes and decodes individual string fields reversibly.
// Decode must absorb corrupt input by returning it unchanged.
type Codec interface {
	Encode(plaintext string) string
	Decode(ciphertext string) string
}

// XORCodec cycles the key over the plaintext bytes and base64-encodes the
// result so it can be stored as a string.
type XORCodec struct {
	key string
}

// NewXORCodec builds the codec for the given user.
func NewXORCodec(username string) *XORCodec {
	return &XORCodec{key: DeriveKey(username)}
}

// Encode obscures the plaintext. The empty string maps to itself.
func (c *XORCodec) Encode(plaintext string) string {
	if plaintext == "" || c.key == "" {
		return plaintext
	}
	return base64.StdEncoding.EncodeToString(xorCycle([]byte(plaintext), c.key))
}

// Decode reverses Encode. Input that fails to base64-decode is returned
// unchanged so a corrupted record degrades to garbled-but-present data
// instead of breaking the read path.
func (c *XORCodec) Decode(ciphertext string) string {
	if ciphertext == "" || c.key == "" {
		return ciphertext
	}
	decoded, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return ciphertext
	}
	return string(xorCycle(decoded, c.key))
}

func xorCycle(data []byte, key string) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// SealedCodec is the authenticated-encryption upgrade path. It satisfies the
// same contract as XORCodec, including the decode-failure fallback, but its
// output is not compatible with records written by the legacy codec.
type SealedCodec struct {
	aead cipher.AEAD
}

// NewSealedCodec derives a 256-bit key from the username and application
// secret and prepares an AES-GCM sealer.
func NewSealedCodec(username string) (*SealedCodec, error) {
	sum := sha256.Sum256([]byte(username + appSecret))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &SealedCodec{aead: aead}, nil
}

// Encode seals the plaintext with a random nonce.
func (c *SealedCodec) Encode(plaintext string) string {
	if plaintext == "" {
		return plaintext
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return plaintext
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed)
}

// Decode opens a sealed value, returning the input unchanged on any failure.
func (c *SealedCodec) Decode(ciphertext string) string {
	if ciphertext == "" {
		return ciphertext
	}
	decoded, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil || len(decoded) < c.aead.NonceSize() {
		return ciphertext
	}
	nonce, sealed := decoded[:c.aead.NonceSize()], decoded[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return ciphertext
	}
	return string(plain)
}
