package service

import (
	"strconv"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

// Hasher abstracts password hashing so deployments can migrate from the
// legacy scheme to bcrypt without touching the auth flow.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// LegacyHasher reproduces the historical additive hash so existing stored
// credentials keep verifying. It is NOT cryptographically secure and exists
// only for compatibility; new deployments should use BcryptHasher.
type LegacyHasher struct{}

// Hash folds the password's UTF-16 code units into a signed 32-bit
// accumulator (h*31 + unit, with wraparound) and renders it in decimal.
func (LegacyHasher) Hash(password string) (string, error) {
	var h int32
	for _, u := range utf16.Encode([]rune(password)) {
		h = (h << 5) - h + int32(u)
	}
	return strconv.FormatInt(int64(h), 10), nil
}

// Compare re-hashes the candidate and compares. The digest is not secret
// enough to warrant constant-time comparison.
func (l LegacyHasher) Compare(hash, password string) bool {
	computed, _ := l.Hash(password)
	return computed == hash
}

// BcryptHasher is the recommended scheme for new vaults.
type BcryptHasher struct {
	Cost int
}

func (b BcryptHasher) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (b BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
