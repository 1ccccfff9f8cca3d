// Package cryptox seals backup archives with a passphrase before they leave
// the host. A sealed blob is
//
//	magic | salt (16) | nonce (12) | AES-256-GCM ciphertext
//
// with the key derived from the passphrase and salt by Argon2id.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32

	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4
)

var magic = []byte("CDSEAL1\n")

var (
	ErrNotSealed       = errors.New("data is not sealed")
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted data")
)

var randRead = rand.Read

// DeriveKey returns the 32-byte Argon2id key for passphrase and salt.
func DeriveKey(passphrase, salt []byte) []byte {
	return deriveKey(passphrase, salt, kdfTime, kdfMemory, kdfThreads, keySize)
}

func deriveKey(passphrase, salt []byte, time, memory uint32, threads uint8, keyLen uint32) []byte {
	return argon2.IDKey(passphrase, salt, time, memory, threads, keyLen)
}

// IsSealed reports whether data starts with the sealed-blob header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Seal encrypts plaintext with a key derived from passphrase and a fresh
// random salt.
func Seal(plaintext, passphrase []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := randRead(salt); err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	if _, err := randRead(nonce); err != nil {
		return nil, err
	}

	key := DeriveKey(passphrase, salt)
	defer Wipe(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(magic)+saltSize+nonceSize+len(plaintext)+aesgcm.Overhead())
	out = append(out, magic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aesgcm.Seal(out, nonce, plaintext, magic), nil
}

// Open reverses Seal.
func Open(data, passphrase []byte) ([]byte, error) {
	if !IsSealed(data) {
		return nil, ErrNotSealed
	}
	body := data[len(magic):]
	if len(body) < saltSize+nonceSize {
		return nil, fmt.Errorf("%w: truncated header", ErrWrongPassphrase)
	}
	salt, nonce, ciphertext := body[:saltSize], body[saltSize:saltSize+nonceSize], body[saltSize+nonceSize:]

	key := DeriveKey(passphrase, salt)
	defer Wipe(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, magic)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Wipe overwrites b with zeros. A nil slice is a no-op.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
