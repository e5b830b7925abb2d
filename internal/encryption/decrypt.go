package encryption

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrDecryptionFailed is the only error Decrypt returns. Callers must not be
// able to tell a bad encoding from a wrong key or bad padding.
var ErrDecryptionFailed = errors.New("failed to decrypt data")

type Padding string

const (
	PaddingPKCS1v15 Padding = "pkcs1v15"
	PaddingOAEP     Padding = "oaep"
)

func ParsePadding(s string) (Padding, error) {
	switch Padding(strings.ToLower(strings.TrimSpace(s))) {
	case "", PaddingPKCS1v15:
		return PaddingPKCS1v15, nil
	case PaddingOAEP:
		return PaddingOAEP, nil
	default:
		return "", fmt.Errorf("unknown rsa padding %q", s)
	}
}

type Decrypter struct {
	padding Padding
}

func NewDecrypter(padding Padding) *Decrypter {
	if padding == "" {
		padding = PaddingPKCS1v15
	}
	return &Decrypter{padding: padding}
}

func (d *Decrypter) Decrypt(ciphertextBase64, privateKeyPEM string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextBase64)
	if err != nil || len(ciphertext) == 0 {
		return "", ErrDecryptionFailed
	}

	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	var plaintext []byte
	switch d.padding {
	case PaddingOAEP:
		plaintext, err = rsa.DecryptOAEP(sha256.New(), rand.Reader, key, ciphertext, nil)
	default:
		plaintext, err = rsa.DecryptPKCS1v15(rand.Reader, key, ciphertext)
	}
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// Encrypt is the client side of Decrypt. The server never calls it; it exists
// for the CLI and tests.
func Encrypt(plaintext, publicKeyPEM string, padding Padding) (string, error) {
	key, err := ParsePublicKey(publicKeyPEM)
	if err != nil {
		return "", err
	}

	var ciphertext []byte
	switch padding {
	case PaddingOAEP:
		ciphertext, err = rsa.EncryptOAEP(sha256.New(), rand.Reader, key, []byte(plaintext), nil)
	default:
		ciphertext, err = rsa.EncryptPKCS1v15(rand.Reader, key, []byte(plaintext))
	}
	if err != nil {
		return "", fmt.Errorf("failed to encrypt data: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
