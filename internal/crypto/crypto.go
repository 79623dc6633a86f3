package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the size of encryption keys in bytes (256 bits for AES-256).
	KeySize = 32

	// SaltSize is the size of the PBKDF2 salt in bytes.
	SaltSize = 16

	// IVSize is the size of the CBC initialization vector in bytes.
	IVSize = 16

	// PBKDF2Iterations is the PBKDF2-HMAC-SHA256 iteration count.
	PBKDF2Iterations = 100_000
)

// ErrDecryptionFailure means the ciphertext could not be decrypted with the
// given key and IV: the padding was structurally invalid, which almost always
// indicates a wrong password or corrupted ciphertext. Note that CBC carries
// no authentication tag, so a wrong key can still slip past the padding check
// and produce garbled output.
var ErrDecryptionFailure = errors.New("decryption failed")

// DeriveKey derives an AES-256 key from a password and salt using
// PBKDF2-HMAC-SHA256. The derivation is deterministic: the same
// (password, salt) pair always produces the same key, which is what lets the
// receiver rebuild the key from the salt carried next to the ciphertext.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, PBKDF2Iterations, KeySize, sha256.New)
}

// GenerateRandomBytes returns n cryptographically secure random bytes.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

// Encrypt encrypts plaintext with AES-256-CBC after applying PKCS#7 padding.
// A block-aligned plaintext still receives a full padding block, so the
// padding is always present and unambiguous on the way back out.
func Encrypt(plaintext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("invalid IV size: expected %d bytes, got %d", block.BlockSize(), len(iv))
	}

	padded := pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt decrypts AES-256-CBC ciphertext and strips the PKCS#7 padding.
// Structurally invalid input (empty, not block-aligned, padding byte outside
// [1,16], inconsistent padding run) returns ErrDecryptionFailure.
func Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("invalid IV size: expected %d bytes, got %d", block.BlockSize(), len(iv))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d", ErrDecryptionFailure, len(ciphertext), aes.BlockSize)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
	return unpad(padded)
}

// pad applies PKCS#7 padding, always appending between 1 and 16 bytes.
func pad(data []byte) []byte {
	p := aes.BlockSize - len(data)%aes.BlockSize
	padded := make([]byte, len(data)+p)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(p)
	}
	return padded
}

// unpad validates and removes PKCS#7 padding.
func unpad(data []byte) ([]byte, error) {
	p := int(data[len(data)-1])
	if p < 1 || p > aes.BlockSize {
		return nil, fmt.Errorf("%w: padding byte %d out of range [1,%d]", ErrDecryptionFailure, p, aes.BlockSize)
	}
	for _, b := range data[len(data)-p:] {
		if int(b) != p {
			return nil, fmt.Errorf("%w: inconsistent padding run", ErrDecryptionFailure)
		}
	}
	return data[:len(data)-p], nil
}
