package stego

import (
	"fmt"
	"unicode/utf8"

	"github.com/slam/stegocrypt/internal/crypto"
)

// Hide encrypts message with a key derived from password and embeds the
// resulting frame into buf's channel LSBs, returning the stego copy. Salt
// and IV are generated fresh on every call and travel inside the frame; the
// derived key lives only for the duration of the call.
func Hide(buf *PixelBuffer, message, password []byte) (*PixelBuffer, error) {
	salt, err := crypto.GenerateRandomBytes(crypto.SaltSize)
	if err != nil {
		return nil, err
	}
	iv, err := crypto.GenerateRandomBytes(crypto.IVSize)
	if err != nil {
		return nil, err
	}

	key := crypto.DeriveKey(password, salt)
	ciphertext, err := crypto.Encrypt(message, key, iv)
	if err != nil {
		return nil, err
	}

	frame, err := PackFrame(ciphertext, salt, iv)
	if err != nil {
		return nil, err
	}
	return Embed(buf, frame)
}

// Reveal extracts the frame from buf's channel LSBs and decrypts it with a
// key derived from password and the embedded salt. The recovered plaintext
// must be valid UTF-8; a wrong password that happens to survive the padding
// check almost never produces valid UTF-8, so this doubles as the
// wrong-password detector in the absence of an authentication tag.
func Reveal(buf *PixelBuffer, password []byte) ([]byte, error) {
	frame, err := Extract(buf)
	if err != nil {
		return nil, err
	}
	ciphertext, salt, iv, err := UnpackFrame(frame)
	if err != nil {
		return nil, err
	}

	key := crypto.DeriveKey(password, salt)
	message, err := crypto.Decrypt(ciphertext, key, iv)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(message) {
		return nil, fmt.Errorf("%w: recovered plaintext is not valid UTF-8", crypto.ErrDecryptionFailure)
	}
	return message, nil
}
