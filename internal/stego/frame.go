package stego

import (
	"encoding/binary"
	"fmt"

	"github.com/slam/stegocrypt/internal/crypto"
)

// Frame layout: [length:4 bytes big-endian][salt:16][iv:16][ciphertext:length].
// The length field counts ciphertext bytes only.
const (
	lengthFieldSize = 4
	headerSize      = lengthFieldSize + crypto.SaltSize + crypto.IVSize
)

// PackFrame serializes ciphertext, salt and IV into a single frame.
func PackFrame(ciphertext, salt, iv []byte) ([]byte, error) {
	if len(salt) != crypto.SaltSize {
		return nil, fmt.Errorf("invalid salt size: expected %d bytes, got %d", crypto.SaltSize, len(salt))
	}
	if len(iv) != crypto.IVSize {
		return nil, fmt.Errorf("invalid IV size: expected %d bytes, got %d", crypto.IVSize, len(iv))
	}

	frame := make([]byte, 0, headerSize+len(ciphertext))
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(ciphertext)))
	frame = append(frame, salt...)
	frame = append(frame, iv...)
	frame = append(frame, ciphertext...)
	return frame, nil
}

// UnpackFrame splits a frame back into its ciphertext, salt and IV. The salt
// and IV contents are opaque at this layer; the only validation is that the
// frame carries as many bytes as its length field claims.
func UnpackFrame(frame []byte) (ciphertext, salt, iv []byte, err error) {
	if len(frame) < lengthFieldSize {
		return nil, nil, nil, fmt.Errorf("%w: %d bytes, need at least %d for the length field", ErrTruncatedFrame, len(frame), lengthFieldSize)
	}
	length := binary.BigEndian.Uint32(frame)

	// 64-bit arithmetic so a garbage length cannot wrap the comparison.
	total := int64(headerSize) + int64(length)
	if int64(len(frame)) < total {
		return nil, nil, nil, fmt.Errorf("%w: length field claims %d total bytes, frame has %d", ErrTruncatedFrame, total, len(frame))
	}

	salt = frame[lengthFieldSize : lengthFieldSize+crypto.SaltSize]
	iv = frame[lengthFieldSize+crypto.SaltSize : headerSize]
	ciphertext = frame[headerSize : headerSize+int(length)]
	return ciphertext, salt, iv, nil
}
