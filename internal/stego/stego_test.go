package stego

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slam/stegocrypt/internal/crypto"
)

// newTestBuffer builds a gradient RGB cover image so embedded bits land on
// varied channel values.
func newTestBuffer(width, height int) *PixelBuffer {
	buf := NewPixelBuffer(width, height, 3)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.Pix[i] = uint8(y * 255 / height)
			buf.Pix[i+1] = uint8(x * 255 / width)
			buf.Pix[i+2] = 128
			i += 3
		}
	}
	return buf
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 3750, newTestBuffer(100, 100).Capacity())
	assert.Equal(t, 12, newTestBuffer(8, 4).Capacity())
}

func TestEmbedExtractIdentity(t *testing.T) {
	buf := newTestBuffer(64, 64)

	salt := bytes.Repeat([]byte{0x11}, crypto.SaltSize)
	iv := bytes.Repeat([]byte{0x22}, crypto.IVSize)

	for _, n := range []int{16, 160, 1024} {
		frame, err := PackFrame(bytes.Repeat([]byte{0xA5}, n), salt, iv)
		require.NoError(t, err)

		stego, err := Embed(buf, frame)
		require.NoError(t, err)

		got, err := Extract(stego)
		require.NoError(t, err)
		assert.Equal(t, frame, got)
	}
}

func TestEmbedCapacityBoundary(t *testing.T) {
	buf := newTestBuffer(8, 4) // capacity 12 bytes

	t.Run("exactly capacity succeeds", func(t *testing.T) {
		_, err := Embed(buf, bytes.Repeat([]byte{0xFF}, buf.Capacity()))
		assert.NoError(t, err)
	})

	t.Run("capacity plus one fails before writing", func(t *testing.T) {
		before := buf.Clone()
		_, err := Embed(buf, bytes.Repeat([]byte{0xFF}, buf.Capacity()+1))
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Equal(t, before.Pix, buf.Pix)
	})
}

func TestEmbedLeavesSourceAndTailUntouched(t *testing.T) {
	buf := newTestBuffer(16, 16)
	before := buf.Clone()
	frame := bytes.Repeat([]byte{0x0F}, 8)

	stego, err := Embed(buf, frame)
	require.NoError(t, err)

	// Source is never mutated.
	assert.Equal(t, before.Pix, buf.Pix)

	// Channel values past the frame bits keep their original LSBs.
	assert.Equal(t, buf.Pix[len(frame)*8:], stego.Pix[len(frame)*8:])
}

// The embed order (row-major, channel-minor, MSB-first within each byte) is
// part of the wire format: reading raw LSBs off the flat sequence must
// reproduce the frame bits exactly.
func TestEmbedBitOrder(t *testing.T) {
	buf := newTestBuffer(16, 4)
	frame := []byte{0xB2, 0x01, 0xFF, 0x00}

	stego, err := Embed(buf, frame)
	require.NoError(t, err)

	for i, b := range frame {
		for bit := 0; bit < 8; bit++ {
			want := b >> (7 - bit) & 1
			assert.Equal(t, want, stego.Pix[i*8+bit]&1, "bit %d of byte %d", bit, i)
		}
	}
}

func TestExtractOutOfBounds(t *testing.T) {
	t.Run("buffer smaller than the length prefix", func(t *testing.T) {
		_, err := Extract(NewPixelBuffer(2, 2, 3))
		assert.ErrorIs(t, err, ErrExtractionOutOfBounds)
	})

	t.Run("non-stego image claims an absurd length", func(t *testing.T) {
		buf := NewPixelBuffer(16, 16, 3)
		for i := range buf.Pix {
			buf.Pix[i] = 0xFF // every LSB set, length prefix reads 0xFFFFFFFF
		}
		_, err := Extract(buf)
		assert.ErrorIs(t, err, ErrExtractionOutOfBounds)
	})
}

func TestHideRevealRoundTrip(t *testing.T) {
	buf := newTestBuffer(200, 150)

	cases := []struct {
		name     string
		message  string
		password string
	}{
		{"empty message", "", "password123"},
		{"single byte", "x", "password123"},
		{"hello world", "Hello, World!", "StrongPass!@#"},
		{"unicode", "Unicode test: 你好世界 مرحبا 🔐", "TestPass456"},
		{"multi-kilobyte", strings.Repeat("A secret worth keeping. ", 200), "LongMessage99"},
		{"empty password", "weak but allowed", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stego, err := Hide(buf, []byte(tc.message), []byte(tc.password))
			require.NoError(t, err)

			got, err := Reveal(stego, []byte(tc.password))
			require.NoError(t, err)
			assert.Equal(t, tc.message, string(got))
		})
	}
}

// 100x100 RGB cover, "Hello, World!", "password123": the 13 byte plaintext
// pads to one 16 byte block, so the embedded frame is 4+16+16+16 = 52 bytes
// against a 3750 byte capacity.
func TestHideRevealHelloWorldScenario(t *testing.T) {
	buf := newTestBuffer(100, 100)
	require.Equal(t, 3750, buf.Capacity())

	stego, err := Hide(buf, []byte("Hello, World!"), []byte("password123"))
	require.NoError(t, err)

	frame, err := Extract(stego)
	require.NoError(t, err)
	assert.Len(t, frame, 52)

	got, err := Reveal(stego, []byte("password123"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", string(got))
}

func TestHideFreshSaltAndIVPerCall(t *testing.T) {
	buf := newTestBuffer(64, 64)
	message := []byte("same message, same password")
	password := []byte("password123")

	extractParts := func(t *testing.T, stego *PixelBuffer) (ct, salt, iv []byte) {
		frame, err := Extract(stego)
		require.NoError(t, err)
		ct, salt, iv, err = UnpackFrame(frame)
		require.NoError(t, err)
		return ct, salt, iv
	}

	s1, err := Hide(buf, message, password)
	require.NoError(t, err)
	s2, err := Hide(buf, message, password)
	require.NoError(t, err)

	ct1, salt1, iv1 := extractParts(t, s1)
	ct2, salt2, iv2 := extractParts(t, s2)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, iv1, iv2)
	assert.NotEqual(t, ct1, ct2)
}

func TestRevealWrongPassword(t *testing.T) {
	buf := newTestBuffer(100, 100)
	message := []byte("the real secret")

	stego, err := Hide(buf, message, []byte("correct horse battery staple"))
	require.NoError(t, err)

	// Without an authentication tag a wrong password is caught by the padding
	// or UTF-8 checks, or at worst yields garbage. Never the real message.
	got, err := Reveal(stego, []byte("incorrect guess"))
	if err == nil {
		assert.NotEqual(t, message, got)
	} else {
		assert.ErrorIs(t, err, crypto.ErrDecryptionFailure)
	}
}

func TestRevealExceedsCapacity(t *testing.T) {
	// Message too large for the cover image.
	buf := newTestBuffer(8, 8) // capacity 24 bytes, frame is at least 52
	_, err := Hide(buf, []byte("does not fit"), []byte("password123"))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}
