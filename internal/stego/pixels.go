// Package stego hides byte payloads in the least significant bits of image
// pixel data. The payload is framed with a length prefix so extraction is
// self-describing, and the framed bytes are encrypted with a password before
// embedding (see Hide and Reveal).
package stego

import "errors"

var (
	// ErrCapacityExceeded means the frame does not fit in the target image.
	ErrCapacityExceeded = errors.New("frame exceeds image capacity")

	// ErrTruncatedFrame means a frame's length field claims more bytes than
	// the frame actually carries.
	ErrTruncatedFrame = errors.New("truncated frame")

	// ErrExtractionOutOfBounds means the embedded length prefix claims more
	// data than the image can hold. In practice the image is not a stego
	// image, was re-encoded lossily, or is corrupted.
	ErrExtractionOutOfBounds = errors.New("extraction out of bounds")
)

// PixelBuffer is a decoded image flattened into one contiguous sequence of
// 8-bit channel values in row-major, channel-minor order: R, G, B of pixel
// (0,0), then R, G, B of pixel (0,1), and so on. Embedding and extraction
// address this flat sequence positionally, so the order is part of the wire
// format.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewPixelBuffer allocates a zeroed buffer of the given shape.
func NewPixelBuffer(width, height, channels int) *PixelBuffer {
	return &PixelBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Capacity returns the maximum frame size in bytes that fits in the buffer:
// one bit per channel value, eight bits per byte.
func (p *PixelBuffer) Capacity() int {
	return p.Width * p.Height * p.Channels / 8
}

// Clone returns a deep copy sharing no pixel storage with p.
func (p *PixelBuffer) Clone() *PixelBuffer {
	c := *p
	c.Pix = make([]uint8, len(p.Pix))
	copy(c.Pix, p.Pix)
	return &c
}
