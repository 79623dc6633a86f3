package stego

import "fmt"

// Embed writes frame into the channel LSBs of buf and returns the modified
// copy; buf itself is left untouched. Bits are taken most significant first
// within each frame byte, and the i-th bit lands in the LSB of the i-th flat
// channel value. Channel values past the end of the frame keep their
// original LSBs.
//
// The capacity check runs before any write, so a failed embed modifies
// nothing.
func Embed(buf *PixelBuffer, frame []byte) (*PixelBuffer, error) {
	if len(frame) > buf.Capacity() {
		return nil, fmt.Errorf("%w: frame is %d bytes, image holds at most %d", ErrCapacityExceeded, len(frame), buf.Capacity())
	}

	out := buf.Clone()
	for i, b := range frame {
		for bit := 0; bit < 8; bit++ {
			idx := i*8 + bit
			out.Pix[idx] = out.Pix[idx]&0xFE | b>>(7-bit)&1
		}
	}
	return out, nil
}
