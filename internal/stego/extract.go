package stego

import (
	"encoding/binary"
	"fmt"
)

// Extract reads the embedded frame back out of buf's channel LSBs. The read
// is two-phase: the first 32 LSBs give the big-endian ciphertext length, then
// the full frame (header plus that many ciphertext bytes) is read from the
// start. A length that does not fit in the image means buf does not carry a
// frame at all.
func Extract(buf *PixelBuffer) ([]byte, error) {
	if len(buf.Pix) < lengthFieldSize*8 {
		return nil, fmt.Errorf("%w: image has %d channel values, need %d for the length prefix", ErrExtractionOutOfBounds, len(buf.Pix), lengthFieldSize*8)
	}
	length := binary.BigEndian.Uint32(packBits(buf.Pix, lengthFieldSize))

	totalBytes := int64(headerSize) + int64(length)
	if totalBytes*8 > int64(len(buf.Pix)) {
		return nil, fmt.Errorf("%w: embedded length claims a %d byte frame, image holds at most %d", ErrExtractionOutOfBounds, totalBytes, buf.Capacity())
	}
	return packBits(buf.Pix, int(totalBytes)), nil
}

// packBits folds the LSBs of the first n*8 values of pix into n bytes, most
// significant bit first, mirroring the embed order exactly.
func packBits(pix []uint8, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		var b byte
		for bit := 0; bit < 8; bit++ {
			b = b<<1 | pix[i*8+bit]&1
		}
		out[i] = b
	}
	return out
}
