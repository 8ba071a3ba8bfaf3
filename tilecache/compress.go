// Package tilecache implements the dynamic-mode tile cache: compressed
// heightfield layer storage, box/cylinder obstacles, and lazy tile rebuild
// against a detour.NavMesh.
package tilecache

// Compress encodes src with a deterministic, header-less, streaming
// byte-oriented run-length scheme: a literal run is emitted as a count byte
// (1..128, biased by -1) followed by that many raw bytes; a repeat run is
// emitted as a count byte (129..255, i.e. 0x80|(n-1) for n in 2..128)
// followed by the single repeated byte. A deterministic byte-oriented RLE
// rather than an LZ77 match-finder: heightfield layer grids are dominated
// by long runs, and RLE keeps the header-less streaming format and the
// MaxCompressedSize bound trivially provable.
func Compress(src []byte) []byte {
	out := make([]byte, 0, MaxCompressedSize(int32(len(src))))
	n := len(src)
	for i := 0; i < n; {
		// Count a run of identical bytes starting at i.
		runEnd := i + 1
		for runEnd < n && runEnd-i < 128 && src[runEnd] == src[i] {
			runEnd++
		}
		if runEnd-i >= 2 {
			out = append(out, 0x80|byte(runEnd-i-1), src[i])
			i = runEnd
			continue
		}

		// Otherwise accumulate a literal run until the next repeat run of
		// length >= 2 or the 128-byte literal cap.
		litStart := i
		i++
		for i < n && i-litStart < 128 {
			if i+1 < n && src[i] == src[i+1] {
				break
			}
			i++
		}
		out = append(out, byte(i-litStart-1))
		out = append(out, src[litStart:i]...)
	}
	return out
}

// Decompress reverses Compress. It returns false if buf is malformed
// (truncated literal/repeat payload).
func Decompress(buf []byte, dstLen int) ([]byte, bool) {
	dst := make([]byte, 0, dstLen)
	i := 0
	for i < len(buf) {
		tag := buf[i]
		i++
		if tag&0x80 != 0 {
			n := int(tag&0x7f) + 1
			if i >= len(buf) {
				return nil, false
			}
			b := buf[i]
			i++
			for k := 0; k < n; k++ {
				dst = append(dst, b)
			}
		} else {
			n := int(tag) + 1
			if i+n > len(buf) {
				return nil, false
			}
			dst = append(dst, buf[i:i+n]...)
			i += n
		}
	}
	return dst, true
}

// MaxCompressedSize returns an upper bound on Compress's output length for
// any input of length n. A repeat run never costs more bytes than it
// covers, and a literal run costs one tag byte more than it covers. Every
// literal run except the last is followed by a repeat run of at least two
// bytes or is 128 bytes long, so each extra tag byte is paid for by at
// least three input bytes and at most n/3+1 tag bytes are added.
func MaxCompressedSize(n int32) int32 {
	return n + n/3 + 16
}
