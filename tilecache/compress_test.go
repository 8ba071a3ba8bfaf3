package tilecache

import (
	"bytes"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0},
		{1, 2, 3, 4, 5},
		bytes.Repeat([]byte{7}, 300),
		append(bytes.Repeat([]byte{0}, 50), append([]byte{1, 2, 3}, bytes.Repeat([]byte{9}, 200)...)...),
	}

	for i, src := range cases {
		enc := Compress(src)
		if int32(len(enc)) > MaxCompressedSize(int32(len(src))) {
			t.Fatalf("case %d: compressed size %d exceeds MaxCompressedSize(%d)=%d", i, len(enc), len(src), MaxCompressedSize(int32(len(src))))
		}
		dec, ok := Decompress(enc, len(src))
		if !ok {
			t.Fatalf("case %d: Decompress reported failure", i)
		}
		if !bytes.Equal(dec, src) {
			t.Fatalf("case %d: round trip mismatch: got %v, want %v", i, dec, src)
		}
	}
}

func TestDecompressTruncated(t *testing.T) {
	if _, ok := Decompress([]byte{0x85}, 10); ok {
		t.Fatalf("expected truncated repeat tag to fail")
	}
	if _, ok := Decompress([]byte{3, 1, 2}, 10); ok {
		t.Fatalf("expected truncated literal run to fail")
	}
}
