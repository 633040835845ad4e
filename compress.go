package imstiff

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/tiff/lzw"
)

type byteReader interface {
	io.Reader
	io.ByteReader
}

// decompress reads n bytes at offset and decodes them with the given compression scheme.
// At most size decoded bytes are needed: the stored data is read up to size and
// decoded up to size+1 bytes, whatever n claims.
func decompress(r io.ReaderAt, compression uint, offset, n, size int64) (buf []byte, err error) {
	sr := io.NewSectionReader(r, offset, n)

	switch compression {
	// According to the TIFF specification, Compression does not have a default value,
	// but some tools interpret a missing Compression value as none so we do
	// the same.
	case cNone, 0:
		if n > size {
			n = size
		}
		buf = make([]byte, n)
		err = readFull(r, buf, offset)
	case cLZW:
		lr := lzw.NewReader(sr, lzw.MSB, 8)
		buf, err = ioutil.ReadAll(io.LimitReader(lr, size+1))
		lr.Close()
	case cDeflate, cDeflateOld:
		var zr io.ReadCloser
		zr, err = zlib.NewReader(sr)
		if err != nil {
			return
		}
		buf, err = ioutil.ReadAll(io.LimitReader(zr, size+1))
		zr.Close()
	case cPackBits:
		buf, err = unpackBits(sr, int(size))
	case cZstd:
		var zr *zstd.Decoder
		zr, err = zstd.NewReader(sr, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
		if err != nil {
			return
		}
		buf, err = ioutil.ReadAll(io.LimitReader(zr, size+1))
		zr.Close()
	default:
		err = UnsupportedError(fmt.Sprintf("compression value %d", compression))
	}
	return
}

// unpackBits decodes the PackBits-compressed data in src and returns the
// uncompressed data. Decoding stops once more than limit bytes are produced.
//
// The PackBits compression format is described in section 9 (p. 42)
// of the TIFF 6.0 specification.
func unpackBits(r io.Reader, limit int) ([]byte, error) {
	var n int
	buf := make([]byte, 128)
	dst := make([]byte, 0, 1024)
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	for len(dst) <= limit {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return dst, nil
			}
			return nil, err
		}
		code := int(int8(b))
		switch {
		case code >= 0:
			n, err = io.ReadFull(br, buf[:code+1])
			if err != nil {
				return nil, err
			}
			dst = append(dst, buf[:n]...)
		case code == -128:
			// No-op.
		default:
			if b, err = br.ReadByte(); err != nil {
				return nil, err
			}
			for j := 0; j < 1-code; j++ {
				buf[j] = b
			}
			dst = append(dst, buf[:1-code]...)
		}
	}
	return dst, nil
}
