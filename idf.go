package imstiff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

//------------------------//
// Header parser          //
//------------------------//

const maxEntryLen = 1 << 28 // Upper bound on the out-of-line data of one IFD entry.

type (
	idf struct {
		r         io.ReaderAt
		byteOrder binary.ByteOrder
		tree      []*Directory // IFD chain, in file order.
	}
)

// newIDF reads the header and every IFD of the main chain.
func newIDF(r io.ReaderAt) (d *idf, err error) {
	d = &idf{
		r:    r,
		tree: make([]*Directory, 0),
	}

	p := make([]byte, 8)
	if err = readFull(d.r, p, 0); err != nil {
		return nil, errors.Wrap(err, "could not read header")
	}
	switch string(p[0:4]) {
	case leHeader:
		d.byteOrder = binary.LittleEndian
	case beHeader:
		d.byteOrder = binary.BigEndian
	default:
		return nil, FormatError("malformed header")
	}

	visited := make(map[int64]bool)
	ifdOffset := int64(d.byteOrder.Uint32(p[4:8]))
	for ifdOffset != 0 {
		if visited[ifdOffset] {
			return nil, FormatError(fmt.Sprintf("IFD loop at offset %d", ifdOffset))
		}
		if len(d.tree) >= maxIFDs {
			return nil, FormatError("too many IFDs")
		}
		visited[ifdOffset] = true

		if ifdOffset, err = d.appendAndParseIDF(ifdOffset); err != nil {
			return nil, errors.Wrapf(err, "IFD #%d", len(d.tree)-1)
		}
	}

	if len(d.tree) == 0 {
		return nil, FormatError("no IFD")
	}
	return
}

// appendAndParseIDF parses the IFD at ifdOffset and returns the offset of the next one.
func (d *idf) appendAndParseIDF(ifdOffset int64) (int64, error) {
	dir := newDirectory()
	d.tree = append(d.tree, dir)
	p := make([]byte, 4)

	// The first two bytes contain the number of entries (12 bytes each).
	if err := readFull(d.r, p[0:2], ifdOffset); err != nil {
		return 0, err
	}
	numItems := int(d.byteOrder.Uint16(p[0:2]))

	// All IFD entries are read in one chunk.
	entries := make([]byte, ifdLen*numItems)
	if err := readFull(d.r, entries, ifdOffset+2); err != nil {
		return 0, err
	}

	for i := 0; i < len(entries); i += ifdLen {
		if err := d.parseIFD(dir, entries[i:i+ifdLen]); err != nil {
			return 0, err
		}
	}

	// The entries are followed by the offset of the next IFD, or 0.
	if err := readFull(d.r, p, ifdOffset+2+int64(len(entries))); err != nil {
		return 0, err
	}
	return int64(d.byteOrder.Uint32(p)), nil
}

// parseIFD decides whether the the IFD entry in p is "interesting" and
// stows away the data in the directory.
func (d *idf) parseIFD(dir *Directory, p []byte) error {
	tid := d.byteOrder.Uint16(p[0:2]) // TagID
	switch tid {
	case tNewSubFileType,
		tImageWidth,
		tImageLength,
		tBitsPerSample,
		tCompression,
		tPhotometricInterpretation,
		tStripOffsets,
		tSamplesPerPixel,
		tRowsPerStrip,
		tStripByteCounts,
		tPlanarConfiguration,
		tPredictor,
		tTileWidth,
		tTileLength,
		tTileOffsets,
		tTileByteCounts,
		tSampleFormat:
		val, dt, err := d.ifdUint(p)
		if err != nil {
			return errors.Wrap(err, tagname(tid))
		}
		dir.put(tag{
			id:       tid,
			datatype: dt,
			val:      val,
		})
	case tImageDescription:
		raw, dt, _, err := d.entryData(p)
		if err != nil {
			return errors.Wrap(err, tagname(tid))
		}
		if dt != dtASCII && dt != dtByte && dt != dtUndefined {
			return errors.Wrap(UnsupportedError("data type"), tagname(tid))
		}
		dir.put(tag{
			id:       tid,
			datatype: dtASCII,
			str:      decodeASCII(raw),
		})
	}
	return nil
}

// entryData returns the raw bytes of the IFD entry in p, following the
// pointer to the real value when it does not fit in the entry.
func (d *idf) entryData(p []byte) (raw []byte, datatype uint16, count uint32, err error) {
	datatype = d.byteOrder.Uint16(p[2:4])
	count = d.byteOrder.Uint32(p[4:8])
	if int(datatype) >= len(lengths) || lengths[datatype] == 0 {
		return nil, 0, 0, UnsupportedError(fmt.Sprintf("data type %d", datatype))
	}

	datalen := uint64(lengths[datatype]) * uint64(count)
	if datalen > maxEntryLen {
		return nil, 0, 0, FormatError("IFD entry too large")
	}
	if datalen > 4 {
		// The IFD contains a pointer to the real value.
		raw = make([]byte, datalen)
		err = readFull(d.r, raw, int64(d.byteOrder.Uint32(p[8:12])))
	} else {
		raw = p[8 : 8+datalen]
	}
	return
}

// ifdUint decodes the IFD entry in p, which must be of the Byte, Short
// or Long type, and returns the decoded uint values and their datatype.
func (d *idf) ifdUint(p []byte) (u []uint, dt uint, err error) {
	raw, datatype, count, err := d.entryData(p)
	if err != nil {
		return nil, 0, err
	}

	u = make([]uint, count)
	switch datatype {
	case dtByte:
		for i := uint32(0); i < count; i++ {
			u[i] = uint(raw[i])
		}
	case dtShort:
		for i := uint32(0); i < count; i++ {
			u[i] = uint(d.byteOrder.Uint16(raw[2*i : 2*(i+1)]))
		}
	case dtLong:
		for i := uint32(0); i < count; i++ {
			u[i] = uint(d.byteOrder.Uint32(raw[4*i : 4*(i+1)]))
		}
	default:
		return nil, 0, UnsupportedError("data type")
	}
	return u, uint(datatype), nil
}

func (d *idf) String() string {
	buf := bytes.NewBufferString("== TIFF ==\n")
	buf.WriteString(fmt.Sprintf("ByteOrder: %v\n", d.byteOrder))
	for i, dir := range d.tree {
		buf.WriteString(fmt.Sprintf("-- IFD #%d --\n", i))
		for _, t := range dir.Tags() {
			buf.WriteString(t)
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// readFull reads exactly len(p) bytes at off.
func readFull(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
