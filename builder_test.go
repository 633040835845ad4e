package imstiff_test

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// page describes one IFD written by buildTIFF.
type page struct {
	width, length uint32
	bitsPerSample uint16
	sampleFormat  uint16
	subFileType   uint32
	compression   uint16
	description   string
	strips        [][]byte
	// offsetsCount truncates the strip offsets to the given count when > 0.
	offsetsCount int
	// byteCount replaces every strip byte count when > 0.
	byteCount uint32
}

type entry struct {
	id       uint16
	datatype uint16
	count    uint32
	data     []byte // Little-endian raw value.
}

func shortEntry(id, v uint16) entry {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return entry{id: id, datatype: 3, count: 1, data: b}
}

func longEntry(id uint16, vs ...uint32) entry {
	b := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[4*i:], v)
	}
	return entry{id: id, datatype: 4, count: uint32(len(vs)), data: b}
}

// buildTIFF writes a little-endian classic TIFF file holding the given pages, in order.
func buildTIFF(pages ...page) []byte {
	var buf bytes.Buffer
	buf.WriteString("II\x2A\x00")
	buf.Write([]byte{0, 0, 0, 0}) // First IFD offset, patched below.
	nextPtr := 4

	for _, p := range pages {
		offsets := make([]uint32, 0, len(p.strips))
		counts := make([]uint32, 0, len(p.strips))
		for _, s := range p.strips {
			offsets = append(offsets, uint32(buf.Len()))
			if p.byteCount > 0 {
				counts = append(counts, p.byteCount)
			} else {
				counts = append(counts, uint32(len(s)))
			}
			buf.Write(s)
		}
		if p.offsetsCount > 0 {
			offsets = offsets[:p.offsetsCount]
		}

		entries := []entry{
			longEntry(256, p.width),
			longEntry(257, p.length),
			shortEntry(258, p.bitsPerSample),
			longEntry(273, offsets...),
			longEntry(278, p.length),
			longEntry(279, counts...),
		}
		if p.subFileType != 0 {
			entries = append(entries, longEntry(254, p.subFileType))
		}
		if p.compression != 0 {
			entries = append(entries, shortEntry(259, p.compression))
		}
		if p.sampleFormat != 0 {
			entries = append(entries, shortEntry(339, p.sampleFormat))
		}
		if p.description != "" {
			entries = append(entries, entry{id: 270, datatype: 2, count: uint32(len(p.description) + 1), data: append([]byte(p.description), 0)})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

		// Out-of-line values.
		valueOffsets := make([]uint32, len(entries))
		for i, e := range entries {
			if len(e.data) > 4 {
				if buf.Len()%2 == 1 {
					buf.WriteByte(0)
				}
				valueOffsets[i] = uint32(buf.Len())
				buf.Write(e.data)
			}
		}
		if buf.Len()%2 == 1 {
			buf.WriteByte(0)
		}

		ifdOffset := buf.Len()
		b := buf.Bytes()
		binary.LittleEndian.PutUint32(b[nextPtr:], uint32(ifdOffset))

		le := binary.LittleEndian
		var tmp [12]byte
		le.PutUint16(tmp[:2], uint16(len(entries)))
		buf.Write(tmp[:2])
		for i, e := range entries {
			tmp = [12]byte{}
			le.PutUint16(tmp[0:2], e.id)
			le.PutUint16(tmp[2:4], e.datatype)
			le.PutUint32(tmp[4:8], e.count)
			if len(e.data) > 4 {
				le.PutUint32(tmp[8:12], valueOffsets[i])
			} else {
				copy(tmp[8:12], e.data)
			}
			buf.Write(tmp[:])
		}
		nextPtr = buf.Len()
		buf.Write([]byte{0, 0, 0, 0})
	}

	return buf.Bytes()
}

// plane returns a plane of n bytes all set to v.
func plane(n int, v byte) []byte {
	return bytes.Repeat([]byte{v}, n)
}
