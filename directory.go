package imstiff

import (
	"sort"

	"github.com/pkg/errors"
)

// A Directory holds the interesting entries of one Image File Directory.
//
// Directories parsed from a file are read-only. Plane directories produced by
// Reshape are clones of a source directory whose tile byte-count and tile
// offset entries hold a single strip of that source.
type Directory struct {
	features map[uint16]tag
}

func newDirectory() *Directory {
	return &Directory{features: make(map[uint16]tag)}
}

// firstVal is a convenient accessor of tag#firstVal().
func (d *Directory) firstVal(id uint16) uint {
	return d.features[id].firstVal()
}

// ImageWidth returns the number of columns of the image.
func (d *Directory) ImageWidth() int {
	return int(d.firstVal(tImageWidth))
}

// ImageLength returns the number of rows of the image.
func (d *Directory) ImageLength() int {
	return int(d.firstVal(tImageLength))
}

// StripOffsets returns the file offsets of the strips.
func (d *Directory) StripOffsets() []uint {
	return d.features[tStripOffsets].val
}

// StripByteCounts returns the sizes in bytes of the strips, after compression.
func (d *Directory) StripByteCounts() []uint {
	return d.features[tStripByteCounts].val
}

// TileOffsets returns the file offsets of the tiles.
func (d *Directory) TileOffsets() []uint {
	return d.features[tTileOffsets].val
}

// TileByteCounts returns the sizes in bytes of the tiles, after compression.
func (d *Directory) TileByteCounts() []uint {
	return d.features[tTileByteCounts].val
}

// Compression returns the compression scheme. A missing entry means no compression.
func (d *Directory) Compression() uint {
	if c := d.firstVal(tCompression); c != 0 {
		return c
	}
	return cNone
}

// Comment returns the ImageDescription entry and whether it is present.
func (d *Directory) Comment() (string, bool) {
	t, ok := d.features[tImageDescription]
	if !ok {
		return "", false
	}
	return t.ascii(), true
}

// IsThumbnail reports whether the directory is a reduced resolution version of another image.
func (d *Directory) IsThumbnail() bool {
	return d.firstVal(tNewSubFileType)&sftReducedResolution != 0
}

// PixelType derives the sample type from BitsPerSample and SampleFormat.
func (d *Directory) PixelType() (PixelType, error) {
	bps := d.firstVal(tBitsPerSample)
	if bps == 0 {
		bps = 1 // Default value (p. 29 of the TIFF 6.0 specification).
	}
	format := d.firstVal(tSampleFormat)
	if format == 0 {
		format = sfUnsigned
	}

	switch format {
	case sfUnsigned:
		switch bps {
		case 8:
			return Uint8, nil
		case 16:
			return Uint16, nil
		case 32:
			return Uint32, nil
		}
	case sfSigned:
		switch bps {
		case 8:
			return Int8, nil
		case 16:
			return Int16, nil
		case 32:
			return Int32, nil
		}
	case sfFloat:
		switch bps {
		case 32:
			return Float, nil
		case 64:
			return Double, nil
		}
	}
	return 0, errors.Wrapf(UnsupportedError("pixel type"), "%d bits with sample format %d", bps, format)
}

// clone returns a shallow copy of the directory. Tag values are shared, they are never mutated.
func (d *Directory) clone() *Directory {
	c := &Directory{features: make(map[uint16]tag, len(d.features)+2)}
	for k, v := range d.features {
		c.features[k] = v
	}
	return c
}

// withTile returns a clone of d whose single tile is the given byte range.
func (d *Directory) withTile(byteCount, offset uint) *Directory {
	c := d.clone()
	c.features[tTileByteCounts] = tag{id: tTileByteCounts, datatype: dtLong, val: []uint{byteCount}}
	c.features[tTileOffsets] = tag{id: tTileOffsets, datatype: dtLong, val: []uint{offset}}
	return c
}

// put sets an entry, used while parsing.
func (d *Directory) put(t tag) {
	d.features[t.id] = t
}

// ids returns the tag ids of the directory in ascending order.
func (d *Directory) ids() []uint16 {
	ids := make([]uint16, 0, len(d.features))
	for id := range d.features {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Tags returns the directory entries formatted by name, sorted by tag id.
func (d *Directory) Tags() []string {
	s := make([]string, 0, len(d.features))
	for _, id := range d.ids() {
		s = append(s, d.features[id].String())
	}
	return s
}
