package imstiff

// Resources:
// https://www.awaresystems.be/imaging/tiff.html
// https://www.loc.gov/preservation/digital/formats/content/tiff_tags.shtml (Tags description)
// Imaris 3 files are TIFF files whose first IFD is a thumbnail and whose
// other IFDs each hold one channel, one strip per Z plane. The acquisition
// parameters are stored as INI text in the ImageDescription of the first IFD.

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// FormatName is the human readable name of the format.
	FormatName = "Bitplane Imaris 3 (TIFF)"
	// Suffix is the file extension of the format.
	Suffix = "ims"
)

// IsThisType reports whether name has the Imaris suffix.
// The TIFF content alone cannot tell an Imaris 3 file from any multi-page TIFF.
func IsThisType(name string) bool {
	return strings.EqualFold(strings.TrimPrefix(filepath.Ext(name), "."), Suffix)
}

// A Reader gives access to the planes and metadata of an Imaris 3 TIFF file.
type Reader struct {
	id     string
	r      io.ReaderAt
	closer io.Closer

	dirs    []*Directory // Directories of the file, thumbnails removed.
	planes  []*Directory // One per plane, see Reshape.
	dims    Dimensions
	store   *Store
	comment *CommentMetadata
}

// Open opens the named file. A nil cfg means DefaultConfig.
func Open(name string, cfg *Config) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "could not open file")
	}

	rd, err := NewReader(f, name, cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	rd.closer = f
	return rd, nil
}

// Decode reads the whole content of r and opens it as an Imaris 3 file named id.
func Decode(r io.Reader, id string, cfg *Config) (*Reader, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read data")
	}
	return NewReader(bytes.NewReader(data), id, cfg)
}

// DecodeConfig returns the logical dimensions of an Imaris 3 file without
// extracting its metadata.
func DecodeConfig(r io.Reader) (Dimensions, error) {
	cfg := DefaultConfig()
	cfg.Reader.MetadataLevel = MetadataMinimum

	rd, err := Decode(r, "", cfg)
	if err != nil {
		return Dimensions{}, err
	}
	return rd.dims, nil
}

// NewReader parses the directories found in r and lays them out as planes.
// id is the name of the file, used to recognize it in the comment.
// A nil cfg means DefaultConfig.
func NewReader(r io.ReaderAt, id string, cfg *Config) (*Reader, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rd := &Reader{
		id:    id,
		r:     r,
		store: NewStore(),
	}
	if err := rd.init(cfg); err != nil {
		return nil, errors.Wrap(err, "could not open imaris tiff")
	}
	return rd, nil
}

func (rd *Reader) init(cfg *Config) error {
	d, err := newIDF(rd.r)
	if err != nil {
		return err
	}
	Debugf("%s", d)

	// The first IFD is a thumbnail; each of the remaining IFDs defines a stack of planes.
	for _, dir := range d.tree {
		if !dir.IsThumbnail() {
			rd.dirs = append(rd.dirs, dir)
		}
	}
	if len(rd.dirs) == 0 {
		return FormatError("no image directory")
	}
	Debugf("%d thumbnail directories removed", len(d.tree)-len(rd.dirs))

	first := rd.dirs[0]
	for _, id := range first.ids() {
		t := first.features[id]
		rd.store.AddGlobal(t.Name(), t.PrettyPrintedValue())
	}

	if rd.planes, rd.dims, err = Reshape(rd.dirs); err != nil {
		return err
	}
	rd.store.SetPixels(rd.dims)

	rd.comment = &CommentMetadata{}
	if cfg.Reader.MetadataLevel != MetadataAll {
		return nil
	}

	comment, _ := first.Comment()
	if rd.comment, err = ExtractComment(comment, rd.id, rd.store); err != nil {
		return err
	}
	rd.comment.Populate(rd.store)
	return nil
}

// ID returns the name the reader was opened with.
func (rd *Reader) ID() string {
	return rd.id
}

// Dimensions returns the logical layout of the planes.
func (rd *Reader) Dimensions() Dimensions {
	return rd.dims
}

// Metadata returns the metadata extracted from the file.
func (rd *Reader) Metadata() *Store {
	return rd.store
}

// Comment returns the parsed comment. It is empty when the comment is not INI-like
// or when the metadata level is MetadataMinimum.
func (rd *Reader) Comment() *CommentMetadata {
	return rd.comment
}

// Directories returns the directories of the file, thumbnails excluded.
func (rd *Reader) Directories() []*Directory {
	return rd.dirs
}

// PlaneCount returns the number of planes.
func (rd *Reader) PlaneCount() int {
	return len(rd.planes)
}

// Plane returns the directory describing plane no.
func (rd *Reader) Plane(no int) (*Directory, error) {
	if no < 0 || no >= len(rd.planes) {
		return nil, errors.Errorf("plane %d out of [0, %d)", no, len(rd.planes))
	}
	return rd.planes[no], nil
}

// ReadPlane returns the decompressed bytes of plane no, in the byte order of the file.
func (rd *Reader) ReadPlane(no int) ([]byte, error) {
	p, err := rd.Plane(no)
	if err != nil {
		return nil, err
	}

	// Planes are handed out as stored, differencing predictors would need the
	// pixel type to be undone (page 64-65 of the TIFF 6.0 specification).
	if p.firstVal(tPredictor) > prNone {
		return nil, UnsupportedError("predictor")
	}

	offset := int64(p.TileOffsets()[0])
	n := int64(p.TileByteCounts()[0])
	Debugf("reading plane %d: %d bytes at %d", no, n, offset)

	size := rd.dims.SizeX * rd.dims.SizeY * rd.dims.PixelType.BytesPerPixel()
	buf, err := decompress(rd.r, p.Compression(), offset, n, int64(size))
	if err != nil {
		return nil, errors.Wrapf(err, "could not read plane %d", no)
	}

	if len(buf) < size {
		return nil, FormatError("plane shorter than its dimensions")
	}
	return buf[:size], nil
}

// Close closes the underlying file when the reader was created by Open.
func (rd *Reader) Close() error {
	if rd.closer == nil {
		return nil
	}
	return rd.closer.Close()
}
