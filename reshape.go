package imstiff

import (
	"github.com/pkg/errors"
)

// Dimensions describes the logical layout of the planes of an Imaris 3 file.
type Dimensions struct {
	SizeX          int       `json:"size_x" yaml:"size_x"`
	SizeY          int       `json:"size_y" yaml:"size_y"`
	SizeZ          int       `json:"size_z" yaml:"size_z"`
	SizeC          int       `json:"size_c" yaml:"size_c"`
	SizeT          int       `json:"size_t" yaml:"size_t"`
	ImageCount     int       `json:"image_count" yaml:"image_count"`
	DimensionOrder string    `json:"dimension_order" yaml:"dimension_order"`
	Interleaved    bool      `json:"interleaved" yaml:"interleaved"`
	RGB            bool      `json:"rgb" yaml:"rgb"`
	PixelType      PixelType `json:"pixel_type" yaml:"pixel_type"`
}

// Index returns the plane number of the given coordinates, planes being ordered XYZCT.
func (d Dimensions) Index(z, c, t int) (int, error) {
	if z < 0 || z >= d.SizeZ || c < 0 || c >= d.SizeC || t < 0 || t >= d.SizeT {
		return 0, errors.Errorf("coordinates (z=%d, c=%d, t=%d) out of %dx%dx%d", z, c, t, d.SizeZ, d.SizeC, d.SizeT)
	}
	return z + d.SizeZ*(c+d.SizeC*t), nil
}

// ZCT returns the coordinates of the given plane number.
func (d Dimensions) ZCT(no int) (z, c, t int, err error) {
	if no < 0 || no >= d.ImageCount || d.SizeZ <= 0 || d.SizeC <= 0 {
		return 0, 0, 0, errors.Errorf("plane %d out of [0, %d) with Z=%d C=%d", no, d.ImageCount, d.SizeZ, d.SizeC)
	}
	z = no % d.SizeZ
	c = no / d.SizeZ % d.SizeC
	t = no / (d.SizeZ * d.SizeC)
	return
}

// Reshape splits the per-channel directories of an Imaris 3 file into one
// directory per Z plane and derives the logical dimensions.
//
// Each strip of a source directory is an independent plane. The returned
// directories are grouped by source directory (channel), then ordered by
// strip (Z). Sizes and pixel type are taken from the first directory.
func Reshape(dirs []*Directory) ([]*Directory, Dimensions, error) {
	if len(dirs) == 0 {
		return nil, Dimensions{}, errors.Wrap(ErrMalformedDirectory, "no directory")
	}

	Infof("Verifying IFD sanity")

	planes := make([]*Directory, 0, len(dirs)*len(dirs[0].StripByteCounts()))
	for i, dir := range dirs {
		byteCounts := dir.StripByteCounts()
		offsets := dir.StripOffsets()
		if len(byteCounts) != len(offsets) {
			return nil, Dimensions{}, errors.Wrapf(ErrMalformedDirectory,
				"directory %d has %d strip byte counts for %d strip offsets", i, len(byteCounts), len(offsets))
		}

		for s := range byteCounts {
			planes = append(planes, dir.withTile(byteCounts[s], offsets[s]))
		}
	}

	Infof("Populating metadata")

	sizeC := len(dirs)
	if len(planes)%sizeC != 0 {
		return nil, Dimensions{}, errors.Wrapf(ErrMalformedDirectory,
			"%d planes cannot be split in %d channels", len(planes), sizeC)
	}

	pt, err := dirs[0].PixelType()
	if err != nil {
		return nil, Dimensions{}, err
	}

	dims := Dimensions{
		SizeX:          dirs[0].ImageWidth(),
		SizeY:          dirs[0].ImageLength(),
		SizeZ:          len(planes) / sizeC,
		SizeC:          sizeC,
		SizeT:          1,
		DimensionOrder: DimensionOrder,
		Interleaved:    false,
		PixelType:      pt,
	}
	dims.ImageCount = dims.SizeC * dims.SizeZ
	// Always false with one sample per plane; kept as the generic formula.
	dims.RGB = dims.ImageCount != dims.SizeZ*dims.SizeC*dims.SizeT

	Debugf("%d directories reshaped into %d planes (%dx%d, %s)", sizeC, len(planes), dims.SizeX, dims.SizeY, pt)
	return planes, dims, nil
}
