package imstiff

import (
	"fmt"
)

// A FormatError reports that the input is not a valid Imaris TIFF file.
type FormatError string

func (e FormatError) Error() string {
	return fmt.Sprintf("imstiff: invalid format: %s", string(e))
}

// An UnsupportedError reports that the input uses a valid but
// unimplemented feature.
type UnsupportedError string

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("imstiff: unsupported feature: %s", string(e))
}

var (
	// ErrMalformedDirectory is returned when the strips of the directories
	// cannot be laid out as Z planes of equally sized channels.
	ErrMalformedDirectory = FormatError("malformed directory structure")

	// ErrInvalidWavelength is returned when a wavelength of the comment is not a positive integer.
	ErrInvalidWavelength = FormatError("invalid wavelength")
)

func tagname(t uint16) string {
	switch t {
	case tNewSubFileType:
		return "NewSubFileType"
	case tImageWidth:
		return "ImageWidth"
	case tImageLength:
		return "ImageLength"
	case tBitsPerSample:
		return "BitsPerSample"
	case tCompression:
		return "Compression"
	case tPhotometricInterpretation:
		return "PhotometricInterpretation"
	case tImageDescription:
		return "Comment"
	case tStripOffsets:
		return "StripOffsets"
	case tSamplesPerPixel:
		return "SamplesPerPixel"
	case tRowsPerStrip:
		return "RowsPerStrip"
	case tStripByteCounts:
		return "StripByteCounts"
	case tPlanarConfiguration:
		return "PlanarConfiguration"
	case tPredictor:
		return "Predictor"
	case tTileWidth:
		return "TileWidth"
	case tTileLength:
		return "TileLength"
	case tTileOffsets:
		return "TileOffsets"
	case tTileByteCounts:
		return "TileByteCounts"
	case tSampleFormat:
		return "SampleFormat"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

func valuename(t tag) string {
	var v interface{}
	switch t.id {
	case tNewSubFileType:
		switch {
		case t.firstVal()&sftReducedResolution != 0:
			v = "Thumbnail/Preview image"
		case t.firstVal() == 0:
			v = "Primary image"
		default:
			v = t.firstVal()
		}
	case tCompression:
		switch t.firstVal() {
		case cNone:
			v = "None"
		case cCCITT:
			v = "CCITT"
		case cG3:
			v = "Group 3 Fax"
		case cG4:
			v = "Group 4 Fax"
		case cLZW:
			v = "LZW"
		case cJPEGOld:
			v = "Old JPEG"
		case cJPEG:
			v = "JPEG"
		case cDeflate:
			v = "Deflate (zlib compression)"
		case cPackBits:
			v = "PackBits"
		case cDeflateOld:
			v = "Old Deflate"
		case cZstd:
			v = "Zstandard"
		default:
			v = t.firstVal()
		}
	case tImageDescription:
		v = t.ascii()
	case tStripOffsets, tTileOffsets:
		v = fmt.Sprintf("contains %d offset entries", len(t.val))
	case tStripByteCounts, tTileByteCounts:
		v = fmt.Sprintf("contains %d byte-count entries", len(t.val))
	case tPlanarConfiguration:
		switch t.firstVal() {
		case 1:
			v = "Contiguous (aka RGBRGBRGBRGB)"
		case 2:
			v = "Separate (aka RRRRGGGGBBBB)"
		default:
			v = t.firstVal()
		}
	case tSampleFormat:
		switch t.firstVal() {
		case sfUnsigned:
			v = "Unsigned integer"
		case sfSigned:
			v = "Signed integer"
		case sfFloat:
			v = "IEEE floating point"
		default:
			v = t.firstVal()
		}
	default:
		if t.datatype == dtASCII {
			v = t.ascii()
		} else {
			v = t.firstVal()
		}
	}
	return fmt.Sprintf("%v", v)
}
