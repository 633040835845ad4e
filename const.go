package imstiff

// A tiff image file contains one or more images. The metadata
// of each image is contained in an Image File Directory (IFD),
// which contains entries of 12 bytes each and is described
// on page 14-16 of the TIFF 6.0 specification. An IFD entry consists of
//
//  - a tag, which describes the signification of the entry,
//  - the data type and length of the entry,
//  - the data itself or a pointer to it if it is more than 4 bytes.
//
// Imaris 3 files store one IFD per channel and one strip per Z plane.

const (
	leHeader = "II\x2A\x00" // Header for little-endian files.
	beHeader = "MM\x00\x2A" // Header for big-endian files.

	ifdLen = 12 // Length of an IFD entry in bytes.

	maxIFDs = 65536 // Upper bound on the IFD chain, protects against offset loops.
)

// Data types (p. 14-16 of the TIFF 6.0 specification).
const (
	dtByte      = 1
	dtASCII     = 2
	dtShort     = 3
	dtLong      = 4
	dtRational  = 5
	dtSByte     = 6
	dtUndefined = 7
	dtSShort    = 8
	dtSLong     = 9
	dtSRational = 10
	dtFloat     = 11
	dtDouble    = 12
)

// The length of one instance of each data type in bytes.
var lengths = [...]uint32{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

// Tags (see p. 28-41 of the TIFF 6.0 specification).
const (
	tNewSubFileType            = 254
	tImageWidth                = 256
	tImageLength               = 257
	tBitsPerSample             = 258
	tCompression               = 259
	tPhotometricInterpretation = 262
	tImageDescription          = 270

	tStripOffsets    = 273
	tSamplesPerPixel = 277
	tRowsPerStrip    = 278
	tStripByteCounts = 279

	tTileWidth      = 322
	tTileLength     = 323
	tTileOffsets    = 324
	tTileByteCounts = 325

	tPlanarConfiguration = 284

	tPredictor    = 317
	tSampleFormat = 339
)

// Values for the tNewSubFileType bit field.
const (
	sftReducedResolution = 1 << 0 // Thumbnail/preview image.
)

// Compression types (TIFF 6.0 and its technical notes).
const (
	cNone       = 1
	cCCITT      = 2
	cG3         = 3 // Group 3 Fax.
	cG4         = 4 // Group 4 Fax.
	cLZW        = 5
	cJPEGOld    = 6 // Superseded by cJPEG.
	cJPEG       = 7
	cDeflate    = 8 // zlib compression.
	cPackBits   = 32773
	cDeflateOld = 32946 // Superseded by cDeflate.
	cZstd       = 50000
)

// Values for the tPredictor tag (page 64-65 of the TIFF 6.0 specification).
const (
	prNone = 1 // Other values are not supported.
)

// Values for the tSampleFormat tag (page 80 of the TIFF 6.0 specification).
const (
	sfUnsigned = 1
	sfSigned   = 2
	sfFloat    = 3
)

// PixelType is the numeric type of one sample.
type PixelType int

// Pixel types.
const (
	Uint8 PixelType = iota
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Float
	Double
)

var pixelTypeNames = [...]string{
	Uint8:  "uint8",
	Int8:   "int8",
	Uint16: "uint16",
	Int16:  "int16",
	Uint32: "uint32",
	Int32:  "int32",
	Float:  "float",
	Double: "double",
}

func (p PixelType) String() string {
	if p < 0 || int(p) >= len(pixelTypeNames) {
		return "unknown"
	}
	return pixelTypeNames[p]
}

// BytesPerPixel returns the size of one sample of the given type.
func (p PixelType) BytesPerPixel() int {
	switch p {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float:
		return 4
	case Double:
		return 8
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PixelType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// DimensionOrder of Imaris 3 planes: Z varies fastest, then C, then T.
const DimensionOrder = "XYZCT"
