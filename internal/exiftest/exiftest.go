// Package exiftest builds minimal JPEG files carrying a single EXIF
// DateTimeOriginal tag, for tests that exercise metadata matching.
package exiftest

import (
	"bytes"
	"encoding/binary"
)

const (
	tagExifIFDPointer   = 0x8769
	tagGPSIFDPointer    = 0x8825
	tagDateTimeOriginal = 0x9003

	typeASCII = 2
	typeShort = 3
	typeLong  = 4
)

// JPEG returns a JPEG whose EXIF sub-IFD stores value as an ASCII
// DateTimeOriginal, e.g. "2020:01:15 08:09:10".
func JPEG(value string) []byte {
	data := append([]byte(value), 0)
	return wrapJPEG(tiff(typeASCII, uint32(len(data)), data, 0))
}

// JPEGWithBrokenGPS is JPEG with an extra GPS IFD pointer that points past
// the end of the EXIF block, as written by some phone firmware.
func JPEGWithBrokenGPS(value string) []byte {
	data := append([]byte(value), 0)
	return wrapJPEG(tiff(typeASCII, uint32(len(data)), data, 0xFFF0))
}

// JPEGWithShortTag returns a JPEG whose DateTimeOriginal is encoded as a
// SHORT instead of a string.
func JPEGWithShortTag(v uint16) []byte {
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, v)
	return wrapJPEG(tiff(typeShort, 1, data, 0))
}

// JPEGWithoutTimestamp returns a JPEG with an EXIF block but no
// DateTimeOriginal tag.
func JPEGWithoutTimestamp() []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	buf.WriteString("II")
	_ = binary.Write(&buf, le, uint16(42))
	_ = binary.Write(&buf, le, uint32(8))
	_ = binary.Write(&buf, le, uint16(0)) // empty IFD0
	_ = binary.Write(&buf, le, uint32(0))
	return wrapJPEG(buf.Bytes())
}

// tiff lays out a little-endian TIFF: IFD0 pointing at an Exif IFD holding a
// single DateTimeOriginal entry. A non-zero gpsOffset adds a GPS IFD pointer
// with that offset to IFD0.
func tiff(typ uint16, count uint32, data []byte, gpsOffset uint32) []byte {
	ifd0Entries := uint32(1)
	if gpsOffset != 0 {
		ifd0Entries++
	}
	const ifd0Offset = 8
	exifOffset := ifd0Offset + 2 + 12*ifd0Entries + 4
	dataOffset := exifOffset + 2 + 12 + 4

	le := binary.LittleEndian
	var buf bytes.Buffer

	buf.WriteString("II")
	_ = binary.Write(&buf, le, uint16(42))
	_ = binary.Write(&buf, le, uint32(ifd0Offset))

	_ = binary.Write(&buf, le, uint16(ifd0Entries))
	writeEntry(&buf, tagExifIFDPointer, typeLong, 1, le.AppendUint32(nil, exifOffset))
	if gpsOffset != 0 {
		writeEntry(&buf, tagGPSIFDPointer, typeLong, 1, le.AppendUint32(nil, gpsOffset))
	}
	_ = binary.Write(&buf, le, uint32(0))

	_ = binary.Write(&buf, le, uint16(1))
	if len(data) <= 4 {
		writeEntry(&buf, tagDateTimeOriginal, typ, count, data)
		_ = binary.Write(&buf, le, uint32(0))
		return buf.Bytes()
	}
	writeEntry(&buf, tagDateTimeOriginal, typ, count, le.AppendUint32(nil, dataOffset))
	_ = binary.Write(&buf, le, uint32(0))
	buf.Write(data)
	return buf.Bytes()
}

func writeEntry(buf *bytes.Buffer, tag, typ uint16, count uint32, value []byte) {
	le := binary.LittleEndian
	_ = binary.Write(buf, le, tag)
	_ = binary.Write(buf, le, typ)
	_ = binary.Write(buf, le, count)
	padded := make([]byte, 4)
	copy(padded, value)
	buf.Write(padded)
}

func wrapJPEG(tiffData []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})

	// APP0 JFIF
	buf.Write([]byte{0xFF, 0xE0, 0x00, 0x10})
	buf.WriteString("JFIF\x00")
	buf.Write([]byte{0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00})

	// APP1 Exif
	payload := append([]byte("Exif\x00\x00"), tiffData...)
	buf.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)

	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}
