package vecfile

import (
	"encoding/binary"
	"math"
)

// EncodeRecord appends one record (id, then dimensions float32 components)
// to dst in the on-disk little-endian layout and returns the extended
// slice.
//
// The leading 4 bytes carry id as a plain little-endian int32 bit pattern,
// not a float reinterpretation of the integer: this keeps the record
// stride identical to a float-reinterpretation layout while losing no
// precision for IDs up to 2^31-1.
func EncodeRecord(dst []byte, id int32, vec []float32) []byte {
	var idBuf [4]byte
	binary.LittleEndian.PutUint32(idBuf[:], uint32(id))
	dst = append(dst, idBuf[:]...)
	for _, f := range vec {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
		dst = append(dst, buf[:]...)
	}
	return dst
}

// DecodeRecord reads one record out of buf (exactly RecordSize(dimensions)
// bytes) into id and vec. vec must already have length dimensions.
func DecodeRecord(buf []byte, vec []float32) (id int32) {
	id = int32(binary.LittleEndian.Uint32(buf[0:4]))
	for i := range vec {
		off := 4 + i*4
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
	}
	return id
}

// DecodeID reads just the leading id field out of a record buffer, for
// passes that only need ids (e.g. the update-by-id offset scan).
func DecodeID(buf []byte) int32 {
	return int32(binary.LittleEndian.Uint32(buf[0:4]))
}
