package vecore

import (
	"io"

	"github.com/liliang-cn/vecore/internal/vecfile"
)

// visitFunc is called once per record during a streaming scan. recordOffset
// is the record's absolute byte offset in the file (start of its id
// field), useful for callers that need to come back and overwrite it later
// (e.g. update-by-id).
type visitFunc func(id int32, vec []float32, recordOffset int64) (stop bool, err error)

// scanBody streams up to count records from r, which must already be
// positioned at startOffset (the byte offset of the first record this call
// will read), through a bounded reusable buffer, decoding each into
// (id, vec) and invoking visit with the record's absolute file offset. The
// vector slice passed to visit is reused across calls and must be copied
// by the caller if retained beyond the call.
func scanBody(r io.Reader, dims int, count int, bufferTargetBytes int, startOffset int64, visit visitFunc) error {
	if count <= 0 || dims <= 0 {
		return nil
	}

	stride := vecfile.RecordSize(dims)
	bufRecords := vecfile.StreamBufferRecords(dims, bufferTargetBytes)
	buf := make([]byte, bufRecords*stride)
	vec := make([]float32, dims)

	offset := startOffset
	remaining := count

	for remaining > 0 {
		toRead := bufRecords
		if toRead > remaining {
			toRead = remaining
		}
		chunk := buf[:toRead*stride]

		n, err := io.ReadFull(r, chunk)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return err
		}
		readRecords := n / stride

		for i := 0; i < readRecords; i++ {
			recBuf := chunk[i*stride : (i+1)*stride]
			id := vecfile.DecodeRecord(recBuf, vec)
			stop, visitErr := visit(id, vec, offset)
			if visitErr != nil {
				return visitErr
			}
			offset += int64(stride)
			if stop {
				return nil
			}
		}

		remaining -= readRecords
		if readRecords < toRead {
			// short read: EOF reached before the header's declared count.
			return nil
		}
	}

	return nil
}
