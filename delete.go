package vecore

import (
	"context"
	"io"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/liliang-cn/vecore/internal/metastore"
	"github.com/liliang-cn/vecore/internal/vecfile"
)

// DeleteByIDs removes the records with the given ids via a compact-rewrite
// of the vector file, plus the matching metadata rows, returning the
// number of vector-file records actually removed. IDs not present in the
// file are silently ignored.
func (c *Connection) DeleteByIDs(ctx context.Context, ids []int32) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkOpen("delete_by_ids"); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, wrapError("delete_by_ids", ErrEmptyIDList)
	}

	sorted := append([]int32(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	hdr, err := c.header()
	if err != nil {
		return 0, wrapError("delete_by_ids", err)
	}
	if hdr.VectorCount == 0 {
		return 0, nil
	}

	tempPath := c.path + ".temp." + uuid.NewString()
	if err := copyFile(c.path, tempPath); err != nil {
		return 0, wrapError("delete_by_ids", err)
	}
	defer os.Remove(tempPath)

	temp, err := os.OpenFile(tempPath, os.O_RDWR, 0o644)
	if err != nil {
		return 0, wrapError("delete_by_ids", err)
	}

	if _, err := c.vf.Seek(vecfile.HeaderSize, io.SeekStart); err != nil {
		temp.Close()
		return 0, wrapError("delete_by_ids", err)
	}

	writeOffset := int64(vecfile.HeaderSize)
	preserved := 0
	var scratch []byte

	err = scanBody(c.vf, int(hdr.Dimensions), int(hdr.VectorCount), c.cfg.bufferTargetBytes(), vecfile.HeaderSize,
		func(id int32, vec []float32, _ int64) (bool, error) {
			if idAllowed(sorted, id) {
				return false, nil // dropped
			}
			scratch = vecfile.EncodeRecord(scratch, id, vec)
			preserved++
			if len(scratch) >= 1<<20 {
				if _, werr := temp.WriteAt(scratch, writeOffset); werr != nil {
					return true, werr
				}
				writeOffset += int64(len(scratch))
				scratch = scratch[:0]
			}
			return false, nil
		})
	if err != nil {
		temp.Close()
		return 0, wrapError("delete_by_ids", err)
	}
	if len(scratch) > 0 {
		if _, err := temp.WriteAt(scratch, writeOffset); err != nil {
			temp.Close()
			return 0, wrapError("delete_by_ids", err)
		}
		writeOffset += int64(len(scratch))
	}

	if err := temp.Truncate(writeOffset); err != nil {
		temp.Close()
		return 0, wrapError("delete_by_ids", err)
	}

	newHdr := vecfile.Header{VectorCount: uint32(preserved), Dimensions: hdr.Dimensions}
	if err := vecfile.WriteHeader(temp, newHdr); err != nil {
		temp.Close()
		return 0, wrapError("delete_by_ids", err)
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return 0, wrapError("delete_by_ids", err)
	}
	if err := temp.Close(); err != nil {
		return 0, wrapError("delete_by_ids", err)
	}

	if _, err := metastore.DeleteIDs(ctx, c.meta, sorted); err != nil {
		return 0, wrapError("delete_by_ids", err)
	}

	if err := os.Rename(tempPath, c.path); err != nil {
		return 0, wrapError("delete_by_ids", err)
	}
	if err := c.refreshFileHandle(); err != nil {
		return 0, wrapError("delete_by_ids", err)
	}

	deleted := int(hdr.VectorCount) - preserved
	c.logger.Debug("delete_by_ids complete", "deleted", deleted, "preserved", preserved)
	return deleted, nil
}

// DeleteByFilter translates filterTree to SQL, selects the matching ids,
// and delegates to DeleteByIDs.
func (c *Connection) DeleteByFilter(ctx context.Context, filterTree map[string]any) (int, error) {
	c.mu.Lock()
	ids, err := c.resolveFilterIDs(ctx, filterTree)
	c.mu.Unlock()
	if err != nil {
		return 0, wrapError("delete_by_filter", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return c.DeleteByIDs(ctx, ids)
}
