package vecore

import (
	"context"
	"io"

	"github.com/liliang-cn/vecore/internal/metastore"
	"github.com/liliang-cn/vecore/internal/vecfile"
)

// UpdateByID applies partial updates to existing records, returning the
// number of items where at least one change was applied. An item with
// neither Vector nor Metadata set counts as a failure for that item; an
// item whose ID is absent from the vector file is skipped.
//
// A new vector is written in place at its existing record's offset after
// normalization; record positions are resolved by a single streaming pass
// before any write, so a rewrite of one record never shifts the offsets of
// records visited later in the same call.
func (c *Connection) UpdateByID(ctx context.Context, items []UpdateItem) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkOpen("update_by_id"); err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	needsOffset := map[int32]bool{}
	for _, it := range items {
		if it.Vector != nil || it.Metadata != nil {
			needsOffset[it.ID] = true
		}
	}

	offsets := map[int32]int64{}
	if len(needsOffset) > 0 {
		hdr, err := c.header()
		if err != nil {
			return 0, wrapError("update_by_id", err)
		}
		if _, err := c.vf.Seek(vecfile.HeaderSize, io.SeekStart); err != nil {
			return 0, wrapError("update_by_id", err)
		}
		found := 0
		err = scanBody(c.vf, int(hdr.Dimensions), int(hdr.VectorCount), c.cfg.bufferTargetBytes(), vecfile.HeaderSize,
			func(id int32, _ []float32, recordOffset int64) (bool, error) {
				if needsOffset[id] {
					offsets[id] = recordOffset
					found++
					if found == len(needsOffset) {
						return true, nil
					}
				}
				return false, nil
			})
		if err != nil {
			return 0, wrapError("update_by_id", err)
		}
	}

	updated := 0
	for _, it := range items {
		changed := false

		if _, ok := offsets[it.ID]; !ok && (it.Vector != nil || it.Metadata != nil) {
			c.logger.Warn("update_by_id: id not in vector file", "id", it.ID)
			continue
		}

		if it.Vector != nil {
			if off, ok := offsets[it.ID]; ok {
				vec := append([]float32(nil), it.Vector...)
				normalizeInPlace(vec)
				buf := vecfile.EncodeRecord(nil, it.ID, vec)
				if _, err := c.vf.WriteAt(buf, off); err != nil {
					return updated, wrapError("update_by_id", err)
				}
				changed = true
			}
		}

		if it.Metadata != nil {
			if err := metastore.UpdateMetadata(ctx, c.meta, it.ID, it.Metadata); err != nil {
				return updated, wrapError("update_by_id", err)
			}
			changed = true
		}

		if it.Vector == nil && it.Metadata == nil {
			c.logger.Warn("update_by_id: item has no change", "id", it.ID)
			continue
		}

		if changed {
			updated++
		}
	}

	c.logger.Debug("update_by_id complete", "updated", updated, "requested", len(items))
	return updated, nil
}
