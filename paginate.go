package vecore

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/liliang-cn/vecore/internal/metastore"
	"github.com/liliang-cn/vecore/internal/vecfile"
)

// GetPaginated returns the [skip, skip+limit) slice of records in file
// order. File order is insertion order; deletes compact the file and keep
// the remaining records in their existing order.
func (c *Connection) GetPaginated(ctx context.Context, skip, limit int) ([]PaginationItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkOpen("get_paginated"); err != nil {
		return nil, err
	}
	if skip < 0 {
		return nil, wrapError("get_paginated", fmt.Errorf("%w: skip must be non-negative", ErrInvalidConfig))
	}
	if limit <= 0 {
		return nil, wrapError("get_paginated", fmt.Errorf("%w: limit must be positive", ErrInvalidConfig))
	}

	hdr, err := c.header()
	if err != nil {
		return nil, wrapError("get_paginated", err)
	}
	if hdr.VectorCount == 0 || skip >= int(hdr.VectorCount) {
		return nil, nil
	}

	if limit > int(hdr.VectorCount)-skip {
		limit = int(hdr.VectorCount) - skip
	}

	stride := vecfile.RecordSize(int(hdr.Dimensions))
	offset := int64(vecfile.HeaderSize) + int64(skip)*int64(stride)
	if _, err := c.vf.Seek(offset, io.SeekStart); err != nil {
		return nil, wrapError("get_paginated", err)
	}

	items := make([]PaginationItem, 0, limit)
	err = scanBody(c.vf, int(hdr.Dimensions), limit, c.cfg.bufferTargetBytes(), offset,
		func(id int32, vec []float32, _ int64) (bool, error) {
			items = append(items, PaginationItem{ID: id, Vector: append([]float32(nil), vec...)})
			return false, nil
		})
	if err != nil {
		return nil, wrapError("get_paginated", err)
	}

	ids := make([]int32, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	sortedIDs := append([]int32(nil), ids...)
	sort.Slice(sortedIDs, func(i, j int) bool { return sortedIDs[i] < sortedIDs[j] })

	metaByID, err := metastore.SelectMetadataBatch(ctx, c.meta, sortedIDs)
	if err != nil {
		return nil, wrapError("get_paginated", err)
	}
	for i := range items {
		items[i].Metadata = metadataOrEmpty(metaByID[items[i].ID])
	}

	return items, nil
}
