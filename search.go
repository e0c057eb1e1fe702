package vecore

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/liliang-cn/vecore/internal/filter"
	"github.com/liliang-cn/vecore/internal/metastore"
	"github.com/liliang-cn/vecore/internal/simd"
	"github.com/liliang-cn/vecore/internal/vecfile"
)

// Search returns the topK most similar vectors to query, optionally
// restricted to records whose metadata matches filterTree (a MongoDB-like
// filter document). filterTree may be nil for an unfiltered search.
// Results are sorted by similarity descending.
func (c *Connection) Search(ctx context.Context, query []float32, topK int, filterTree map[string]any) ([]SearchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkOpen("search"); err != nil {
		return nil, err
	}
	if len(query) == 0 {
		return nil, wrapError("search", ErrEmptyQuery)
	}
	if topK <= 0 {
		return nil, wrapError("search", ErrInvalidTopK)
	}

	hdr, err := c.header()
	if err != nil {
		return nil, wrapError("search", err)
	}
	if hdr.VectorCount == 0 || hdr.Dimensions == 0 {
		return nil, nil
	}
	if len(query) != int(hdr.Dimensions) {
		return nil, wrapError("search", fmt.Errorf("%w: query has %d components, database has %d",
			ErrInvalidDimension, len(query), hdr.Dimensions))
	}

	var allowed []int32
	filtered := len(filterTree) > 0
	if filtered {
		allowed, err = c.resolveFilterIDs(ctx, filterTree)
		if err != nil {
			return nil, wrapError("search", err)
		}
		if len(allowed) == 0 {
			return nil, nil
		}
	}

	normQuery := normalizeCopy(query)

	if _, err := c.vf.Seek(vecfile.HeaderSize, io.SeekStart); err != nil {
		return nil, wrapError("search", err)
	}

	heap := newTopKHeap(topK)
	scanErr := scanBody(c.vf, int(hdr.Dimensions), int(hdr.VectorCount), c.cfg.bufferTargetBytes(), vecfile.HeaderSize,
		func(id int32, vec []float32, _ int64) (bool, error) {
			if filtered && !idAllowed(allowed, id) {
				return false, nil
			}
			sim := simd.Dot(normQuery, vec)
			heap.consider(sim, id)
			return false, nil
		})
	if scanErr != nil {
		return nil, wrapError("search", scanErr)
	}

	ranked := heap.drainSorted()
	if len(ranked) == 0 {
		return nil, nil
	}

	ids := make([]int32, len(ranked))
	for i, r := range ranked {
		ids[i] = r.id
	}
	sortedIDs := append([]int32(nil), ids...)
	sort.Slice(sortedIDs, func(i, j int) bool { return sortedIDs[i] < sortedIDs[j] })

	metaByID, err := metastore.SelectMetadataBatch(ctx, c.meta, sortedIDs)
	if err != nil {
		return nil, wrapError("search", err)
	}

	results := make([]SearchResult, len(ranked))
	for i, r := range ranked {
		results[i] = SearchResult{
			ID:         r.id,
			Similarity: r.similarity,
			Metadata:   metadataOrEmpty(metaByID[r.id]),
		}
	}
	return results, nil
}

// resolveFilterIDs translates filterTree to SQL and returns the sorted set
// of matching metadata ids.
func (c *Connection) resolveFilterIDs(ctx context.Context, filterTree map[string]any) ([]int32, error) {
	node, err := filter.Parse(filterTree)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	where, err := filter.Translate(node)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return metastore.SelectIDsWhere(ctx, c.meta, where)
}

// idAllowed reports whether id is in the sorted slice allowed.
func idAllowed(allowed []int32, id int32) bool {
	i := sort.Search(len(allowed), func(i int) bool { return allowed[i] >= id })
	return i < len(allowed) && allowed[i] == id
}

func metadataOrEmpty(entry metastore.MetadataEntry) []byte {
	if len(entry.Blob) == 0 {
		return []byte("{}")
	}
	return entry.Blob
}
