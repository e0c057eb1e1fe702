package vecore

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/liliang-cn/vecore/internal/metastore"
	"github.com/liliang-cn/vecore/internal/vecfile"
)

// Insert inserts records into the database, returning the number actually
// inserted. A record whose vector length disagrees with the database's
// fixed dimensions is skipped, not aborted; the first
// successful insert into a zero-dimension database fixes its dimensions for
// all subsequent operations.
//
// Insertion uses the temp-file + rename pattern: the original vector file
// is copied to a temp path, new records are appended there, the header is
// rewritten, and the temp file is renamed over the original so readers
// never observe a partially written file.
func (c *Connection) Insert(ctx context.Context, records []InsertRecord) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkOpen("insert"); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	hdr, err := c.header()
	if err != nil {
		return 0, wrapError("insert", err)
	}

	targetDims := int(hdr.Dimensions)
	if targetDims == 0 {
		for _, r := range records {
			if len(r.Vector) > 0 {
				targetDims = len(r.Vector)
				break
			}
		}
	}
	if targetDims == 0 {
		return 0, wrapError("insert", fmt.Errorf("%w: could not determine dimensions from an empty batch", ErrInvalidVector))
	}

	tempPath := c.path + ".temp." + uuid.NewString()
	if err := copyFile(c.path, tempPath); err != nil {
		return 0, wrapError("insert", err)
	}
	defer os.Remove(tempPath)

	temp, err := os.OpenFile(tempPath, os.O_RDWR, 0o644)
	if err != nil {
		return 0, wrapError("insert", err)
	}

	metaRows := make([]metastore.Row, 0, len(records))
	accepted := make([]InsertRecord, 0, len(records))
	skipped := 0
	for _, r := range records {
		if len(r.Vector) != targetDims {
			skipped++
			c.logger.Warn("insert: skipping record with wrong dimension", "expected", targetDims, "got", len(r.Vector))
			continue
		}
		blob := r.Metadata
		if blob == nil {
			blob = []byte("{}")
		}
		metaRows = append(metaRows, metastore.Row{Blob: blob})
		accepted = append(accepted, r)
	}

	inserted, err := metastore.InsertRows(ctx, c.meta, metaRows)
	if err != nil {
		temp.Close()
		return 0, wrapError("insert", err)
	}

	var scratch []byte
	insertedCount := 0
	for i, row := range metaRows {
		if row.Err != nil {
			c.logger.Warn("insert: metadata row failed", "error", row.Err)
			continue
		}
		vec := append([]float32(nil), accepted[i].Vector...)
		normalizeInPlace(vec)
		scratch = vecfile.EncodeRecord(scratch, int32(row.ID), vec)
		insertedCount++
	}

	if insertedCount == 0 {
		temp.Close()
		return 0, nil
	}
	_ = inserted // informational; insertedCount is the authoritative count

	if _, err := temp.Seek(0, io.SeekEnd); err != nil {
		temp.Close()
		return 0, wrapError("insert", err)
	}
	if _, err := temp.Write(scratch); err != nil {
		temp.Close()
		return 0, wrapError("insert", err)
	}

	newHdr := vecfile.Header{
		VectorCount: hdr.VectorCount + uint32(insertedCount),
		Dimensions:  uint32(targetDims),
	}
	if err := vecfile.WriteHeader(temp, newHdr); err != nil {
		temp.Close()
		return 0, wrapError("insert", err)
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return 0, wrapError("insert", err)
	}
	if err := temp.Close(); err != nil {
		return 0, wrapError("insert", err)
	}

	if err := os.Rename(tempPath, c.path); err != nil {
		return 0, wrapError("insert", err)
	}
	if err := c.refreshFileHandle(); err != nil {
		return 0, wrapError("insert", err)
	}

	c.logger.Debug("insert complete", "inserted", insertedCount, "skipped", skipped)
	return insertedCount, nil
}

func copyFile(src, dst string) error {
	in, err := os.OpenFile(src, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open source %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create dest %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return out.Sync()
}
