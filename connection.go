package vecore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/liliang-cn/vecore/internal/metastore"
	"github.com/liliang-cn/vecore/internal/vecfile"
)

// registry is the process-wide map from absolute vector-file path to its
// live Connection. Opening the same path twice returns the same
// Connection; the registry is mutated only on open, so concurrent opens
// must serialize through registryMu like any other shared resource.
var (
	registryMu sync.RWMutex
	registry   = map[string]*Connection{}
)

// Connection is an in-process handle to one opened database: its vector
// file, the companion metadata store, and the fixed dimensions once known.
// A Connection serializes its own operations.
type Connection struct {
	mu     sync.Mutex
	path   string // absolute path to the vector file
	dims   int
	vf     *os.File
	meta   *metastore.Store
	cfg    Config
	logger Logger
	closed bool
}

// Open resolves cfg.Path to an absolute path and returns its Connection,
// opening and registering it on first use. Reopening an already-open path
// is idempotent and does not touch the file.
func Open(cfg Config) (*Connection, error) {
	if cfg.Path == "" {
		return nil, wrapError("connect", fmt.Errorf("%w: path must not be empty", ErrInvalidConfig))
	}
	if cfg.Dimensions < 0 {
		return nil, wrapError("connect", fmt.Errorf("%w: dimensions must be non-negative", ErrInvalidConfig))
	}

	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, wrapError("connect", err)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if conn, ok := registry[absPath]; ok {
		return conn, nil
	}

	vf, hdr, err := vecfile.OpenOrInit(absPath, cfg.Dimensions)
	if err != nil {
		return nil, wrapError("connect", err)
	}

	meta, err := metastore.Open(absPath + ".metadata.db")
	if err != nil {
		vf.Close()
		return nil, wrapError("connect", err)
	}

	conn := &Connection{
		path:   absPath,
		dims:   int(hdr.Dimensions),
		vf:     vf,
		meta:   meta,
		cfg:    cfg,
		logger: cfg.logger(),
	}
	registry[absPath] = conn
	conn.logger.Info("opened database", "path", absPath, "dimensions", conn.dims)

	return conn, nil
}

// Close closes the connection's file handles and removes it from the
// process-wide registry. Subsequent operations on this Connection fail with
// ErrConnectionClosed.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	registryMu.Lock()
	delete(registry, c.path)
	registryMu.Unlock()

	var firstErr error
	if err := c.vf.Close(); err != nil {
		firstErr = err
	}
	if err := c.meta.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return wrapError("close", firstErr)
}

// refreshFileHandle closes and reopens the vector file handle, used after a
// mutation renames a temp file over the original path.
func (c *Connection) refreshFileHandle() error {
	if err := c.vf.Close(); err != nil {
		return fmt.Errorf("close stale handle: %w", err)
	}
	vf, hdr, err := vecfile.OpenOrInit(c.path, c.dims)
	if err != nil {
		return fmt.Errorf("reopen vector file: %w", err)
	}
	c.vf = vf
	c.dims = int(hdr.Dimensions)
	return nil
}

func (c *Connection) checkOpen(op string) error {
	if c.closed {
		return wrapError(op, ErrConnectionClosed)
	}
	return nil
}

// header re-reads the current header without disturbing the body cursor
// semantics expected by callers (they seek explicitly before streaming).
func (c *Connection) header() (vecfile.Header, error) {
	return vecfile.ReadHeader(c.vf)
}
