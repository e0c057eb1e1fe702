// Package metastore wraps the embedded modernc.org/sqlite engine holding
// the single metadata table:
//
//	metadata(id INTEGER PRIMARY KEY AUTOINCREMENT,
//	         metadata TEXT,
//	         metadata_length INTEGER)
//	CREATE INDEX idx_metadata_id ON metadata(id)
package metastore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// deleteChunkSize bounds the number of ids per chunked DELETE statement.
const deleteChunkSize = 500

// selectChunkSize bounds the number of bound parameters per batch SELECT,
// matching the SQL engine's practical placeholder limit.
const selectChunkSize = 999

// Store is the metadata-table handle for one database path.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path, enables
// WAL journaling, and ensures the metadata table and its index exist.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_cache_size=-2000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open metadata db: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS metadata (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		metadata TEXT,
		metadata_length INTEGER
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create metadata table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_metadata_id ON metadata(id)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create metadata index: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Row is one inserted metadata row together with the id the engine assigned
// it, used by InsertRows to report per-row outcomes.
type Row struct {
	Blob []byte
	ID   int64 // set by InsertRows on success
	Err  error // set by InsertRows on failure
}

// InsertRows inserts each row inside one transaction, tolerating individual
// row failures: a row whose INSERT fails gets rows[i].Err set and is
// skipped, but the batch continues. If every row fails the transaction is
// rolled back; otherwise it is committed.
func InsertRows(ctx context.Context, s *Store, rows []Row) (inserted int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO metadata (metadata, metadata_length) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range rows {
		res, execErr := stmt.ExecContext(ctx, string(rows[i].Blob), len(rows[i].Blob))
		if execErr != nil {
			rows[i].Err = execErr
			continue
		}
		id, idErr := res.LastInsertId()
		if idErr != nil {
			rows[i].Err = idErr
			continue
		}
		rows[i].ID = id
		inserted++
	}

	if inserted == 0 {
		tx.Rollback()
		return 0, nil
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert transaction: %w", err)
	}
	return inserted, nil
}

// DeleteIDs deletes the given ids in chunks of at most deleteChunkSize,
// inside one enclosing transaction, and returns the number of rows actually
// deleted by SQL. This count is informational only: the public
// deleted_count a caller sees is the vector-file compaction count, not
// this value.
func DeleteIDs(ctx context.Context, s *Store, ids []int32) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete transaction: %w", err)
	}

	var total int64
	for start := 0; start < len(ids); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM metadata WHERE id IN (`+placeholders+`)`, args...)
		if err != nil {
			tx.Rollback()
			return total, fmt.Errorf("delete chunk: %w", err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	if err := tx.Commit(); err != nil {
		return total, fmt.Errorf("commit delete transaction: %w", err)
	}
	return total, nil
}

// SelectIDsWhere runs `SELECT id FROM metadata WHERE <sqlWhere>` and returns
// the matching ids sorted ascending.
func SelectIDsWhere(ctx context.Context, s *Store, sqlWhere string) ([]int32, error) {
	query := "SELECT id FROM metadata"
	if strings.TrimSpace(sqlWhere) != "" {
		query += " WHERE " + sqlWhere
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select ids where: %w", err)
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// MetadataEntry is one metadata row fetched by SelectMetadataBatch.
type MetadataEntry struct {
	Blob   []byte
	Length int
}

// SelectMetadataBatch fetches metadata for ids in chunks of at most
// selectChunkSize placeholders, returning a map keyed by id. Ids with no
// matching row are simply absent from the map; callers default them to
// "{}".
func SelectMetadataBatch(ctx context.Context, s *Store, ids []int32) (map[int32]MetadataEntry, error) {
	result := make(map[int32]MetadataEntry, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	for start := 0; start < len(ids); start += selectChunkSize {
		end := start + selectChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		query := `SELECT id, metadata, metadata_length FROM metadata WHERE id IN (` + placeholders + `)`
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("select metadata batch: %w", err)
		}

		for rows.Next() {
			var id int32
			var blob sql.NullString
			var length sql.NullInt64
			if err := rows.Scan(&id, &blob, &length); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan metadata row: %w", err)
			}
			entry := MetadataEntry{Length: int(length.Int64)}
			if blob.Valid {
				entry.Blob = []byte(blob.String)
			}
			result[id] = entry
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return result, nil
}

// UpdateMetadata sets metadata for an existing id.
func UpdateMetadata(ctx context.Context, s *Store, id int32, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `UPDATE metadata SET metadata = ?, metadata_length = ? WHERE id = ?`,
		string(blob), len(blob), id)
	if err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}
	return nil
}
