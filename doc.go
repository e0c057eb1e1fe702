// Package vecore is a lightweight, embeddable vector database for Go AI
// projects: an exact, brute-force cosine-similarity store tuned for
// simplicity and streaming throughput.
//
// vecore is pure Go (no cgo) and keeps two files per opened database path:
// a packed binary vector file and a companion modernc.org/sqlite metadata
// database holding JSON payloads keyed by vector ID. Search streams the
// vector file through a bounded buffer, scores each record with a
// SIMD-dispatching dot-product kernel, and keeps the top-K via a bounded
// min-heap; metadata for survivors is batch-fetched in one pass.
//
// # Quick start
//
//	cfg := vecore.DefaultConfig("vectors.db")
//	conn, err := vecore.Open(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	ctx := context.Background()
//	n, err := conn.Insert(ctx, []vecore.InsertRecord{
//	    {Vector: []float32{0.1, 0.2, 0.3}, Metadata: []byte(`{"title":"hello"}`)},
//	})
//
//	results, err := conn.Search(ctx, []float32{0.1, 0.2, 0.29}, 5, nil)
//
// # Filtering
//
// Search and delete accept a MongoDB-like filter tree which is translated to
// a SQL WHERE fragment over json_extract(metadata, ...):
//
//	results, err := conn.Search(ctx, q, 10, map[string]any{
//	    "brand": map[string]any{"$eq": "Pear"},
//	})
//
// Non-goals: approximate nearest-neighbor indexes, distributed or
// multi-writer storage, and transactional atomicity across the vector file
// and the metadata database.
package vecore
