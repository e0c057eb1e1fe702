// Command vecorectl is a thin CLI around the vecore embedded vector
// database: init a database file, insert vectors, search, delete, paginate,
// and inspect stats, all against a single on-disk path.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/vecore"
)

var (
	dbPath     string
	dimensions int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vecorectl",
	Short: "CLI tool for the vecore embedded vector database",
	Long:  `A command-line interface for managing a vecore vector file and its metadata store.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new vector database file",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		stats, err := conn.GetIndexStats()
		if err != nil {
			return fmt.Errorf("failed to read stats: %w", err)
		}
		fmt.Printf("Vector database initialized at %s with %d dimensions\n", dbPath, stats.Dimensions)
		return nil
	},
}

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Insert a vector record",
	RunE: func(cmd *cobra.Command, args []string) error {
		vectorStr, _ := cmd.Flags().GetString("vector")
		metadataStr, _ := cmd.Flags().GetString("metadata")

		if vectorStr == "" {
			return fmt.Errorf("vector is required")
		}
		vector, err := parseVector(vectorStr)
		if err != nil {
			return fmt.Errorf("invalid vector format: %w", err)
		}

		var metadata []byte
		if metadataStr != "" {
			if !json.Valid([]byte(metadataStr)) {
				return fmt.Errorf("invalid metadata JSON")
			}
			metadata = []byte(metadataStr)
		}

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := context.Background()
		n, err := conn.Insert(ctx, []vecore.InsertRecord{{Vector: vector, Metadata: metadata}})
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("record was rejected (dimension mismatch)")
		}
		fmt.Println("Record inserted successfully")
		return nil
	},
}

var insertBatchCmd = &cobra.Command{
	Use:   "insert-batch <json-file>",
	Short: "Insert records in batch from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var raw []struct {
			Vector   []float32       `json:"vector"`
			Metadata json.RawMessage `json:"metadata"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}

		records := make([]vecore.InsertRecord, len(raw))
		for i, r := range raw {
			records[i] = vecore.InsertRecord{Vector: r.Vector, Metadata: r.Metadata}
		}

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := context.Background()
		n, err := conn.Insert(ctx, records)
		if err != nil {
			return fmt.Errorf("batch insert failed: %w", err)
		}
		fmt.Printf("Successfully inserted %d of %d records\n", n, len(records))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for similar vectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		vectorStr, _ := cmd.Flags().GetString("vector")
		topK, _ := cmd.Flags().GetInt("top-k")
		filterStr, _ := cmd.Flags().GetString("filter")
		outputJSON, _ := cmd.Flags().GetBool("json")

		vector, err := parseVector(vectorStr)
		if err != nil {
			return fmt.Errorf("invalid vector format: %w", err)
		}

		var filterTree map[string]any
		if filterStr != "" {
			if err := json.Unmarshal([]byte(filterStr), &filterTree); err != nil {
				return fmt.Errorf("invalid filter JSON: %w", err)
			}
		}

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := context.Background()
		results, err := conn.Search(ctx, vector, topK, filterTree)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if outputJSON {
			data, _ := json.MarshalIndent(results, "", "  ")
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Found %d results:\n", len(results))
		for i, r := range results {
			fmt.Printf("%d. id=%d (similarity: %.4f)\n", i+1, r.ID, r.Similarity)
			if verbose {
				fmt.Printf("   metadata: %s\n", r.Metadata)
			}
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete records by id or by metadata filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		idsStr, _ := cmd.Flags().GetString("ids")
		filterStr, _ := cmd.Flags().GetString("filter")

		if idsStr == "" && filterStr == "" {
			return fmt.Errorf("either --ids or --filter must be given")
		}

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()
		ctx := context.Background()

		var deleted int
		if idsStr != "" {
			ids, perr := parseIDs(idsStr)
			if perr != nil {
				return perr
			}
			deleted, err = conn.DeleteByIDs(ctx, ids)
		} else {
			var filterTree map[string]any
			if err := json.Unmarshal([]byte(filterStr), &filterTree); err != nil {
				return fmt.Errorf("invalid filter JSON: %w", err)
			}
			deleted, err = conn.DeleteByFilter(ctx, filterTree)
		}
		if err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		fmt.Printf("Deleted %d record(s)\n", deleted)
		return nil
	},
}

var paginateCmd = &cobra.Command{
	Use:   "paginate",
	Short: "List records in file order",
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")
		outputJSON, _ := cmd.Flags().GetBool("json")

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := context.Background()
		items, err := conn.GetPaginated(ctx, skip, limit)
		if err != nil {
			return fmt.Errorf("failed to paginate: %w", err)
		}

		if outputJSON {
			data, _ := json.MarshalIndent(items, "", "  ")
			fmt.Println(string(data))
			return nil
		}
		for _, it := range items {
			fmt.Printf("id=%d metadata=%s\n", it.ID, it.Metadata)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputJSON, _ := cmd.Flags().GetBool("json")

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		stats, err := conn.GetIndexStats()
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if outputJSON {
			data, _ := json.MarshalIndent(stats, "", "  ")
			fmt.Println(string(data))
			return nil
		}
		fmt.Println("Database Statistics:")
		fmt.Printf("  Vector Count: %d\n", stats.VectorCount)
		fmt.Printf("  Dimensions: %d\n", stats.Dimensions)
		fmt.Printf("  File Size: %.2f MB\n", float64(stats.FileSizeBytes)/(1024*1024))
		return nil
	},
}

func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	vector := make([]float32, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, err
		}
		vector = append(vector, float32(val))
	}
	return vector, nil
}

func parseIDs(s string) ([]int32, error) {
	parts := strings.Split(s, ",")
	ids := make([]int32, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, int32(val))
	}
	return ids, nil
}

func openConn() (*vecore.Connection, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path not specified")
	}
	cfg := vecore.DefaultConfig(dbPath)
	cfg.Dimensions = dimensions
	if verbose {
		cfg.Logger = vecore.NewStdLogger(vecore.LevelDebug)
	}
	return vecore.Open(cfg)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "vectors.db", "Vector database file path")
	rootCmd.PersistentFlags().IntVarP(&dimensions, "dimensions", "n", 0, "Vector dimensions (0 for auto)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	insertCmd.Flags().String("vector", "", "Vector values (comma-separated)")
	insertCmd.Flags().String("metadata", "", "Metadata as JSON")
	insertCmd.MarkFlagRequired("vector")

	searchCmd.Flags().String("vector", "", "Query vector (comma-separated)")
	searchCmd.Flags().Int("top-k", 10, "Number of results")
	searchCmd.Flags().String("filter", "", "Metadata filter as JSON")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
	searchCmd.MarkFlagRequired("vector")

	deleteCmd.Flags().String("ids", "", "Comma-separated ids to delete")
	deleteCmd.Flags().String("filter", "", "Metadata filter as JSON")

	paginateCmd.Flags().Int("skip", 0, "Number of records to skip")
	paginateCmd.Flags().Int("limit", 50, "Maximum number of records to return")
	paginateCmd.Flags().Bool("json", false, "Output as JSON")

	statsCmd.Flags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(initCmd, insertCmd, insertBatchCmd, searchCmd, deleteCmd, paginateCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
