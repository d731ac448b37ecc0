package feedback

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/valentinpelus/velocite/pkg/types"
)

// DefaultTable is the table LoadPostgres reads when none is given
const DefaultTable = "feedback_items"

// PostgresConfig describes where to read the seed feed from
type PostgresConfig struct {
	DatabaseURL string
	Table       string
}

// LoadPostgres reads the feed once from PostgreSQL and returns an immutable
// store. The connection is closed before returning.
//
// Expected schema:
//
//	CREATE TABLE feedback_items (
//	    id         TEXT PRIMARY KEY,
//	    user_id    TEXT NOT NULL,
//	    content    TEXT NOT NULL,
//	    source     TEXT NOT NULL,
//	    created_at TEXT NOT NULL,
//	    sentiment  TEXT NOT NULL
//	);
func LoadPostgres(ctx context.Context, cfg PostgresConfig) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, content, source, created_at, sentiment
		FROM %s
		ORDER BY created_at, id
	`, quoteIdent(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var items []types.FeedbackItem
	for rows.Next() {
		var item types.FeedbackItem
		var source, sentiment string
		if err := rows.Scan(&item.ID, &item.User, &item.Content, &source, &item.Timestamp, &sentiment); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		item.Source = types.Source(source)
		item.Sentiment = types.Sentiment(sentiment)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return NewStore(items)
}

// quoteIdent quotes a table name, allowing a schema prefix
func quoteIdent(name string) string {
	out := `"`
	for _, r := range name {
		switch r {
		case '"':
			out += `""`
		case '.':
			out += `"."`
		default:
			out += string(r)
		}
	}
	return out + `"`
}
