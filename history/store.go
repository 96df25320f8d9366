package history

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig конфигурация подключения к БД истории
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Entry запись журнала поисковых запросов
type Entry struct {
	ID          int64     `json:"id"`
	RequestID   string    `json:"request_id"`
	Query       string    `json:"query"`
	MaxResults  int       `json:"max_results"`
	ResultCount int       `json:"result_count"`
	Validated   bool      `json:"validated"`
	Status      string    `json:"status"`
	DurationMs  int64     `json:"duration_ms"`
	ClientIP    string    `json:"client_ip"`
	CreatedAt   time.Time `json:"created_at"`
}

// Stats агрегированная статистика журнала
type Stats struct {
	TotalSearches  int            `json:"total_searches"`
	UniqueQueries  int            `json:"unique_queries"`
	AvgDurationMs  float64        `json:"avg_duration_ms"`
	AvgResultCount float64        `json:"avg_result_count"`
	StatusCounts   map[string]int `json:"status_counts"`
	TopQueries     []QueryCount   `json:"top_queries"`
}

// QueryCount запрос с числом повторений
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Store хранилище истории поисковых запросов поверх SQLite
type Store struct {
	conn *sql.DB
}

// NewStore создает новое хранилище истории
func NewStore(dbPath string) (*Store, error) {
	config := DBConfig{}

	// Для in-memory SQLite требуется использовать ровно одно соединение,
	// иначе каждое новое соединение будет получать пустую БД без таблиц.
	if isInMemory(dbPath) {
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
	}

	return NewStoreWithConfig(dbPath, config)
}

// isInMemory определяет, что путь относится к in-memory SQLite
func isInMemory(dbPath string) bool {
	if dbPath == ":memory:" {
		return true
	}
	if strings.HasPrefix(dbPath, "file:") && strings.Contains(dbPath, "mode=memory") {
		return true
	}
	return false
}

// NewStoreWithConfig создает новое хранилище истории с конфигурацией пула соединений
func NewStoreWithConfig(dbPath string, config DBConfig) (*Store, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite плохо справляется с большим количеством одновременных соединений
	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		conn.SetMaxOpenConns(10)
	}

	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(2)
	}

	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	// WAL позволяет множественным читателям работать одновременно без блокировок
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Printf("[History] Warning: Failed to enable WAL mode: %v", err)
	}

	store := &Store{conn: conn}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return store, nil
}

// initSchema создает таблицу журнала, если ее еще нет
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL DEFAULT '',
		query TEXT NOT NULL,
		max_results INTEGER NOT NULL DEFAULT 0,
		result_count INTEGER NOT NULL DEFAULT 0,
		validated INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'ok',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		client_ip TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_search_history_query ON search_history(query);
	CREATE INDEX IF NOT EXISTS idx_search_history_created_at ON search_history(created_at);
	`

	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create search_history table: %w", err)
	}
	return nil
}

// Close закрывает подключение к базе данных истории
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping проверяет подключение к базе данных
func (s *Store) Ping() error {
	return s.conn.Ping()
}

// Record сохраняет запись о выполненном поиске
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry is nil")
	}
	if entry.Query == "" {
		return fmt.Errorf("entry query is empty")
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := s.conn.ExecContext(ctx, `
		INSERT INTO search_history (request_id, query, max_results, result_count, validated, status, duration_ms, client_ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID, entry.Query, entry.MaxResults, entry.ResultCount,
		entry.Validated, entry.Status, entry.DurationMs, entry.ClientIP, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// Recent возвращает последние записи журнала, от новых к старым
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, request_id, query, max_results, result_count, validated, status, duration_ms, client_ip, created_at
		FROM search_history
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var createdAt string
		if err := rows.Scan(
			&entry.ID, &entry.RequestID, &entry.Query, &entry.MaxResults,
			&entry.ResultCount, &entry.Validated, &entry.Status, &entry.DurationMs, &entry.ClientIP,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Stats возвращает агрегированную статистику по журналу
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		StatusCounts: make(map[string]int),
		TopQueries:   []QueryCount{},
	}

	err := s.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(DISTINCT query),
			COALESCE(AVG(duration_ms), 0.0),
			COALESCE(AVG(result_count), 0.0)
		FROM search_history`).Scan(
		&stats.TotalSearches, &stats.UniqueQueries,
		&stats.AvgDurationMs, &stats.AvgResultCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history totals: %w", err)
	}

	statusRows, err := s.conn.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM search_history
		GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer statusRows.Close()

	for statusRows.Next() {
		var status string
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		stats.StatusCounts[status] = count
	}
	if err := statusRows.Err(); err != nil {
		return nil, err
	}

	queryRows, err := s.conn.QueryContext(ctx, `
		SELECT query, COUNT(*) as cnt
		FROM search_history
		GROUP BY query
		ORDER BY cnt DESC, query
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to query top queries: %w", err)
	}
	defer queryRows.Close()

	for queryRows.Next() {
		var qc QueryCount
		if err := queryRows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan query row: %w", err)
		}
		stats.TopQueries = append(stats.TopQueries, qc)
	}

	return stats, queryRows.Err()
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.000Z07:00",
	"2006-01-02 15:04:05",
}

// parseTimestamp разбирает метку времени в одном из форматов, которыми пишет SQLite
func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
