package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Andyyyy64/el331-commit-analysis/internal/contract"
	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable  = "commitlens_analysis_runs"
	ngramResultsTable  = "commitlens_ngram_results"
	authorResultsTable = "commitlens_author_results"
	migrationsTable    = "schema_migrations"
)

var analysisTables = []string{analysisRunsTable, ngramResultsTable, authorResultsTable}

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

// createAnalysisTables applies the embedded up migrations directly. They are
// idempotent, so a database later managed by MigrateAnalysis stays consistent.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	statements, err := upStatements(backend)
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (as *AnalysisStoreImpl) disabled() bool {
	return as.backend == schema.NoneBackend || as.db == nil
}

func (as *AnalysisStoreImpl) table(name string) string {
	return quoteTableName(name, as.backend)
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(corpusKey string, op schema.Operation, startTime time.Time, configParams map[string]any) (int64, error) {
	if as.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	args := []any{corpusKey, string(op), formatTime(startTime, as.backend), string(configJSON)}
	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (corpus_key, operation, start_time, config_params) VALUES ($1, $2, $3, $4) RETURNING analysis_id`,
			as.table(analysisRunsTable))
		err = as.db.QueryRow(query, args...).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (corpus_key, operation, start_time, config_params) VALUES (?, ?, ?, ?)`,
			as.table(analysisRunsTable))
		var result sql.Result
		result, err = as.db.Exec(query, args...)
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}

	return analysisID, nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalResults int) error {
	if as.disabled() {
		return nil
	}

	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`,
		as.table(analysisRunsTable), placeholders(as.backend, 1))
	startTime, err := as.scanTime(as.db.QueryRow(query, analysisID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var update string
	if as.backend == schema.PostgreSQLBackend {
		update = `UPDATE %s SET end_time = $1, run_duration_ms = $2, total_results = $3 WHERE analysis_id = $4`
	} else {
		update = `UPDATE %s SET end_time = ?, run_duration_ms = ?, total_results = ? WHERE analysis_id = ?`
	}
	if _, err := as.db.Exec(fmt.Sprintf(update, as.table(analysisRunsTable)),
		formatTime(endTime, as.backend), durationMs, totalResults, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}

	return nil
}

// RecordNgramResults stores the ranked n-grams of a run in one transaction.
func (as *AnalysisStoreImpl) RecordNgramResults(analysisID int64, n int, entries []schema.NgramEntry) error {
	if as.disabled() || len(entries) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (analysis_id, n, ngram, frequency, ngram_rank) VALUES (%s)`,
		as.table(ngramResultsTable), placeholders(as.backend, 5))
	return as.insertAll(query, len(entries), func(i int) []any {
		e := entries[i]
		return []any{analysisID, n, e.Ngram, e.Frequency, e.Rank}
	})
}

// RecordAuthorResults stores the author profiles of a run in one transaction.
func (as *AnalysisStoreImpl) RecordAuthorResults(analysisID int64, profiles []schema.AuthorProfile) error {
	if as.disabled() || len(profiles) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (analysis_id, author, email, commit_count, avg_message_length, total_chars, common_words) VALUES (%s)`,
		as.table(authorResultsTable), placeholders(as.backend, 7))
	return as.insertAll(query, len(profiles), func(i int) []any {
		p := profiles[i]
		return []any{analysisID, p.Author, p.Email, p.CommitCount, p.AvgMessageLength, p.TotalChars, strings.Join(p.CommonWords, " ")}
	})
}

func (as *AnalysisStoreImpl) insertAll(query string, count int, row func(i int) []any) error {
	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range count {
		if _, err := stmt.Exec(row(i)...); err != nil {
			return fmt.Errorf("failed to insert result row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.disabled() {
		return status, nil
	}

	runs := as.table(analysisRunsTable)
	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := as.db.QueryRow(fmt.Sprintf("SELECT analysis_id FROM %s ORDER BY analysis_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		lastRun, err := as.scanTime(as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runs)))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRun

		oldestRun, err := as.scanTime(as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runs)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRun

		row = as.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_results), 0) FROM %s", runs))
		if err := row.Scan(&status.TotalResults); err != nil {
			return status, fmt.Errorf("failed to get total results: %w", err)
		}
	}

	for _, table := range analysisTables {
		var count int64
		if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", as.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, corpus_key, operation, start_time, end_time, run_duration_ms, total_results, config_params
		FROM %s ORDER BY analysis_id`, as.table(analysisRunsTable))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		var start, end any
		if err := rows.Scan(&record.AnalysisID, &record.CorpusKey, &record.Operation, &start, &end,
			&record.RunDurationMs, &record.TotalResults, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		if record.StartTime, err = parseTime(start); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if end != nil {
			endTime, err := parseTime(end)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}

	return results, nil
}

// GetAllNgramResults retrieves all recorded n-gram rows.
func (as *AnalysisStoreImpl) GetAllNgramResults() ([]schema.NgramResultRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, n, ngram, frequency, ngram_rank FROM %s ORDER BY analysis_id, n, ngram_rank`,
		as.table(ngramResultsTable))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query n-gram results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.NgramResultRecord
	for rows.Next() {
		var record schema.NgramResultRecord
		if err := rows.Scan(&record.AnalysisID, &record.N, &record.Ngram, &record.Frequency, &record.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan n-gram result: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating n-gram results: %w", err)
	}

	return results, nil
}

// GetAllAuthorResults retrieves all recorded author rows.
func (as *AnalysisStoreImpl) GetAllAuthorResults() ([]schema.AuthorResultRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, author, email, commit_count, avg_message_length, total_chars, common_words
		FROM %s ORDER BY analysis_id, commit_count DESC, author`, as.table(authorResultsTable))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query author results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AuthorResultRecord
	for rows.Next() {
		var record schema.AuthorResultRecord
		if err := rows.Scan(&record.AnalysisID, &record.Author, &record.Email, &record.CommitCount,
			&record.AvgMessageLength, &record.TotalChars, &record.CommonWords); err != nil {
			return nil, fmt.Errorf("failed to scan author result: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author results: %w", err)
	}

	return results, nil
}

func (as *AnalysisStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	var raw any
	if err := row.Scan(&raw); err != nil {
		return time.Time{}, err
	}
	return parseTime(raw)
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

// parseTime reads a time column: SQLite stores RFC 3339 text, MySQL without
// parseTime returns bytes, the others return time.Time.
func parseTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTimeString(v)
	case []byte:
		return parseTimeString(string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", raw)
	}
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}
