package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// SearchType selects how a KWIC keyword is matched against tokens.
	SearchType string

	// SortType selects how KWIC results are ordered.
	SortType string

	// JobStatus represents the lifecycle state of a background annotation job.
	JobStatus string

	// Operation names an engine query recorded by the analysis store.
	Operation string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// KWIC match modes.
const (
	TokenSearch        SearchType = "token" // default
	PartOfSpeechSearch SearchType = "part_of_speech"
	EntitySearch       SearchType = "entity"
)

// KWIC orderings.
const (
	SequentialSort              SortType = "sequential" // default
	NextTokenFrequencySort      SortType = "next_token_frequency"
	NextPOSFrequencySort        SortType = "next_pos_frequency"
	NextTokenPOSCombinationSort SortType = "next_token_pos_combination_frequency"
)

// Background job states.
const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Operations tracked in the analysis store.
const (
	KwicOperation    Operation = "kwic"
	NgramOperation   Operation = "ngrams"
	CompareOperation Operation = "compare"
	AuthorOperation  Operation = "authors"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSearchTypes lists all valid KWIC match modes.
var ValidSearchTypes = map[SearchType]struct{}{
	TokenSearch:        {},
	PartOfSpeechSearch: {},
	EntitySearch:       {},
}

// ValidSortTypes lists all valid KWIC orderings.
var ValidSortTypes = map[SortType]struct{}{
	SequentialSort:              {},
	NextTokenFrequencySort:      {},
	NextPOSFrequencySort:        {},
	NextTokenPOSCombinationSort: {},
}

// IsTerminal reports whether no further transitions can happen from this state.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}
