package repositories

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/reaandrew/vmlint/core"
)

// SqliteVerdictRepository implements core.VerdictRepository using SQLite.
// Each run archives into its own database file so the archive can be
// queried long after the run finished.
type SqliteVerdictRepository struct {
	db *sql.DB
}

// NewSqliteVerdictRepository creates a new SQLite-backed repository at
// dbPath (e.g. "verdicts.db"). An existing file at that path is replaced:
// one database holds one run.
func NewSqliteVerdictRepository(dbPath string) (core.VerdictRepository, error) {
	db, err := initializeSQLiteDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &SqliteVerdictRepository{db: db}, nil
}

// Store inserts the verdicts in one transaction.
func (r *SqliteVerdictRepository) Store(verdicts []core.Verdict) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO verdicts (rule_id, instance_id, instance_name, zone, status, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, verdict := range verdicts {
		var instanceID, instanceName, zone string
		if verdict.Instance != nil {
			instanceID = verdict.Instance.ID
			instanceName = verdict.Instance.Name
			zone = verdict.Instance.Zone
		}
		if _, execErr := stmt.Exec(verdict.RuleID, instanceID, instanceName, zone,
			string(verdict.Status), verdict.Message); execErr != nil {
			return fmt.Errorf("failed to insert verdict for rule %q: %w", verdict.RuleID, execErr)
		}
	}
	return nil
}

// Clear removes all stored verdicts.
func (r *SqliteVerdictRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM verdicts`)
	return err
}

// NewIterator walks the stored verdicts one row at a time.
func (r *SqliteVerdictRepository) NewIterator() core.VerdictIterator {
	return &sqliteVerdictIterator{repo: r}
}

// Close closes the underlying SQLite database.
func (r *SqliteVerdictRepository) Close() error {
	return r.db.Close()
}

// sqliteVerdictIterator loads the row with the next-higher id on every
// HasNext call, so iteration never holds a long-lived cursor open.
type sqliteVerdictIterator struct {
	repo      *SqliteVerdictRepository
	currentID int
	current   *core.Verdict
}

func (it *sqliteVerdictIterator) HasNext() bool {
	row := it.repo.db.QueryRow(`
		SELECT id, rule_id, instance_id, instance_name, zone, status, message
		FROM verdicts
		WHERE id > ?
		ORDER BY id ASC
		LIMIT 1
	`, it.currentID)

	var id int
	var ruleID, instanceID, instanceName, zone, status, message string
	if err := row.Scan(&id, &ruleID, &instanceID, &instanceName, &zone, &status, &message); err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Errorf("Error loading verdict with id > %d", it.currentID)
		}
		return false
	}

	verdict := core.Verdict{
		RuleID:  ruleID,
		Status:  core.VerdictStatus(status),
		Message: message,
	}
	if instanceID != "" || instanceName != "" {
		verdict.Instance = &core.Instance{ID: instanceID, Name: instanceName, Zone: zone}
	}

	it.currentID = id
	it.current = &verdict
	return true
}

func (it *sqliteVerdictIterator) Next() (core.Verdict, error) {
	if it.current == nil {
		return core.Verdict{}, fmt.Errorf("no verdict loaded; call HasNext first")
	}
	return *it.current, nil
}

func (it *sqliteVerdictIterator) Reset() error {
	it.currentID = 0
	it.current = nil
	return nil
}

// initializeSQLiteDB opens (or creates) the SQLite database and applies the
// verdict schema. WAL mode keeps inserts cheap while the terminal reporter
// is writing at the same time.
func initializeSQLiteDB(dbPath string) (*sql.DB, error) {
	if err := deleteDatabaseFileIfExists(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, _ = db.Exec("PRAGMA journal_mode = WAL;")
	_, _ = db.Exec("PRAGMA synchronous = OFF;")

	createStmt := `CREATE TABLE IF NOT EXISTS verdicts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		rule_id TEXT NOT NULL,
		instance_id TEXT,
		instance_name TEXT,
		zone TEXT,
		status TEXT NOT NULL,
		message TEXT
	);`
	if _, err := db.Exec(createStmt); err != nil {
		return nil, fmt.Errorf("failed to create verdicts table: %w", err)
	}

	return db, nil
}

func deleteDatabaseFileIfExists(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to check if file exists at path %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("path %s is a directory, not a file", path)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete database file at path %s: %w", path, err)
	}
	return nil
}
