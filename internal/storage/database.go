package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"tickdown/internal/logger"
	"tickdown/internal/models"
)

// ErrPresetNotFound means no preset row matches the given id.
var ErrPresetNotFound = errors.New("preset not found")

// Database stores presets and the run history in a local sqlite file.
type Database struct {
	db  *sql.DB
	log logger.Logger
}

func NewDatabase(path string, log logger.Logger) (*Database, error) {
	if log == nil {
		log = logger.NewNop()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	database := &Database{db: db, log: log}
	if err := database.initTables(); err != nil {
		db.Close()
		return nil, err
	}
	if err := database.seedPresets(); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("Database", "database ready", map[string]interface{}{
		"path": path,
	})
	return database, nil
}

func (d *Database) initTables() error {
	_, err := d.db.Exec(`
        CREATE TABLE IF NOT EXISTS presets (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            duration_ns INTEGER NOT NULL,
            position INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL
        )
    `)
	if err != nil {
		return errors.Wrap(err, "create presets table")
	}

	_, err = d.db.Exec(`
        CREATE TABLE IF NOT EXISTS runs (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            total_ns INTEGER NOT NULL,
            started_at DATETIME NOT NULL,
            finished_at DATETIME NOT NULL,
            completed INTEGER NOT NULL
        )
    `)
	return errors.Wrap(err, "create runs table")
}

// seedPresets fills an empty presets table with a starter set.
func (d *Database) seedPresets() error {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM presets").Scan(&count); err != nil {
		return errors.Wrap(err, "count presets")
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		name     string
		duration time.Duration
	}{
		{"1 minute", time.Minute},
		{"5 minutes", 5 * time.Minute},
		{"10 minutes", 10 * time.Minute},
		{"25 minutes", 25 * time.Minute},
	}

	for i, p := range defaults {
		preset := &models.Preset{
			Name:      p.name,
			Duration:  p.duration,
			Position:  i,
			CreatedAt: time.Now(),
		}
		if err := d.SavePreset(preset); err != nil {
			return err
		}
	}

	d.log.Debug("Database", "default presets seeded", map[string]interface{}{
		"count": len(defaults),
	})
	return nil
}

// SavePreset inserts the preset, or updates it when it already has an
// id. On insert the generated id is written back.
func (d *Database) SavePreset(preset *models.Preset) error {
	if preset.ID == 0 {
		return d.insertPreset(preset)
	}
	return d.updatePreset(preset)
}

func (d *Database) insertPreset(preset *models.Preset) error {
	if preset.CreatedAt.IsZero() {
		preset.CreatedAt = time.Now()
	}

	result, err := d.db.Exec(`
        INSERT INTO presets (name, duration_ns, position, created_at)
        VALUES (?, ?, ?, ?)
    `, preset.Name, int64(preset.Duration), preset.Position, preset.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert preset")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "preset insert id")
	}
	preset.ID = id
	return nil
}

func (d *Database) updatePreset(preset *models.Preset) error {
	result, err := d.db.Exec(`
        UPDATE presets
        SET name = ?, duration_ns = ?, position = ?
        WHERE id = ?
    `, preset.Name, int64(preset.Duration), preset.Position, preset.ID)
	if err != nil {
		return errors.Wrap(err, "update preset")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update preset")
	}
	if affected == 0 {
		return errors.Wrapf(ErrPresetNotFound, "id %d", preset.ID)
	}
	return nil
}

// GetPresets returns all presets in display order.
func (d *Database) GetPresets() ([]*models.Preset, error) {
	rows, err := d.db.Query(`
        SELECT id, name, duration_ns, position, created_at
        FROM presets
        ORDER BY position ASC, id ASC
    `)
	if err != nil {
		return nil, errors.Wrap(err, "query presets")
	}
	defer rows.Close()

	var presets []*models.Preset
	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, preset)
	}
	return presets, rows.Err()
}

func (d *Database) GetPreset(id int64) (*models.Preset, error) {
	row := d.db.QueryRow(`
        SELECT id, name, duration_ns, position, created_at
        FROM presets
        WHERE id = ?
    `, id)

	preset, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrPresetNotFound, "id %d", id)
	}
	return preset, err
}

func (d *Database) DeletePreset(id int64) error {
	result, err := d.db.Exec("DELETE FROM presets WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "delete preset")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete preset")
	}
	if affected == 0 {
		return errors.Wrapf(ErrPresetNotFound, "id %d", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPreset(row rowScanner) (*models.Preset, error) {
	preset := &models.Preset{}
	var durationNS int64
	if err := row.Scan(&preset.ID, &preset.Name, &durationNS, &preset.Position, &preset.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "scan preset")
	}
	preset.Duration = time.Duration(durationNS)
	return preset, nil
}

// SaveRun appends one run to the history and writes back its id.
func (d *Database) SaveRun(run *models.RunRecord) error {
	result, err := d.db.Exec(`
        INSERT INTO runs (total_ns, started_at, finished_at, completed)
        VALUES (?, ?, ?, ?)
    `, int64(run.Total), run.StartedAt, run.FinishedAt, run.Completed)
	if err != nil {
		return errors.Wrap(err, "insert run")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "run insert id")
	}
	run.ID = id
	return nil
}

// GetRecentRuns returns the newest runs first.
func (d *Database) GetRecentRuns(limit int) ([]*models.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.db.Query(`
        SELECT id, total_ns, started_at, finished_at, completed
        FROM runs
        ORDER BY started_at DESC, id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []*models.RunRecord
	for rows.Next() {
		run := &models.RunRecord{}
		var totalNS int64
		if err := rows.Scan(&run.ID, &totalNS, &run.StartedAt, &run.FinishedAt, &run.Completed); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		run.Total = time.Duration(totalNS)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunStats aggregates the whole history. Duration figures cover
// completed runs only.
func (d *Database) GetRunStats() (*models.RunStats, error) {
	stats := &models.RunStats{}
	var totalNS, longestNS int64

	err := d.db.QueryRow(`
        SELECT
            COUNT(*),
            COALESCE(SUM(completed), 0),
            COALESCE(SUM(CASE WHEN completed THEN total_ns ELSE 0 END), 0),
            COALESCE(MAX(CASE WHEN completed THEN total_ns ELSE 0 END), 0)
        FROM runs
    `).Scan(&stats.TotalRuns, &stats.CompletedRuns, &totalNS, &longestNS)
	if err != nil {
		return nil, errors.Wrap(err, "query run stats")
	}

	stats.TotalDuration = time.Duration(totalNS)
	stats.LongestRun = time.Duration(longestNS)
	return stats, nil
}

// ClearRuns wipes the history.
func (d *Database) ClearRuns() error {
	_, err := d.db.Exec("DELETE FROM runs")
	return errors.Wrap(err, "clear runs")
}

func (d *Database) Close() error {
	return d.db.Close()
}
