package db

// Schema for archived records. payload holds the record JSON exactly as the API returned it.
const createRecordsTable = `
CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    primary_type TEXT NOT NULL,
    secondary_type TEXT,
    stat_total INTEGER NOT NULL,
    payload TEXT NOT NULL,
    fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_records_name ON records(name);
CREATE INDEX IF NOT EXISTS idx_records_type ON records(primary_type);
`

const upsertRecord = `
INSERT OR REPLACE INTO records (id, name, primary_type, secondary_type, stat_total, payload)
VALUES (?, ?, ?, ?, ?, ?)
`

const selectRecords = `
SELECT id, payload FROM records ORDER BY id ASC
`

const selectRecordRange = `
SELECT id, payload FROM records WHERE id BETWEEN ? AND ? ORDER BY id ASC
`

const selectRecordCount = `
SELECT COUNT(*) FROM records
`

// Type counts over both slots
const selectTypeCounts = `
SELECT type_name, COUNT(*) AS n FROM (
    SELECT primary_type AS type_name FROM records
    UNION ALL
    SELECT secondary_type FROM records WHERE secondary_type IS NOT NULL AND secondary_type != ''
)
GROUP BY type_name
ORDER BY n DESC, type_name ASC
`

const deleteRecords = `
DELETE FROM records
`

// Schema for the preference key/value store
const createPreferencesTable = `
CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const upsertPreference = `
INSERT INTO preferences (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`

const selectPreference = `
SELECT value FROM preferences WHERE key = ?
`

const deletePreference = `
DELETE FROM preferences WHERE key = ?
`
