package iostore

// ddl creates tables of a compiled file. Ids are the ids of the
// intermediate store, so restoring keeps every reference valid.
var ddl = []string{
	`CREATE TABLE meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE files (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		format TEXT NOT NULL
	)`,
	`CREATE TABLE accessions (
		id INTEGER PRIMARY KEY,
		accession TEXT NOT NULL,
		sequence TEXT NOT NULL,
		db_refs TEXT NOT NULL,
		group_id INTEGER NOT NULL
	)`,
	`CREATE TABLE accession_files (
		accession_id INTEGER NOT NULL,
		file_id INTEGER NOT NULL,
		description TEXT NOT NULL
	)`,
	`CREATE TABLE peptides (
		id INTEGER PRIMARY KEY,
		sequence TEXT NOT NULL,
		group_id INTEGER NOT NULL
	)`,
	`CREATE TABLE occurrences (
		peptide_id INTEGER NOT NULL,
		accession_id INTEGER NOT NULL,
		start INTEGER NOT NULL,
		stop INTEGER NOT NULL
	)`,
	`CREATE TABLE psms (
		id INTEGER PRIMARY KEY,
		file_id INTEGER NOT NULL,
		peptide_id INTEGER NOT NULL,
		source_id TEXT NOT NULL,
		spectrum_title TEXT NOT NULL,
		sequence TEXT NOT NULL,
		charge INTEGER NOT NULL,
		mz REAL NOT NULL,
		delta_mass REAL NOT NULL,
		retention_time REAL,
		missed_cleavages INTEGER NOT NULL,
		decoy INTEGER NOT NULL,
		protocol TEXT NOT NULL,
		modifications TEXT NOT NULL,
		scores TEXT NOT NULL,
		accession_ids TEXT NOT NULL
	)`,
	`CREATE TABLE groups (
		id INTEGER PRIMARY KEY,
		tree_id INTEGER NOT NULL
	)`,
	`CREATE TABLE group_accessions (
		group_id INTEGER NOT NULL,
		accession_id INTEGER NOT NULL
	)`,
	`CREATE TABLE group_peptides (
		group_id INTEGER NOT NULL,
		peptide_id INTEGER NOT NULL
	)`,
	`CREATE TABLE group_children (
		parent_id INTEGER NOT NULL,
		child_id INTEGER NOT NULL
	)`,
}
