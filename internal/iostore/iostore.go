// Package iostore saves a compiled intermediate structure to a SQLite
// file and loads it back, so inference can run many times on the
// result of one compilation.
package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnlib"
	gnpia "github.com/gnames/gnpia/pkg"
	"github.com/gnames/gnpia/pkg/config"
	"github.com/gnames/gnpia/pkg/intermediate"
	_ "modernc.org/sqlite"
)

// Compiled is the result of compilation: entities and the group graph.
type Compiled struct {
	Store  *intermediate.Store
	Groups intermediate.GroupMap
	// Version of the program that wrote the file.
	Version string
	// CreatedAt is the time the file was written.
	CreatedAt time.Time
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}
	return db, nil
}

// Save writes compiled data to path. An existing file is replaced.
func Save(ctx context.Context, path string, c Compiled) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return OpenError(path, err)
	}
	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return WriteError("transaction", err)
	}
	defer tx.Rollback()

	for _, q := range ddl {
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return WriteError("schema", err)
		}
	}

	w := writer{ctx: ctx, tx: tx, enc: gnfmt.GNjson{}}
	steps := []struct {
		table string
		fn    func(Compiled) error
	}{
		{"meta", w.meta},
		{"files", w.files},
		{"accessions", w.accessions},
		{"peptides", w.peptides},
		{"psms", w.psms},
		{"groups", w.groups},
	}
	for _, s := range steps {
		if err = s.fn(c); err != nil {
			return WriteError(s.table, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return WriteError("transaction", err)
	}
	slog.Info("Compiled structure saved", "path", path)
	return nil
}

type writer struct {
	ctx context.Context
	tx  *sql.Tx
	enc gnfmt.GNjson
}

// insert runs a prepared statement once per row produced by rows.
func (w writer) insert(q string, rows func(exec func(args ...any) error) error) error {
	stmt, err := w.tx.PrepareContext(w.ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()
	return rows(func(args ...any) error {
		_, err := stmt.ExecContext(w.ctx, args...)
		return err
	})
}

func (w writer) meta(c Compiled) error {
	trees := make(map[int64]struct{})
	for _, g := range c.Groups {
		trees[g.TreeID] = struct{}{}
	}
	meta := [][2]string{
		{"version", gnpia.Version},
		{"created_at", time.Now().UTC().Format(time.RFC3339)},
		{"nr_trees", strconv.Itoa(len(trees))},
	}
	return w.insert(
		"INSERT INTO meta (key, value) VALUES (?, ?)",
		func(exec func(...any) error) error {
			for _, kv := range meta {
				if err := exec(kv[0], kv[1]); err != nil {
					return err
				}
			}
			return nil
		})
}

func (w writer) files(c Compiled) error {
	return w.insert(
		"INSERT INTO files (id, name, path, format) VALUES (?, ?, ?, ?)",
		func(exec func(...any) error) error {
			for _, f := range c.Store.InputFiles() {
				if err := exec(f.ID, f.Name, f.Path, f.Format); err != nil {
					return err
				}
			}
			return nil
		})
}

func (w writer) accessions(c Compiled) error {
	accs := c.Store.Accessions()
	err := w.insert(
		`INSERT INTO accessions (id, accession, sequence, db_refs, group_id)
		VALUES (?, ?, ?, ?, ?)`,
		func(exec func(...any) error) error {
			for _, a := range accs {
				refs, err := w.enc.Encode(a.DBRefs)
				if err != nil {
					return err
				}
				err = exec(a.ID, a.Accession, a.Sequence, string(refs), a.GroupID)
				if err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return err
	}

	return w.insert(
		`INSERT INTO accession_files (accession_id, file_id, description)
		VALUES (?, ?, ?)`,
		func(exec func(...any) error) error {
			for _, a := range accs {
				for _, fid := range a.FileIDs.Sorted() {
					if err := exec(a.ID, fid, a.Descriptions[fid]); err != nil {
						return err
					}
				}
			}
			return nil
		})
}

func (w writer) peptides(c Compiled) error {
	peps := c.Store.Peptides()
	err := w.insert(
		"INSERT INTO peptides (id, sequence, group_id) VALUES (?, ?, ?)",
		func(exec func(...any) error) error {
			for _, p := range peps {
				if err := exec(p.ID, p.Sequence, p.GroupID); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return err
	}

	return w.insert(
		`INSERT INTO occurrences (peptide_id, accession_id, start, stop)
		VALUES (?, ?, ?, ?)`,
		func(exec func(...any) error) error {
			for _, p := range peps {
				for _, o := range p.Occurrences {
					if err := exec(p.ID, o.AccessionID, o.Start, o.Stop); err != nil {
						return err
					}
				}
			}
			return nil
		})
}

func (w writer) psms(c Compiled) error {
	return w.insert(
		`INSERT INTO psms (
			id, file_id, peptide_id, source_id, spectrum_title, sequence,
			charge, mz, delta_mass, retention_time, missed_cleavages, decoy,
			protocol, modifications, scores, accession_ids
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		func(exec func(...any) error) error {
			for _, p := range c.Store.PSMs() {
				mods, err := w.enc.Encode(p.Modifications)
				if err != nil {
					return err
				}
				scores, err := w.enc.Encode(p.Scores)
				if err != nil {
					return err
				}
				accs, err := w.enc.Encode(p.AccessionIDs)
				if err != nil {
					return err
				}
				var rt sql.NullFloat64
				if p.RetentionTime != nil {
					rt = sql.NullFloat64{Float64: *p.RetentionTime, Valid: true}
				}
				err = exec(
					p.ID, p.FileID, p.PeptideID, p.SourceID, p.SpectrumTitle,
					p.Sequence, p.Charge, p.MassToCharge, p.DeltaMass, rt,
					p.MissedCleavages, p.Decoy, p.Protocol,
					string(mods), string(scores), string(accs),
				)
				if err != nil {
					return fmt.Errorf("PSM %d: %w", p.ID, err)
				}
			}
			return nil
		})
}

func (w writer) groups(c Compiled) error {
	ids := c.Groups.IDs()
	err := w.insert(
		"INSERT INTO groups (id, tree_id) VALUES (?, ?)",
		func(exec func(...any) error) error {
			for _, id := range ids {
				if err := exec(id, c.Groups[id].TreeID); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return err
	}

	links := []struct {
		q   string
		set func(*intermediate.Group) intermediate.IDSet
	}{
		{
			"INSERT INTO group_accessions (group_id, accession_id) VALUES (?, ?)",
			func(g *intermediate.Group) intermediate.IDSet { return g.Accessions },
		},
		{
			"INSERT INTO group_peptides (group_id, peptide_id) VALUES (?, ?)",
			func(g *intermediate.Group) intermediate.IDSet { return g.Peptides },
		},
		{
			"INSERT INTO group_children (parent_id, child_id) VALUES (?, ?)",
			func(g *intermediate.Group) intermediate.IDSet { return g.Children },
		},
	}
	for _, l := range links {
		err = w.insert(l.q, func(exec func(...any) error) error {
			for _, id := range ids {
				for _, other := range l.set(c.Groups[id]).Sorted() {
					if err := exec(id, other); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Load reads a compiled file written by Save.
func Load(ctx context.Context, path string) (Compiled, error) {
	var res Compiled
	if _, err := os.Stat(path); err != nil {
		return res, OpenError(path, err)
	}
	db, err := open(path)
	if err != nil {
		return res, err
	}
	defer db.Close()

	r := reader{ctx: ctx, db: db, dec: gnfmt.GNjson{}}
	if res.Version, res.CreatedAt, err = r.meta(); err != nil {
		return res, ReadError("meta", err)
	}
	if !gnlib.IsVersion(res.Version) ||
		gnlib.CmpVersion(res.Version, config.MinVersionCompiled) < 0 {
		return res, VersionError(path, res.Version)
	}

	res.Store = intermediate.NewStore()
	steps := []struct {
		table string
		fn    func(*intermediate.Store) error
	}{
		{"files", r.files},
		{"accessions", r.accessions},
		{"peptides", r.peptides},
		{"psms", r.psms},
	}
	for _, s := range steps {
		if err = s.fn(res.Store); err != nil {
			return res, ReadError(s.table, err)
		}
	}
	if res.Groups, err = r.groups(); err != nil {
		return res, ReadError("groups", err)
	}
	slog.Info("Compiled structure loaded",
		"path", path,
		"version", res.Version,
		"groups", len(res.Groups),
	)
	return res, nil
}

type reader struct {
	ctx context.Context
	db  *sql.DB
	dec gnfmt.GNjson
}

// each runs the query and calls fn for every row.
func (r reader) each(q string, fn func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(r.ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err = fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r reader) meta() (string, time.Time, error) {
	var version string
	var created time.Time
	err := r.each("SELECT key, value FROM meta", func(rows *sql.Rows) error {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		switch k {
		case "version":
			version = v
		case "created_at":
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return err
			}
			created = t
		}
		return nil
	})
	if err != nil {
		return "", created, err
	}
	if version == "" {
		return "", created, errors.New("version is missing")
	}
	return version, created, nil
}

func (r reader) files(s *intermediate.Store) error {
	return r.each(
		"SELECT id, name, path, format FROM files ORDER BY id",
		func(rows *sql.Rows) error {
			var f intermediate.InputFile
			if err := rows.Scan(&f.ID, &f.Name, &f.Path, &f.Format); err != nil {
				return err
			}
			return s.RestoreInputFile(&f)
		})
}

func (r reader) accessions(s *intermediate.Store) error {
	err := r.each(
		`SELECT id, accession, sequence, db_refs, group_id
		FROM accessions ORDER BY id`,
		func(rows *sql.Rows) error {
			var a intermediate.Accession
			var refs string
			err := rows.Scan(&a.ID, &a.Accession, &a.Sequence, &refs, &a.GroupID)
			if err != nil {
				return err
			}
			if err = r.dec.Decode([]byte(refs), &a.DBRefs); err != nil {
				return err
			}
			return s.RestoreAccession(&a)
		})
	if err != nil {
		return err
	}

	return r.each(
		"SELECT accession_id, file_id, description FROM accession_files",
		func(rows *sql.Rows) error {
			var accID, fileID int64
			var descr string
			if err := rows.Scan(&accID, &fileID, &descr); err != nil {
				return err
			}
			a := s.Accession(accID)
			if a == nil {
				return fmt.Errorf("unknown accession id %d", accID)
			}
			a.FileIDs.Add(fileID)
			if descr != "" {
				a.Descriptions[fileID] = descr
			}
			return nil
		})
}

func (r reader) peptides(s *intermediate.Store) error {
	err := r.each(
		"SELECT id, sequence, group_id FROM peptides ORDER BY id",
		func(rows *sql.Rows) error {
			var p intermediate.Peptide
			if err := rows.Scan(&p.ID, &p.Sequence, &p.GroupID); err != nil {
				return err
			}
			return s.RestorePeptide(&p)
		})
	if err != nil {
		return err
	}

	return r.each(
		`SELECT peptide_id, accession_id, start, stop
		FROM occurrences ORDER BY rowid`,
		func(rows *sql.Rows) error {
			var pepID int64
			var o intermediate.Occurrence
			if err := rows.Scan(&pepID, &o.AccessionID, &o.Start, &o.Stop); err != nil {
				return err
			}
			p := s.Peptide(pepID)
			if p == nil {
				return fmt.Errorf("unknown peptide id %d", pepID)
			}
			p.Occurrences = append(p.Occurrences, o)
			return nil
		})
}

func (r reader) psms(s *intermediate.Store) error {
	return r.each(
		`SELECT
			id, file_id, peptide_id, source_id, spectrum_title, sequence,
			charge, mz, delta_mass, retention_time, missed_cleavages, decoy,
			protocol, modifications, scores, accession_ids
		FROM psms ORDER BY id`,
		func(rows *sql.Rows) error {
			var p intermediate.PSM
			var rt sql.NullFloat64
			var mods, scores, accs string
			err := rows.Scan(
				&p.ID, &p.FileID, &p.PeptideID, &p.SourceID, &p.SpectrumTitle,
				&p.Sequence, &p.Charge, &p.MassToCharge, &p.DeltaMass, &rt,
				&p.MissedCleavages, &p.Decoy, &p.Protocol, &mods, &scores, &accs,
			)
			if err != nil {
				return err
			}
			if rt.Valid {
				p.RetentionTime = &rt.Float64
			}
			if err = r.dec.Decode([]byte(mods), &p.Modifications); err != nil {
				return err
			}
			if err = r.dec.Decode([]byte(scores), &p.Scores); err != nil {
				return err
			}
			if p.Scores == nil {
				p.Scores = make(map[string]float64)
			}
			if err = r.dec.Decode([]byte(accs), &p.AccessionIDs); err != nil {
				return err
			}
			pep := s.Peptide(p.PeptideID)
			if pep == nil {
				return fmt.Errorf("PSM %d: unknown peptide id %d", p.ID, p.PeptideID)
			}
			if err = s.RestorePSM(&p); err != nil {
				return err
			}
			pep.PSMIDs = append(pep.PSMIDs, p.ID)
			return nil
		})
}

// groups rebuilds the group graph. AllAccessions are not stored, they
// are derived again when accessions and edges are added.
func (r reader) groups() (intermediate.GroupMap, error) {
	res := make(intermediate.GroupMap)
	err := r.each("SELECT id, tree_id FROM groups", func(rows *sql.Rows) error {
		var id, tree int64
		if err := rows.Scan(&id, &tree); err != nil {
			return err
		}
		g := intermediate.NewGroup(id)
		g.TreeID = tree
		res[id] = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	get := func(id int64) (*intermediate.Group, error) {
		g, ok := res[id]
		if !ok {
			return nil, fmt.Errorf("unknown group id %d", id)
		}
		return g, nil
	}

	err = r.each(
		"SELECT group_id, peptide_id FROM group_peptides",
		func(rows *sql.Rows) error {
			var gid, pid int64
			if err := rows.Scan(&gid, &pid); err != nil {
				return err
			}
			g, err := get(gid)
			if err != nil {
				return err
			}
			g.Peptides.Add(pid)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = r.each(
		"SELECT group_id, accession_id FROM group_accessions",
		func(rows *sql.Rows) error {
			var gid, aid int64
			if err := rows.Scan(&gid, &aid); err != nil {
				return err
			}
			if _, err := get(gid); err != nil {
				return err
			}
			res.AddAccession(gid, aid)
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = r.each(
		"SELECT parent_id, child_id FROM group_children",
		func(rows *sql.Rows) error {
			var parent, child int64
			if err := rows.Scan(&parent, &child); err != nil {
				return err
			}
			if _, err := get(parent); err != nil {
				return err
			}
			if _, err := get(child); err != nil {
				return err
			}
			res.AddChild(parent, child)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return res, nil
}
