/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnpia/internal/iodb"
	"github.com/gnames/gnpia/internal/ioschema"
	"github.com/gnames/gnpia/pkg/db"
	"github.com/gnames/gnpia/pkg/schema"
	"github.com/spf13/cobra"
)

// tableRows is the row count of a results table.
type tableRows struct {
	name string
	rows int64
}

func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create database schema for inference results",
		Long: `Create empty PostgreSQL tables that receive inference results
exported by 'gnpia infer --db'.

Every exported run is stored in inference_runs, its reported proteins
in reported_proteins together with their protein_accessions,
protein_peptides and protein_subsets. Accession and peptide columns
use "C" collation.

If the database already keeps results, the number of stored runs is
shown and the tables are dropped only after confirmation. Use --force
to drop them without a question.

Examples:
  gnpia create
  gnpia create --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, forceCreate)
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop stored results without confirmation")

	return createCmd
}

func runCreate(
	_ *cobra.Command,
	_ []string,
	force bool,
) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: %s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	ok, err := clearResults(ctx, op, os.Stdin, force)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if !ok {
		gn.Info("Aborted. Stored results are kept.")
		return nil
	}

	if err = ioschema.NewManager(op).Create(ctx, cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	tables, err := resultTables(ctx, op)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	for _, v := range tables {
		gn.Info("Table <em>%s</em>: %d rows", v.name, v.rows)
	}

	gn.Info("Results schema is ready.")
	gn.Info("Run 'gnpia infer <compiled file> --db' to export results.")
	return nil
}

// clearResults drops existing tables. Without force it asks for
// confirmation on in. It returns false if the user declined.
func clearResults(
	ctx context.Context,
	op db.Operator,
	in io.Reader,
	force bool,
) (bool, error) {
	hasTables, err := op.HasTables(ctx)
	if err != nil || !hasTables {
		return err == nil, err
	}

	runs, err := storedRuns(ctx, op)
	if err != nil {
		return false, err
	}

	if !force {
		if runs > 0 {
			gn.Warn("Database keeps results of %d inference runs.", runs)
		} else {
			gn.Warn("Database contains tables that are not inference results.")
		}
		gn.Warn("Creating schema drops ALL existing tables and data.")
		fmt.Print("\nDo you want to continue? (yes/no): ")

		resp, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		resp = strings.ToLower(strings.TrimSpace(resp))
		if resp != "yes" && resp != "y" {
			return false, nil
		}
	}

	if err = op.DropAllTables(ctx); err != nil {
		return false, err
	}
	gn.Info("Dropped existing tables (%d inference runs).", runs)
	return true, nil
}

// storedRuns returns the number of exported runs, or 0 if there is
// no inference_runs table.
func storedRuns(ctx context.Context, op db.Operator) (int64, error) {
	runTable := schema.TableNames()[0]
	exists, err := op.TableExists(ctx, runTable)
	if err != nil || !exists {
		return 0, err
	}
	return op.CountRows(ctx, runTable)
}

// resultTables returns row counts of all results tables. A missing
// table means schema creation did not finish.
func resultTables(ctx context.Context, op db.Operator) ([]tableRows, error) {
	names := schema.TableNames()
	res := make([]tableRows, 0, len(names))
	for _, name := range names {
		exists, err := op.TableExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if !exists {
			err = fmt.Errorf("table %s was not created", name)
			return nil, ioschema.CreateSchemaError(err)
		}
		rows, err := op.CountRows(ctx, name)
		if err != nil {
			return nil, err
		}
		res = append(res, tableRows{name: name, rows: rows})
	}
	return res, nil
}
