/*
Package sqlite provides a SQLite-backed payroll record source.

PURPOSE:
  Persists normalized loader output so detection can be re-run for new
  reference periods without re-parsing the CSV export. This sits on the
  loader side of the system: the detection core stays in-memory and
  never writes.

KEY TABLES:
  employees:       Reporting metadata per matricula
  payroll_records: One rubric line per row, insertion order preserved

WAL MODE:
  Opened with WAL (Write-Ahead Logging): multiple readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  src, err := sqlite.New("./data/payroll.db")
  if err != nil { ... }
  defer src.Close()

  err = src.Import(ctx, dataset)
  ds, err := src.LoadAll(ctx)
  result, err := payroll.Detect(ds.Store(), reference)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-auditor/loader"
	"github.com/warp/payroll-auditor/payroll"
)

// Source stores and loads normalized payroll datasets.
type Source struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Source, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	src := &Source{db: db}
	if err := src.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return src, nil
}

// Close closes the database connection.
func (s *Source) Close() error {
	return s.db.Close()
}

func (s *Source) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		matricula TEXT PRIMARY KEY,
		nome TEXT NOT NULL DEFAULT '',
		cargo TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS payroll_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		matricula TEXT NOT NULL REFERENCES employees(matricula),
		tipo_rubrica TEXT NOT NULL,
		codigo_rubrica TEXT NOT NULL,
		valor TEXT NOT NULL,
		ano INTEGER NOT NULL,
		mes INTEGER NOT NULL CHECK (mes BETWEEN 1 AND 12)
	);

	CREATE INDEX IF NOT EXISTS idx_records_matricula_period
		ON payroll_records(matricula, ano, mes);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Import persists a loader dataset atomically. Values are stored as text
// to keep decimal precision intact.
func (s *Source) Import(ctx context.Context, ds *loader.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, emp := range ds.Employees {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO employees (matricula, nome, cargo) VALUES (?, ?, ?)
			 ON CONFLICT(matricula) DO UPDATE SET nome = excluded.nome, cargo = excluded.cargo`,
			string(emp.ID), emp.Name, emp.Role)
		if err != nil {
			return fmt.Errorf("importing employee %s: %w", emp.ID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO payroll_records (matricula, tipo_rubrica, codigo_rubrica, valor, ano, mes)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range ds.Records {
		_, err := stmt.ExecContext(ctx,
			string(r.EmployeeID), string(r.RubricType), r.RubricCode,
			r.Value.String(), r.Period.Year, r.Period.Month)
		if err != nil {
			return fmt.Errorf("importing record for %s: %w", r.EmployeeID, err)
		}
	}

	return tx.Commit()
}

// LoadAll reads the full dataset back in insertion order, preserving the
// pinned employee grouping order of the original import.
func (s *Source) LoadAll(ctx context.Context) (*loader.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.matricula, r.tipo_rubrica, r.codigo_rubrica, r.valor, r.ano, r.mes,
		       e.nome, e.cargo
		FROM payroll_records r
		JOIN employees e ON e.matricula = r.matricula
		ORDER BY r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ds := &loader.Dataset{Employees: make(map[payroll.EmployeeID]loader.Employee)}
	for rows.Next() {
		var (
			matricula, tipo, codigo, valor string
			ano, mes                       int
			nome, cargo                    string
		)
		if err := rows.Scan(&matricula, &tipo, &codigo, &valor, &ano, &mes, &nome, &cargo); err != nil {
			return nil, err
		}

		value, err := decimal.NewFromString(valor)
		if err != nil {
			return nil, fmt.Errorf("stored value %q for %s: %w", valor, matricula, err)
		}
		period, err := payroll.NewPeriod(ano, mes)
		if err != nil {
			return nil, fmt.Errorf("stored period for %s: %w", matricula, err)
		}

		id := payroll.EmployeeID(matricula)
		ds.Records = append(ds.Records, payroll.Record{
			EmployeeID: id,
			RubricCode: codigo,
			RubricType: payroll.RubricType(tipo),
			Value:      value,
			Period:     period,
		})
		if _, seen := ds.Employees[id]; !seen {
			ds.Employees[id] = loader.Employee{ID: id, Name: nome, Role: cargo}
		}
	}
	return ds, rows.Err()
}

// CountRecords returns the number of stored rubric lines.
func (s *Source) CountRecords(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payroll_records`).Scan(&n)
	return n, err
}
