/*
Package loader normalizes raw payroll exports into detection-ready records.

PURPOSE:
  The detection core (payroll package) only ever sees well-typed records.
  This package owns everything textual: CSV reading, header mapping,
  integer coercion of year/month, decimal parsing of values, and the
  RENDIMENTO/DESCONTO -> INCOME/DISCOUNT vocabulary mapping of the source
  dataset.

INPUT LAYOUT (one row per rubric line):
  nome, matricula, cpf, sexo, cargo, cargo_nivel, dataadmissao,
  datarescisao, datanascimento, tipo_rubrica, codigo_rubrica, valor,
  ano_calculo, mes_calculo

  Only matricula, tipo_rubrica, codigo_rubrica, valor, ano_calculo and
  mes_calculo feed detection. nome and cargo are retained per employee
  for reporting; the remaining metadata columns are accepted and ignored.

ERROR POLICY:
  A row the loader cannot normalize fails the load with a RowError
  naming the row and field - malformed data is never passed through to
  the core. Unknown extra columns are ignored; a missing required
  column fails immediately.
*/
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-auditor/payroll"
)

// Required columns. Metadata columns are optional.
const (
	colMatricula = "matricula"
	colTipo      = "tipo_rubrica"
	colCodigo    = "codigo_rubrica"
	colValor     = "valor"
	colAno       = "ano_calculo"
	colMes       = "mes_calculo"

	colNome  = "nome"
	colCargo = "cargo"
)

var requiredColumns = []string{colMatricula, colTipo, colCodigo, colValor, colAno, colMes}

// Source vocabulary for tipo_rubrica.
var rubricTypes = map[string]payroll.RubricType{
	"BASE":       payroll.RubricBase,
	"RENDIMENTO": payroll.RubricIncome,
	"DESCONTO":   payroll.RubricDiscount,
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedRow is returned when a row cannot be normalized.
	ErrMalformedRow = errors.New("malformed row")
)

// RowError pinpoints the row and field that failed normalization. Row
// numbers are 1-based over data rows; the header is row 0.
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: column %q value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return ErrMalformedRow }

// =============================================================================
// DATASET
// =============================================================================

// Employee is the reporting metadata retained per matricula. It plays no
// role in detection.
type Employee struct {
	ID   payroll.EmployeeID
	Name string
	Role string
}

// Dataset is the normalized output of one load: detection-ready records in
// file order plus the employee metadata keyed by matricula.
type Dataset struct {
	Records   []payroll.Record
	Employees map[payroll.EmployeeID]Employee
}

// Store wraps the records in a read-only detection store.
func (d *Dataset) Store() *payroll.Store {
	return payroll.NewStore(d.Records)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a payroll CSV export and normalizes every row. The first
// malformed row fails the whole load; detection never runs over
// partially-parsed input.
func Load(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Real-world exports occasionally pad or truncate rows; column counts
	// are validated against the header below instead.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	ds := &Dataset{Employees: make(map[payroll.EmployeeID]Employee)}
	rowNum := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", rowNum+1, err)
		}
		rowNum++

		rec, emp, err := normalizeRow(row, cols, rowNum)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
		if _, seen := ds.Employees[emp.ID]; !seen {
			ds.Employees[emp.ID] = emp
		}
	}
	return ds, nil
}

func normalizeRow(row []string, cols map[string]int, rowNum int) (payroll.Record, Employee, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	fail := func(column, value string, err error) (payroll.Record, Employee, error) {
		return payroll.Record{}, Employee{}, &RowError{Row: rowNum, Column: column, Value: value, Err: err}
	}

	matricula := field(colMatricula)
	if matricula == "" {
		return fail(colMatricula, "", errors.New("is empty"))
	}

	tipo := strings.ToUpper(field(colTipo))
	rubricType, ok := rubricTypes[tipo]
	if !ok {
		return fail(colTipo, field(colTipo), errors.New("unknown rubric type"))
	}

	code := field(colCodigo)
	if code == "" {
		return fail(colCodigo, "", errors.New("is empty"))
	}

	value, err := parseValor(field(colValor))
	if err != nil {
		return fail(colValor, field(colValor), err)
	}

	year, err := strconv.Atoi(field(colAno))
	if err != nil {
		return fail(colAno, field(colAno), errors.New("not an integer"))
	}
	month, err := strconv.Atoi(field(colMes))
	if err != nil {
		return fail(colMes, field(colMes), errors.New("not an integer"))
	}
	period, err := payroll.NewPeriod(year, month)
	if err != nil {
		return fail(colMes, field(colMes), err)
	}

	id := payroll.EmployeeID(matricula)
	rec := payroll.Record{
		EmployeeID: id,
		RubricCode: code,
		RubricType: rubricType,
		Value:      value,
		Period:     period,
	}
	emp := Employee{ID: id, Name: field(colNome), Role: field(colCargo)}
	return rec, emp, nil
}

// parseValor accepts both "1234.56" and the pt-BR "1.234,56" spelling.
func parseValor(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, errors.New("is empty")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("not a decimal number")
	}
	return d, nil
}
