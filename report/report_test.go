package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-auditor/loader"
	"github.com/warp/payroll-auditor/payroll"
	"github.com/warp/payroll-auditor/report"
)

func sampleResult() *payroll.Result {
	return &payroll.Result{
		ReferencePeriod: payroll.Period{Year: 2024, Month: 8},
		UnusualIncome: []payroll.UnusualIncomeAnomaly{
			{EmployeeID: "M001", NewIncomeCodes: []string{"BONUS_ANUAL"}},
		},
		DiscountDrift: []payroll.DiscountDriftAnomaly{
			{
				EmployeeID:     "M002",
				RubricCode:     "PLANO_SAUDE",
				CurrentValue:   decimal.NewFromInt(300),
				HistoricalMean: decimal.NewFromInt(285),
			},
		},
		Indeterminate: []payroll.IndeterminateNotice{
			{EmployeeID: "M003", RubricCode: "ADJUST", CurrentValue: decimal.NewFromInt(40), Reason: "zero historical mean"},
		},
	}
}

func employees() map[payroll.EmployeeID]loader.Employee {
	return map[payroll.EmployeeID]loader.Employee{
		"M001": {ID: "M001", Name: "Ana Souza", Role: "Analista"},
		"M002": {ID: "M002", Name: "Bruno Lima", Role: "Gerente"},
	}
}

func TestWriteText_FullReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.New(employees()).WriteText(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "2024-08")
	assert.Contains(t, out, "Ana Souza (M001): BONUS_ANUAL")
	assert.Contains(t, out, "Bruno Lima (M002): PLANO_SAUDE is 300.00, historical mean 285.00")
	// M003 has no metadata: identifier only.
	assert.Contains(t, out, "M003: ADJUST - zero historical mean")
}

func TestWriteText_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	empty := &payroll.Result{ReferencePeriod: payroll.Period{Year: 2024, Month: 8}}
	require.NoError(t, report.New(nil).WriteText(&buf, empty))

	assert.Contains(t, buf.String(), "No anomalies found.")
}

func TestWriteJSON_ShapeAndOrdering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.New(employees()).WriteJSON(&buf, sampleResult()))

	var got struct {
		ReferencePeriod struct {
			Year  int `json:"year"`
			Month int `json:"month"`
		} `json:"reference_period"`
		UnusualIncome []struct {
			EmployeeID     string   `json:"employee_id"`
			EmployeeName   string   `json:"employee_name"`
			NewIncomeCodes []string `json:"new_income_codes"`
		} `json:"unusual_income"`
		DiscountDrift []struct {
			EmployeeID     string `json:"employee_id"`
			RubricCode     string `json:"rubric_code"`
			CurrentValue   string `json:"current_value"`
			HistoricalMean string `json:"historical_mean"`
		} `json:"discount_drift"`
		Indeterminate []struct {
			Reason string `json:"reason"`
		} `json:"indeterminate"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, 2024, got.ReferencePeriod.Year)
	assert.Equal(t, 8, got.ReferencePeriod.Month)

	require.Len(t, got.UnusualIncome, 1)
	assert.Equal(t, "M001", got.UnusualIncome[0].EmployeeID)
	assert.Equal(t, "Ana Souza", got.UnusualIncome[0].EmployeeName)
	assert.Equal(t, []string{"BONUS_ANUAL"}, got.UnusualIncome[0].NewIncomeCodes)

	require.Len(t, got.DiscountDrift, 1)
	assert.Equal(t, "300", got.DiscountDrift[0].CurrentValue)
	assert.Equal(t, "285", got.DiscountDrift[0].HistoricalMean)

	require.Len(t, got.Indeterminate, 1)
	assert.Equal(t, "zero historical mean", got.Indeterminate[0].Reason)
}

func TestWriteJSON_EmptyArraysNotNull(t *testing.T) {
	// Consumers should always see arrays, even for a clean run.
	var buf bytes.Buffer
	empty := &payroll.Result{ReferencePeriod: payroll.Period{Year: 2024, Month: 8}}
	require.NoError(t, report.New(nil).WriteJSON(&buf, empty))

	assert.Contains(t, buf.String(), `"unusual_income": []`)
	assert.Contains(t, buf.String(), `"discount_drift": []`)
}
