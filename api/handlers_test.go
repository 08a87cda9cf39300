package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-auditor/api"
	"github.com/warp/payroll-auditor/loader"
	"github.com/warp/payroll-auditor/store/sqlite"
)

const header = "nome,matricula,cpf,sexo,cargo,cargo_nivel,dataadmissao,datarescisao,datanascimento,tipo_rubrica,codigo_rubrica,valor,ano_calculo,mes_calculo"

const sampleCSV = header + "\n" +
	"Ana Souza,M001,1,F,Analista,II,,,,RENDIMENTO,BASE_SALARY,5000.00,2024,7\n" +
	"Ana Souza,M001,1,F,Analista,II,,,,RENDIMENTO,BASE_SALARY,5000.00,2024,8\n" +
	"Ana Souza,M001,1,F,Analista,II,,,,RENDIMENTO,BONUS_ANUAL,2500.00,2024,8\n"

func newTestServer(t *testing.T, src *sqlite.Source) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(api.NewRouter(api.NewHandler(src)))
	t.Cleanup(ts.Close)
	return ts
}

func uploadRequest(t *testing.T, url, csv string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "payroll.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, csv)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url+"/api/detections", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type detectionBody struct {
	UnusualIncome []struct {
		EmployeeID     string   `json:"employee_id"`
		EmployeeName   string   `json:"employee_name"`
		NewIncomeCodes []string `json:"new_income_codes"`
	} `json:"unusual_income"`
	DiscountDrift []json.RawMessage `json:"discount_drift"`
}

func TestRunDetection_Upload(t *testing.T) {
	ts := newTestServer(t, nil)

	req := uploadRequest(t, ts.URL, sampleCSV, map[string]string{"year": "2024", "month": "8"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body detectionBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.UnusualIncome, 1)
	assert.Equal(t, "M001", body.UnusualIncome[0].EmployeeID)
	assert.Equal(t, "Ana Souza", body.UnusualIncome[0].EmployeeName)
	assert.Equal(t, []string{"BONUS_ANUAL"}, body.UnusualIncome[0].NewIncomeCodes)
	assert.Empty(t, body.DiscountDrift)
}

func TestRunDetection_MissingPeriod(t *testing.T) {
	ts := newTestServer(t, nil)

	req := uploadRequest(t, ts.URL, sampleCSV, nil) // no year/month
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunDetection_MonthOutOfRange(t *testing.T) {
	ts := newTestServer(t, nil)

	req := uploadRequest(t, ts.URL, sampleCSV, map[string]string{"year": "2024", "month": "13"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunDetection_MalformedCSV(t *testing.T) {
	ts := newTestServer(t, nil)

	bad := header + "\nAna,M001,1,F,A,I,,,,PREMIO,X,abc,2024,8\n"
	req := uploadRequest(t, ts.URL, bad, map[string]string{"year": "2024", "month": "8"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.NotEmpty(t, e.Error)
}

func TestRunDetection_NoFileNoSource(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/api/detections?year=2024&month=8", "application/x-www-form-urlencoded",
		strings.NewReader("year=2024&month=8"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunDetection_FallsBackToStoredSource(t *testing.T) {
	src, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	ds, err := loader.Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, src.Import(context.Background(), ds))

	ts := newTestServer(t, src)
	resp, err := http.Post(ts.URL+"/api/detections", "application/x-www-form-urlencoded",
		strings.NewReader("year=2024&month=8"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body detectionBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.UnusualIncome, 1)
	assert.Equal(t, []string{"BONUS_ANUAL"}, body.UnusualIncome[0].NewIncomeCodes)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
