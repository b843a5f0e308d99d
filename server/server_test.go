package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"buscacnpj/apperrors"
	"buscacnpj/pipeline"
	"buscacnpj/report"
)

type fakeRunner struct {
	result *pipeline.Result
	err    error

	gotTipo   string
	gotCidade string
}

func (f *fakeRunner) Run(ctx context.Context, tipo, cidade string) (*pipeline.Result, error) {
	f.gotTipo, f.gotCidade = tipo, cidade
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func postForm(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := New(&fakeRunner{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestIndexRendersForm(t *testing.T) {
	s := New(&fakeRunner{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/buscar"`)
	assert.Contains(t, rec.Body.String(), `name="tipo"`)
	assert.Contains(t, rec.Body.String(), `name="cidade"`)
	assert.NotContains(t, rec.Body.String(), "no value")
}

func TestSearchDownload_MissingFields(t *testing.T) {
	runner := &fakeRunner{}
	s := New(runner, nil)

	rec := postForm(t, s.Handler(), "/buscar", url.Values{"tipo": {"Padaria"}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Preencha tipo e cidade.")
	assert.Empty(t, runner.gotTipo, "the pipeline must not run on invalid input")
}

func TestSearchDownload_ReturnsWorkbook(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{
		Filename: "padaria_santos.xlsx",
		Rows: []report.Row{{
			PlaceName: "Padaria São João", Address: "Rua X, 120", Number: "120",
			CEP: "11015000", PlacePhone: report.NotInformed, TaxID: report.NotFound,
			CompanyName: report.NotInformed, Owner: report.NotInformed,
			Email: report.NotInformed, CompanyPhone: report.NotInformed,
		}},
	}}
	s := New(runner, nil)

	rec := postForm(t, s.Handler(), "/buscar", url.Values{"tipo": {"Padaria"}, "cidade": {"Santos"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Padaria", runner.gotTipo)
	assert.Equal(t, "Santos", runner.gotCidade)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `"padaria_santos.xlsx"`)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err, "the response body must be a readable workbook")
	defer f.Close()
	rows, err := f.GetRows(report.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSearchDownload_EmptyResult(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{Filename: "padaria_santos.xlsx"}}
	s := New(runner, nil)

	rec := postForm(t, s.Handler(), "/buscar", url.Values{"tipo": {"Padaria"}, "cidade": {"Santos"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nenhum resultado encontrado.")
}

func TestSearchDownload_UpstreamError(t *testing.T) {
	runner := &fakeRunner{err: apperrors.NewUpstreamError("Google Places: OVER_QUERY_LIMIT", "OVER_QUERY_LIMIT", nil)}
	s := New(runner, nil)

	rec := postForm(t, s.Handler(), "/buscar", url.Values{"tipo": {"Padaria"}, "cidade": {"Santos"}})

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "OVER_QUERY_LIMIT")
}

func TestSearchJSON(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{
		Filename: "padaria_santos.xlsx",
		Rows:     []report.Row{{PlaceName: "Padaria", TaxID: "123"}},
	}}
	s := New(runner, nil)

	body, _ := json.Marshal(map[string]string{"tipo": "Padaria", "cidade": "Santos"})
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "padaria_santos.xlsx", resp.Filename)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "123", resp.Rows[0].TaxID)
}

func TestSearchJSON_MissingFields(t *testing.T) {
	s := New(&fakeRunner{}, nil)

	body := bytes.NewReader([]byte(`{"tipo": "  ", "cidade": ""}`))
	req := httptest.NewRequest(http.MethodPost, "/api/search", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
