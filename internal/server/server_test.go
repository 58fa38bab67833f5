package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validata-io/validata/internal/engine"
	"github.com/validata-io/validata/internal/testutil"
	"github.com/validata-io/validata/pkg/core"
)

type stubCatalog struct {
	schemas map[string]*core.TargetSchema
}

func (s stubCatalog) Schema(_ context.Context, table string) (*core.TargetSchema, error) {
	if schema, ok := s.schemas[table]; ok {
		return schema, nil
	}
	return nil, &core.SchemaNotFoundError{Table: table}
}

func (s stubCatalog) Tables(_ context.Context) ([]string, error) {
	return []string{"customer_orders"}, nil
}

func (s stubCatalog) Close() error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	e, err := engine.New(engine.Config{
		Catalog: stubCatalog{schemas: map[string]*core.TargetSchema{
			"customer_orders": {
				Table: "customer_orders",
				Columns: []core.ColumnSpec{
					{Name: "OrderID", Type: core.TypeString, PrimaryKey: true},
					{Name: "Quantity", Type: core.TypeInteger},
				},
			},
		}},
		Logger: testutil.NewTestLogger(t),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(New(e, testutil.NewTestLogger(t), 5).Router())
	t.Cleanup(srv.Close)
	return srv
}

func uploadRequest(t *testing.T, url, csv string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "orders.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTables(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/tables")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"customer_orders"}, body["tables"])
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer(t)
	req := uploadRequest(t, srv.URL+"/v1/validate?table=customer_orders",
		"OrderID,qty\nORD1,5\nORD2,two\n")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report core.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "customer_orders", report.TargetTable)
	assert.Equal(t, 2, report.RowCount)
	require.Len(t, report.TypeViolations, 1)
	assert.Equal(t, "Quantity", report.TypeViolations[0].Column)
}

func TestValidateRequiresTable(t *testing.T) {
	srv := newTestServer(t)
	req := uploadRequest(t, srv.URL+"/v1/validate", "a\n1\n")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfileEndpoint(t *testing.T) {
	srv := newTestServer(t)
	req := uploadRequest(t, srv.URL+"/v1/profile?rows=1", "a,b\n1,x\n2,y\n")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var prof core.Profile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&prof))
	assert.Equal(t, 2, prof.RowCount)
	assert.Len(t, prof.SampleRows, 1)
}

func TestUploadWithoutFileField(t *testing.T) {
	srv := newTestServer(t)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/profile", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
