package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type recordedCall struct {
	method string
	path   string
	query  string
	body   map[string]interface{}
}

func newValuesServer(t *testing.T) (*GoogleValues, *[]recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&call.body)
		}
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, ":append"):
			_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"range":"Clients!A2:S3","values":[["c-1","Acme"],["c-2","Globex"]]}`))
		case r.Method == http.MethodPut:
			_, _ = w.Write([]byte(`{"updatedCells":1}`))
		default:
			http.Error(w, `{"error":{"code":400}}`, http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)

	values, err := NewGoogleValues(context.Background(), "sheet-1",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return values, &calls
}

func TestGoogleValues_Append(t *testing.T) {
	values, calls := newValuesServer(t)

	err := values.Append(context.Background(), "Clients!A:R", [][]interface{}{{"c-1", "Acme"}})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Contains(t, call.path, "/spreadsheets/sheet-1/values/")
	assert.True(t, strings.HasSuffix(call.path, ":append"))
	assert.Contains(t, call.query, "valueInputOption=USER_ENTERED")
	assert.Equal(t, []interface{}{[]interface{}{"c-1", "Acme"}}, call.body["values"])
}

func TestGoogleValues_Get(t *testing.T) {
	values, _ := newValuesServer(t)

	rows, err := values.Get(context.Background(), "Clients!A2:S")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Globex", rows[1][1])
}

func TestGoogleValues_Update(t *testing.T) {
	values, calls := newValuesServer(t)

	err := values.Update(context.Background(), "Clients!P3", [][]interface{}{{"completed"}})
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.method)
	assert.Contains(t, call.query, "valueInputOption=USER_ENTERED")
}

func TestNewGoogleValues_RequiresSpreadsheetID(t *testing.T) {
	_, err := NewGoogleValues(context.Background(), "")
	assert.Error(t, err)
}
