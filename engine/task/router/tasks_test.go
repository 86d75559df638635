package taskrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/compozy/gantt/engine/infra/server/appstate"
	"github.com/compozy/gantt/pkg/config"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func init() {
	logger.InitForTests()
}

const csvPath = "data/data.csv"

func newTestRouter(t *testing.T, fs afero.Fs, mutate func(*config.Config)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	manager := config.NewManager(nil)
	cfg := config.Default()
	cfg.Data.Path = csvPath
	if mutate != nil {
		mutate(cfg)
	}
	manager.Set(cfg)
	state, err := appstate.NewState(fs, nil)
	require.NoError(t, err)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := config.ContextWithManager(c.Request.Context(), manager)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(appstate.StateMiddleware(state))
	Register(r.Group("/api"))
	return r
}

func get(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", http.NoBody)
	r.ServeHTTP(w, req.WithContext(context.Background()))
	return w
}

func writeCSV(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, csvPath, []byte(content), 0o644))
}

func TestListTasks(t *testing.T) {
	t.Run("Should return records with camelCase fields", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeCSV(t, fs, "Tasks,Start Date,Completion,Color\n"+
			"Design,2024-01-05 15:30,2024-01-07 18:40,Orange\n"+
			",2024-01-08,2024-01-08 00:45,\n")
		w := get(newTestRouter(t, fs, nil))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		require.Equal(t, int64(2), gjson.Get(body, "#").Int())
		first := gjson.Get(body, "0")
		assert.Equal(t, "task-0", first.Get("id").String())
		assert.Equal(t, "Design", first.Get("name").String())
		assert.Equal(t, int64(0), first.Get("position").Int())
		assert.Equal(t, "2024-01-05T15:30:00", first.Get("start").String())
		assert.Equal(t, "2024-01-07T18:40:00", first.Get("end").String())
		assert.Equal(t, "#f5642d", first.Get("color").String())
		assert.Equal(t, "Orange", first.Get("colorLabel").String())
		assert.False(t, first.Get("outline").Bool())
		assert.Equal(t, "2 days 3 hrs", first.Get("durationLabel").String())
		assert.Equal(t, 51.17, first.Get("durationHours").Float())
		assert.Equal(t, 2.13, first.Get("durationDays").Float())
		assert.Equal(t, "Jan 05, 2024 03:30 PM", first.Get("startLabel").String())
		assert.Equal(t, "Jan 07, 2024 06:40 PM", first.Get("endLabel").String())

		second := gjson.Get(body, "1")
		assert.Equal(t, "Task 2", second.Get("name").String())
		assert.Equal(t, "Indigo", second.Get("colorLabel").String())
		assert.Equal(t, "45 min", second.Get("durationLabel").String())
	})

	t.Run("Should return an empty array for a header-only file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeCSV(t, fs, "Tasks,Start Date,Completion\n")
		w := get(newTestRouter(t, fs, nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("Should reflect file changes on the next request", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeCSV(t, fs, "Tasks,Start Date,Completion\nA,2024-01-01,2024-01-02\n")
		r := newTestRouter(t, fs, nil)
		assert.Equal(t, int64(1), gjson.Get(get(r).Body.String(), "#").Int())
		writeCSV(t, fs, "Tasks,Start Date,Completion\nA,2024-01-01,2024-01-02\nB,2024-01-02,2024-01-03\n")
		assert.Equal(t, int64(2), gjson.Get(get(r).Body.String(), "#").Int())
	})

	t.Run("Should use configured column names", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeCSV(t, fs, "Title,Begin,Finish\nX,2024-01-01,2024-01-02\n")
		w := get(newTestRouter(t, fs, func(cfg *config.Config) {
			cfg.Data.Columns = config.ColumnsConfig{Name: "Title", Start: "Begin", End: "Finish"}
		}))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "X", gjson.Get(w.Body.String(), "0.name").String())
	})
}

func TestListTasks_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content *string
		code    string
		detail  string
	}{
		{"Should map a missing file", nil, ErrSourceNotFoundCode, "missing CSV file at data/data.csv"},
		{"Should map an unreadable file", ptr("Tasks,Start Date,Completion\nA,1,2,3\n"), ErrSourceUnreadableCode, ""},
		{
			"Should map missing columns",
			ptr("Tasks\nA\n"),
			ErrSchemaInvalidCode,
			"CSV missing required columns: Completion, Start Date",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tc.content != nil {
				writeCSV(t, fs, *tc.content)
			}
			w := get(newTestRouter(t, fs, nil))
			require.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
			body := w.Body.String()
			assert.Equal(t, tc.code, gjson.Get(body, "code").String())
			assert.Equal(t, int64(500), gjson.Get(body, "status").Int())
			if tc.detail != "" {
				assert.Equal(t, tc.detail, gjson.Get(body, "details").String())
				assert.Equal(t, tc.detail, gjson.Get(body, "message").String())
			} else {
				assert.Contains(t, gjson.Get(body, "details").String(), "unable to load CSV")
			}
		})
	}

	t.Run("Should fail when app state is missing", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		Register(r.Group("/api"))
		w := get(r)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func ptr(s string) *string { return &s }
