package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/pysnap/internal/apperror"
	"github.com/sakif/pysnap/internal/client"
	"github.com/sakif/pysnap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Run(t *testing.T) {
	t.Run("posts the request body and decodes success", func(t *testing.T) {
		var got model.ExecutionRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/run", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"ok":true,"result":{"stdout":"1\n","stderr":""},"imports":[],"missing":[]}`)
		}))
		defer srv.Close()

		c := client.New(srv.URL, testLogger())
		resp, err := c.Run(context.Background(), model.ExecutionRequest{
			Code: "print(1)", TimeoutSeconds: 5, TimeoutEnabled: true,
		})

		require.NoError(t, err)
		assert.Equal(t, model.ExecutionRequest{Code: "print(1)", TimeoutSeconds: 5, TimeoutEnabled: true}, got)
		assert.True(t, resp.OK)
		require.NotNil(t, resp.Result)
		assert.Equal(t, "1\n", resp.Result.Stdout)
	})

	t.Run("ok false on a 400 is data, not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"ok":false,"error":"SyntaxError: ..."}`)
		}))
		defer srv.Close()

		resp, err := client.New(srv.URL, testLogger()).Run(context.Background(), model.ExecutionRequest{Code: "x"})

		require.NoError(t, err)
		assert.False(t, resp.OK)
		assert.Equal(t, "SyntaxError: ...", resp.Error)
	})

	t.Run("undecodable body is a network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "<html>bad gateway</html>")
		}))
		defer srv.Close()

		_, err := client.New(srv.URL, testLogger()).Run(context.Background(), model.ExecutionRequest{Code: "x"})

		assert.ErrorIs(t, err, apperror.ErrNetwork)
	})

	t.Run("unencodable request is a network failure and never sent", func(t *testing.T) {
		hits := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
		}))
		defer srv.Close()

		_, err := client.New(srv.URL, testLogger()).Run(context.Background(), model.ExecutionRequest{
			Code: "x", TimeoutSeconds: math.NaN(),
		})

		assert.ErrorIs(t, err, apperror.ErrNetwork)
		assert.Equal(t, 0, hits)
	})

	t.Run("unreachable service is a network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := client.New(url, testLogger()).Run(context.Background(), model.ExecutionRequest{Code: "x"})

		assert.ErrorIs(t, err, apperror.ErrNetwork)
	})
}

func TestClient_FilesAndFile(t *testing.T) {
	var filePath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/files":
			io.WriteString(w, `{"ok":true,"files":[{"name":"a.py","size":12.6}]}`)
		default:
			filePath = r.URL.EscapedPath()
			io.WriteString(w, `{"ok":true,"name":"my file.py","content":"print(2)"}`)
		}
	}))
	defer srv.Close()
	c := client.New(srv.URL+"/", testLogger())

	files, err := c.Files(context.Background())
	require.NoError(t, err)
	require.Len(t, files.Files, 1)
	assert.Equal(t, "a.py", files.Files[0].Name)
	assert.Equal(t, int64(13), files.Files[0].SizeBytes())

	file, err := c.File(context.Background(), "my file.py")
	require.NoError(t, err)
	assert.Equal(t, "print(2)", file.Content)
	assert.Equal(t, "/file/my%20file.py", filePath)
}

func TestClient_ClearAndHistory(t *testing.T) {
	var historyQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clear":
			assert.Equal(t, http.MethodDelete, r.Method)
			io.WriteString(w, `{"ok":true,"deleted":3}`)
		case "/history":
			historyQuery = r.URL.RawQuery
			io.WriteString(w, `{"ok":true,"data":{"history":[]}}`)
		}
	}))
	defer srv.Close()
	c := client.New(srv.URL, testLogger())

	cleared, err := c.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, cleared.Deleted)

	hist, err := c.History(context.Background(), "20240102")
	require.NoError(t, err)
	assert.True(t, hist.OK)
	assert.JSONEq(t, `{"history":[]}`, string(hist.Data))
	assert.Equal(t, "date=20240102", historyQuery)

	_, err = c.History(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, historyQuery)
}

func TestClient_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/download/a%20b.py" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "print('raw')")
	}))
	defer srv.Close()
	c := client.New(srv.URL, testLogger())

	u := c.DownloadURL("a b.py")
	assert.Equal(t, srv.URL+"/download/a%20b.py", u)

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), u, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len("print('raw')")), n)
	assert.Equal(t, "print('raw')", buf.String())

	_, err = c.Download(context.Background(), c.DownloadURL("missing.py"), &buf)
	assert.ErrorIs(t, err, apperror.ErrNetwork)
}
