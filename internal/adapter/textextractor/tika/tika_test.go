package tika

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
)

func testConfig(url string) config.Config {
	return config.Config{AppEnv: "test", TikaURL: url}
}

func TestClient_ExtractPath(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "report.pptx")
	require.NoError(t, os.WriteFile(testFile, []byte("binary slides"), 0o600))

	tests := []struct {
		name     string
		fileName string
		filePath string
		handler  http.HandlerFunc
		want     string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "successful pptx extraction",
			fileName: "report.pptx",
			filePath: testFile,
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/tika", r.URL.Path)
				assert.Equal(t, "text/plain", r.Header.Get("Accept"))
				assert.Equal(t, "application/vnd.openxmlformats-officedocument.presentationml.presentation", r.Header.Get("Content-Type"))
				body, _ := io.ReadAll(r.Body)
				assert.Equal(t, "binary slides", string(body))
				_, _ = w.Write([]byte("述职人：张伟\n2025年第三季度"))
			},
			want: "述职人：张伟\n2025年第三季度",
		},
		{
			name:     "pdf content type",
			fileName: "report.pdf",
			filePath: testFile,
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
				_, _ = w.Write([]byte("PDF content"))
			},
			want: "PDF content",
		},
		{
			name:     "lines kept and spaces collapsed",
			fileName: "report.pdf",
			filePath: testFile,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("Text with\ttabs\r\n\n  and   spaces \n\x00end"))
			},
			want: "Text with tabs\nand spaces\nend",
		},
		{
			name:     "client error is not retried",
			fileName: "report.pdf",
			filePath: testFile,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnsupportedMediaType)
			},
			wantErr: true,
			errMsg:  "tika status 415",
		},
		{
			name:     "file not found",
			fileName: "missing.pdf",
			filePath: filepath.Join(tmpDir, "missing.pdf"),
			handler:  func(http.ResponseWriter, *http.Request) {},
			wantErr:  true,
			errMsg:   "no such file",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			got, err := New(testConfig(server.URL)).ExtractPath(context.Background(), tt.fileName, tt.filePath)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_ExtractPath_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	f := filepath.Join(t.TempDir(), "r.pdf")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	got, err := New(testConfig(server.URL)).ExtractPath(context.Background(), "r.pdf", f)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ExtractPath_GivesUp(t *testing.T) {
	t.Parallel()

	f := filepath.Join(t.TempDir(), "r.pdf")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New(testConfig(server.URL)).ExtractPath(context.Background(), "r.pdf", f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tika status 500")
}

func TestClient_Ping(t *testing.T) {
	t.Parallel()

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("This is Tika Server"))
	}))
	defer ok.Close()
	assert.NoError(t, New(testConfig(ok.URL)).Ping(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	assert.Error(t, New(testConfig(down.URL)).Ping(context.Background()))
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"with base URL", "http://tika-server:9998/", "http://tika-server:9998"},
		{"empty base URL", "", defaultBaseURL},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New(testConfig(tt.baseURL))
			assert.Equal(t, tt.want, c.baseURL)
			assert.NotZero(t, c.httpClient.Timeout)
		})
	}
}

func TestContentTypeFromExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/pdf", contentTypeFromExt(".PDF"))
	assert.Equal(t, "text/plain", contentTypeFromExt(".txt"))
	assert.Equal(t, "", contentTypeFromExt(""))
}
