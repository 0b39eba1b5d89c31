package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/maskgen/pkg/cache"
	"github.com/matzehuels/maskgen/pkg/config"
	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/pipeline"
	"github.com/matzehuels/maskgen/pkg/registry"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(c, nil, logger)
	runner.Registry = registry.NewMemoryStore()
	srv := httptest.NewServer(New(runner, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["status"] != "ok" {
		t.Errorf("body = %v, %v", body, err)
	}
}

func TestPresets(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/presets")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var presets []config.Preset
	if err := json.NewDecoder(resp.Body).Decode(&presets); err != nil {
		t.Fatal(err)
	}
	if len(presets) != len(config.PresetNames()) {
		t.Errorf("got %d presets, want %d", len(presets), len(config.PresetNames()))
	}
}

func TestGeneratePreset(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/v1/generate?preset=straight-idt"

	resp, err := http.Post(url, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(data, []byte{0x00, 0x06, 0x00, 0x02}) {
		t.Errorf("body is not a GDS stream: % x", data[:min(8, len(data))])
	}
	if resp.Header.Get(HeaderCache) != "miss" || len(resp.Header.Get(HeaderHash)) != 64 {
		t.Errorf("headers = %v", resp.Header)
	}

	resp, err = http.Post(url, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get(HeaderCache) != "hit" {
		t.Errorf("second request cache = %q, want hit", resp.Header.Get(HeaderCache))
	}
}

func TestGenerateBody(t *testing.T) {
	srv := newTestServer(t)
	design := `
name = "posted"
[chip]
markers = false
[[device]]
kind = "alignment-mark"
`
	resp, err := http.Post(srv.URL+"/v1/generate?format=svg&scale=1", "application/toml", strings.NewReader(design))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	if resp.Header.Get("Content-Type") != "image/svg+xml" || !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("not an SVG response: %s %.40s", resp.Header.Get("Content-Type"), data)
	}
}

// repeated renders a TOML array holding n ones.
func repeated(n int) string {
	return "[" + strings.TrimSuffix(strings.Repeat("1, ", n), ", ") + "]"
}

func TestGenerateErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name       string
		query      string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{"bad format", "?preset=straight-idt&format=tiff", "", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown preset", "?preset=nope", "", http.StatusNotFound, errors.ErrCodeNotFound},
		{"empty body", "", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad toml", "", "[[device", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad param", "", "[[device]]\nkind = \"straight-idt\"\n[device.idt]\nelectrode_width = 0\n", http.StatusBadRequest, errors.ErrCodeInvalidParam},
		{"bad scale", "?preset=straight-idt&scale=big", "", http.StatusBadRequest, errors.ErrCodeInvalidParam},
		{"huge electrode count", "", "[[device]]\nkind = \"flat-cmr\"\n[device.idt]\nelectrode_number = 2000000000\n", http.StatusBadRequest, errors.ErrCodeInvalidParam},
		{"huge ring segments", "", "[[device]]\nkind = \"undercut-rings\"\n[device.rings]\nsegments = 100000000\n", http.StatusBadRequest, errors.ErrCodeInvalidParam},
		{"huge sweep", "", "[[device]]\nkind = \"alignment-mark\"\n[device.sweep]\n" +
			"origin_x = " + repeated(40) + "\norigin_y = " + repeated(40) + "\n", http.StatusBadRequest, errors.ErrCodeInvalidDesign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/v1/generate"+tt.query, "application/toml", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if body := decodeError(t, resp); body.Error != tt.wantCode {
				t.Errorf("code = %s, want %s (%s)", body.Error, tt.wantCode, body.Message)
			}
		})
	}
}

func TestRuns(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/generate?preset=undercut-rings&record=true", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	id := resp.Header.Get(HeaderRun)
	if id == "" {
		t.Fatal("recorded run id missing")
	}

	resp, err = http.Get(srv.URL + "/v1/runs/" + id)
	if err != nil {
		t.Fatal(err)
	}
	var run registry.Run
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if run.ID != id || len(run.Devices) != 1 || run.Devices[0].Kind != "undercut-rings" {
		t.Errorf("run = %+v", run)
	}

	for _, tt := range []struct {
		id     string
		status int
	}{
		{"not-a-uuid", http.StatusBadRequest},
		{registry.NewRun("", "", "", nil).ID, http.StatusNotFound},
	} {
		resp, err := http.Get(srv.URL + "/v1/runs/" + tt.id)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.status {
			t.Errorf("GET run %s status = %d, want %d", tt.id, resp.StatusCode, tt.status)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidDesign, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeNetwork, "x"), http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
