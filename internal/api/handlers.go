package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/maskgen/pkg/buildinfo"
	"github.com/matzehuels/maskgen/pkg/config"
	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/pipeline"
	"github.com/matzehuels/maskgen/pkg/registry"
)

// Response headers describing a generated artifact.
const (
	HeaderHash  = "X-Maskgen-Hash"
	HeaderCache = "X-Maskgen-Cache"
	HeaderRun   = "X-Maskgen-Run"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets, err := config.Presets()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presets)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatGDS
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	opts := pipeline.Options{Formats: []string{format}, Logger: s.Logger}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidParam, "invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}
	opts.Record, _ = strconv.ParseBool(q.Get("record"))
	opts.NoLabels, _ = strconv.ParseBool(q.Get("no_labels"))

	design, err := s.readDesign(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Design = design
	opts.Output = design.OutputPath()

	result, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data := result.Artifacts[format]
	h := w.Header()
	h.Set("Content-Type", pipeline.ContentTypes[format])
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set(HeaderHash, result.Hash)
	if result.CacheInfo.DesignHit {
		h.Set(HeaderCache, "hit")
	} else {
		h.Set(HeaderCache, "miss")
	}
	if result.Run != nil {
		h.Set(HeaderRun, result.Run.ID)
	}
	if format == pipeline.FormatGDS {
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", design.Name+".gds"))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// readDesign loads ?preset= or parses the request body as a TOML design.
func (s *Server) readDesign(r *http.Request) (*config.Design, error) {
	if name := r.URL.Query().Get("preset"); name != "" {
		return config.LoadPreset(name)
	}
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, s.MaxBody))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read design body")
	}
	if len(body) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request needs a TOML design body or a preset parameter")
	}
	return config.Parse(body)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := registry.ValidateID(id); err != nil {
		s.writeError(w, err)
		return
	}
	if s.Runner.Registry == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "run %s not found: no registry configured", id))
		return
	}
	run, err := s.Runner.Registry.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
