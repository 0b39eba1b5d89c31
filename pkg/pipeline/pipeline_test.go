package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/maskgen/pkg/cache"
	"github.com/matzehuels/maskgen/pkg/config"
	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/observability"
	"github.com/matzehuels/maskgen/pkg/registry"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"gds", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"gds", "gds", false},
		{"gds, SVG,png", "gds,svg,png", false},
		{"svg,svg,", "svg", false},
		{"", "", false},
		{"gds,tiff", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if strings.Join(got, ",") != tt.want {
				t.Errorf("ParseFormats(%q) = %v, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	d, err := config.LoadPreset("straight-idt")
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Design: d}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options should pass: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatGDS {
		t.Errorf("Formats = %v, want [gds]", opts.Formats)
	}
	if opts.Scale != DefaultScale || opts.Logger == nil {
		t.Errorf("Scale = %v, Logger = %v", opts.Scale, opts.Logger)
	}

	if err := (&Options{}).ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing design error = %v", err)
	}
	if err := (&Options{Design: d, Scale: -1}).ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidParam) {
		t.Errorf("negative scale error = %v", err)
	}
}

func TestOptionsRejectsInvalidDesign(t *testing.T) {
	d, err := config.Parse([]byte(`
[[device]]
kind = "straight-idt"
[device.idt]
electrode_width = -1
`))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Design: d}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidParam) {
		t.Errorf("error = %v, want INVALID_PARAM", err)
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, nil)
	d, err := config.LoadPreset("straight-idt")
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Design: d, Formats: []string{FormatGDS, FormatSVG, FormatDOT}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.DesignHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	gds := first.Artifacts[FormatGDS]
	if !bytes.HasPrefix(gds, []byte{0x00, 0x06, 0x00, 0x02}) {
		t.Errorf("GDS should start with a HEADER record, got % x", gds[:min(4, len(gds))])
	}
	if !bytes.Contains(first.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("missing SVG preview")
	}
	if !strings.Contains(string(first.Artifacts[FormatDOT]), "digraph") {
		t.Error("missing DOT hierarchy")
	}
	if first.Stats.Devices != 1 || len(first.Devices) != 1 || first.Stats.Polygons == 0 {
		t.Errorf("stats = %+v", first.Stats)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.DesignHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(second.Artifacts[FormatGDS], gds) {
		t.Error("cached GDS differs from the built one")
	}
	if second.Hash != first.Hash || second.Stats.Polygons != first.Stats.Polygons {
		t.Errorf("hash %s/%s polygons %d/%d", first.Hash, second.Hash, first.Stats.Polygons, second.Stats.Polygons)
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.DesignHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteDeterministic(t *testing.T) {
	d, err := config.LoadPreset("cmr-sweep")
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, nil, nil)
	a, err := runner.Execute(context.Background(), Options{Design: d})
	if err != nil {
		t.Fatal(err)
	}
	b, err := runner.Execute(context.Background(), Options{Design: d})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Artifacts[FormatGDS], b.Artifacts[FormatGDS]) {
		t.Error("two builds of the same design differ")
	}
	if a.Stats.Devices != 5 {
		t.Errorf("devices = %d, want 5", a.Stats.Devices)
	}

	c, err := ImportGDS(a.Artifacts[FormatGDS])
	if err != nil {
		t.Fatal(err)
	}
	if c.PolygonCount() != a.Stats.Polygons {
		t.Errorf("read back %d polygons, built %d", c.PolygonCount(), a.Stats.Polygons)
	}
}

func TestExecuteRecord(t *testing.T) {
	ctx := context.Background()
	store := registry.NewMemoryStore()
	runner := NewRunner(nil, nil, nil)
	runner.Registry = store

	d, err := config.LoadPreset("cmr-sweep")
	if err != nil {
		t.Fatal(err)
	}
	res, err := runner.Execute(ctx, Options{Design: d, Record: true, Output: "out.gds"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Run == nil {
		t.Fatal("run not recorded")
	}
	got, err := store.Get(ctx, res.Run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hash != res.Hash || got.Output != "out.gds" || len(got.Devices) != 5 {
		t.Errorf("recorded run = %+v", got)
	}

	runner.Registry = nil
	if res, err := runner.Execute(ctx, Options{Design: d, Record: true}); err != nil || res.Run != nil {
		t.Errorf("record without registry: run=%v err=%v", res.Run, err)
	}
}

func TestRunnerBuild(t *testing.T) {
	d, err := config.LoadPreset("flat-cmr")
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewRunner(nil, nil, nil).Build(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	want, _, err := Build(d)
	if err != nil {
		t.Fatal(err)
	}
	if c.PolygonCount() != want.PolygonCount() || c.Name != want.Name {
		t.Errorf("Runner.Build = %s/%d, Build = %s/%d", c.Name, c.PolygonCount(), want.Name, want.PolygonCount())
	}
	if _, err := NewRunner(nil, nil, nil).Build(context.Background(), nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil design err = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnBuildStart(context.Context, string, int) {
	h.events = append(h.events, "build")
}

func (h *recordingHooks) OnExportComplete(_ context.Context, _ string, size int, _ time.Duration, err error) {
	if err == nil && size > 0 {
		h.events = append(h.events, "export")
	}
}

func (h *recordingHooks) OnRenderStart(_ context.Context, formats []string) {
	h.events = append(h.events, "render:"+strings.Join(formats, ","))
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	d, err := config.LoadPreset("undercut-rings")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Design: d, Formats: []string{"gds", "svg"}}); err != nil {
		t.Fatal(err)
	}
	want := "build export render:svg"
	if got := strings.Join(hooks.events, " "); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}
