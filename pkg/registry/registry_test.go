package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/maskgen/pkg/device"
	"github.com/matzehuels/maskgen/pkg/errors"
)

func testRuns() []*Run {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var runs []*Run
	for i, name := range []string{"first", "second", "third"} {
		r := NewRun(name, "hash-"+name, name, []*device.Device{{
			Spec:  device.DefaultSpec(device.KindFlatCMR),
			Cell:  "cmr",
			Label: "Pair num = 20",
		}})
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		runs = append(runs, r)
	}
	return runs
}

func TestNewRun(t *testing.T) {
	r := testRuns()[0]
	if err := ValidateID(r.ID); err != nil {
		t.Errorf("NewRun ID: %v", err)
	}
	if len(r.Devices) != 1 || r.Devices[0].Kind != "flat-cmr" || r.Devices[0].Spec.IDT.ElectrodeNumber != 40 {
		t.Errorf("devices = %+v", r.Devices)
	}
	if other := NewRun("x", "", "", nil); other.ID == r.ID {
		t.Error("IDs should be unique")
	}
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	runs := testRuns()
	for _, r := range runs {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Get(ctx, runs[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Design != "second" || !got.CreatedAt.Equal(runs[1].CreatedAt) {
		t.Errorf("Get = %+v", got)
	}
	if got.Devices[0].Spec.Tether.Width != 5 {
		t.Errorf("device spec not preserved: %+v", got.Devices[0].Spec.Tether)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Design != "third" || list[2].Design != "first" {
		t.Errorf("List order = %v", designs(list))
	}
	list, _ = s.List(ctx, 2)
	if len(list) != 2 || list[0].Design != "third" {
		t.Errorf("List(2) = %v", designs(list))
	}

	runs[0].Output = "mask.gds"
	if err := s.Save(ctx, runs[0]); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, runs[0].ID); got.Output != "mask.gds" {
		t.Errorf("Save did not replace: %+v", got)
	}

	missing := NewRun("missing", "", "", nil).ID
	if _, err := s.Get(ctx, missing); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing run error = %v", err)
	}
}

func designs(runs []*Run) []string {
	var out []string
	for _, r := range runs {
		out = append(out, r.Design)
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)

	if err := os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if list, err := s.List(context.Background(), 0); err != nil || len(list) != 3 {
		t.Errorf("List with junk file = %d runs, %v", len(list), err)
	}
	if _, err := s.Get(context.Background(), "../etc/passwd"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("path-like id error = %v", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		uri     string
		wantErr bool
	}{
		{"memory", false},
		{"file:" + t.TempDir(), false},
		{"ftp://example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			s, err := Open(ctx, tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MASKGEN_TEST_MONGO")
	if uri == "" {
		t.Skip("MASKGEN_TEST_MONGO not set")
	}
	s, err := NewMongoStore(context.Background(), MongoConfig{URI: uri, Database: "maskgen_test", Collection: "runs_" + NewRun("", "", "", nil).ID[:8]})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.coll.Drop(context.Background())
		s.Close()
	}()
	testStore(t, s)
}
