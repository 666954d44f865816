package store

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/physkern/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Ticks: 3,
		Series: map[string][]float64{
			"kinetic_energy": {1.5, 0.75, 0.375},
			"max_speed":      {2, 2, 2},
		},
		Metrics: map[string]float64{
			"kinetic_energy": 0.375,
			"max_speed":      2,
		},
		Elapsed: 1500 * time.Microsecond,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Name: "small", GridSize: 32, Dt: 0.5, Viscosity: 0.9}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "small_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.GridSize != 32 || meta.Ticks != 3 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["kinetic_energy"] != 0.375 {
		t.Errorf("expected final energy 0.375, got %f", meta.Metrics["kinetic_energy"])
	}
	if meta.ElapsedMS != 1.5 {
		t.Errorf("expected 1.5ms, got %f", meta.ElapsedMS)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(series.Names) != 2 || series.Names[0] != "kinetic_energy" {
		t.Errorf("unexpected names %v", series.Names)
	}
	if len(series.Ticks) != 3 || series.Values["kinetic_energy"][1] != 0.75 {
		t.Errorf("unexpected series %+v", series)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Name: "test"}, sampleResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids collided")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{metadataFile, metricsFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := st.Save(RunMetadata{Name: "x"}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	meta, _ := st.Load(runID)
	series, _ := st.LoadSeries(runID)

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, series); err != nil {
		t.Fatalf("export json: %v", err)
	}
	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Run.ID != runID || len(decoded.Series["max_speed"]) != 3 {
		t.Errorf("unexpected export %+v", decoded)
	}

	buf.Reset()
	if err := ExportCSV(&buf, series); err != nil {
		t.Fatalf("export csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 || lines[0] != "tick,kinetic_energy,max_speed" {
		t.Errorf("unexpected csv:\n%s", buf.String())
	}
}

func TestStoreNonFiniteRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	result := &sim.Result{
		Ticks: 2,
		Series: map[string][]float64{
			"kinetic_energy": {math.Inf(1), math.Inf(1)},
			"max_divergence": {math.NaN(), math.Inf(-1)},
		},
		Metrics: map[string]float64{
			"kinetic_energy": math.Inf(1),
			"max_divergence": math.NaN(),
			"non_finite":     2,
		},
	}

	runID, err := st.Save(RunMetadata{Name: "diverged"}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !math.IsInf(meta.Metrics["kinetic_energy"], 1) {
		t.Errorf("expected +Inf energy, got %v", meta.Metrics["kinetic_energy"])
	}
	if !math.IsNaN(meta.Metrics["max_divergence"]) {
		t.Errorf("expected NaN divergence, got %v", meta.Metrics["max_divergence"])
	}
	if meta.Metrics["non_finite"] != 2 {
		t.Errorf("finite values should stay numbers, got %v", meta.Metrics["non_finite"])
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(series.Values["max_divergence"][1], -1) {
		t.Errorf("expected -Inf sample, got %v", series.Values["max_divergence"])
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, series); err != nil {
		t.Fatalf("export json: %v", err)
	}
	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !math.IsNaN(float64(decoded.Series["max_divergence"][0])) {
		t.Errorf("expected NaN to survive export, got %v", decoded.Series["max_divergence"])
	}
}

func TestFloatJSON(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.5, "1.5"},
		{math.Inf(1), `"+Inf"`},
		{math.Inf(-1), `"-Inf"`},
		{math.NaN(), `"NaN"`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(Float(tt.in))
		if err != nil {
			t.Fatalf("%v: %v", tt.in, err)
		}
		if string(got) != tt.want {
			t.Errorf("%v: got %s, want %s", tt.in, got, tt.want)
		}
	}

	var f Float
	if err := json.Unmarshal([]byte(`"bogus"`), &f); err == nil {
		t.Error("expected error for a non-numeric string")
	}
}
