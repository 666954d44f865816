package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/physkern/internal/kernel"
	"github.com/san-kum/physkern/internal/sim"
)

const (
	metadataFile = "metadata.json"
	metricsFile  = "metrics.csv"
)

// Store keeps run diagnostics on disk, one directory per run. Field
// arrays are never written.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	GridSize   int                `json:"grid_size"`
	Dt         float64            `json:"dt"`
	Viscosity  float64            `json:"viscosity"`
	ChunkWidth int                `json:"chunk_width"`
	Workers    int                `json:"workers"`
	Ticks      int                `json:"ticks"`
	ElapsedMS  float64            `json:"elapsed_ms"`
	Metrics    Metrics            `json:"metrics"`
}

// Save writes meta and the per-tick series of result, returning the run id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	name := meta.Name
	if name == "" {
		name = "run"
	}

	runID, runDir, err := s.allocate(name)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Ticks = result.Ticks
	meta.ElapsedMS = float64(result.Elapsed.Microseconds()) / 1000
	meta.Metrics = Metrics(result.Metrics)

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, metricsFile), result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	kernel.Logger().Debug("run saved", "id", runID, "dir", runDir)
	return runID, nil
}

func (s *Store) allocate(name string) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSeries(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := SeriesNames(result.Series)
	w := csv.NewWriter(f)

	if err := w.Write(append([]string{"tick"}, names...)); err != nil {
		return err
	}
	for tick := 0; tick < result.Ticks; tick++ {
		row := []string{strconv.Itoa(tick)}
		for _, n := range names {
			val := 0.0
			if tick < len(result.Series[n]) {
				val = result.Series[n][tick]
			}
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// SeriesNames returns the keys of series in sorted order.
func SeriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for n := range series {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Series is a run's metric history as read back from disk.
type Series struct {
	Names  []string
	Ticks  []int
	Values map[string][]float64
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, metricsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := &Series{Values: make(map[string][]float64)}
	if len(records) == 0 {
		return out, nil
	}

	out.Names = records[0][1:]
	for _, n := range out.Names {
		out.Values[n] = make([]float64, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		tick, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		out.Ticks = append(out.Ticks, tick)

		for j, n := range out.Names {
			val := 0.0
			if j+1 < len(record) {
				if v, err := strconv.ParseFloat(record[j+1], 64); err == nil {
					val = v
				}
			}
			out.Values[n] = append(out.Values[n], val)
		}
	}

	return out, nil
}
