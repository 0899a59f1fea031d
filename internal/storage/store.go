package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

const (
	metadataFile = "metadata.json"
	posesFile    = "poses.csv"
)

var header = []string{
	"tick", "armature", "bone",
	"x", "y", "z",
	"h", "p", "r",
	"sx", "sy", "sz",
}

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
	ID          string             `json:"id"`
	Ship        string             `json:"ship"`
	Timestamp   time.Time          `json:"timestamp"`
	Ticks       int                `json:"ticks"`
	Selection   string             `json:"selection"`
	Scenario    string             `json:"scenario,omitempty"`
	Sensitivity float64            `json:"sensitivity"`
	Armatures   int                `json:"armatures"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Record is one bone pose at one tick, measured against the model root.
type Record struct {
	Tick     int
	Armature string
	Bone     string
	Pos      [3]float64
	HPR      [3]float64
	Scale    [3]float64
}

// Save writes a new run directory and returns its id.
func (s *Store) Save(meta RunMetadata, records []Record) (string, error) {
	meta.Timestamp = time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Ship, meta.Timestamp.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)
	meta.ID = runID

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, posesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, rec := range records {
		if err := w.Write(rec.row()); err != nil {
			return "", err
		}
	}
	w.Flush()
	return runID, w.Error()
}

func (r Record) row() []string {
	row := make([]string, 0, len(header))
	row = append(row, strconv.Itoa(r.Tick), r.Armature, r.Bone)
	for _, v := range [][3]float64{r.Pos, r.HPR, r.Scale} {
		for _, x := range v {
			row = append(row, strconv.FormatFloat(x, 'f', 6, 64))
		}
	}
	return row
}

// List returns the stored runs, oldest first.
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

// LoadRecords reads every pose of a run in file order. Malformed rows are
// skipped.
func (s *Store) LoadRecords(runID string) ([]Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, posesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []Record{}, nil
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, ok := parseRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (Record, bool) {
	if len(row) != len(header) {
		return Record{}, false
	}
	tick, err := strconv.Atoi(row[0])
	if err != nil {
		return Record{}, false
	}
	rec := Record{Tick: tick, Armature: row[1], Bone: row[2]}
	for i, dst := range []*[3]float64{&rec.Pos, &rec.HPR, &rec.Scale} {
		for j := range dst {
			v, err := strconv.ParseFloat(row[3+i*3+j], 64)
			if err != nil {
				return Record{}, false
			}
			dst[j] = v
		}
	}
	return rec, true
}
