package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{Tick: 0, Armature: "main", Bone: "main-yard-control", Scale: [3]float64{1, 1, 1}},
		{Tick: 1, Armature: "main", Bone: "main-yard-control", HPR: [3]float64{12.5, 0, -3}, Scale: [3]float64{1, 1, 1}},
		{Tick: 1, Armature: "main", Bone: "main-yard-l", Pos: [3]float64{512, 512.6, 35}, Scale: [3]float64{1, 1.25, 1}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{
		Ship:      "frigate",
		Ticks:     2,
		Selection: "rotate all/all",
		Metrics:   map[string]float64{"degenerate": 0},
	}, sampleRecords())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Ship != "frigate" {
		t.Errorf("expected ship 'frigate', got '%s'", meta.Ship)
	}
	if meta.ID != runID {
		t.Errorf("expected id %s, got %s", runID, meta.ID)
	}

	records, err := st.LoadRecords(runID)
	if err != nil {
		t.Fatalf("load records failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1].HPR[0] != 12.5 || records[1].HPR[2] != -3 {
		t.Errorf("hpr mismatch: %v", records[1].HPR)
	}
	if records[2].Scale[1] != 1.25 || records[2].Bone != "main-yard-l" {
		t.Errorf("record mismatch: %+v", records[2])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := st.Save(RunMetadata{Ship: "brig"}, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Ship: "frigate"}, sampleRecords())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, posesFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadRecordsSkipsMalformedRows(t *testing.T) {
	tmpDir := t.TempDir()
	runDir := filepath.Join(tmpDir, "manual")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "tick,armature,bone,x,y,z,h,p,r,sx,sy,sz\n" +
		"0,main,main-band,0,0,0,0,0,0,1,1,1\n" +
		"x,main,main-band,0,0,0,0,0,0,1,1,1\n" +
		"1,main,main-band,0,0\n"
	if err := os.WriteFile(filepath.Join(runDir, posesFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := New(tmpDir).LoadRecords("manual")
	if err != nil {
		t.Fatalf("load records failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 valid record, got %d", len(records))
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{ID: "frigate_1", Ship: "frigate"}, sampleRecords()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if got.Run.ID != "frigate_1" || len(got.Poses) != 3 {
		t.Errorf("unexpected export: %+v", got.Run)
	}
	if got.Poses[2].Scale[1] != 1.25 {
		t.Errorf("scale mismatch: %v", got.Poses[2].Scale)
	}
}
