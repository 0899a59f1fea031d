package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run   RunMetadata    `json:"run"`
	Poses []ExportedPose `json:"poses"`
}

type ExportedPose struct {
	Tick     int        `json:"tick"`
	Armature string     `json:"armature"`
	Bone     string     `json:"bone"`
	Pos      [3]float64 `json:"pos"`
	HPR      [3]float64 `json:"hpr"`
	Scale    [3]float64 `json:"scale"`
}

// ExportJSON writes a run and its poses as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, records []Record) error {
	data := ExportData{
		Run:   meta,
		Poses: make([]ExportedPose, len(records)),
	}
	for i, r := range records {
		data.Poses[i] = ExportedPose(r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
