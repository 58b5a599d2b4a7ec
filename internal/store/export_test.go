// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"
)

func TestExportYAML(t *testing.T) {
	s := testStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, topic := range []string{"grid batteries", "hydrogen transport"} {
		brief := sampleBrief(topic+"-id", topic, base.Add(time.Duration(i)*time.Hour))
		if err := s.SaveBrief("alice", brief); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "export.yaml")
	if err := s.ExportYAML("alice", path); err != nil {
		t.Fatalf("ExportYAML() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ExportEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatalf("unmarshaling export: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// Newest first, same as the listing.
	if entries[0].Topic != "hydrogen transport" {
		t.Errorf("first entry topic = %q", entries[0].Topic)
	}
	if entries[0].ExecutiveSummary == "" || len(entries[0].KeyFindings) != 3 {
		t.Errorf("entry missing brief body: %+v", entries[0])
	}
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)

	if err := s.SaveBrief("alice", sampleBrief("req-1", "grid batteries", time.Now())); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "export.json")
	if err := s.ExportJSON("alice", path); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ExportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("unmarshaling export: %v", err)
	}
	if len(entries) != 1 || entries[0].RequestID != "req-1" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestExportEmptyArchive(t *testing.T) {
	s := testStore(t)

	path := filepath.Join(t.TempDir(), "export.yaml")
	if err := s.ExportYAML("nobody", path); err != nil {
		t.Fatalf("ExportYAML() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file not written: %v", err)
	}
}
