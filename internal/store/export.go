// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one archived brief flattened for export (prd008 R4.3).
type ExportEntry struct {
	RequestID        string   `json:"request_id" yaml:"request_id"`
	Topic            string   `json:"topic" yaml:"topic"`
	Depth            string   `json:"depth" yaml:"depth"`
	ExecutiveSummary string   `json:"executive_summary" yaml:"executive_summary"`
	KeyFindings      []string `json:"key_findings" yaml:"key_findings"`
	Confidence       float64  `json:"confidence" yaml:"confidence"`
	SourceCount      int      `json:"source_count" yaml:"source_count"`
	CreatedAt        string   `json:"created_at" yaml:"created_at"`
}

const exportLimit = 10000

// ExportYAML writes a user's archived briefs to path as YAML (prd008 R4.1).
func (s *Store) ExportYAML(userID, path string) error {
	entries, err := s.exportEntries(userID)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes a user's archived briefs to path as JSON (prd008 R4.2).
func (s *Store) ExportJSON(userID, path string) error {
	entries, err := s.exportEntries(userID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(userID string) ([]ExportEntry, error) {
	records, err := s.UserBriefs(userID, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(records))
	for i, r := range records {
		entries[i] = ExportEntry{
			RequestID:   r.RequestID,
			Topic:       r.Topic,
			Depth:       r.Depth,
			Confidence:  r.Confidence,
			SourceCount: r.SourceCount,
			CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		}

		brief, err := s.BriefByRequestID(r.RequestID)
		if err != nil {
			continue
		}
		entries[i].ExecutiveSummary = brief.ExecutiveSummary
		entries[i].KeyFindings = brief.KeyFindings
	}

	return entries, nil
}
