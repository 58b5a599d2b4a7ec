// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/meshintel/brief-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBrief(requestID, topic string, created time.Time) *types.FinalBrief {
	return &types.FinalBrief{
		RequestID:        requestID,
		Topic:            topic,
		ExecutiveSummary: "Summary of " + topic,
		KeyFindings:      []string{"finding one", "finding two", "finding three"},
		ResearchDepth:    types.DepthMedium,
		ConfidenceScore:  7.5,
		SourceCount:      4,
		CreatedAt:        created,
	}
}

func TestSaveBriefRoundtrip(t *testing.T) {
	s := testStore(t)

	brief := sampleBrief("req-1", "quantum networking", time.Now())
	brief.Insights = []types.ResearchInsight{
		{InsightID: "ins-1", Category: "Key Theme", Description: "entanglement distribution", ConfidenceLevel: 8.0},
	}
	if err := s.SaveBrief("alice", brief); err != nil {
		t.Fatalf("SaveBrief() error = %v", err)
	}

	got, err := s.BriefByRequestID("req-1")
	if err != nil {
		t.Fatalf("BriefByRequestID() error = %v", err)
	}
	if got.Topic != "quantum networking" {
		t.Errorf("topic = %q", got.Topic)
	}
	if got.ConfidenceScore != 7.5 {
		t.Errorf("confidence = %f", got.ConfidenceScore)
	}
	if len(got.KeyFindings) != 3 {
		t.Errorf("key findings = %d, want 3", len(got.KeyFindings))
	}
	if len(got.Insights) != 1 || got.Insights[0].Category != "Key Theme" {
		t.Errorf("insights = %+v", got.Insights)
	}
}

func TestSaveBriefReplacesExisting(t *testing.T) {
	s := testStore(t)

	first := sampleBrief("req-1", "original topic", time.Now())
	if err := s.SaveBrief("alice", first); err != nil {
		t.Fatal(err)
	}
	second := sampleBrief("req-1", "revised topic", time.Now())
	if err := s.SaveBrief("alice", second); err != nil {
		t.Fatal(err)
	}

	got, err := s.BriefByRequestID("req-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Topic != "revised topic" {
		t.Errorf("topic = %q, want replacement", got.Topic)
	}

	records, err := s.UserBriefs("alice", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1 after replace", len(records))
	}
}

func TestBriefByRequestIDMissing(t *testing.T) {
	s := testStore(t)

	if _, err := s.BriefByRequestID("no-such-id"); err == nil {
		t.Error("expected error for unknown request ID")
	} else if !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not-found message", err)
	}
}

func TestUserBriefsNewestFirst(t *testing.T) {
	s := testStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		brief := sampleBrief(fmt.Sprintf("req-%d", i), fmt.Sprintf("topic %d", i), base.Add(time.Duration(i)*time.Hour))
		if err := s.SaveBrief("alice", brief); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SaveBrief("bob", sampleBrief("req-bob", "other user topic", base)); err != nil {
		t.Fatal(err)
	}

	records, err := s.UserBriefs("alice", 10)
	if err != nil {
		t.Fatalf("UserBriefs() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, want := range []string{"req-2", "req-1", "req-0"} {
		if records[i].RequestID != want {
			t.Errorf("record %d = %q, want %q", i, records[i].RequestID, want)
		}
	}

	limited, err := s.UserBriefs("alice", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited records = %d, want 2", len(limited))
	}
}

func TestHistoryChronologicalOrder(t *testing.T) {
	s := testStore(t)

	for i := 0; i < 5; i++ {
		if err := s.SaveExchange("alice", fmt.Sprintf("query %d", i), fmt.Sprintf("response %d", i)); err != nil {
			t.Fatal(err)
		}
	}

	turns, err := s.History("alice", 3)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("turns = %d, want 3", len(turns))
	}
	// Most recent three, oldest of them first.
	for i, want := range []string{"query 2", "query 3", "query 4"} {
		if turns[i].Query != want {
			t.Errorf("turn %d = %q, want %q", i, turns[i].Query, want)
		}
	}
}

func TestHistoryDefaultLimit(t *testing.T) {
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir(), MaxHistory: 2})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	for i := 0; i < 4; i++ {
		if err := s.SaveExchange("alice", fmt.Sprintf("q%d", i), "r"); err != nil {
			t.Fatal(err)
		}
	}

	turns, err := s.History("alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 2 {
		t.Errorf("turns = %d, want configured max of 2", len(turns))
	}
}

func TestHistoryEmptyUser(t *testing.T) {
	s := testStore(t)

	turns, err := s.History("nobody", 5)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("turns = %d, want 0", len(turns))
	}
}

func TestStats(t *testing.T) {
	s := testStore(t)

	now := time.Now()
	briefs := []struct {
		user       string
		confidence float64
	}{
		{"alice", 8.0},
		{"alice", 6.0},
		{"bob", 7.0},
	}
	for i, b := range briefs {
		brief := sampleBrief(fmt.Sprintf("req-%d", i), "topic", now)
		brief.ConfidenceScore = b.confidence
		if err := s.SaveBrief(b.user, brief); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SaveExchange("alice", "q", "r"); err != nil {
		t.Fatal(err)
	}

	a, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if a.BriefCount != 3 {
		t.Errorf("BriefCount = %d, want 3", a.BriefCount)
	}
	if a.UserCount != 2 {
		t.Errorf("UserCount = %d, want 2", a.UserCount)
	}
	if a.ExchangeCount != 1 {
		t.Errorf("ExchangeCount = %d, want 1", a.ExchangeCount)
	}
	if a.AvgConfidence != 7.0 {
		t.Errorf("AvgConfidence = %f, want 7.0", a.AvgConfidence)
	}
}

func TestStatsEmptyArchive(t *testing.T) {
	s := testStore(t)

	a, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if a.BriefCount != 0 || a.UserCount != 0 || a.ExchangeCount != 0 || a.AvgConfidence != 0 {
		t.Errorf("empty archive stats = %+v", a)
	}
}
