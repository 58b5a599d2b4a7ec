// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "testing"

func TestDepthSearchParams(t *testing.T) {
	tests := []struct {
		depth        int
		wantResults  int
		wantVariants int
	}{
		{1, 5, 1},
		{2, 10, 2},
		{3, 15, 3},
		{0, 10, 2},
	}
	for _, tt := range tests {
		results, variants := DepthSearchParams(tt.depth)
		if results != tt.wantResults || variants != tt.wantVariants {
			t.Errorf("DepthSearchParams(%d) = (%d, %d), want (%d, %d)",
				tt.depth, results, variants, tt.wantResults, tt.wantVariants)
		}
	}
}

func TestDepthFetchCount(t *testing.T) {
	tests := []struct {
		depth int
		want  int
	}{
		{1, 3},
		{2, 6},
		{3, 10},
		{0, 6},
	}
	for _, tt := range tests {
		if got := DepthFetchCount(tt.depth); got != tt.want {
			t.Errorf("DepthFetchCount(%d) = %d, want %d", tt.depth, got, tt.want)
		}
	}
}
