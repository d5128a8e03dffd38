package conflict

import "testing"

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{
			name: "same-day turnover is not an overlap",
			a:    Range{"2026-02-10", "2026-02-13"},
			b:    Range{"2026-02-13", "2026-02-16"},
			want: false,
		},
		{
			name: "containment overlaps",
			a:    Range{"2026-02-01", "2026-02-10"},
			b:    Range{"2026-02-03", "2026-02-05"},
			want: true,
		},
		{
			name: "partial overlap",
			a:    Range{"2026-02-10", "2026-02-13"},
			b:    Range{"2026-02-12", "2026-02-15"},
			want: true,
		},
		{
			name: "identical ranges",
			a:    Range{"2026-02-08", "2026-02-11"},
			b:    Range{"2026-02-08", "2026-02-11"},
			want: true,
		},
		{
			name: "disjoint ranges",
			a:    Range{"2026-02-03", "2026-02-06"},
			b:    Range{"2026-02-18", "2026-02-21"},
			want: false,
		},
		{
			name: "across a month boundary",
			a:    Range{"2026-02-27", "2026-03-02"},
			b:    Range{"2026-03-01", "2026-03-03"},
			want: true,
		},
		{
			name: "across a year boundary",
			a:    Range{"2025-12-30", "2026-01-02"},
			b:    Range{"2026-01-01", "2026-01-04"},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestOverlapsSymmetricOverWindow(t *testing.T) {
	days := []string{
		"2026-02-01", "2026-02-02", "2026-02-03", "2026-02-04", "2026-02-05", "2026-02-06",
	}
	var ranges []Range
	for i := range days {
		for j := i + 1; j < len(days); j++ {
			ranges = append(ranges, Range{days[i], days[j]})
		}
	}
	for _, a := range ranges {
		for _, b := range ranges {
			if Overlaps(a, b) != Overlaps(b, a) {
				t.Fatalf("Overlaps not symmetric for %v and %v", a, b)
			}
		}
	}
}

func TestRangeCovers(t *testing.T) {
	r := Range{"2026-02-10", "2026-02-13"}
	tests := []struct {
		date string
		want bool
	}{
		{"2026-02-09", false},
		{"2026-02-10", true},
		{"2026-02-12", true},
		{"2026-02-13", false},
	}
	for _, tt := range tests {
		if got := r.Covers(tt.date); got != tt.want {
			t.Errorf("Covers(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestRangeValid(t *testing.T) {
	tests := []struct {
		r    Range
		want bool
	}{
		{Range{"2026-02-10", "2026-02-13"}, true},
		{Range{"2026-02-13", "2026-02-13"}, false},
		{Range{"2026-02-13", "2026-02-10"}, false},
		{Range{"2026-2-1", "2026-02-10"}, false},
		{Range{"2026-02-30", "2026-03-02"}, false},
		{Range{"", ""}, false},
	}
	for _, tt := range tests {
		if got := tt.r.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.r, got, tt.want)
		}
	}
}
