package task

import (
	"errors"
	"testing"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"all", FilterAll, false},
		{"active", FilterActive, false},
		{"completed", FilterCompleted, false},
		{" Active ", FilterActive, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if tt.wantErr {
				var fe *InvalidFilterError
				if !errors.As(err, &fe) {
					t.Fatalf("expected *InvalidFilterError, got %v", err)
				}
				if fe.Value != tt.in {
					t.Errorf("Value: got %q, want %q", fe.Value, tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	tasks := []Task{
		{ID: "5", Completed: false},
		{ID: "4", Completed: true},
		{ID: "3", Completed: false},
		{ID: "2", Completed: true},
		{ID: "1", Completed: false},
	}

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterAll, []string{"5", "4", "3", "2", "1"}},
		{FilterActive, []string{"5", "3", "1"}},
		{FilterCompleted, []string{"4", "2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := Apply(tasks, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("len: got %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("[%d]: got %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}

	// Mutating the result must not touch the input.
	out := Apply(tasks, FilterAll)
	out[0].Text = "changed"
	if tasks[0].Text != "" {
		t.Error("Apply returned a slice aliasing its input")
	}
}

func TestComputeStats(t *testing.T) {
	mk := func(total, completed int) []Task {
		tasks := make([]Task, total)
		for i := 0; i < completed; i++ {
			tasks[i].Completed = true
		}
		return tasks
	}

	tests := []struct {
		name      string
		total     int
		completed int
		progress  int
	}{
		{"empty", 0, 0, 0},
		{"none done", 2, 0, 0},
		{"one of one", 1, 1, 100},
		{"one of three", 3, 1, 33},
		{"two of three", 3, 2, 67},
		{"one of eight rounds half up", 8, 1, 13},
		{"half", 4, 2, 50},
		{"199 of 200 rounds to 100", 200, 199, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeStats(mk(tt.total, tt.completed))
			if s.Total != tt.total || s.Completed != tt.completed {
				t.Errorf("counts: got %+v", s)
			}
			if s.Active+s.Completed != s.Total {
				t.Errorf("active+completed != total: %+v", s)
			}
			if s.Progress != tt.progress {
				t.Errorf("Progress: got %d, want %d", s.Progress, tt.progress)
			}
		})
	}
}

func TestStatsAllComplete(t *testing.T) {
	if (Stats{}).AllComplete() {
		t.Error("empty stats should not be all complete")
	}
	if !(Stats{Total: 2, Completed: 2, Progress: 100}).AllComplete() {
		t.Error("2/2 should be all complete")
	}
	if (Stats{Total: 2, Completed: 1, Active: 1, Progress: 50}).AllComplete() {
		t.Error("1/2 should not be all complete")
	}
}

func TestPrioritySet(t *testing.T) {
	set := DefaultPrioritySet()
	if set.Default() != PriorityMedium {
		t.Errorf("Default: got %s, want medium", set.Default())
	}
	if !set.Contains(PriorityHigh) || set.Contains("urgent") {
		t.Error("Contains mismatch")
	}
	if got := set.Resolve(" HIGH "); got != PriorityHigh {
		t.Errorf("Resolve(HIGH): got %s", got)
	}
	if got := set.Resolve("urgent"); got != PriorityMedium {
		t.Errorf("Resolve(urgent): got %s", got)
	}
	if got := set.Resolve(""); got != PriorityMedium {
		t.Errorf("Resolve(empty): got %s", got)
	}
	if got := set.Next(PriorityHigh); got != PriorityLow {
		t.Errorf("Next(high): got %s", got)
	}
	if got := set.Next("nope"); got != PriorityLow {
		t.Errorf("Next(unknown): got %s", got)
	}
	if set.String() != "low|medium|high" {
		t.Errorf("String: got %s", set.String())
	}
}

func TestNewPrioritySet(t *testing.T) {
	tests := []struct {
		name    string
		labels  []string
		def     string
		wantErr bool
	}{
		{"valid", []string{"p1", "p2", "p3"}, "p2", false},
		{"normalizes", []string{" Low", "HIGH"}, "high", false},
		{"empty set", nil, "low", true},
		{"blank label", []string{"low", " "}, "low", true},
		{"duplicate", []string{"low", "LOW"}, "low", true},
		{"default missing", []string{"low", "high"}, "medium", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPrioritySet(tt.labels, tt.def)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSequenceGenerator(t *testing.T) {
	g := &SequenceGenerator{Prefix: "T"}
	if got := g.NewID(); got != "T1" {
		t.Errorf("first id: got %s", got)
	}
	if got := g.NewID(); got != "T2" {
		t.Errorf("second id: got %s", got)
	}
}

func TestUUIDGeneratorUnique(t *testing.T) {
	var g UUIDGenerator
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestShortIDAndLabel(t *testing.T) {
	if got := ShortID("0190f3a2-6c1e"); got != "0190f3a2" {
		t.Errorf("ShortID: got %s", got)
	}
	if got := ShortID("T1"); got != "T1" {
		t.Errorf("ShortID short: got %s", got)
	}
	if got := Label(PriorityHigh); got != "High" {
		t.Errorf("Label: got %s", got)
	}
	if got := Label(FilterCompleted); got != "Completed" {
		t.Errorf("Label filter: got %s", got)
	}
}
