package seeddata_test

import (
	"testing"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/seeddata"
)

func TestJobs_SizeIsTwelve(t *testing.T) {
	if got := len(seeddata.Jobs()); got != 12 {
		t.Fatalf("len(Jobs()) = %d, want 12", got)
	}
	if seeddata.Size() != 12 {
		t.Fatalf("Size() = %d, want 12", seeddata.Size())
	}
}

func TestJobs_AllValid(t *testing.T) {
	for _, j := range seeddata.Jobs() {
		if err := j.Validate(); err != nil {
			t.Errorf("seed posting invalid: %v", err)
		}
		if len(j.Skills) == 0 {
			t.Errorf("seed posting %q has no skills", j.Title)
		}
		if j.Logo == "" || j.Description == "" || j.Track == "" || j.Location == "" {
			t.Errorf("seed posting %q has an empty field", j.Title)
		}
	}
}

// Callers get a copy; mutating it must not leak into later calls.
func TestJobs_ReturnsCopy(t *testing.T) {
	first := seeddata.Jobs()
	first[0].Title = "mutated"
	first[0].Skills[0] = "mutated"

	second := seeddata.Jobs()
	if second[0].Title == "mutated" || second[0].Skills[0] == "mutated" {
		t.Error("Jobs() must return an independent copy")
	}
}
