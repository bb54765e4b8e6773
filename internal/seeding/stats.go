package seeding

import (
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"
)

type LocationBucket string

const (
	BucketDhaka  LocationBucket = "Dhaka"
	BucketRemote LocationBucket = "Remote"
	BucketOther  LocationBucket = "Other"
)

var locationBuckets = []LocationBucket{BucketDhaka, BucketRemote, BucketOther}

// Bucket places a location in Dhaka when it mentions Dhaka anywhere, in
// Remote when it is exactly "Remote" in any case, and in Other otherwise.
func Bucket(location string) LocationBucket {
	switch {
	case strings.Contains(location, "Dhaka"):
		return BucketDhaka
	case strings.EqualFold(strings.TrimSpace(location), "Remote"):
		return BucketRemote
	default:
		return BucketOther
	}
}

// Stats summarises a seed set for diagnostic logging.
type Stats struct {
	Total      int
	ByType     map[models.EmploymentType]int
	ByLocation map[LocationBucket]int
}

func ComputeStats(jobs []models.JobPosting) Stats {
	stats := Stats{
		Total:      len(jobs),
		ByType:     make(map[models.EmploymentType]int, len(models.EmploymentTypes)),
		ByLocation: make(map[LocationBucket]int, len(locationBuckets)),
	}
	for _, job := range jobs {
		stats.ByType[job.Type]++
		stats.ByLocation[Bucket(job.Location)]++
	}
	return stats
}

// MarshalLogObject writes the counts in a fixed key order so that log lines
// for the same seed set are byte-identical.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("total", s.Total)
	if err := enc.AddObject("by_type", zapcore.ObjectMarshalerFunc(func(e zapcore.ObjectEncoder) error {
		for _, t := range models.EmploymentTypes {
			e.AddInt(string(t), s.ByType[t])
		}
		return nil
	})); err != nil {
		return err
	}
	return enc.AddObject("by_location", zapcore.ObjectMarshalerFunc(func(e zapcore.ObjectEncoder) error {
		for _, b := range locationBuckets {
			e.AddInt(string(b), s.ByLocation[b])
		}
		return nil
	}))
}
