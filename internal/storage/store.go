package storage

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"talentscout/internal/config"
	"talentscout/internal/errors"
	"talentscout/internal/types"
)

// Supported storage backends
const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
)

// topTechnologies caps the technology summary in Statistics
const topTechnologies = 10

// Store persists finished candidate records
type Store interface {
	// SaveCandidate assigns ID and CreatedAt to record, then persists it
	SaveCandidate(ctx context.Context, record *types.CandidateRecord) error
	LoadAll(ctx context.Context) ([]types.CandidateRecord, error)
	GetByID(ctx context.Context, id string) (*types.CandidateRecord, error)
	// GetByEmail matches case-insensitively and returns the first stored record
	GetByEmail(ctx context.Context, email string) (*types.CandidateRecord, error)
	Statistics(ctx context.Context) (Statistics, error)
	Clear(ctx context.Context) error
	Close() error
}

// TechCount is one entry of the technology frequency summary
type TechCount struct {
	Technology string `json:"technology"`
	Count      int    `json:"count"`
}

// Statistics summarises the stored candidates
type Statistics struct {
	TotalCandidates int            `json:"total_candidates"`
	Positions       map[string]int `json:"positions"`
	AvgExperience   float64        `json:"avg_experience"`
	TopTechnologies []TechCount    `json:"tech_stack_summary"`
}

// NewStore opens the configured backend
func NewStore(ctx context.Context, cfg config.StorageConfig, logger *errors.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendJSON, "":
		return NewJSONStore(cfg.DataFile, logger)
	case BackendPostgres:
		store, err := NewPostgresStore(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported storage backend: %s", cfg.Backend), nil)
	}
}

// NewCandidateID builds "TS" + timestamp + the 1-based position of the new record
func NewCandidateID(now time.Time, existing int) string {
	return fmt.Sprintf("TS%s%04d", now.Format("20060102150405"), existing+1)
}

// ComputeStatistics counts positions, averages experience to one decimal and
// ranks the ten most listed technologies, ties broken alphabetically
func ComputeStatistics(records []types.CandidateRecord) Statistics {
	stats := Statistics{
		Positions:       map[string]int{},
		TopTechnologies: []TechCount{},
	}
	if len(records) == 0 {
		return stats
	}

	var totalExperience float64
	techCounts := map[string]int{}
	for _, record := range records {
		position := record.Position
		if position == "" {
			position = "Unknown"
		}
		stats.Positions[position]++
		totalExperience += record.ExperienceYears

		for _, tech := range record.TechStack {
			if tech = strings.TrimSpace(tech); tech != "" {
				techCounts[tech]++
			}
		}
	}

	stats.TotalCandidates = len(records)
	stats.AvgExperience = math.Round(totalExperience/float64(len(records))*10) / 10

	for tech, count := range techCounts {
		stats.TopTechnologies = append(stats.TopTechnologies, TechCount{Technology: tech, Count: count})
	}
	slices.SortFunc(stats.TopTechnologies, func(a, b TechCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Technology, b.Technology)
	})
	if len(stats.TopTechnologies) > topTechnologies {
		stats.TopTechnologies = stats.TopTechnologies[:topTechnologies]
	}
	return stats
}

func notFound(what, key string) error {
	return errors.NewPersistenceError(errors.ErrCodeRecordNotFound,
		fmt.Sprintf("no candidate with %s %q", what, key), nil)
}

// IsNotFound reports whether err is a missing-record lookup
func IsNotFound(err error) bool {
	return errors.CodeOf(err) == errors.ErrCodeRecordNotFound
}
