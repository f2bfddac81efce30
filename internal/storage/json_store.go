package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"talentscout/internal/errors"
	"talentscout/internal/types"
)

// JSONStore keeps every candidate in one JSON array file. Each save rewrites
// the whole array; the mutex only serialises writers inside this process.
type JSONStore struct {
	mu     sync.Mutex
	path   string
	now    func() time.Time
	logger *errors.Logger
}

// Ensure JSONStore implements Store
var _ Store = (*JSONStore)(nil)

// NewJSONStore creates the data file (holding an empty array) if it is missing
func NewJSONStore(path string, logger *errors.Logger) (*JSONStore, error) {
	if path == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "storage.dataFile is required", nil)
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot create data directory", err).
				WithContext("dir", dir)
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0600); err != nil {
			return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot create data file", err).
				WithContext("path", path)
		}
	}

	return &JSONStore{path: path, now: time.Now, logger: logger}, nil
}

// Path returns the backing file
func (s *JSONStore) Path() string {
	return s.path
}

// SaveCandidate appends record to the file. record gets its id and timestamp
// only once the file is written.
func (s *JSONStore) SaveCandidate(_ context.Context, record *types.CandidateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}

	now := s.now()
	saved := *record
	saved.CreatedAt = now
	saved.ID = NewCandidateID(now, len(records))
	records = append(records, saved)

	if err := s.write(records); err != nil {
		return err
	}
	record.ID, record.CreatedAt = saved.ID, saved.CreatedAt
	s.logger.Debug("Candidate saved", "candidate_id", record.ID, "path", s.path)
	return nil
}

// LoadAll returns every stored record; a missing file is an empty list
func (s *JSONStore) LoadAll(_ context.Context) ([]types.CandidateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// GetByID finds a record by candidate id
func (s *JSONStore) GetByID(ctx context.Context, id string) (*types.CandidateRecord, error) {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, notFound("id", id)
}

// GetByEmail finds the first record with a matching email
func (s *JSONStore) GetByEmail(ctx context.Context, email string) (*types.CandidateRecord, error) {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if strings.EqualFold(records[i].Email, email) {
			return &records[i], nil
		}
	}
	return nil, notFound("email", email)
}

// Statistics summarises the stored records
func (s *JSONStore) Statistics(ctx context.Context) (Statistics, error) {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return ComputeStatistics(records), nil
}

// Clear replaces the file content with an empty array
func (s *JSONStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write([]types.CandidateRecord{})
}

// Close implements Store
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) read() ([]types.CandidateRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.CandidateRecord{}, nil
		}
		return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot read candidate file", err).
			WithContext("path", s.path)
	}

	records := []types.CandidateRecord{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "candidate file is corrupt", err).
			WithContext("path", s.path)
	}
	return records, nil
}

func (s *JSONStore) write(records []types.CandidateRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot encode candidates", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "cannot write candidate file", err).
			WithContext("path", s.path)
	}
	return nil
}
