package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"talentscout/internal/ai"
	"talentscout/internal/common"
	"talentscout/internal/config"
	"talentscout/internal/errors"
	"talentscout/internal/interview"
	"talentscout/internal/prompts"
	"talentscout/internal/storage"
	"talentscout/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatGreeting = "Hello from TalentScout. What is your full name?"

type scriptedGenerator struct{}

func (scriptedGenerator) Generate(_ context.Context, messages []types.Message, _ ai.GenerateOptions) (string, *ai.TokenUsage, error) {
	if strings.Contains(messages[len(messages)-1].Content, "closing message") {
		return "Thank you, we will be in touch.", nil, nil
	}
	return chatGreeting, nil, nil
}

func (scriptedGenerator) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Provider: "scripted", Name: "scripted", Available: true}
}

func (scriptedGenerator) Close() error { return nil }

func newChatEngine(t *testing.T) (*interview.Engine, storage.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewJSONStore(filepath.Join(dir, "candidates.json"), errors.NewNopLogger())
	require.NoError(t, err)

	engine := interview.NewEngine(interview.Dependencies{
		Generator: scriptedGenerator{},
		Prompts:   prompts.NewBuilder(),
		Store:     store,
		Exporter:  storage.NewTranscriptExporter(dir),
	}, interview.Settings{ContextCapacity: 10}, errors.NewNopLogger())
	return engine, store, dir
}

func TestChatREPL(t *testing.T) {
	engine, store, dir := newChatEngine(t)

	input := strings.Join([]string{
		"Ada Lovelace",
		"",
		"/progress",
		"/export chat.txt",
		"/unknown",
		"bye",
		"are you still there?",
	}, "\n")
	var out bytes.Buffer

	repl := newChatREPL(engine, prompts.English, strings.NewReader(input), &out)
	require.NoError(t, repl.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Assistant: "+chatGreeting)
	assert.Contains(t, text, "Name: Ada Lovelace")
	assert.Contains(t, text, "Transcript saved to "+filepath.Join(dir, "chat.txt"))
	assert.Contains(t, text, "Unknown command /unknown")
	assert.Contains(t, text, "Interview complete.")
	assert.Contains(t, text, "The interview is complete.")

	_, err := os.Stat(filepath.Join(dir, "chat.txt"))
	assert.NoError(t, err)

	records, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ada Lovelace", records[0].Name)
	assert.True(t, records[0].ExitedEarly)
}

func TestChatREPLReset(t *testing.T) {
	engine, _, _ := newChatEngine(t)
	var out bytes.Buffer

	repl := newChatREPL(engine, prompts.English, strings.NewReader("Ada Lovelace\n/reset\n"), &out)
	require.NoError(t, repl.Run(context.Background()))

	assert.Empty(t, repl.session.Record.Name, "Expected a fresh session after /reset")
	assert.Equal(t, 2, strings.Count(out.String(), "Assistant: "+chatGreeting))
}

func seedStore(t *testing.T) (*config.Config, storage.Store) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.Backend = storage.BackendJSON
	cfg.Storage.DataFile = filepath.Join(t.TempDir(), "candidates.json")

	store, err := storage.NewStore(context.Background(), cfg.Storage, errors.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	for _, r := range []types.CandidateRecord{
		{Name: "Ada Lovelace", Email: "ada@example.com", Position: "Backend Engineer", ExperienceYears: 4, TechStack: []string{"Go"}},
		{Name: "Grace Hopper", Email: "grace@example.com", Position: "SRE", ExperienceYears: 8, TechStack: []string{"Go", "COBOL"}},
	} {
		record := r
		require.NoError(t, store.SaveCandidate(context.Background(), &record))
	}
	return cfg, store
}

func TestFindCandidate(t *testing.T) {
	_, store := seedStore(t)
	ctx := context.Background()

	found, err := findCandidate(ctx, store, "GRACE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", found.(*types.CandidateRecord).Name)

	records, err := store.LoadAll(ctx)
	require.NoError(t, err)
	found, err = findCandidate(ctx, store, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", found.(*types.CandidateRecord).Name)

	_, err = findCandidate(ctx, store, "TS000")
	assert.True(t, storage.IsNotFound(err))
}

func TestExportCandidates(t *testing.T) {
	_, store := seedStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("csv file", func(t *testing.T) {
		path := filepath.Join(dir, "candidates.csv")
		written, err := exportCandidates(ctx, store, common.NewOutputHandlerWithWriter(nil, &bytes.Buffer{}),
			common.CommandConfig{OutputFile: path, OutputFormat: "csv"})
		require.NoError(t, err)
		assert.Equal(t, path, written)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "Grace Hopper")
	})

	t.Run("xlsx file", func(t *testing.T) {
		written, err := exportCandidates(ctx, store, common.NewOutputHandlerWithWriter(nil, &bytes.Buffer{}),
			common.CommandConfig{OutputFile: filepath.Join(dir, "report"), OutputFormat: common.FormatXLSX})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "report.xlsx"), written)
		_, err = os.Stat(written)
		assert.NoError(t, err)
	})

	t.Run("xlsx needs output", func(t *testing.T) {
		_, err := exportCandidates(ctx, store, common.NewOutputHandlerWithWriter(nil, &bytes.Buffer{}),
			common.CommandConfig{OutputFormat: common.FormatXLSX})
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	})

	t.Run("markdown stdout", func(t *testing.T) {
		var buf bytes.Buffer
		written, err := exportCandidates(ctx, store, common.NewOutputHandlerWithWriter(nil, &buf),
			common.CommandConfig{OutputFormat: "markdown"})
		require.NoError(t, err)
		assert.Empty(t, written)
		assert.Contains(t, buf.String(), "| Grace Hopper |")
	})
}

func TestRunWithStoreStatistics(t *testing.T) {
	cfg, _ := seedStore(t)
	var buf bytes.Buffer

	err := runWithStore(context.Background(), cfg, errors.NewNopLogger(), &buf,
		func(ctx context.Context, store storage.Store, oh *common.OutputHandler) error {
			stats, err := store.Statistics(ctx)
			if err != nil {
				return err
			}
			return oh.HandleOutput(stats, common.CommandConfig{OutputFormat: "text"})
		})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Total candidates: 2")
	assert.Contains(t, buf.String(), "Average experience: 6 years")
	assert.Contains(t, buf.String(), "- Go: 2")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	if !strings.HasPrefix(buf.String(), "talentscout version "+Version) {
		t.Errorf("Expected version banner, got %q", buf.String())
	}
}
