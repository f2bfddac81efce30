package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"talentscout/internal/errors"
	"talentscout/internal/interview"
	"talentscout/internal/prompts"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run a screening interview in the terminal",
	Long: `Run an interactive screening interview on stdin/stdout.

Type your answers at the prompt. Say "bye" (or exit, quit, goodbye, end, stop)
to end the interview early. Commands:
  /progress          Show collected details and progress
  /export [file]     Save the transcript (default name under the transcript dir)
  /reset             Discard this interview and start a new one
  /help              Show this help

Logs go to stderr so the conversation on stdout stays readable.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

var chatLanguage string

func init() {
	chatCmd.Flags().StringVarP(&chatLanguage, "language", "l", "", "Interview language: English, Hindi, Spanish, French or German (default from config)")

	_ = chatCmd.RegisterFlagCompletionFunc("language", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(prompts.Languages))
		for _, lang := range prompts.Languages {
			names = append(names, string(lang))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	baseLogger := getLoggerFromContext(cmd.Context())

	logger, err := errors.NewLoggerWithWriter(cfg.App.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		logger = baseLogger
	}

	var lang prompts.Language
	if chatLanguage != "" {
		parsed, ok := prompts.ParseLanguage(chatLanguage)
		if !ok {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("unsupported language: %s", chatLanguage), nil)
		}
		lang = parsed
	}

	events := make(chan interview.Event, 32)
	comps, err := buildComponents(cmd.Context(), cfg, logger, nil, events)
	if err != nil {
		return err
	}
	defer func() {
		if err := comps.Close(); err != nil {
			logger.LogError(err, "Failed to close components")
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go logEvents(ctx, events, logger)

	repl := newChatREPL(comps.Engine, lang, cmd.InOrStdin(), cmd.OutOrStdout())
	return repl.Run(ctx)
}

// logEvents reports engine events at debug level until ctx is done
func logEvents(ctx context.Context, events <-chan interview.Event, logger *errors.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			args := []any{"session_id", ev.SessionID, "stage", string(ev.Stage), "detail", ev.Detail}
			if ev.Err != nil {
				args = append(args, "error", ev.Err.Error())
			}
			logger.Debug("Interview event: "+string(ev.Type), args...)
		}
	}
}

// chatREPL drives one terminal interview at a time
type chatREPL struct {
	engine  *interview.Engine
	lang    prompts.Language
	in      *bufio.Scanner
	out     io.Writer
	session *interview.Session
}

func newChatREPL(engine *interview.Engine, lang prompts.Language, in io.Reader, out io.Writer) *chatREPL {
	if in == nil {
		in = os.Stdin
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &chatREPL{engine: engine, lang: lang, in: scanner, out: out}
}

// Run greets the candidate and processes lines until EOF or ctx is done
func (c *chatREPL) Run(ctx context.Context) error {
	if err := c.start(ctx); err != nil {
		return err
	}

	for {
		fmt.Fprint(c.out, "\nYou: ")
		if !c.in.Scan() {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if err := c.command(ctx, line); err != nil {
				return err
			}
			continue
		}
		c.send(ctx, line)
	}
}

func (c *chatREPL) start(ctx context.Context) error {
	c.session = c.engine.NewSession(c.lang)
	turn, err := c.engine.Start(ctx, c.session)
	if err != nil {
		return err
	}
	c.printTurn(turn)
	return nil
}

func (c *chatREPL) send(ctx context.Context, line string) {
	turn, err := c.engine.HandleMessage(ctx, c.session, line)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeSessionComplete {
			fmt.Fprintln(c.out, "The interview is complete. Use /export to save the transcript or /reset to start again.")
			return
		}
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	c.printTurn(turn)
	if turn.Complete {
		fmt.Fprintln(c.out, "\n[Interview complete. /export saves the transcript, /reset starts a new interview, Ctrl-D quits.]")
	}
}

func (c *chatREPL) command(ctx context.Context, line string) error {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/progress":
		c.printProgress()
	case "/export":
		path, err := c.engine.ExportTranscript(c.session, arg)
		if err != nil {
			fmt.Fprintf(c.out, "Export failed: %v\n", err)
			return nil
		}
		fmt.Fprintf(c.out, "Transcript saved to %s\n", path)
	case "/reset":
		fmt.Fprintln(c.out, "Starting a new interview.")
		return c.start(ctx)
	case "/help":
		fmt.Fprintln(c.out, "Commands: /progress, /export [file], /reset, /help")
	default:
		fmt.Fprintf(c.out, "Unknown command %s. Type /help for the list.\n", name)
	}
	return nil
}

func (c *chatREPL) printTurn(turn interview.Turn) {
	fmt.Fprintf(c.out, "\nAssistant: %s\n", turn.Reply)
	for _, s := range turn.Suggestions {
		fmt.Fprintf(c.out, "  (did you mean %q instead of %q?)\n", s.Suggestion, s.Input)
	}
	for _, w := range turn.Warnings {
		fmt.Fprintf(c.out, "  Warning: %s\n", w)
	}
}

func (c *chatREPL) printProgress() {
	snap := c.session.Snapshot()
	fmt.Fprintf(c.out, "Stage: %s\n", snap.Stage)
	fmt.Fprintf(c.out, "Progress: %d/%d (%.0f%%)\n", snap.Progress.Completed, snap.Progress.Total, snap.Progress.Percent)

	r := snap.Record
	rows := [][2]string{
		{"Name", r.Name},
		{"Email", r.Email},
		{"Phone", r.Phone},
		{"Position", r.Position},
		{"Location", r.Location},
		{"Tech stack", strings.Join(r.TechStack, ", ")},
	}
	for _, row := range rows {
		if row[1] != "" {
			fmt.Fprintf(c.out, "  %s: %s\n", row[0], row[1])
		}
	}
	if snap.TotalQuestions > 0 {
		fmt.Fprintf(c.out, "  Technical questions answered: %d/%d\n", len(r.TechnicalQA), snap.TotalQuestions)
	}
	if snap.SentimentTrend != "" {
		fmt.Fprintf(c.out, "  Sentiment trend: %s\n", snap.SentimentTrend)
	}
}
