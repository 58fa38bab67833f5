package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/validata-io/validata/internal/cli/output"
	"github.com/validata-io/validata/internal/dialogue"
	"github.com/validata-io/validata/internal/ingest"
)

// NewChatCommand creates the interactive chat command.
func NewChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactively profile and validate files",
		Long: `Chat starts a guided session: point it at a file, say what you want
(profile, validate, or both), answer a question or two, and get the
report. Dot commands: .help, .format FORMAT, .reset, .quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			return runChat(cmd, cc)
		},
	}
}

func newChatCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".format",
			readline.PcItem("table"),
			readline.PcItem("markdown"),
			readline.PcItem("json"),
		),
		readline.PcItem(".reset"),
		readline.PcItem(".quit"),
		readline.PcItem("profile"),
		readline.PcItem("validate"),
		readline.PcItem("both"),
	)
}

func runChat(cmd *cobra.Command, cc *CommandContext) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "validata> ",
		HistoryFile:     filepath.Join(os.TempDir(), ".validata_chat_history"),
		AutoComplete:    newChatCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "bye",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chat: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	session := dialogue.NewSession()
	fmt.Fprintln(out, "Which file should I look at? (.help for commands)")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleChatCommand(out, session, line); quit {
				break
			}
			continue
		}

		step := session.Input(line)
		if step.Prompt != "" {
			fmt.Fprintln(out, step.Prompt)
		}
		if step.Action == dialogue.ActionNone {
			continue
		}
		if err := runChatAction(cmd, cc, step); err != nil {
			fmt.Fprintf(out, "that didn't work: %v\n", err)
		}
		fmt.Fprintln(out, "Anything else? Give me another file path, or .quit.")
	}
	return nil
}

// handleChatCommand executes a dot command and reports whether the
// session should end.
func handleChatCommand(out io.Writer, session *dialogue.Session, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".quit", ".exit":
		return true
	case ".reset":
		session.Reset()
		fmt.Fprintln(out, "Starting over. Which file should I look at?")
	case ".format":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: .format table|markdown|json")
			return false
		}
		switch fields[1] {
		case "table", "markdown", "json":
			session.SetFormat(fields[1])
			fmt.Fprintf(out, "output format set to %s\n", fields[1])
		default:
			fmt.Fprintf(out, "unknown format %s\n", fields[1])
		}
	case ".help":
		fmt.Fprintln(out, "Give me a file path, then tell me to profile it, validate it, or both.")
		fmt.Fprintln(out, "Commands: .format FORMAT, .reset, .quit")
	default:
		fmt.Fprintf(out, "unknown command %s\n", fields[0])
	}
	return false
}

func runChatAction(cmd *cobra.Command, cc *CommandContext, step dialogue.Step) error {
	tbl, err := ingest.ReadCSV(step.File)
	if err != nil {
		return err
	}

	r, err := output.NewRenderer(step.Options.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if step.Action == dialogue.ActionRunProfile || step.Action == dialogue.ActionRunBoth {
		prof, err := cc.Engine.Profile(cmd.Context(), tbl, step.Options.SampleRows)
		if err != nil {
			return err
		}
		if err := r.Profile(prof); err != nil {
			return err
		}
	}
	if step.Action == dialogue.ActionRunValidation || step.Action == dialogue.ActionRunBoth {
		report, err := cc.Engine.Validate(cmd.Context(), tbl, step.Target)
		if err != nil {
			return err
		}
		if err := r.Report(report); err != nil {
			return err
		}
	}
	return nil
}
