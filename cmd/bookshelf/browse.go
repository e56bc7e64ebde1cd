package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RobBrazier/bookshelf/config"
	"github.com/RobBrazier/bookshelf/internal/library"
	"github.com/RobBrazier/bookshelf/internal/query"
	"github.com/RobBrazier/bookshelf/internal/render"
)

const helpText = `Commands:
  more            load the next page of books
  search <text>   show books whose title or author contains text
  clear           show every loaded book again
  sort <key>      none, title-asc, title-desc, date-asc or date-desc
  mode <mode>     grid or list
  help            show this help
  quit            leave the browser`

func browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse books interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := library.NewSession(uuid.NewString(), newClient(), config.PageSize(), 0)
			return browse(cmd.Context(), newShell(session, cmd.OutOrStdout()))
		},
	}
}

// shell maps REPL lines onto dispatcher commands for a single session.
type shell struct {
	dispatcher library.Dispatcher
	session    *library.Session
	out        io.Writer
}

func newShell(session *library.Session, out io.Writer) *shell {
	return &shell{
		dispatcher: library.NewDispatcher(),
		session:    session,
		out:        out,
	}
}

// execute runs one input line and reports whether the user asked to quit.
func (s *shell) execute(ctx context.Context, line string) (bool, error) {
	cmd, arg := library.ParseCommand(line)
	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		_, err := fmt.Fprintln(s.out, helpText)
		return false, err
	case library.CmdLoad:
		cmd = library.CmdView
	}
	return false, s.run(ctx, cmd, arg)
}

func (s *shell) run(ctx context.Context, cmd library.Command, arg string) error {
	view, err := s.dispatcher.Dispatch(ctx, s.session, cmd, arg)
	if err != nil {
		log.Debug().Err(err).Str("command", string(cmd)).Msg("command failed")
	}
	if err := render.Text(s.out, view); err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out)
	return err
}

func (s *shell) complete(line string) []string {
	name, arg, hasArg := strings.Cut(line, " ")
	if !hasArg {
		var out []string
		for _, cmd := range append(s.commands(), "help", "quit") {
			if strings.HasPrefix(cmd, strings.ToLower(name)) {
				out = append(out, cmd)
			}
		}
		return out
	}

	var options []string
	switch library.Command(strings.ToLower(name)) {
	case library.CmdSort:
		for _, key := range query.SortKeys {
			options = append(options, string(key))
		}
	case library.CmdMode:
		options = []string{string(library.ModeGrid), string(library.ModeList)}
	}
	var out []string
	for _, option := range options {
		if strings.HasPrefix(option, arg) {
			out = append(out, name+" "+option)
		}
	}
	return out
}

func (s *shell) commands() []string {
	var out []string
	for _, cmd := range s.dispatcher.Commands() {
		if cmd == library.CmdView || cmd == library.CmdLoad {
			continue
		}
		out = append(out, string(cmd))
	}
	slices.Sort(out)
	return out
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bookshelf_history")
}

func browse(ctx context.Context, s *shell) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(s.complete)

	history := historyPath()
	if f, err := os.Open(history); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if history == "" {
			return
		}
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	if err := s.run(ctx, library.CmdLoad, ""); err != nil {
		return err
	}

	for {
		input, err := line.Prompt("bookshelf> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		quit, err := s.execute(ctx, input)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}
