package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/RobBrazier/bookshelf/config"
	"github.com/RobBrazier/bookshelf/internal/feed"
	"github.com/RobBrazier/bookshelf/internal/library"
	"github.com/RobBrazier/bookshelf/internal/model"
	"github.com/RobBrazier/bookshelf/internal/render"
)

type listOptions struct {
	pages       int
	parallelism int
	search      string
	sort        string
	mode        string
	format      string
}

func listCommand() *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch pages of books and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), cmd.OutOrStdout(), os.Stderr, newClient(), opts)
		},
	}
	cmd.Flags().IntVarP(&opts.pages, "pages", "n", 1, "number of pages to fetch")
	cmd.Flags().IntVarP(&opts.parallelism, "parallelism", "p", 4, "how many pages to fetch at once")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "only show books whose title or author contains this text")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "sort order: title-asc, title-desc, date-asc or date-desc")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(library.ModeList), "display mode: grid or list")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json, rss or atom")
	return cmd
}

func runList(ctx context.Context, out, progress io.Writer, source library.Source, opts listOptions) error {
	if opts.pages < 1 {
		return fmt.Errorf("%w: --pages must be at least 1", library.ErrInvalidPage)
	}
	session := library.NewSession(uuid.NewString(), source, config.PageSize(), 0)

	bar := progressbar.NewOptions(opts.pages,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Fetching pages"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	pager := library.NewPager(source, session.Collection(), config.PageSize(),
		library.WithParallelism(opts.parallelism))
	_, err := pager.FetchPages(ctx, 1, opts.pages, func() { bar.Add(1) })
	bar.Finish()
	if err != nil && session.Collection().Len() == 0 {
		return err
	}

	dispatcher := library.NewDispatcher()
	view, derr := dispatcher.Dispatch(ctx, session, library.CmdMode, opts.mode)
	if derr != nil {
		return derr
	}
	if opts.sort != "" {
		if view, derr = dispatcher.Dispatch(ctx, session, library.CmdSort, opts.sort); derr != nil {
			return derr
		}
	}
	if opts.search != "" {
		view, _ = dispatcher.Dispatch(ctx, session, library.CmdSearch, opts.search)
	}
	if err != nil {
		view.Outcome = library.OutcomeFetchFailed
		view.Message = fmt.Sprintf("Some pages could not be loaded: %v", err)
	}
	return writeView(out, opts.format, view)
}

func writeView(out io.Writer, format string, view library.Render) error {
	switch format {
	case "text":
		if err := render.Text(out, view); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out)
		return err
	case "json":
		books := view.Books
		if books == nil {
			books = []model.Book{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(books)
	case "rss", "atom":
		built, err := feed.NewBuilder().Build(view, config.BooksURL())
		if err != nil {
			return err
		}
		return feed.Write(out, feed.ParseFormat(format), built)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
