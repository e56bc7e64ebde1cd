package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RobBrazier/bookshelf/config"
	"github.com/RobBrazier/bookshelf/internal/freeapi"
	"github.com/RobBrazier/bookshelf/internal/logger"
	"github.com/RobBrazier/bookshelf/internal/version"
)

var apiURL string
var pageSize int
var verbose bool

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := config.LoadConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	cmd := parser()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func parser() *cobra.Command {
	cmd := &cobra.Command{
		Use:              "bookshelf",
		Short:            "Browse the public books catalogue from the terminal",
		SilenceUsage:     true,
		Version:          version.Version,
		PersistentPreRun: setup,
	}
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", config.BooksURL(), "books endpoint of the catalogue API")
	cmd.PersistentFlags().IntVar(&pageSize, "page-size", config.PageSize(), "number of books requested per page")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "be more verbose by logging in debug mode")

	cmd.AddCommand(listCommand(), browseCommand(), versionCommand())
	return cmd
}

func setup(cmd *cobra.Command, args []string) {
	config.SetBooksURL(apiURL)
	config.SetPageSize(pageSize)

	logger.Setup(os.Stderr)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	log.Debug().Str("api_url", config.BooksURL()).Int("page_size", config.PageSize()).Msg("Configured client")
}

func newClient() *freeapi.Client {
	return freeapi.NewClient(
		config.BooksURL(),
		freeapi.WithRetries(config.FetchRetries()),
		freeapi.WithTimeout(config.FetchTimeout()),
		freeapi.WithRateLimit(config.FetchRPS()),
	)
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.UserAgent())
		},
	}
}
