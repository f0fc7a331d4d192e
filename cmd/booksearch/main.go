// Command booksearch runs a single Google Books search and prints the
// sorted results as a table.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bookstats/internal/app"
	"bookstats/internal/config"
	"bookstats/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

type options struct {
	configPath string
	sortKey    string
	ascending  bool
	descending bool
	maxResults int
	width      int
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "booksearch [query...]",
		Short:         "Search Google Books and print the results",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), strings.Join(args, " "), opts)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Load configuration from `FILE`")
	flags.StringVarP(&opts.sortKey, "sort", "s", "", "Sort by title, rating or author")
	flags.BoolVarP(&opts.ascending, "asc", "a", false, "Sort ascending")
	flags.BoolVarP(&opts.descending, "desc", "d", false, "Sort descending")
	flags.IntVarP(&opts.maxResults, "max", "n", 0, "Maximum number of results to request")
	flags.IntVar(&opts.width, "width", 0, "Table width (defaults to the terminal width)")
	cmd.MarkFlagsMutuallyExclusive("asc", "desc")

	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, query string, opts *options) error {
	configSvc := config.NewConfigServiceWithBus(nil, opts.configPath)
	cfg, err := configSvc.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if opts.maxResults > 0 {
		cfg.API.MaxResults = opts.maxResults
	}
	if opts.sortKey != "" {
		cfg.UI.DefaultSort = opts.sortKey
	}
	switch {
	case opts.ascending:
		cfg.UI.DefaultDirection = domain.Ascending.String()
	case opts.descending:
		cfg.UI.DefaultDirection = domain.Descending.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if query == "" {
		query = cfg.Search.DefaultQuery
	}

	log := app.NewLogger(cfg, stderr)

	client, err := app.NewClient(cfg, log)
	if err != nil {
		return err
	}

	ctrl := app.NewController(cfg, client, nil, log)
	volumes := ctrl.Search(ctx, query)
	if err := ctrl.Snapshot().LastError; err != nil {
		return fmt.Errorf("search %q failed: %w", query, err)
	}

	width := opts.width
	if width <= 0 {
		width = terminalWidth(stdout)
	}

	fmt.Fprintln(stdout, renderTable(volumes, width))
	fmt.Fprintf(stdout, "%d results for %q sorted by %s (%s)\n", len(volumes), query, cfg.SortKey(), cfg.SortDirection())
	return nil
}

// terminalWidth returns the width of w when it is a terminal, 0 otherwise
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func renderTable(volumes []domain.Volume, width int) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(volumes))
	for i, v := range volumes {
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			v.Title,
			v.AuthorLine(),
			v.CategoryLine(),
			v.RatingLabel(),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers("#", "Title", "Authors", "Categories", "Rating").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}
