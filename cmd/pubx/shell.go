package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/matsen/pubx/internal/dataset"
	"github.com/matsen/pubx/internal/session"
	"github.com/matsen/pubx/internal/viz"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(shellCmd)
}

var shellCmd = &cobra.Command{
	Use:   "shell [FILE]",
	Short: "Explore a table interactively",
	Long: `Start an interactive session. Commands are read one per line from stdin;
type 'help' for the list.

The session keeps one dataset and one selection. Filters always apply to the
whole dataset; 'clear' selects every row again; 'normalize' rewrites authors
and venues and also selects every row.

Example session:
  pubx shell papers.csv
  > normalize
  > filter author=lovelace year=2020
  > stats 5
  > export ada-2020.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	sh := newShell(session.New(logger), os.Stdout)
	defer sh.sess.Close()
	atExit = append(atExit, func() { sh.sess.Close() })

	if len(args) == 1 {
		if err := sh.exec("load " + quoteArg(args[0])); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	}
	return sh.run(os.Stdin, true)
}

// errQuit ends the read loop.
var errQuit = errors.New("quit")

// shell runs line commands against one session.
type shell struct {
	sess       *session.Session
	out        io.Writer
	topAuthors int
	title      string
	format     string
}

func newShell(s *session.Session, out io.Writer) *shell {
	return &shell{
		sess:       s,
		out:        out,
		topAuthors: cfg.TopAuthors,
		title:      cfg.ChartTitle,
		format:     cfg.ExportFormat,
	}
}

// run reads commands until EOF or quit. Command errors are printed and the
// loop continues.
func (sh *shell) run(in io.Reader, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(sh.out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		err := sh.exec(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
	if prompt {
		fmt.Fprintln(sh.out)
	}
	return scanner.Err()
}

// exec runs one command line.
func (sh *shell) exec(line string) error {
	if w := strings.Fields(line); len(w) > 0 && strings.EqualFold(w[0], "sql") {
		return sh.sql(rawRemainder(line))
	}

	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	name, rest := strings.ToLower(args[0]), args[1:]
	switch name {
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
		return nil
	case "quit", "exit":
		return errQuit
	case "load":
		return sh.load(rest)
	}

	if !sh.sess.Loaded() {
		if _, known := shellCommands[name]; known {
			return session.ErrNoDataset
		}
		return fmt.Errorf("unknown command %q (type 'help')", args[0])
	}
	switch name {
	case "status":
		return sh.status()
	case "normalize":
		return sh.normalize()
	case "filter":
		return sh.filter(rest)
	case "clear":
		return sh.clear()
	case "show":
		return sh.show(rest)
	case "stats":
		return sh.stats(rest)
	case "viz":
		return sh.viz(rest)
	case "export":
		return sh.export(rest)
	default:
		return fmt.Errorf("unknown command %q (type 'help')", args[0])
	}
}

// shellCommands are the commands that need a loaded dataset.
var shellCommands = map[string]struct{}{
	"status": {}, "normalize": {}, "filter": {}, "clear": {},
	"show": {}, "stats": {}, "viz": {}, "export": {}, "sql": {},
}

const shellHelp = `Commands:
  load FILE                  load a CSV or JSONL table
  status                     show the file, row counts and active filter
  normalize                  standardize authors and venues, select all rows
  filter KEY=VALUE ...       select rows; keys: title, author, year, venue
  clear                      select all rows
  show [N]                   list up to N selected rows (default 20)
  stats [K]                  per-year counts and top K authors
  viz FILE [K]               write HTML charts for the selected rows
  export FILE [FORMAT]       save the selected rows (csv, jsonl, bibtex)
  sql QUERY                  run SQL over the selected rows (table: publications)
  help                       show this help
  quit                       leave the shell
`

func (sh *shell) load(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load FILE")
	}
	st, err := sh.sess.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Loaded %s (%s)\n", st.File, formatCount(st.Records, "record"))
	if len(st.Missing) > 0 {
		fmt.Fprintf(sh.out, "Missing columns: %s\n", strings.Join(st.Missing, ", "))
	}
	return nil
}

func (sh *shell) status() error {
	st, err := sh.sess.Status()
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "File: %s\n", st.File)
	fmt.Fprintf(sh.out, "Rows: %d of %d selected\n", st.Visible, st.Records)
	fmt.Fprintf(sh.out, "Filter: %s\n", describeCriteria(st.Filter))
	return nil
}

func (sh *shell) normalize() error {
	stats, err := sh.sess.Normalize()
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Normalized %s and %s; all %s selected\n",
		formatCount(stats.AuthorsChanged, "author value"),
		formatCount(stats.VenuesChanged, "venue value"),
		formatCount(sh.sess.View().Len(), "row"))
	return nil
}

func (sh *shell) filter(args []string) error {
	c, err := parseCriteria(args)
	if err != nil {
		return err
	}
	n, err := sh.sess.ApplyFilter(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%s match\n", formatCount(n, "record"))
	return nil
}

func (sh *shell) clear() error {
	n, err := sh.sess.ClearFilter()
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Filter cleared; %s selected\n", formatCount(n, "record"))
	return nil
}

func (sh *shell) show(args []string) error {
	limit, err := optionalInt(args, 20)
	if err != nil {
		return err
	}
	records, err := sh.sess.Records()
	if err != nil {
		return err
	}
	total := len(records)
	if limit > 0 && total > limit {
		records = records[:limit]
	}
	printRecordTable(sh.out, records)
	if len(records) < total {
		fmt.Fprintf(sh.out, "... %d more\n", total-len(records))
	}
	return nil
}

func (sh *shell) stats(args []string) error {
	k, err := optionalInt(args, sh.topAuthors)
	if err != nil {
		return err
	}
	summary, err := sh.sess.Summary(k)
	if err != nil {
		return err
	}
	return viz.RenderText(sh.out, viz.BuildCharts(summary, sh.title), viz.DefaultTextWidth)
}

func (sh *shell) viz(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: viz FILE [K]")
	}
	k, err := optionalInt(args[1:], sh.topAuthors)
	if err != nil {
		return err
	}
	charts, err := sh.sess.Charts(k, sh.title)
	if err != nil {
		return err
	}
	html, err := viz.GenerateHTML(charts, viz.DefaultOptions())
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}
	if err := os.WriteFile(args[0], []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Fprintf(sh.out, "Visualization written to %s\n", args[0])
	return nil
}

func (sh *shell) export(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: export FILE [csv|jsonl|bibtex]")
	}
	explicit := ""
	if len(args) == 2 {
		explicit = args[1]
	}
	format, err := resolveExportFormat(explicit, explicit != "", args[0], sh.format)
	if err != nil {
		return err
	}
	n, err := sh.sess.Export(args[0], format)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Exported %s to %s\n", formatCount(n, "record"), args[0])
	return nil
}

func (sh *shell) sql(query string) error {
	if !sh.sess.Loaded() {
		return session.ErrNoDataset
	}
	if query == "" {
		return errors.New("usage: sql QUERY")
	}
	res, err := sh.sess.Query(context.Background(), query)
	if err != nil {
		return err
	}
	printResultTable(sh.out, res)
	return nil
}

// rawRemainder returns line without its first word, unsplit, so SQL
// keeps its own quoting.
func rawRemainder(line string) string {
	line = strings.TrimSpace(line)
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(line[i:])
}

// parseCriteria parses key=value pairs into filter criteria.
func parseCriteria(args []string) (dataset.Criteria, error) {
	var c dataset.Criteria
	if len(args) == 0 {
		return c, errors.New("usage: filter KEY=VALUE ... (keys: title, author, year, venue)")
	}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return c, fmt.Errorf("expected KEY=VALUE, got %q", arg)
		}
		switch strings.ToLower(key) {
		case "title":
			c.Title = value
		case "author", "authors":
			c.Authors = value
		case "year":
			c.Year = value
		case "venue":
			c.Venue = value
		default:
			return c, fmt.Errorf("unknown filter key %q (keys: title, author, year, venue)", key)
		}
	}
	return c, nil
}

// optionalInt parses args[0] as a positive integer, or returns def when absent.
func optionalInt(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected arguments: %s", strings.Join(args[1:], " "))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive number, got %q", args[0])
	}
	return n, nil
}

// splitArgs splits a command line into words with shell quoting rules.
// A word starting with # begins a comment.
func splitArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, err
	}
	return args, nil
}

// quoteArg quotes s so that splitArgs returns it as one argument.
func quoteArg(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
