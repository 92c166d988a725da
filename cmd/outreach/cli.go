package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/hpungsan/outreach/internal/auth"
	"github.com/hpungsan/outreach/internal/config"
	"github.com/hpungsan/outreach/internal/contact"
	"github.com/hpungsan/outreach/internal/errors"
	"github.com/hpungsan/outreach/internal/logging"
	"github.com/hpungsan/outreach/internal/ops"
	"github.com/hpungsan/outreach/internal/web"
)

// appEnv carries the opened tracker and its collaborators into commands.
type appEnv struct {
	tracker *ops.Tracker
	cfg     *config.Config
	db      *sql.DB
	log     logging.Logger
}

// newCLIApp creates the CLI application with all commands.
// env may be nil when only help or version output is needed.
func newCLIApp(env *appEnv) *cli.App {
	app := &cli.App{
		Name:    "outreach",
		Usage:   "Contact outreach tracker",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(env),
			editCmd(env),
			showCmd(env),
			deleteCmd(env),
			listCmd(env),
			alertsCmd(env),
			bulkStatusCmd(env),
			bulkDeleteCmd(env),
			exportCmd(env),
			importCmd(env),
			serveCmd(env),
			signUpCmd(env),
			signInCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// contactFlags are shared by add and edit.
func contactFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Full name"},
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Job title"},
		&cli.StringFlag{Name: "company", Aliases: []string{"c"}, Usage: "Company"},
		&cli.StringFlag{Name: "linkedin", Aliases: []string{"l"}, Usage: "LinkedIn profile URL"},
		&cli.StringFlag{Name: "industry", Aliases: []string{"i"}, Usage: "Industry"},
		&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Pipeline status"},
		&cli.StringFlag{Name: "date-messaged", Usage: "Date first messaged (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "follow-up", Aliases: []string{"f"}, Usage: "Follow-up date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "notes", Usage: "Notes (markdown); use - to read from stdin"},
		&cli.StringFlag{Name: "connection", Usage: "Connection type"},
		&cli.BoolFlag{Name: "response-received", Usage: "The contact has replied"},
		&cli.BoolFlag{Name: "call-scheduled", Usage: "A call is booked"},
		&cli.StringFlag{Name: "call-date", Usage: "Call date (YYYY-MM-DD)"},
	}
}

// applyContactFlags overwrites the fields of in whose flags were given.
func applyContactFlags(c *cli.Context, in *contact.Input) error {
	strs := []struct {
		flag string
		dst  *string
	}{
		{"name", &in.Name},
		{"title", &in.Title},
		{"company", &in.Company},
		{"linkedin", &in.LinkedInURL},
		{"industry", &in.Industry},
		{"status", &in.Status},
		{"date-messaged", &in.DateMessaged},
		{"follow-up", &in.FollowUpDate},
		{"notes", &in.Notes},
		{"connection", &in.ConnectionType},
		{"call-date", &in.CallDate},
	}
	for _, s := range strs {
		if c.IsSet(s.flag) {
			*s.dst = c.String(s.flag)
		}
	}
	if c.IsSet("response-received") {
		in.ResponseReceived = c.Bool("response-received")
	}
	if c.IsSet("call-scheduled") {
		in.CallScheduled = c.Bool("call-scheduled")
	}

	if in.Notes == "-" {
		if !stdinHasData() {
			return errors.NewInvalidRequest("--notes - requires piped stdin")
		}
		notes, err := readStdin()
		if err != nil {
			return errors.NewInternal(err)
		}
		in.Notes = notes
	}
	return nil
}

// addCmd creates the add command.
func addCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a contact",
		Flags: contactFlags(),
		Action: func(c *cli.Context) error {
			var input contact.Input
			if err := applyContactFlags(c, &input); err != nil {
				return outputError(err)
			}

			output, err := env.tracker.Add(c.Context, ops.AddInput{Input: input})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// editCmd creates the edit command. Only the given flags change.
func editCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a contact; unspecified fields keep their values",
		ArgsUsage: "<id>",
		Flags:     contactFlags(),
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			current, err := env.tracker.Fetch(c.Context, ops.FetchInput{ID: id})
			if err != nil {
				return outputError(err)
			}

			input := contact.InputFrom(current.Contact)
			if err := applyContactFlags(c, &input); err != nil {
				return outputError(err)
			}

			output, err := env.tracker.Update(c.Context, ops.UpdateInput{ID: id, Fields: input})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one contact",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := env.tracker.Fetch(c.Context, ops.FetchInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently delete a contact",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := env.tracker.Delete(c.Context, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List contacts with search, filters and sorting",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Search name, title, company and notes"},
			&cli.StringSliceFlag{Name: "status", Aliases: []string{"s"}, Usage: "Status filter (repeatable)"},
			&cli.StringSliceFlag{Name: "industry", Aliases: []string{"i"}, Usage: "Industry filter (repeatable)"},
			&cli.StringFlag{Name: "follow-up", Aliases: []string{"f"}, Usage: "Follow-up window: all|today|overdue|week|none"},
			&cli.StringFlag{Name: "sort", Usage: "Sort field"},
			&cli.StringFlag{Name: "order", Usage: "Sort order: asc|desc"},
			&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "Page number"},
			&cli.IntFlag{Name: "page-size", Usage: "Contacts per page (default from config)"},
		},
		Action: func(c *cli.Context) error {
			output, err := env.tracker.List(c.Context, ops.ListInput{
				Search:     c.String("search"),
				Statuses:   c.StringSlice("status"),
				Industries: c.StringSlice("industry"),
				FollowUp:   c.String("follow-up"),
				Sort:       c.String("sort"),
				Order:      c.String("order"),
				Page:       c.Int("page"),
				PageSize:   c.Int("page-size"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// alertsCmd creates the alerts command.
func alertsCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "alerts",
		Usage: "Count overdue and due-today follow-ups",
		Action: func(c *cli.Context) error {
			output, err := env.tracker.Alerts(c.Context)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// bulkStatusCmd creates the bulk-status command.
func bulkStatusCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "bulk-status",
		Usage:     "Set the status of several contacts",
		ArgsUsage: "<id>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Required: true, Usage: "New status"},
		},
		Action: func(c *cli.Context) error {
			output, err := env.tracker.BulkUpdateStatus(c.Context, ops.BulkStatusInput{
				IDs:    c.Args().Slice(),
				Status: c.String("status"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// bulkDeleteCmd creates the bulk-delete command.
func bulkDeleteCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "bulk-delete",
		Usage:     "Permanently delete several contacts",
		ArgsUsage: "<id>...",
		Action: func(c *cli.Context) error {
			output, err := env.tracker.BulkDelete(c.Context, ops.BulkDeleteInput{IDs: c.Args().Slice()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all contacts to JSONL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "Output file path (default: ~/.outreach/exports/)"},
			&cli.StringFlag{Name: "label", Usage: "File name prefix for the default path"},
		},
		Action: func(c *cli.Context) error {
			output, err := env.tracker.Export(c.Context, ops.ExportInput{
				Path:  c.String("path"),
				Label: c.String("label"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import contacts from JSONL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Required: true, Usage: "Input file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := env.tracker.Import(c.Context, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command, which runs the web UI until
// interrupted.
func serveCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Listen address (default from config)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			cfg := *env.cfg
			if c.IsSet("bind") {
				cfg.Web.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				cfg.Web.Port = c.Int("port")
			}

			opts := web.Options{
				Tracker: env.tracker,
				Config:  &cfg,
				Log:     env.log,
				Version: Version,
			}
			if cfg.Auth.Required {
				svc, err := auth.NewService(env.db, cfg.Auth)
				if err != nil {
					return outputError(err)
				}
				opts.Auth = svc
			}

			srv, err := web.NewServer(opts)
			if err != nil {
				return outputError(err)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return web.Run(ctx, srv, env.log)
		},
	}
}

// signUpCmd creates the signup command.
func signUpCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Create a web UI account (password read from the terminal or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Usage: "Account email"},
		},
		Action: func(c *cli.Context) error {
			return withPassword(c, env, func(ctx context.Context, svc *auth.Service, password string) (*auth.Session, error) {
				return svc.SignUp(ctx, c.String("email"), password)
			})
		},
	}
}

// signInCmd creates the signin command.
func signInCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "signin",
		Usage: "Sign in and print a session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Usage: "Account email"},
		},
		Action: func(c *cli.Context) error {
			return withPassword(c, env, func(ctx context.Context, svc *auth.Service, password string) (*auth.Session, error) {
				return svc.SignIn(ctx, c.String("email"), password)
			})
		},
	}
}

func withPassword(c *cli.Context, env *appEnv, fn func(context.Context, *auth.Service, string) (*auth.Session, error)) error {
	svc, err := auth.NewService(env.db, env.cfg.Auth)
	if err != nil {
		return outputError(err)
	}

	password, err := readPassword(os.Stdin, os.Stderr)
	if err != nil {
		return outputError(errors.NewInvalidRequest(err.Error()))
	}

	session, err := fn(c.Context, svc, password)
	if err != nil {
		return outputError(err)
	}

	return outputJSON(session)
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var oErr *errors.OutreachError
	if stderrors.As(err, &oErr) {
		message := oErr.Message
		if err != error(oErr) {
			message = err.Error()
		}
		if fields := errors.FieldErrors(err); len(fields) > 0 {
			names := make([]string, 0, len(fields))
			for name := range fields {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				message += fmt.Sprintf("\n  %s: %s", name, fields[name])
			}
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", oErr.Code, message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// readPassword reads a password without echo from a terminal, or the first
// line of piped input otherwise.
func readPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("password is required")
	}
	return line, nil
}
