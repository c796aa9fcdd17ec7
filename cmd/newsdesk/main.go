package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/johnrirwin/newsdesk/internal/api"
	"github.com/johnrirwin/newsdesk/internal/apiclient"
	"github.com/johnrirwin/newsdesk/internal/app"
	"github.com/johnrirwin/newsdesk/internal/config"
	"github.com/johnrirwin/newsdesk/internal/logging"
)

const reloginHint = "Oturum sona erdi. Tekrar giriş yapın: newsdesk login -u <kullanıcı>"

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
	exitAuth  = 3
)

var errUsage = errors.New("usage")

func main() {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Getenv, os.Stdin, os.Stdout, os.Stderr))
}

// cli carries what every command needs
type cli struct {
	app    *app.App
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	getenv func(string) string
}

func run(ctx context.Context, args []string, getenv func(string) string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("newsdesk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr, fs) }

	cfg, err := config.LoadFromArgs(fs, args, getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr, fs)
		return exitUsage
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", rest[0])
		usage(stderr, fs)
		return exitUsage
	}

	a, err := app.NewWithLogger(cfg, cliLogger(getenv, stderr))
	if err != nil {
		fmt.Fprintf(stderr, "newsdesk: %v\n", err)
		return exitError
	}
	defer a.Shutdown(context.Background())

	c := &cli{
		app:    a,
		in:     bufio.NewReader(stdin),
		out:    stdout,
		errOut: stderr,
		getenv: getenv,
	}

	if !cmd.public && !a.AuthService.IsAuthenticated() {
		fmt.Fprintln(stderr, "Giriş yapılmamış. Önce: newsdesk login -u <kullanıcı>")
		return exitAuth
	}

	return c.report(cmd.run(ctx, c, rest[1:]))
}

// report turns a command error into a message and an exit code
func (c *cli) report(err error) int {
	var apiErr *apiclient.APIError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return exitUsage
	case errors.Is(err, apiclient.ErrSessionInvalidated):
		fmt.Fprintln(c.errOut, reloginHint)
		return exitAuth
	case errors.Is(err, api.ErrInvalidArgument):
		fmt.Fprintf(c.errOut, "newsdesk: %v\n", err)
		return exitUsage
	case errors.Is(err, apiclient.ErrUnexpectedContent):
		fmt.Fprintf(c.errOut, "newsdesk: backend returned a web page instead of data (%v)\n", err)
		return exitError
	case errors.As(err, &apiErr) && apiErr.Message != "":
		fmt.Fprintf(c.errOut, "newsdesk: %s (HTTP %d)\n", apiErr.Message, apiErr.StatusCode)
		return exitError
	default:
		fmt.Fprintf(c.errOut, "newsdesk: %v\n", err)
		return exitError
	}
}

// cliLogger keeps library logging quiet unless LOG_LEVEL asks otherwise
func cliLogger(getenv func(string) string, w io.Writer) *logging.Logger {
	level := logging.LevelWarn
	if v := getenv("LOG_LEVEL"); v != "" {
		level = logging.ParseLevel(v)
	}
	return logging.NewWithOptions(logging.Options{Level: level, Format: getenv("LOG_FORMAT"), Output: w})
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: newsdesk [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-15s %s\n", name, commands[name].summary)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}

// readLine prompts on errOut and reads one trimmed line from in
func (c *cli) readLine(prompt string) (string, error) {
	fmt.Fprint(c.errOut, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
