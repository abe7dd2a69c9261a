package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-authgate/crowdauth/crowd"
	"github.com/go-authgate/crowdauth/internal/config"
	"github.com/go-authgate/crowdauth/internal/metrics"
	"github.com/go-authgate/crowdauth/internal/version"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crowdauth", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "Show version information")
	fs.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	// Show version and exit if requested
	if *showVersion {
		version.WriteVersion(stdout)
		return exitOK
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	// Handle subcommands
	switch rest[0] {
	case "authenticate":
		return runAuthenticate(rest[1:], stdin, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", rest[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: crowdauth [OPTIONS] COMMAND\n\n")
	fmt.Fprintln(w, "Authenticate a user against the Crowd identity service")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  authenticate [-p password] <username>    Verify a user's credentials")
	fmt.Fprintln(w, "\nOptions:")
	fmt.Fprintln(w, "  -v, --version    Show version information")
	fmt.Fprintln(w, "  -h, --help       Show this help message")
	fmt.Fprintln(w, "\nEnvironment:")
	fmt.Fprintln(w, "  CROWD_URL, CROWD_APP_NAME, CROWD_APP_PASSWORD, CROWD_TIMEOUT,")
	fmt.Fprintln(w, "  CROWD_INSECURE_SKIP_VERIFY, CROWD_USER_PASSWORD, METRICS_ENABLED, METRICS_TEXTFILE")
}

func runAuthenticate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("authenticate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	password := fs.String("p", "", "User password (default: CROWD_USER_PASSWORD or stdin)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		printUsage(stderr)
		return exitUsage
	}
	username := fs.Arg(0)

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return exitUsage
	}

	if cfg.CrowdInsecureSkipVerify {
		log.Printf("WARNING: TLS verification is disabled (CROWD_INSECURE_SKIP_VERIFY=true)")
	}

	client, err := crowd.NewClient(
		cfg.CrowdURL,
		cfg.CrowdAppName,
		cfg.CrowdAppPassword,
		crowd.WithTimeout(cfg.CrowdTimeout),
		crowd.WithInsecureSkipVerify(cfg.CrowdInsecureSkipVerify),
		crowd.WithRecorder(metrics.Init(cfg.MetricsEnabled)),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create Crowd client: %v\n", err)
		return exitUsage
	}

	pw, err := resolvePassword(*password, cfg.UserPassword, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to read password: %v\n", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := authenticate(ctx, client, username, pw, stdout)

	if cfg.MetricsEnabled {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Printf("[Metrics] %v", err)
		} else {
			log.Printf("[Metrics] Wrote metrics to %s", cfg.MetricsTextfile)
		}
	}
	return code
}

// authenticate verifies the credentials with provider and prints the outcome
func authenticate(
	ctx context.Context,
	provider crowd.AuthProvider,
	username, password string,
	stdout io.Writer,
) int {
	result, err := provider.Verify(ctx, username, password)
	if err != nil {
		fmt.Fprintf(stdout, "Authentication failed (%s): %s\n", crowd.Kind(err), username)
		return exitFailure
	}

	fmt.Fprintf(stdout, "Authenticated via %s: %s\n", provider.Name(), result.Username)
	fmt.Fprintf(stdout, "Display name: %s\n", result.DisplayName)
	fmt.Fprintf(stdout, "Email: %s\n", result.Email)
	return exitOK
}

// resolvePassword picks the flag value, then the environment fallback,
// then the first line of stdin.
func resolvePassword(flagValue, envValue string, stdin io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envValue != "" {
		return envValue, nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no password provided")
	}
	return line, nil
}
