// Command scamcheck scores a message for scam risk, either with the built-in
// engine or against a running ScamGuard API.
//
//	scamcheck "You won a jackpot! Click here"
//	echo "..." | scamcheck --server http://localhost:8080 --channel sms --json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
	"github.com/krxsh13/ScamGuard/internal/domain/services/detection"
)

const maxStdinBytes = 1 << 20

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	server  string
	channel string
	json    bool
	timeout time.Duration
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("scamcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVarP(&opts.server, "server", "s", "", "ScamGuard API base URL (default: analyze locally)")
	fs.StringVarP(&opts.channel, "channel", "c", "", "source channel: text, sms, email, call")
	fs.BoolVar(&opts.json, "json", false, "print the result as JSON")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "remote request timeout")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: scamcheck [--server URL] [--channel sms] [--json] [text...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	text, err := readText(fs.Args(), stdin)
	if err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
		} else {
			fmt.Fprintf(stderr, "scamcheck: %v\n", err)
		}
		return 1
	}

	result, err := analyze(text, opts)
	if err != nil {
		fmt.Fprintf(stderr, "scamcheck: %v\n", err)
		return 1
	}

	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(stderr, "scamcheck: %v\n", err)
			return 1
		}
		return 0
	}

	printReport(stdout, result)
	return 0
}

// readText joins the positional args, or reads stdin when there are none
func readText(args []string, stdin io.Reader) (string, error) {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		data, err := io.ReadAll(io.LimitReader(stdin, maxStdinBytes))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return "", errUsage
	}
	return text, nil
}

func analyze(text string, opts options) (*models.AnalysisResult, error) {
	if opts.server == "" {
		result := detection.Analyze(text)
		return &result, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	rec, err := newRemoteClient(opts.server, opts.timeout).Analyze(ctx, text, models.ParseChannel(opts.channel))
	if err != nil {
		return nil, err
	}
	return &rec.Result, nil
}
