// Command vrn-search runs one provider search from the command line, either
// against the configured record store or a saved record set.
//
// Usage:
//
//	go run ./cmd/vrn-search --location "gulf coast"
//	go run ./cmd/vrn-search --file testdata/records.json --json
//	go run ./cmd/vrn-search --categories
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/vrn-registry/internal/adapter/airtable"
	"github.com/couchcryptid/vrn-registry/internal/config"
	"github.com/couchcryptid/vrn-registry/internal/domain"
	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

type options struct {
	File       string        `long:"file" short:"f" description:"Read a saved record set instead of fetching from Airtable"`
	Disaster   string        `long:"disaster" short:"d" description:"Disaster category label (see --categories)"`
	Location   string        `long:"location" short:"l" description:"Region text to match, case-insensitive"`
	JSON       bool          `long:"json" description:"Print results as JSON"`
	Categories bool          `long:"categories" description:"List disaster categories and exit"`
	Timeout    time.Duration `long:"timeout" default:"30s" description:"Fetch timeout"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "vrn-search:", err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	if opts.Categories {
		for _, c := range domain.DisasterCategories() {
			fmt.Fprintln(out, c)
		}
		return nil
	}

	state := domain.NewSearchState()
	if strings.TrimSpace(opts.Disaster) != "" {
		disaster, err := domain.ParseDisasterCategory(opts.Disaster)
		if err != nil {
			return err
		}
		state = domain.Reduce(state, domain.SetDisaster{Disaster: disaster})
	}
	state = domain.Reduce(state, domain.SetLocation{Location: opts.Location})

	set, err := loadRecords(opts)
	if err != nil {
		return err
	}
	state = domain.Reduce(state, domain.Submit{Providers: domain.NormalizeRecordSet(set)})

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(state.Results)
	}
	return printTable(out, state.Results)
}

func loadRecords(opts options) (domain.RecordSet, error) {
	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return domain.RecordSet{}, fmt.Errorf("read records: %w", err)
		}
		return domain.DecodeRecordSet(data)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return domain.RecordSet{}, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := airtable.NewClient(airtable.SettingsFromConfig(cfg), logger)

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	return client.FetchRecords(ctx)
}

func printTable(out io.Writer, providers []domain.Provider) error {
	if len(providers) == 0 {
		_, err := fmt.Fprintln(out, "No providers match yet. Try a broader region.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tREGIONS\tMOBILIZATION\tBADGES\tPHONE\tEMAIL\tWEBSITE")
	for _, p := range providers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Name,
			p.Category,
			dash(p.Regions),
			dash(p.MobilizationWindow),
			dash(strings.Join(p.Badges, ", ")),
			dash(p.Phone),
			dash(p.Email),
			dash(p.Website),
		)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
