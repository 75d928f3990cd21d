// Command genfixture converts a spreadsheet export (CSV) into a record set
// fixture in the same JSON shape the record store returns, for tests and
// offline searches with vrn-search --file.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  --csv providers.csv \
//	  --out internal/directory/testdata/records.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/vrn-registry/internal/domain"
	flags "github.com/jessevdk/go-flags"
)

type options struct {
	CSV         string   `long:"csv" required:"true" description:"Input CSV with a header row of column names"`
	Out         string   `long:"out" required:"true" description:"Output path for the JSON record set"`
	Multi       []string `long:"multi" default:"Regions Served" default:"Badges Earned" description:"Columns whose cells hold ';'-separated lists (repeatable)"`
	CreatedTime string   `long:"created-time" default:"2025-08-01T00:00:00Z" description:"createdTime stamped on every record"`
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

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	created, err := time.Parse(time.RFC3339, opts.CreatedTime)
	if err != nil {
		return fmt.Errorf("invalid --created-time: %w", err)
	}

	f, err := os.Open(opts.CSV)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	set, err := convert(f, opts.Multi, created)
	if err != nil {
		return fmt.Errorf("processing %s: %w", opts.CSV, err)
	}

	providers := domain.NormalizeRecordSet(set)
	log.Printf("records: %d (%d with a provider name)", len(set.Records), len(providers))

	if err := writeJSON(opts.Out, set); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", opts.Out)
	return nil
}

// convert reads CSV rows into records. Empty cells are omitted, matching how
// the record store leaves blank fields out of a record.
func convert(r io.Reader, multi []string, created time.Time) (domain.RecordSet, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return domain.RecordSet{}, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return domain.RecordSet{}, errors.New("no data rows")
	}

	isMulti := make(map[string]bool, len(multi))
	for _, col := range multi {
		isMulti[col] = true
	}

	header := rows[0]
	set := domain.RecordSet{Records: make([]domain.Record, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		fields := domain.RawRecord{}
		for j, col := range header {
			if j >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[j])
			if cell == "" {
				continue
			}
			if isMulti[col] {
				fields[col] = splitList(cell)
				continue
			}
			fields[col] = cell
		}
		set.Records = append(set.Records, domain.Record{
			ID:          fmt.Sprintf("rec%05d", i+1),
			CreatedTime: created.Format(time.RFC3339),
			Fields:      fields,
		})
	}
	return set, nil
}

func splitList(cell string) []any {
	parts := strings.Split(cell, ";")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
