// Package ratecache persists daily rate series between runs.
//
// Two backends implement finrep.RateCache: FileStore keeps a human readable,
// git friendly JSONL file per ticker, SQLStore keeps every ticker in a single
// SQLite table.
package ratecache

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/finrep/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// point is one line of a ticker file.
type point struct {
	On   date.Date   `json:"on"`
	Rate json.Number `json:"rate"`
}

// FileStore stores each ticker's series in "{dir}/{ticker}.jsonl", one
// chronological line per day.
type FileStore struct {
	dir string
	log zerolog.Logger
}

// NewFileStore returns a store in dir, creating it if needed.
func NewFileStore(dir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create rate cache folder %q: %w", dir, err)
	}
	return &FileStore{
		dir: dir,
		log: log.With().Str("component", "ratecache").Str("backend", "file").Logger(),
	}, nil
}

// filename escapes the ticker, "=" is kept for readability.
func (s *FileStore) filename(ticker string) string {
	return filepath.Join(s.dir, url.PathEscape(ticker)+".jsonl")
}

// Load reads the series of ticker. A missing file is an empty series.
func (s *FileStore) Load(_ context.Context, ticker string) (*date.History[decimal.Decimal], error) {
	h := new(date.History[decimal.Decimal])
	filename := s.filename(ticker)
	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	i := 0
	for scanner.Scan() {
		i++
		txt := scanner.Text()
		if strings.TrimSpace(txt) == "" {
			continue
		}
		var p point
		if err := json.Unmarshal([]byte(txt), &p); err != nil {
			return nil, fmt.Errorf("parse error %s:%v: %w", filename, i, err)
		}
		rate, err := decimal.NewFromString(p.Rate.String())
		if err != nil {
			return nil, fmt.Errorf("parse error %s:%v: invalid rate: %w", filename, i, err)
		}
		h.Append(p.On, rate)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", filename, err)
	}
	s.log.Debug().Str("ticker", ticker).Int("days", h.Len()).Msg("loaded")
	return h, nil
}

// Save replaces the file of ticker. The file is written aside, then renamed.
func (s *FileStore) Save(_ context.Context, ticker string, h *date.History[decimal.Decimal]) error {
	filename := s.filename(ticker)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("persist error: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for on, rate := range h.Values() {
		data, err := json.Marshal(point{On: on, Rate: json.Number(rate.String())})
		if err != nil {
			tmp.Close()
			return fmt.Errorf("persist error: cannot encode %s rate on %s: %w", ticker, on, err)
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("persist error: cannot write to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist error: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("persist error: %w", err)
	}
	s.log.Debug().Str("ticker", ticker).Int("days", h.Len()).Msg("saved")
	return nil
}
