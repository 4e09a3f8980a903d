package finrep

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
)

// Journals are JSONL files: one JSON object per line, empty lines ignored.

func init() {
	// amounts are written as JSON numbers, both forms are read
	decimal.MarshalJSONWithoutQuotes = true
}

// decodeLines decodes every line of r into a T.
func decodeLines[T any](r io.Reader) ([]T, error) {
	var list []T
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, fmt.Errorf("line %d: cannot decode %q: %w", n, string(line), err)
		}
		list = append(list, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// DecodeRecords reads valued records. Unrecognized currencies are rejected.
func DecodeRecords(r io.Reader, currencies Currencies) ([]ValuedRecord, error) {
	records, err := decodeLines[ValuedRecord](r)
	if err != nil {
		return nil, err
	}
	return records, ValidateRecords(records, currencies)
}

// DecodeTrades reads investment trades. Unrecognized currencies are rejected.
func DecodeTrades(r io.Reader, currencies Currencies) ([]Trade, error) {
	trades, err := decodeLines[Trade](r)
	if err != nil {
		return nil, err
	}
	for i, t := range trades {
		if err := currencies.Validate(t.Currency, fmt.Sprintf("trade #%d (%s %s)", i+1, t.Date, t.Instrument)); err != nil {
			return nil, err
		}
	}
	return trades, nil
}

// DecodeAssets reads asset snapshots. Unrecognized currencies are rejected.
func DecodeAssets(r io.Reader, currencies Currencies) ([]AssetSnapshot, error) {
	assets, err := decodeLines[AssetSnapshot](r)
	if err != nil {
		return nil, err
	}
	if _, err := SnapshotRecords(assets, currencies); err != nil {
		return nil, err
	}
	return assets, nil
}

// EncodeRecords writes records in JSONL format.
func EncodeRecords(w io.Writer, records []ValuedRecord) error {
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	return nil
}

// LoadFile opens filename and decodes it with decode.
func LoadFile[T any](filename string, currencies Currencies, decode func(io.Reader, Currencies) ([]T, error)) ([]T, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open journal %q: %w", filename, err)
	}
	defer f.Close()
	list, err := decode(f, currencies)
	if err != nil {
		return nil, fmt.Errorf("could not decode journal %q: %w", filename, err)
	}
	return list, nil
}
