package transfer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"catalog-sync/core/reconcile"
)

// Projection rewrites a wide vendor file into the two-column SKU,value layout
// the feed reader expects, optionally keeping only some rows.
type Projection struct {
	SKUColumn   int
	ValueColumn int

	// FilterColumn is matched against FilterAny. Unused when FilterAny is empty.
	FilterColumn int
	// FilterAny keeps rows whose filter column contains any of these substrings.
	FilterAny []string
}

// ProjectionStats counts what happened to each input row.
type ProjectionStats struct {
	Kept      int
	Filtered  int
	Short     int
	Malformed int
}

// Apply reads src and writes the projected rows to dst with the same delimiter.
// Rows too short to hold the needed columns, and rows with broken quoting,
// are dropped and counted. Each physical line is one row.
func (p *Projection) Apply(src, dst string, delimiter rune) (ProjectionStats, error) {
	var stats ProjectionStats

	in, err := os.Open(src)
	if err != nil {
		return stats, &TransferError{Op: "project", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return stats, &TransferError{Op: "project", Path: dst, Err: err}
	}

	if delimiter == 0 {
		delimiter = ','
	}
	r := bufio.NewReader(in)

	w := csv.NewWriter(out)
	w.Comma = delimiter

	need := max(p.SKUColumn, p.ValueColumn)
	if len(p.FilterAny) > 0 {
		need = max(need, p.FilterColumn)
	}

	for {
		text, rerr := reconcile.ReadLine(r)
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			err = rerr
			break
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		record, serr := reconcile.SplitLine(text, delimiter)
		if serr != nil {
			stats.Malformed++
			continue
		}
		if len(record) <= need {
			stats.Short++
			continue
		}
		if len(p.FilterAny) > 0 && !containsAny(record[p.FilterColumn], p.FilterAny) {
			stats.Filtered++
			continue
		}
		if err = w.Write([]string{record[p.SKUColumn], record[p.ValueColumn]}); err != nil {
			break
		}
		stats.Kept++
	}

	w.Flush()
	if err == nil {
		err = w.Error()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return stats, &TransferError{Op: "project", Path: src, Err: err}
	}
	return stats, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
