package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// CSVOptions controls CSV export.
type CSVOptions struct {
	// Header writes a column-name first row.
	Header bool
	// Segments adds a third column with the re-baseline segment.
	Segments bool
}

// WriteCSV writes one (timestamp, exp) row per entry in chronological order.
// Reading it back with ReadCSV yields the same entries.
func WriteCSV(w io.Writer, entries []domain.ExpHistoryEntry, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	if opts.Header {
		header := []string{ColumnTimestamp, ColumnExp}
		if opts.Segments {
			header = append(header, ColumnSegment)
		}
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgWriteCSV, err)
		}
	}
	for _, e := range entries {
		row := []string{
			e.Timestamp.UTC().Format(TimestampLayout),
			strconv.FormatInt(e.Exp, 10),
		}
		if opts.Segments {
			row = append(row, strconv.Itoa(e.Segment))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgWriteCSV, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteCSV, err)
	}
	return nil
}

// ReadCSV parses rows written by WriteCSV. A header row is skipped when
// present; the segment column is optional and defaults to 0.
func ReadCSV(r io.Reader) ([]domain.ExpHistoryEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var entries []domain.ExpHistoryEntry
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), ColumnTimestamp) {
			continue
		}

		e, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRow(rec []string) (domain.ExpHistoryEntry, error) {
	if len(rec) != 2 && len(rec) != 3 {
		return domain.ExpHistoryEntry{}, errors.New(ErrMsgBadColumnCount)
	}

	ts, err := time.Parse(TimestampLayout, strings.TrimSpace(rec[0]))
	if err != nil {
		return domain.ExpHistoryEntry{}, fmt.Errorf("%s: %w", ErrMsgBadTimestamp, err)
	}
	exp, err := strconv.ParseInt(strings.TrimSpace(rec[1]), 10, 64)
	if err != nil {
		return domain.ExpHistoryEntry{}, fmt.Errorf("%s: %w", ErrMsgBadExp, err)
	}

	e := domain.ExpHistoryEntry{Timestamp: ts, Exp: exp}
	if len(rec) == 3 {
		seg, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil {
			return domain.ExpHistoryEntry{}, fmt.Errorf("%s: %w", ErrMsgBadSegment, err)
		}
		e.Segment = seg
	}
	return e, nil
}

// WriteXLSX writes the entries as a single-sheet workbook with a gain column
// (difference to the previous entry of the same segment).
func WriteXLSX(w io.Writer, entries []domain.ExpHistoryEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteXLSX, err)
	}

	header := []interface{}{ColumnTimestamp, ColumnExp, ColumnGain, ColumnSegment}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteXLSX, err)
	}

	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(XLSXDateTimeStyle)})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteXLSX, err)
	}

	for i, e := range entries {
		var gain int64
		if i > 0 && entries[i-1].Segment == e.Segment {
			gain = e.Exp - entries[i-1].Exp
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgWriteXLSX, err)
		}
		row := []interface{}{e.Timestamp.UTC(), e.Exp, gain, e.Segment}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgWriteXLSX, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgWriteXLSX, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 22); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteXLSX, err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteXLSX, err)
	}
	return nil
}

func strPtr(s string) *string { return &s }
