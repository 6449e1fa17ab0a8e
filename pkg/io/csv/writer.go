// Package csv exports labeled transfer records to CSV for further analysis.
package csv

import (
	"encoding/csv"
	"os"
	"strconv"

	guardio "github.com/hed1ad/transferguard/pkg/io"
)

// Writer writes labeled records to a CSV file. Noise assignments are written
// as -1, the conventional sentinel in tabular exports.
type Writer struct {
	file   *os.File
	writer *csv.Writer
}

// NewWriter creates the output file and writes the header row.
func NewWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		file:   file,
		writer: csv.NewWriter(file),
	}

	header := []string{
		"id",
		"ext_id",
		"file_len",
		"ext_danger",
		"success",
		"transfer_start_ms",
		"transfer_finish_ms",
		"transfer_delta_s",
		"cluster",
	}
	if err := w.writer.Write(header); err != nil {
		file.Close()
		return nil, err
	}

	return w, nil
}

// Write outputs one labeled record.
func (w *Writer) Write(result guardio.Result) error {
	cluster := "-1"
	if id, ok := result.Assignment.Cluster(); ok {
		cluster = strconv.Itoa(id)
	}

	rec := result.Record
	row := []string{
		result.ID,
		strconv.Itoa(rec.ExtID),
		strconv.Itoa(rec.FileLen),
		strconv.FormatFloat(rec.ExtDanger, 'g', -1, 64),
		strconv.Itoa(rec.Success),
		strconv.FormatInt(rec.TransferStartMS, 10),
		strconv.FormatInt(rec.TransferFinishMS, 10),
		strconv.FormatFloat(rec.TransferDeltaS, 'g', -1, 64),
		cluster,
	}

	return w.writer.Write(row)
}

// WriteAll outputs multiple results.
func (w *Writer) WriteAll(results []guardio.Result) error {
	for _, result := range results {
		if err := w.Write(result); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (w *Writer) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
