// Package export writes tabular admin data dumps. The exporter is an
// injected boundary so handlers stay format-agnostic; the shipped
// implementation streams CSV, the same way the spreadsheet dumps in the
// admin console are produced.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
)

// Exporter writes a header row followed by data rows.
type Exporter interface {
	// Export writes rows to w. ContentType and FileExt describe the
	// produced format for HTTP headers.
	Export(w io.Writer, header []string, rows [][]string) error
	ContentType() string
	FileExt() string
}

// CSV streams RFC 4180 output.
type CSV struct {
	// Comma overrides the field separator; zero keeps ','. French
	// spreadsheet locales often want ';'.
	Comma rune
}

func (e *CSV) Export(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if e.Comma != 0 {
		cw.Comma = e.Comma
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *CSV) ContentType() string { return "text/csv; charset=utf-8" }
func (e *CSV) FileExt() string     { return "csv" }

// ServeDownload writes rows as a file download response.
func ServeDownload(w http.ResponseWriter, ex Exporter, filename string, header []string, rows [][]string) error {
	w.Header().Set("Content-Type", ex.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.%s"`, filename, ex.FileExt()))
	return ex.Export(w, header, rows)
}
