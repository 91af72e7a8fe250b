package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"audio-extractor/domain/extraction"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// Exit codes by error kind
const (
	ExitOK                 = 0
	ExitError              = 1
	ExitInvalidInput       = 2
	ExitNotFound           = 3
	ExitPermissionDenied   = 4
	ExitRuntimeUnavailable = 5
	ExitExecutionFailed    = 6
	ExitTimeout            = 7
	ExitCanceled           = 130
)

// ExitCode maps an error kind to the process exit status
func ExitCode(kind extraction.ErrorKind) int {
	switch kind {
	case "":
		return ExitOK
	case extraction.KindInvalidInput, extraction.KindUnsupportedFormat:
		return ExitInvalidInput
	case extraction.KindNotFound:
		return ExitNotFound
	case extraction.KindPermissionDenied:
		return ExitPermissionDenied
	case extraction.KindRuntimeUnavailable:
		return ExitRuntimeUnavailable
	case extraction.KindExecutionFailed, extraction.KindOutputMissing, extraction.KindOutputEmpty:
		return ExitExecutionFailed
	case extraction.KindTimeout:
		return ExitTimeout
	case extraction.KindCanceled:
		return ExitCanceled
	default:
		return ExitError
	}
}

// reportedError carries an exit code for a failure the command already printed
type reportedError struct {
	code int
	err  error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(code int, err error) error {
	return &reportedError{code: code, err: err}
}

func isReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

func exitCode(err error) int {
	var r *reportedError
	if errors.As(err, &r) {
		return r.code
	}
	if kind := extraction.KindOf(err); kind != "" {
		return ExitCode(kind)
	}
	return ExitError
}

func writeJSON(out OutputWriter, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
