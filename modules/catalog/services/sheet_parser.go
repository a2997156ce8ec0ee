package services

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/ingest"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/tag"
)

var (
	ErrEmptySheet           = errors.New("sheet contains no data rows")
	ErrMissingCommandColumn = errors.New("sheet is missing the required 'command' column")
)

// columnIndexes maps the recognized header columns to their positions.
// Unrecognized columns are ignored.
type columnIndexes struct {
	command     int
	description int
	example     int
	version     int
	tag         int
}

// SheetParser turns an uploaded CSV or XLSX stream into normalized rows.
// Malformed rows become ParseErrors; parsing continues past them.
type SheetParser struct{}

func NewSheetParser() *SheetParser {
	return &SheetParser{}
}

func (p *SheetParser) Parse(filename string, r io.Reader) ([]ingest.Row, []ingest.ParseError, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return p.parseXLSX(r)
	}
	return p.parseCSV(r)
}

func (p *SheetParser) parseCSV(r io.Reader) ([]ingest.Row, []ingest.ParseError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptySheet
	}
	if err != nil {
		return nil, nil, err
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		rows      []ingest.Row
		parseErrs []ingest.ParseError
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			parseErrs = append(parseErrs, ingest.ParseError{
				LineNo: csvErr.Line,
				Reason: csvErr.Err.Error(),
			})
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		// Physical file line, so quoted multi-line fields keep row numbers
		// aligned with csv.ParseError.Line.
		lineNo, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		row, perr := buildRow(lineNo, record, cols)
		if perr != nil {
			parseErrs = append(parseErrs, *perr)
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 && len(parseErrs) == 0 {
		return nil, nil, ErrEmptySheet
	}
	return rows, parseErrs, nil
}

func (p *SheetParser) parseXLSX(r io.Reader) ([]ingest.Row, []ingest.ParseError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptySheet
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptySheet
	}
	cols, err := mapHeader(records[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		rows      []ingest.Row
		parseErrs []ingest.ParseError
	)
	for i, record := range records[1:] {
		lineNo := i + 2
		if isBlank(record) {
			continue
		}
		row, perr := buildRow(lineNo, record, cols)
		if perr != nil {
			parseErrs = append(parseErrs, *perr)
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 && len(parseErrs) == 0 {
		return nil, nil, ErrEmptySheet
	}
	return rows, parseErrs, nil
}

func mapHeader(header []string) (columnIndexes, error) {
	cols := columnIndexes{command: -1, description: -1, example: -1, version: -1, tag: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "command":
			cols.command = i
		case "description":
			cols.description = i
		case "example":
			cols.example = i
		case "version":
			cols.version = i
		case "tag":
			cols.tag = i
		}
	}
	if cols.command < 0 {
		return columnIndexes{}, ErrMissingCommandColumn
	}
	return cols, nil
}

func buildRow(lineNo int, record []string, cols columnIndexes) (ingest.Row, *ingest.ParseError) {
	text := cell(record, cols.command)
	if text == "" {
		return ingest.Row{}, &ingest.ParseError{LineNo: lineNo, Reason: "empty command"}
	}
	return ingest.Row{
		LineNo:      lineNo,
		Command:     text,
		Description: optionalCell(record, cols.description),
		Example:     optionalCell(record, cols.example),
		Version:     optionalCell(record, cols.version),
		TagPath:     splitTagPath(cell(record, cols.tag)),
	}, nil
}

// splitTagPath splits on "/", normalizes each segment and drops empty ones.
func splitTagPath(raw string) []string {
	if raw == "" {
		return nil
	}
	var path []string
	for _, segment := range strings.Split(raw, "/") {
		if name := tag.NormalizeName(segment); name != "" {
			path = append(path, name)
		}
	}
	return path
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func optionalCell(record []string, idx int) *string {
	v := cell(record, idx)
	if v == "" {
		return nil
	}
	return &v
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
