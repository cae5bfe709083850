package filesource

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"gosurvey/domain/survey"
	"gosurvey/internal"
	"gosurvey/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader reads a CSV or XLSX survey export
type DataReader struct {
	filePath  string
	fileType  string // "xlsx" or "csv"
	encodings []Encoding
	log       *internal.Logger
}

// NewDataReader creates a reader for filePath. CSV files are decoded with each encoding in turn
// until one succeeds; with no encodings given, UTF-8 then Latin-1 is used.
func NewDataReader(filePath string, log *internal.Logger, encodings ...Encoding) *DataReader {
	fileType := "csv"
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		fileType = "xlsx"
	}
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	if log == nil {
		log = internal.DefaultLogger
	}
	return &DataReader{filePath: filePath, fileType: fileType, encodings: encodings, log: log}
}

// ReadTable reads the file into a response table
func (r *DataReader) ReadTable() (*survey.Table, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return survey.NewTable(data.Headers, data.Rows), nil
}

// ReadData reads and decodes the file. A missing file, or a file no encoding could decode,
// yields a SOURCE_UNAVAILABLE error.
func (r *DataReader) ReadData() (*RawData, error) {
	r.log.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.SourceUnavailable(r.filePath, fs.ErrNotExist)
		}
		return nil, errors.SourceUnavailable(r.filePath, err)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.SourceUnavailable(r.filePath, fmt.Errorf("unsupported file type: %s", r.fileType))
	}
}

// readExcelData reads the first sheet of a workbook
func (r *DataReader) readExcelData() (*RawData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.SourceUnavailable(r.filePath, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.SourceUnavailable(r.filePath, fmt.Errorf("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.SourceUnavailable(r.filePath, fmt.Errorf("failed to read %s: %w", sheets[0], err))
	}
	r.log.Debug("[DataReader] %s read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	data, err := r.processRows(rows)
	if err != nil {
		return nil, errors.SourceUnavailable(r.filePath, err)
	}
	return data, nil
}

// readCSVData decodes the file with each configured encoding until one parses
func (r *DataReader) readCSVData() (*RawData, error) {
	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, errors.SourceUnavailable(r.filePath, fmt.Errorf("failed to open CSV file: %w", err))
	}

	var lastErr error
	for _, enc := range r.encodings {
		data, err := r.parseCSV(raw, enc)
		if err == nil {
			data.Encoding = enc
			return data, nil
		}
		r.log.Warn("[DataReader] %s could not be read as %s: %v", r.filePath, enc, err)
		lastErr = err
	}
	return nil, errors.SourceUnavailable(r.filePath, lastErr)
}

func (r *DataReader) parseCSV(raw []byte, enc Encoding) (*RawData, error) {
	text, err := decode(raw, enc)
	if err != nil {
		return nil, errors.DecodeError(r.filePath, string(enc), err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.DecodeError(r.filePath, string(enc), err)
	}
	r.log.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	data, err := r.processRows(rows)
	if err != nil {
		return nil, errors.DecodeError(r.filePath, string(enc), err)
	}
	return data, nil
}

func decode(raw []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingUTF8:
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("invalid UTF-8 byte sequence")
		}
		return string(raw), nil
	case EncodingLatin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
}

// processRows splits the header row from the records
func (r *DataReader) processRows(rows [][]string) (*RawData, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	r.log.Info("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(rows)-1)

	return &RawData{
		Headers: headers,
		Rows:    rows[1:],
	}, nil
}
