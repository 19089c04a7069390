package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"facilitydash/adapters/coercer"
	"facilitydash/domain/facility"
	"facilitydash/internal"
	"facilitydash/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Options controls how a table is read
type Options struct {
	// Encoding is an IANA charset name such as "ISO-8859-1"; empty means UTF-8.
	Encoding string
	// Coerce lists columns forced to numeric; unparseable cells become missing.
	Coerce []string
	// Sheet selects the XLSX sheet; empty means the first one.
	Sheet string
}

// Key identifies the options for caching purposes
func (o Options) Key() string {
	return fmt.Sprintf("enc=%s;coerce=%s;sheet=%s", strings.ToUpper(o.Encoding), strings.Join(o.Coerce, ","), o.Sheet)
}

// DataReader handles reading CSV and Excel files
type DataReader struct {
	filePath string
	fileType string // "csv" or "xlsx"
	opts     Options
	coercer  *coercer.TypeCoercer
}

// NewDataReader creates a reader; the file type comes from the extension
func NewDataReader(filePath string, opts Options) *DataReader {
	fileType := "csv"
	if ext := strings.ToLower(filepath.Ext(filePath)); ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		opts:     opts,
		coercer:  coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
	}
}

// Load reads a dataset from path. Every failure is a LoadError.
func Load(path string, opts Options) (*facility.Dataset, error) {
	return NewDataReader(path, opts).ReadData()
}

// ReadData reads the file into a Dataset
func (r *DataReader) ReadData() (*facility.Dataset, error) {
	internal.DefaultLogger.Debug("[DataReader] Reading %s file: %s", r.fileType, r.filePath)
	start := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, errors.LoadError(err)
	}

	ds, err := BuildDataset(rows, r.opts, r.coercer)
	if err != nil {
		return nil, errors.LoadError(err)
	}

	internal.DefaultLogger.Info("[DataReader] %s loaded in %.2fms (%d columns, %d rows)",
		r.filePath, float64(time.Since(start).Nanoseconds())/1e6, len(ds.Columns), ds.Len())
	return ds, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	in, err := decodingReader(file, r.opts.Encoding)
	if err != nil {
		return nil, err
	}
	return ReadCSV(in)
}

// ReadCSV parses delimited text. Short rows are padded later; long rows are an error.
func ReadCSV(in io.Reader) ([][]string, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no columns to parse from file")
	}
	rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")

	width := len(rows[0])
	for i, row := range rows[1:] {
		if len(row) > width {
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", i+2, width, len(row))
		}
	}
	return rows, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("no columns to parse from sheet %q", sheet)
	}

	// excelize trims trailing empty cells, so rows may be longer than the header
	width := len(rows[0])
	for i := range rows[1:] {
		if len(rows[i+1]) > width {
			rows[i+1] = rows[i+1][:width]
		}
	}
	return rows, nil
}

// BuildDataset turns a header row plus data rows into a typed Dataset
func BuildDataset(rows [][]string, opts Options, c *coercer.TypeCoercer) (*facility.Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	columns := dedupeHeaders(rows[0])
	width := len(columns)

	data := make([][]string, len(rows)-1)
	for i, row := range rows[1:] {
		cells := make([]string, width)
		copy(cells, row)
		data[i] = cells
	}

	coerce := make(map[string]bool, len(opts.Coerce))
	for _, name := range opts.Coerce {
		coerce[name] = true
	}

	kinds := make([]facility.ColumnKind, width)
	numbers := make([][]float64, width)
	column := make([]string, len(data))
	for j, name := range columns {
		for i := range data {
			column[i] = data[i][j]
		}
		if coerce[name] {
			kinds[j] = facility.KindNumeric
		} else {
			kinds[j] = c.AnalyzeTypeDistribution(column).RecommendedKind
		}
		if kinds[j] == facility.KindNumeric {
			numbers[j] = c.CoerceColumn(column)
		}
	}

	records := make([]facility.Record, len(data))
	for i, cells := range data {
		nums := make([]float64, width)
		for j := range nums {
			if numbers[j] != nil {
				nums[j] = numbers[j][i]
			} else {
				nums[j] = math.NaN()
			}
		}
		records[i] = facility.Record{Cells: cells, Numbers: nums}
	}

	return facility.NewDataset(columns, kinds, records), nil
}

// dedupeHeaders trims header names and suffixes repeats as "Name.1", "Name.2"
func dedupeHeaders(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		}
		if _, ok := seen[name]; !ok {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}
