package bdata

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/52Jolynn/bindb/data"
	"github.com/52Jolynn/bindb/file"
	"github.com/52Jolynn/bindb/mod"
)

const (
	//每读取多少行检查一次ctx
	contextCheckInterval = 1000
	//最多记录多少个被跳过的行号
	maxSkippedLines = 20
	//单行最大长度
	maxLineSize = 1024 * 1024
)

// LoadReport summarizes a finished load.
type LoadReport struct {
	Path         string
	Rows         int
	Skipped      int
	SkippedLines []int
}

// LoadFile reads the data file at path into an Index, one line per row.
// Rows with a syntax error, a wrong field count or an empty BIN are skipped
// and counted. Quoted fields may not span lines.
func LoadFile(ctx context.Context, fs afero.Fs, path string) (*Index, LoadReport, error) {
	report := LoadReport{Path: path}

	var (
		f        afero.File
		resolved string
		err      error
	)
	if f, resolved, err = file.Open(fs, path, data.DefaultDataFileName, data.DataFileExt); err != nil {
		return nil, report, newLoadError(path, "open", err)
	}
	defer f.Close()
	report.Path = resolved

	var records []mod.Record
	if records, err = read(ctx, f, &report); err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = resolved
			return nil, report, le
		}
		return nil, report, newLoadError(resolved, "read", err)
	}
	return NewIndex(records), report, nil
}

func read(ctx context.Context, r io.Reader, report *LoadReport) ([]mod.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		header  []string
		lineNum int
		err     error
	)
	for header == nil {
		if !scanner.Scan() {
			if err = scanner.Err(); err != nil {
				return nil, &LoadError{Op: "header", Err: err}
			}
			return nil, &LoadError{Op: "header", Err: errors.New("empty file")}
		}
		lineNum += 1
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if header, err = parseLine(line, -1); err != nil {
			return nil, &LoadError{Op: "header", Err: errors.Wrapf(err, "line %d", lineNum)}
		}
	}
	header = normalizeHeader(header)
	if err = checkHeader(header); err != nil {
		return nil, &LoadError{Op: "header", Err: err}
	}
	binColumn := indexOf(header, data.ColumnBIN)

	result := make([]mod.Record, 0, 4096)
	for scanner.Scan() {
		lineNum += 1
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if report.Rows%contextCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "load cancelled")
			}
		}
		report.Rows += 1

		//一行解析失败只跳过该行
		values, err := parseLine(line, len(header))
		if err != nil || values[binColumn] == "" {
			skip(report, lineNum)
			continue
		}
		result = append(result, mod.NewRecord(header, values))
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "load cancelled")
	}
	return result, nil
}

// parseLine splits one line into trimmed fields. fields < 0 accepts any count.
func parseLine(line string, fields int) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = fields
	values, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	return values, nil
}

func skip(report *LoadReport, line int) {
	report.Skipped += 1
	if len(report.SkippedLines) < maxSkippedLines {
		report.SkippedLines = append(report.SkippedLines, line)
	}
	logger.Debugf("skip malformed row, line: %d", line)
}

func normalizeHeader(header []string) []string {
	result := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		result[i] = strings.TrimSpace(name)
	}
	return result
}

func checkHeader(header []string) error {
	var missing []string
	for _, column := range data.RequiredColumns {
		if indexOf(header, column) < 0 {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("missing columns: %s", strings.Join(missing, ","))
	}
	return nil
}

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}
