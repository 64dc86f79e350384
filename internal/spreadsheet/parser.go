package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrEmptySheet           = errors.New("sheet contains no data")
)

// Row - одна строка таблицы: имя колонки -> значение ячейки.
// Числа хранятся как float64, остальное как string. Пустые ячейки
// в запись не попадают (семантика sheet_to_json).
type Row = map[string]interface{}

// Ext возвращает нормализованное расширение файла без точки
func Ext(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

// Allowed проверяет расширение против списка разрешенных
func Allowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// Parse разбирает бинарное содержимое по расширению.
// Excel: только первый лист, первая строка - заголовки.
func Parse(fileName string, data []byte, allowedExts []string) ([]Row, error) {
	ext := Ext(fileName)
	if !Allowed(ext, allowedExts) {
		return nil, ErrUnsupportedExtension
	}

	switch ext {
	case "csv":
		return parseCSV(data)
	default:
		return parseExcel(data)
	}
}

func parseExcel(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	// Остальные листы молчаливо отбрасываются
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	return buildRecords(rows)
}

func parseCSV(data []byte) ([]Row, error) {
	// Срезаем UTF-8 BOM, который часто пишет сам Excel
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}

	return buildRecords(rows)
}

// buildRecords превращает сырые строки в записи по заголовкам
func buildRecords(rows [][]string) ([]Row, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	header := rows[0]
	records := make([]Row, 0, len(rows)-1)

	for _, raw := range rows[1:] {
		record := Row{}
		for i, cell := range raw {
			if i >= len(header) {
				break
			}
			col := strings.TrimSpace(header[i])
			if col == "" || cell == "" {
				continue
			}
			record[col] = coerce(cell)
		}
		if len(record) == 0 {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// coerce пытается разобрать значение как число, иначе оставляет строку.
// float64 выбран как единственный числовой тип: preview хранится в JSON,
// и после чтения из БД числа все равно становятся float64.
func coerce(s string) interface{} {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return s
}
