// Package spreadsheet lee archivos de carga masiva (.xlsx y .csv) como filas de texto.
// La primera fila devuelta es la cabecera.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Formatos soportados.
const (
	FormatXLSX = ".xlsx"
	FormatCSV  = ".csv"
)

// DefaultMaxSize tamaño de archivo asumido cuando el llamador no indica uno.
const DefaultMaxSize = 10 << 20

const (
	// unzipRatio acota el contenido descomprimido de un .xlsx respecto al tamaño del archivo.
	unzipRatio = 100
	// xmlInMemory hojas más grandes se descomprimen a disco.
	xmlInMemory = 16 << 20
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read lee r según la extensión de filename. maxSize es el tamaño máximo admitido del
// archivo (<= 0 usa DefaultMaxSize). Cualquier otra extensión es domain.ErrInvalidInput.
func Read(filename string, r io.Reader, maxSize int64) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case FormatXLSX:
		return ReadXLSX(r, maxSize)
	case FormatCSV:
		return ReadCSV(r)
	}
	return nil, fmt.Errorf("%w: formato de archivo no soportado (use .xlsx o .csv)", domain.ErrInvalidInput)
}

// ReadXLSX devuelve las filas de la primera hoja del libro. Un libro cuyo contenido
// descomprimido supere unzipRatio veces maxSize es domain.ErrInvalidInput.
func ReadXLSX(r io.Reader, maxSize int64) ([][]string, error) {
	f, err := excelize.OpenReader(r, unzipOptions(maxSize))
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx inválido: %v", domain.ErrInvalidInput, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: el libro no tiene hojas", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: leer hoja %s: %v", domain.ErrInvalidInput, sheets[0], err)
	}
	return rows, nil
}

func unzipOptions(maxSize int64) excelize.Options {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	limit := maxSize * unzipRatio
	return excelize.Options{UnzipSizeLimit: limit, UnzipXMLSizeLimit: min(limit, xmlInMemory)}
}

// ReadCSV lee un CSV separado por coma o punto y coma (Excel en español exporta con ';').
// Si el contenido no es UTF-8 válido se decodifica como ISO-8859-1.
func ReadCSV(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csv: leer: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		if raw, err = charmap.ISO8859_1.NewDecoder().Bytes(raw); err != nil {
			return nil, fmt.Errorf("%w: codificación no soportada", domain.ErrInvalidInput)
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = detectDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv inválido: %v", domain.ErrInvalidInput, err)
	}
	return rows, nil
}

// detectDelimiter elige ';' si aparece más que ',' en la primera línea.
func detectDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
