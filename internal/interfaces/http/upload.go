package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Auditoria-api/internal/domain"
	"github.com/jhoicas/Auditoria-api/internal/infrastructure/spreadsheet"
)

// uploadField nombre del campo multipart con el archivo de carga masiva.
const uploadField = "file"

// readUpload lee el archivo .xlsx/.csv del campo "file" como filas de texto.
func readUpload(c *fiber.Ctx, maxSize int64) ([][]string, error) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return nil, fmt.Errorf("%w: se requiere un archivo en el campo '%s'", domain.ErrInvalidInput, uploadField)
	}
	if maxSize > 0 && fh.Size > maxSize {
		return nil, fmt.Errorf("%w: el archivo supera %d bytes", domain.ErrInvalidInput, maxSize)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir archivo subido: %w", err)
	}
	defer f.Close()
	return spreadsheet.Read(fh.Filename, f, maxSize)
}
