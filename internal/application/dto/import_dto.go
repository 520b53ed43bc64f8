package dto

// ImportRowError fila rechazada en la carga masiva (fila 1-based de la hoja, la cabecera es la 1).
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportDuplicate fila omitida porque el registro ya existía.
type ImportDuplicate struct {
	Row int    `json:"row"`
	Key string `json:"key"`
}

// ImportSummary resultado de una carga masiva.
type ImportSummary struct {
	Total      int               `json:"total"`
	Created    int               `json:"created"`
	Duplicates []ImportDuplicate `json:"duplicates"`
	Errors     []ImportRowError  `json:"errors"`
}
