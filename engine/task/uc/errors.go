package uc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSourceNotFound   = errors.New("missing CSV file")
	ErrSourceUnreadable = errors.New("unable to load CSV")
	ErrSchemaInvalid    = errors.New("CSV schema invalid")
)

// SchemaError reports required header cells absent from the source.
type SchemaError struct {
	MissingColumns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("CSV missing required columns: %s", strings.Join(e.MissingColumns, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaInvalid
}
