package usecase

import (
	"errors"

	"github.com/riskibarqy/fpl-monthly/internal/domain/league"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrSourceUnavailable = league.ErrSourceUnavailable
	ErrSchemaInvalid     = league.ErrSchemaInvalid
)

// SchemaError is returned for uploads missing canonical columns.
type SchemaError = league.SchemaError
