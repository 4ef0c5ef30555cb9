package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/cotton/internal/calc"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/repository"
	"github.com/alexanderramin/cotton/internal/service"
)

// Describe turns an error from a command into the line shown to the user.
func Describe(err error) string {
	var ve *domain.ValidationError
	var nf *service.NotFoundError
	var se *service.StorageError
	var ee *service.ExportError

	switch {
	case errors.As(err, &ve):
		if ve.Field == "kg" && (errors.Is(err, calc.ErrInvalidInput) || errors.Is(err, calc.ErrInvalidResult)) {
			return fmt.Sprintf("%s: use numbers and + - * / ( ), and the result must be a positive amount", ve.Msg)
		}
		return err.Error()
	case errors.As(err, &nf):
		return nf.Error()
	case errors.Is(err, service.ErrEmptySession):
		return "nothing to complete: the session has no entries"
	case errors.Is(err, service.ErrNothingToExport):
		return "nothing to export: history is empty"
	case errors.Is(err, repository.ErrConflict):
		return "the record was changed by another command while this one ran; nothing was saved, try again"
	case errors.As(err, &se):
		return fmt.Sprintf("%s failed; nothing was changed (%v)", se.Op, se.Err)
	case errors.As(err, &ee):
		return fmt.Sprintf("could not save the report: %v", ee.Err)
	}
	return err.Error()
}
