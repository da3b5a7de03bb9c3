package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateStruct runs tag validation and folds failures into ErrValidation.
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
