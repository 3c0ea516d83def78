package serverutils

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var notebookIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidNotebookID reports whether a path parameter is a well-formed notebook
// id. Matches the "notebookid" struct tag used on request DTOs.
func ValidNotebookID(id string) bool {
	return notebookIDPattern.MatchString(id)
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("notebookid", func(fl validator.FieldLevel) bool {
			return notebookIDPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidateRequest validates a request DTO and flattens violations into a
// single user-readable message.
func ValidateRequest(req interface{}) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "notebookid":
			msgs = append(msgs, fmt.Sprintf("%s may only contain letters, numbers, dashes and underscores", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
