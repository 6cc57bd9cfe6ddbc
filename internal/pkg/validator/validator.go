package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a tagged struct and returns a single error naming every
// failed field, sorted for stable output. It is used for inputs that do not
// pass through gin's binding layer, such as seed fixtures.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	sort.Strings(msgs)
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, ", "))
}
