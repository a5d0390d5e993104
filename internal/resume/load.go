package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads and validates a YAML portfolio.
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio %q: %w", path, err)
	}

	data, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("portfolio %q: %w", path, err)
	}
	return data, nil
}

// Parse decodes YAML portfolio data. Unknown fields are rejected so typos in
// the source file surface early.
func Parse(raw []byte) (*Data, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	var data Data
	if err := decoder.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("portfolio is empty")
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if err := Validate(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate checks the struct tags of the portfolio and reports every failing
// field in one error.
func Validate(data *Data) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validate portfolio: %w", err)
	}

	problems := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid portfolio: %s", strings.Join(problems, "; "))
}
