package convert

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/multierr"
)

// BatchVersion is the only supported input envelope version.
const BatchVersion = 1

var utf8BOM = []byte("\xef\xbb\xbf")

//go:embed schema.json
var batchSchema []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(batchSchema))
})

// validateBatch checks input against embedded envelope schema, all violations
// are reported.
func validateBatch(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		// embedded schema is always valid
		panic(fmt.Sprintf("unable to load batch schema: %v", err))
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("unable to validate batch: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var errs error
	for _, e := range result.Errors() {
		errs = multierr.Append(errs, errors.New(e.String()))
	}
	return fmt.Errorf("batch does not conform to schema: %w", errs)
}

// decodeBatch parses input envelope. Documents without id get a random one.
func decodeBatch(data []byte, validate bool) (*Batch, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if validate {
		if err := validateBatch(data); err != nil {
			return nil, err
		}
	}

	var b Batch
	dec := json.NewDecoder(bytes.NewReader(data))
	if validate {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("unable to decode batch: %w", err)
	}
	if b.Version != BatchVersion {
		return nil, fmt.Errorf("unsupported batch version %d", b.Version)
	}
	for i := range b.Documents {
		if b.Documents[i].ID == "" {
			b.Documents[i].ID = uuid.NewString()
		}
	}
	return &b, nil
}
