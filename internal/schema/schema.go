// Package schema validates extracted records against the published JSON Schema of entity.Record.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
)

const resourceName = "record.schema.json"

//go:embed record.schema.json
var recordSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// RecordSchema returns the raw schema document, e.g. for serving it to clients.
func RecordSchema() []byte {
	return append([]byte(nil), recordSchema...)
}

func load() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(resourceName, bytes.NewReader(recordSchema)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(resourceName)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Validate checks rec against the record schema. Violations are reported as common.ErrInvalidRecord.
func Validate(rec entity.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return ValidateJSON(data)
}

// ValidateJSON checks an already encoded record.
func ValidateJSON(data []byte) error {
	s, err := load()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: record does not match schema: %v", common.ErrInvalidRecord, err)
	}
	return nil
}
