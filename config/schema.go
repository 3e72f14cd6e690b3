package config

import (
	"fmt"
	"strconv"

	"github.com/wippyai/move-patcher/errors"
)

type shape uint8

const (
	shapeAny       shape = iota // present, any value
	shapeString                 // non-empty string
	shapeStringMap              // object with string values
	shapeList                   // array of objects matching fields
)

type field struct {
	name   string
	shape  shape
	fields []field
}

var transformSchema = []field{
	{name: "outputDir", shape: shapeString},
	{name: "identifiers", shape: shapeStringMap},
	{name: "files", shape: shapeList, fields: []field{
		{name: "bytecodeInputFile", shape: shapeString},
		{name: "constants", shape: shapeList, fields: []field{
			{name: "moveType", shape: shapeString},
			{name: "oldVal", shape: shapeAny},
			{name: "newVal", shape: shapeAny},
		}},
	}},
}

// validate walks doc against schema and reports the first mismatch.
func validate(doc any, schema []field, path []string) error {
	obj, ok := doc.(map[string]any)
	if !ok {
		if len(path) == 0 {
			return errors.ConfigValidation(nil, "config must be an object")
		}
		return errors.ConfigValidation(path, "must be an object")
	}

	for _, f := range schema {
		fpath := append(append([]string(nil), path...), f.name)
		v, present := obj[f.name]
		if !present {
			return errors.ConfigValidation(fpath, fmt.Sprintf("missing %s", describe(f)))
		}

		switch f.shape {
		case shapeString:
			if s, ok := v.(string); !ok || s == "" {
				return errors.ConfigValidation(fpath, fmt.Sprintf("must be %s", describe(f)))
			}

		case shapeStringMap:
			m, ok := v.(map[string]any)
			if !ok {
				return errors.ConfigValidation(fpath, fmt.Sprintf("must be %s", describe(f)))
			}
			for _, k := range sortedKeys(m) {
				if _, ok := m[k].(string); !ok {
					return errors.ConfigValidation(append(fpath, k), "rename target must be a string")
				}
			}

		case shapeList:
			items, ok := v.([]any)
			if !ok {
				return errors.ConfigValidation(fpath, fmt.Sprintf("must be %s", describe(f)))
			}
			for i, item := range items {
				if err := validate(item, f.fields, append(fpath, strconv.Itoa(i))); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func describe(f field) string {
	switch f.shape {
	case shapeString:
		return "a non-empty string"
	case shapeStringMap:
		return "an object"
	case shapeList:
		return "an array"
	default:
		return "a value"
	}
}
