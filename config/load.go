package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/move-patcher/errors"
)

// Format is a config document syntax.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the document format from a file name.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads, parses and validates the config file at path.
// A file that cannot be read is reported as a parse error.
func Load(path string) (*TransformConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigParse(path, err)
	}
	cfg, err := Parse(data, FormatFor(path))
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.File == "" {
			e.File = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates a config document.
func Parse(data []byte, format Format) (*TransformConfig, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if err := validate(doc, transformSchema, nil); err != nil {
		return nil, err
	}
	return build(doc.(map[string]any)), nil
}

func decode(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatYAML:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, errors.ConfigParse("", err)
		}
		v, err := yamlValue(&root)
		if err != nil {
			return nil, errors.ConfigParse("", err)
		}
		doc = v
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.ConfigParse("", err)
		}
		if dec.More() {
			return nil, errors.ConfigParse("", fmt.Errorf("unexpected data after top-level value"))
		}
	}
	return doc, nil
}

// yamlValue converts a YAML node into the shape encoding/json produces with
// UseNumber: string-keyed maps, []any, and json.Number for integers so values
// wider than 64 bits keep full precision.
func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0, yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return yamlMapping(n)
	case yaml.ScalarNode:
		if isYAMLInteger(n) {
			return yamlInt(n)
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

func yamlMapping(n *yaml.Node) (map[string]any, error) {
	out := make(map[string]any, len(n.Content)/2)
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.ShortTag() == "!!merge" {
			merges = append(merges, v)
			continue
		}
		key := k.Value
		if k.Kind != yaml.ScalarNode {
			kv, err := yamlValue(k)
			if err != nil {
				return nil, err
			}
			key = fmt.Sprint(kv)
		}
		val, err := yamlValue(v)
		if err != nil {
			return nil, err
		}
		out[key] = val
	}

	// explicit keys win over merged ones
	for _, m := range merges {
		src, err := yamlValue(m)
		if err != nil {
			return nil, err
		}
		maps, ok := src.([]any)
		if !ok {
			maps = []any{src}
		}
		for _, mv := range maps {
			mm, ok := mv.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("line %d: merge value is not a mapping", m.Line)
			}
			for k, v := range mm {
				if _, exists := out[k]; !exists {
					out[k] = v
				}
			}
		}
	}
	return out, nil
}

// integerLiteral matches plain integer scalars. yaml.v3 resolves integers
// wider than 64 bits to !!float, so the tag alone is not enough.
var integerLiteral = regexp.MustCompile(`^[-+]?(0x[0-9a-fA-F_]+|0o[0-7_]+|0b[01_]+|[0-9][0-9_]*)$`)

func isYAMLInteger(n *yaml.Node) bool {
	if n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return false
	}
	switch n.ShortTag() {
	case "!!int":
		return true
	case "!!float":
		return integerLiteral.MatchString(n.Value)
	}
	return false
}

func yamlInt(n *yaml.Node) (any, error) {
	var i int64
	if err := n.Decode(&i); err == nil {
		return json.Number(strconv.FormatInt(i, 10)), nil
	}
	var u uint64
	if err := n.Decode(&u); err == nil {
		return json.Number(strconv.FormatUint(u, 10)), nil
	}
	b, ok := new(big.Int).SetString(strings.TrimPrefix(n.Value, "+"), 0)
	if !ok {
		return nil, fmt.Errorf("line %d: invalid integer %q", n.Line, n.Value)
	}
	return json.Number(b.String()), nil
}

// build maps a validated document onto the typed config.
func build(doc map[string]any) *TransformConfig {
	cfg := &TransformConfig{
		OutputDir:   doc["outputDir"].(string),
		Identifiers: make(map[string]string),
	}
	for k, v := range doc["identifiers"].(map[string]any) {
		cfg.Identifiers[k] = v.(string)
	}
	for _, f := range doc["files"].([]any) {
		fm := f.(map[string]any)
		ft := FileTransform{
			BytecodeInputFile: fm["bytecodeInputFile"].(string),
			Constants:         []ConstantPatch{},
		}
		for _, c := range fm["constants"].([]any) {
			cm := c.(map[string]any)
			ft.Constants = append(ft.Constants, ConstantPatch{
				MoveType: cm["moveType"].(string),
				OldVal:   cm["oldVal"],
				NewVal:   cm["newVal"],
			})
		}
		cfg.Files = append(cfg.Files, ft)
	}
	return cfg
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
