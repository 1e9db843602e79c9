package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var compiled sync.Map // schema name -> *jsonschema.Schema

// check validates raw output against s. A nil schema accepts anything.
func check(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &SchemaError{Raw: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}
	sch, err := compile(s)
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return &SchemaError{Raw: raw, Err: err}
	}
	return nil
}

func compile(s *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(s.Name); ok {
		return v.(*jsonschema.Schema), nil
	}
	// Round-trip so numbers and nested maps take the shapes the compiler
	// expects from decoded JSON.
	b, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}

	url := "mem://llm/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	compiled.Store(s.Name, sch)
	return sch, nil
}
