package freeapi

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const envelopeSchema = `{
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "object",
			"required": ["data"],
			"properties": {
				"data": {
					"type": "array",
					"items": {"type": "object"}
				}
			}
		}
	}
}`

var envelope = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(envelopeSchema))
	if err != nil {
		panic(err)
	}
	return schema
}()

func validateEnvelope(body []byte) error {
	result, err := envelope.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		var reasons []string
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(reasons, "; "))
	}
	return nil
}
