package analyzer

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

// generateSchema reflects a JSON schema for T suitable for structured
// output. References are inlined and additional properties rejected so
// the model cannot drift from the declared shape.
func generateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var chunkAnalysisSchema = generateSchema[ChunkAnalysis]()

// chunkAnalysisResponseFormat constrains completions to the ChunkAnalysis
// schema. Endpoints that ignore response_format still tend to emit JSON,
// which the fallback parser handles.
func chunkAnalysisResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        "chunk_analysis",
				Description: openai.String("Structured analysis of a section of a Chinese novel"),
				Schema:      chunkAnalysisSchema,
				Strict:      openai.Bool(true),
			},
		},
	}
}
