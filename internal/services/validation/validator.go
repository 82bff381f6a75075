package validation

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema names for request payloads.
const (
	SchemaSignIn     = "signin"
	SchemaSignUp     = "signup"
	SchemaMovie      = "movie"
	SchemaPerson     = "person"
	SchemaReview     = "review"
	SchemaUser       = "user"
	SchemaID         = "id"
	SchemaPrivileges = "privileges"
	SchemaMovieIDs   = "movie_ids"
	SchemaUserCreate = "user_create"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Error is a payload that violates its schema.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed at '%s': %s", e.Path, e.Message)
}

// Validator validates request payloads against named JSON schemas.
type Validator interface {
	// Validate checks payload against the named schema. It returns *Error
	// for invalid or malformed payloads and a plain error for unknown schemas.
	Validate(schema string, payload []byte) error
}

// SchemaValidator implements Validator using santhosh-tekuri/jsonschema/v6.
// Schemas are compiled on first use and kept in an LRU cache.
type SchemaValidator struct {
	schemaCache *lru.Cache[string, *jsonschema.Schema]
}

// NewSchemaValidator creates a new validator with LRU caching for compiled schemas
func NewSchemaValidator(cacheSize int) (*SchemaValidator, error) {
	cache, err := lru.New[string, *jsonschema.Schema](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create schema cache: %w", err)
	}
	return &SchemaValidator{schemaCache: cache}, nil
}

// Validate implements Validator.
func (v *SchemaValidator) Validate(name string, payload []byte) error {
	schema, err := v.schema(name)
	if err != nil {
		return err
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return &Error{Path: "$", Message: "malformed JSON"}
	}

	if err := schema.Validate(instance); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func (v *SchemaValidator) schema(name string) (*jsonschema.Schema, error) {
	if cached, ok := v.schemaCache.Get(name); ok {
		return cached, nil
	}

	schema, err := compileSchema(name)
	if err != nil {
		return nil, err
	}
	v.schemaCache.Add(name, schema)
	return schema, nil
}

// compileSchema compiles an embedded schema file into a schema object
func compileSchema(name string) (*jsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)

	schemaURL := name + ".json"
	if err := compiler.AddResource(schemaURL, parsed); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// formatValidationError reports the deepest failing location,
// e.g. "validation failed at '$.nameRu': minLength: got 1, want 2".
func formatValidationError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &Error{Path: "$", Message: err.Error()}
	}

	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}

	path := "$"
	var parts []string
	for _, part := range leaf.InstanceLocation {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) > 0 {
		path = "$." + strings.Join(parts, ".")
	}

	msg := leaf.ErrorKind.LocalizedString(nil)
	if len(msg) > 200 {
		msg = msg[:200] + "... (truncated)"
	}
	return &Error{Path: path, Message: msg}
}

// CacheSize returns the number of compiled schemas held.
func (v *SchemaValidator) CacheSize() int {
	return v.schemaCache.Len()
}
