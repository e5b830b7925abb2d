// Package openapi builds the OpenAPI 3.1 document describing the auth API.
package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

const (
	errorResponseRef = "#/components/schemas/ErrorResponse"
	loginResponseRef = "#/components/schemas/LoginResponse"
)

// Document returns the API description. serverURL may be empty.
func Document(version, serverURL string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "Silo Auth API",
			Description: "API key and RSA key pair registry with encrypted-credential login.",
			Version:     version,
		},
		Components: componentsPtr(),
		Paths:      openapi3.NewPaths(),
	}
	if serverURL != "" {
		doc.Servers = openapi3.Servers{{URL: serverURL}}
	}

	doc.Paths.Set("/auth/login", &openapi3.PathItem{Post: &openapi3.Operation{
		Tags:        []string{"auth"},
		Summary:     "Log in with encrypted credentials",
		Description: "Decrypts the username and password with the private key bound to the API key and issues a JWT.",
		OperationID: "login",
		RequestBody: jsonBody("Encrypted credentials", "#/components/schemas/LoginRequest"),
		Responses:   newResponses("200", "Login successful", openapi3.NewSchemaRef(loginResponseRef, nil), "400", "401", "500"),
	}})

	doc.Paths.Set("/auth/signup", &openapi3.PathItem{Post: &openapi3.Operation{
		Tags:        []string{"auth"},
		Summary:     "Sign up with an API key",
		OperationID: "signup",
		RequestBody: jsonBody("API key", "#/components/schemas/SignupRequest"),
		Responses:   newResponses("200", "Signup successful", openapi3.NewSchemaRef(loginResponseRef, nil), "400", "401", "500"),
	}})

	doc.Paths.Set("/auth/create-keypair", &openapi3.PathItem{Post: &openapi3.Operation{
		Tags:        []string{"keypair"},
		Summary:     "Issue an RSA key pair for an API key",
		Description: "Generates a 2048-bit key pair. Only the public key is returned.",
		OperationID: "createKeyPair",
		Security:    &openapi3.SecurityRequirements{{"apiKey": []string{}}},
		RequestBody: jsonBody("API key to bind", "#/components/schemas/CreateKeyPairRequest"),
		Responses:   newResponses("201", "Key pair created", openapi3.NewSchemaRef("#/components/schemas/KeyPairResponse", nil), "400", "401", "409", "500"),
	}})

	doc.Paths.Set("/auth/session", &openapi3.PathItem{Get: &openapi3.Operation{
		Tags:        []string{"auth"},
		Summary:     "Describe the session of a bearer token",
		OperationID: "session",
		Security:    &openapi3.SecurityRequirements{{"bearerAuth": []string{}}},
		Responses:   newResponses("200", "Token claims", openapi3.NewSchemaRef("#/components/schemas/SessionResponse", nil), "401"),
	}})

	doc.Paths.Set("/health", &openapi3.PathItem{Get: &openapi3.Operation{
		Tags:        []string{"system"},
		Summary:     "Health check",
		OperationID: "health",
		Responses:   newResponses("200", "Service is healthy", openapi3.NewSchemaRef("#/components/schemas/HealthResponse", nil), "503"),
	}})

	return doc
}

func componentsPtr() *openapi3.Components {
	c := openapi3.NewComponents()
	c.SecuritySchemes = openapi3.SecuritySchemes{
		"bearerAuth": &openapi3.SecuritySchemeRef{
			Value: openapi3.NewJWTSecurityScheme(),
		},
		"apiKey": &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{
				Type: "apiKey",
				In:   "header",
				Name: "X-API-Key",
			},
		},
	}
	c.Schemas = openapi3.Schemas{
		"LoginRequest": object(map[string]*openapi3.Schema{
			"apikey":            openapi3.NewStringSchema().WithMaxLength(255),
			"encryptedUsername": openapi3.NewStringSchema().WithFormat("byte"),
			"encryptedPassword": openapi3.NewStringSchema().WithFormat("byte"),
		}, "apikey", "encryptedUsername", "encryptedPassword"),
		"SignupRequest": object(map[string]*openapi3.Schema{
			"apikey": openapi3.NewStringSchema().WithMaxLength(255),
		}, "apikey"),
		"CreateKeyPairRequest": object(map[string]*openapi3.Schema{
			"apikey": openapi3.NewStringSchema().WithMaxLength(255),
		}, "apikey"),
		"LoginResponse": object(map[string]*openapi3.Schema{
			"token":   openapi3.NewStringSchema(),
			"message": openapi3.NewStringSchema(),
		}, "token", "message"),
		"KeyPairResponse": object(map[string]*openapi3.Schema{
			"id":             openapi3.NewInt64Schema(),
			"apikey":         openapi3.NewStringSchema(),
			"publicKey":      openapi3.NewStringSchema(),
			"isActive":       openapi3.NewBoolSchema(),
			"failedAttempts": openapi3.NewIntegerSchema(),
			"clientIp":       openapi3.NewStringSchema(),
			"createdAt":      openapi3.NewDateTimeSchema(),
			"updatedAt":      openapi3.NewDateTimeSchema(),
		}, "id", "apikey", "publicKey", "isActive", "failedAttempts"),
		"SessionResponse": object(map[string]*openapi3.Schema{
			"apikey":    openapi3.NewStringSchema(),
			"username":  openapi3.NewStringSchema(),
			"issuedAt":  openapi3.NewDateTimeSchema(),
			"expiresAt": openapi3.NewDateTimeSchema(),
		}, "apikey", "username"),
		"HealthResponse": object(map[string]*openapi3.Schema{
			"status": openapi3.NewStringSchema().WithEnum("ok", "unavailable"),
		}, "status"),
		"ErrorResponse": object(map[string]*openapi3.Schema{
			"statusCode": openapi3.NewIntegerSchema(),
			"timestamp":  openapi3.NewDateTimeSchema(),
			"path":       openapi3.NewStringSchema(),
			"errorType":  openapi3.NewStringSchema(),
			"message":    openapi3.NewStringSchema(),
			"requestId":  openapi3.NewStringSchema(),
		}, "statusCode", "timestamp", "path", "errorType", "message"),
	}
	return &c
}

func object(props map[string]*openapi3.Schema, required ...string) *openapi3.SchemaRef {
	s := openapi3.NewObjectSchema()
	for name, p := range props {
		s.WithProperty(name, p)
	}
	s.Required = required
	return s.NewRef()
}

func jsonBody(description, ref string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Description: description,
			Required:    true,
			Content:     openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef(ref, nil)),
		},
	}
}

var statusDescriptions = map[string]string{
	"400": "Bad request",
	"401": "Unauthorized",
	"409": "Conflict",
	"500": "Internal server error",
	"503": "Service unavailable",
}

func newResponses(statusCode, description string, schema *openapi3.SchemaRef, errorCodes ...string) *openapi3.Responses {
	responses := openapi3.NewResponses()
	responses.Delete("default")

	successDesc := description
	responses.Set(statusCode, &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &successDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	})

	errorRef := openapi3.NewSchemaRef(errorResponseRef, nil)
	for _, code := range errorCodes {
		desc := statusDescriptions[code]
		responses.Set(code, &openapi3.ResponseRef{
			Value: &openapi3.Response{
				Description: &desc,
				Content:     openapi3.NewContentWithJSONSchemaRef(errorRef),
			},
		})
	}
	return responses
}

// MarshalJSON renders the document as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// MarshalYAML renders the document as block-style YAML, keeping key order.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi document: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("failed to convert openapi document: %w", err)
	}
	clearStyle(&node)
	return yaml.Marshal(&node)
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
