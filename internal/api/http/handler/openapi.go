package handler

import (
	"net/http"

	"github.com/EternisAI/silo-auth/internal/openapi"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
)

// OpenAPIHandler serves the API document. Both renderings are built once.
type OpenAPIHandler struct {
	json []byte
	yaml []byte
}

func NewOpenAPIHandler(doc *openapi3.T) (*OpenAPIHandler, error) {
	js, err := openapi.MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	ym, err := openapi.MarshalYAML(doc)
	if err != nil {
		return nil, err
	}
	return &OpenAPIHandler{json: js, yaml: ym}, nil
}

func (h *OpenAPIHandler) JSON(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", h.json)
}

func (h *OpenAPIHandler) YAML(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", h.yaml)
}
