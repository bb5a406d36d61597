package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/ai-output-validator/internal/api/middleware"
	"github.com/povarna/ai-output-validator/internal/models"
	"github.com/povarna/ai-output-validator/internal/pipeline"
	"github.com/povarna/ai-output-validator/internal/repository"
	"github.com/povarna/ai-output-validator/internal/schema"
	"github.com/rs/zerolog"
)

// ServiceInfo feeds the health and capabilities endpoints.
type ServiceInfo struct {
	Name            string
	Version         string
	SemanticEnabled bool
	Provider        string
}

type Handler struct {
	pipeline *pipeline.Pipeline
	store    repository.Store
	compiler *schema.Compiler
	info     ServiceInfo
	logger   *zerolog.Logger
}

func NewHandler(pipe *pipeline.Pipeline, store repository.Store, compiler *schema.Compiler, info ServiceInfo, logger *zerolog.Logger) *Handler {
	return &Handler{
		pipeline: pipe,
		store:    store,
		compiler: compiler,
		info:     info,
		logger:   logger,
	}
}

// POST /api/v1/validate
// Body: ValidationRequest with an inline schema
// Returns: ValidationReport
func (h *Handler) Validate(req *restful.Request, resp *restful.Response) {
	var valRequest models.ValidationRequest
	if err := req.ReadEntity(&valRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if valRequest.Content == nil {
		middleware.HandleError(resp, errors.New("content is required"), http.StatusBadRequest)
		return
	}
	if len(valRequest.Schema) == 0 {
		middleware.HandleError(resp, errors.New("schema is required"), http.StatusBadRequest)
		return
	}
	if err := checkEnums(valRequest); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	valCtx := normalize(req, valRequest)

	h.logger.Info().
		Str("request_id", valCtx.RequestID).
		Str("validation_type", string(valCtx.Type)).
		Str("validation_level", string(valCtx.Level)).
		Msg("Start validation")

	report := h.pipeline.Run(req.Request.Context(), valCtx)

	h.logger.Info().
		Str("request_id", valCtx.RequestID).
		Bool("is_valid", report.IsValid).
		Msg("Validation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// POST /api/v1/validate/{schema_name}
// Body: ValidationRequest without a schema; the stored schema is used.
func (h *Handler) ValidateWithSchema(req *restful.Request, resp *restful.Response) {
	schemaName := req.PathParameter("schema_name")

	var valRequest models.ValidationRequest
	if err := req.ReadEntity(&valRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if valRequest.Content == nil {
		middleware.HandleError(resp, errors.New("content is required"), http.StatusBadRequest)
		return
	}
	if err := checkEnums(valRequest); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	def, err := h.store.Get(req.Request.Context(), schemaName, req.QueryParameter("version"))
	if err != nil {
		middleware.HandleError(resp, err, storeStatus(err))
		return
	}

	// The stored schema wins; its validation level is the default.
	valRequest.Schema = def.Schema
	if valRequest.ValidationLevel == "" {
		valRequest.ValidationLevel = def.ValidationLevel
	}

	valCtx := normalize(req, valRequest)

	h.logger.Info().
		Str("request_id", valCtx.RequestID).
		Str("schema", schemaName).
		Str("schema_version", def.Version).
		Str("validation_level", string(valCtx.Level)).
		Msg("Start validation against stored schema")

	report := h.pipeline.Run(req.Request.Context(), valCtx)

	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// POST /api/v1/schemas
func (h *Handler) CreateSchema(req *restful.Request, resp *restful.Response) {
	var in repository.SchemaCreate
	if err := req.ReadEntity(&in); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if len(in.Schema) == 0 {
		middleware.HandleError(resp, errors.New("schema is required"), http.StatusBadRequest)
		return
	}

	// Reject schemas that would fail at validation time.
	if _, err := h.compiler.Compile(in.Schema); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	def, err := h.store.Create(req.Request.Context(), in)
	if err != nil {
		middleware.HandleError(resp, err, storeStatus(err))
		return
	}

	h.logger.Info().Str("schema", def.Name).Str("version", def.Version).Msg("Schema created")

	resp.WriteHeaderAndEntity(http.StatusCreated, def)
}

// GET /api/v1/schemas
func (h *Handler) ListSchemas(req *restful.Request, resp *restful.Response) {
	metas, err := h.store.List(req.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list schemas")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	out := SchemaListResponse{Schemas: make([]SchemaSummary, 0, len(metas))}
	for _, meta := range metas {
		out.Schemas = append(out.Schemas, SchemaSummary{
			Name:           meta.Name,
			Description:    meta.Description,
			CurrentVersion: meta.CurrentVersion,
			Versions:       meta.Versions,
		})
	}
	out.Count = len(out.Schemas)

	resp.WriteHeaderAndEntity(http.StatusOK, out)
}

// GET /api/v1/schemas/{schema_name}?version=
func (h *Handler) GetSchema(req *restful.Request, resp *restful.Response) {
	def, err := h.store.Get(req.Request.Context(), req.PathParameter("schema_name"), req.QueryParameter("version"))
	if err != nil {
		middleware.HandleError(resp, err, storeStatus(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, def)
}

// PUT /api/v1/schemas/{schema_name}
func (h *Handler) UpdateSchema(req *restful.Request, resp *restful.Response) {
	schemaName := req.PathParameter("schema_name")

	var in repository.SchemaUpdate
	if err := req.ReadEntity(&in); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if in.Schema != nil {
		if _, err := h.compiler.Compile(in.Schema); err != nil {
			middleware.HandleError(resp, err, http.StatusBadRequest)
			return
		}
	}

	def, err := h.store.Update(req.Request.Context(), schemaName, in)
	if err != nil {
		middleware.HandleError(resp, err, storeStatus(err))
		return
	}

	h.logger.Info().Str("schema", def.Name).Str("version", def.Version).Msg("Schema updated")

	resp.WriteHeaderAndEntity(http.StatusOK, def)
}

// DELETE /api/v1/schemas/{schema_name}
func (h *Handler) DeleteSchema(req *restful.Request, resp *restful.Response) {
	schemaName := req.PathParameter("schema_name")

	if err := h.store.Delete(req.Request.Context(), schemaName); err != nil {
		middleware.HandleError(resp, err, storeStatus(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, DeleteResponse{Status: "deleted", Name: schemaName})
}

// GET /api/v1/schemas/{schema_name}/versions
func (h *Handler) SchemaVersions(req *restful.Request, resp *restful.Response) {
	schemaName := req.PathParameter("schema_name")

	versions, err := h.store.Versions(req.Request.Context(), schemaName)
	if err != nil {
		middleware.HandleError(resp, err, storeStatus(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, VersionHistoryResponse{
		Name:           schemaName,
		CurrentVersion: versions[len(versions)-1],
		Versions:       versions,
	})
}

// GET /api/v1/schemas/{schema_name}/versions/{version}
func (h *Handler) GetSchemaVersion(req *restful.Request, resp *restful.Response) {
	def, err := h.store.Get(req.Request.Context(), req.PathParameter("schema_name"), req.PathParameter("version"))
	if err != nil {
		middleware.HandleError(resp, err, storeStatus(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, def)
}

// GET /api/v1/capabilities
func (h *Handler) Capabilities(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, CapabilitiesResponse{
		Service: h.info.Name,
		Version: h.info.Version,
		SupportedFormats: map[string][]string{
			"string":  {"email", "date", "pattern", "enum", "min_length", "max_length"},
			"number":  {"gt", "lt", "enum"},
			"integer": {"gt", "lt", "enum"},
			"boolean": {},
			"object":  {"fields"},
			"array":   {"items"},
		},
		ValidationTypes: []string{
			string(models.TypeGeneric),
			string(models.TypeRecommendation),
			string(models.TypeSummary),
			string(models.TypeClassification),
		},
		ValidationLevels: []string{
			string(models.LevelStructureOnly),
			string(models.LevelBasic),
			string(models.LevelStandard),
			string(models.LevelStrict),
		},
		SchemaConstraints: map[string][]string{
			"all":     {"type", "required", "description"},
			"string":  {"format", "pattern", "enum", "min_length", "max_length"},
			"number":  {"gt", "lt", "enum"},
			"integer": {"gt", "lt", "enum"},
			"object":  {"fields"},
			"array":   {"items"},
		},
		SemanticProvider: SemanticProviderInfo{
			Enabled:  h.info.SemanticEnabled,
			Provider: h.info.Provider,
		},
		Examples: map[string]any{
			"schema": map[string]any{
				"product_name": map[string]any{"type": "string", "required": true, "min_length": 2},
				"price":        map[string]any{"type": "number", "required": true, "gt": 0},
				"email":        map[string]any{"type": "string", "format": "email"},
			},
			"content": map[string]any{
				"product_name": "Mechanical Keyboard",
				"price":        89.99,
				"email":        "buyer@example.com",
			},
		},
	})
}

// GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: h.info.Name,
		Version: h.info.Version,
	})
}

func normalize(req *restful.Request, in models.ValidationRequest) models.ValidationContext {
	return models.ValidationContext{
		RequestID: middleware.GetRequestID(req),
		Content:   in.Content,
		Schema:    in.Schema,
		Type:      models.ParseType(string(in.ValidationType)),
		Level:     models.ParseLevel(string(in.ValidationLevel)),
		CreatedAt: time.Now(),
	}
}

// checkEnums rejects unknown validation_type / validation_level values
// instead of silently falling back to the defaults.
func checkEnums(in models.ValidationRequest) error {
	if in.ValidationLevel != "" && models.ParseLevel(string(in.ValidationLevel)) != in.ValidationLevel {
		return errors.New("unknown validation_level, expected one of: structure_only, basic, standard, strict")
	}
	if in.ValidationType != "" && models.ParseType(string(in.ValidationType)) != in.ValidationType {
		return errors.New("unknown validation_type, expected one of: generic, recommendation, summary, classification")
	}
	return nil
}

func storeStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrSchemaNotFound), errors.Is(err, repository.ErrVersionNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrSchemaExists):
		return http.StatusConflict
	case errors.Is(err, repository.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
