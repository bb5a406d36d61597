package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/ai-output-validator/internal/api/middleware"
	"github.com/povarna/ai-output-validator/internal/models"
	"github.com/povarna/ai-output-validator/internal/repository"
)

// RegisterRoutes wires every endpoint under /api/v1. The auth filter guards
// the schema-management routes; validation stays open.
func RegisterRoutes(container *restful.Container, handler *Handler, auth restful.FilterFunction) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.GET("/capabilities").
			To(handler.Capabilities).
			Doc("Supported validation types, levels, formats and constraints").
			Metadata(restfulspec.KeyOpenAPITags, []string{"info"}).
			Writes(CapabilitiesResponse{}).
			Returns(200, "OK", CapabilitiesResponse{}))

	ws.
		Route(ws.POST("/validate").
			To(handler.Validate).
			Doc("Validate AI output against an inline schema").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validation"}).
			Reads(models.ValidationRequest{}).
			Writes(models.ValidationReport{}).
			Returns(200, "OK", models.ValidationReport{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/validate/{schema_name}").
			To(handler.ValidateWithSchema).
			Doc("Validate AI output against a stored schema").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validation"}).
			Param(ws.PathParameter("schema_name", "Name of the stored schema").DataType("string")).
			Param(ws.QueryParameter("version", "Schema version (default: current)").DataType("string").Required(false)).
			Reads(models.ValidationRequest{}).
			Writes(models.ValidationReport{}).
			Returns(200, "OK", models.ValidationReport{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Schema Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	// Schema repository
	ws.
		Route(ws.GET("/schemas").
			Filter(auth).
			To(handler.ListSchemas).
			Doc("List stored schemas").
			Metadata(restfulspec.KeyOpenAPITags, []string{"schemas"}).
			Writes(SchemaListResponse{}).
			Returns(200, "OK", SchemaListResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/schemas").
			Filter(auth).
			To(handler.CreateSchema).
			Doc("Create a schema").
			Metadata(restfulspec.KeyOpenAPITags, []string{"schemas"}).
			Reads(repository.SchemaCreate{}).
			Writes(repository.SchemaDefinition{}).
			Returns(201, "Created", repository.SchemaDefinition{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(409, "Schema Already Exists", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/schemas/{schema_name}").
			Filter(auth).
			To(handler.GetSchema).
			Doc("Get a schema (current or a specific version)").
			Metadata(restfulspec.KeyOpenAPITags, []string{"schemas"}).
			Param(ws.PathParameter("schema_name", "Name of the schema").DataType("string")).
			Param(ws.QueryParameter("version", "Schema version (default: current)").DataType("string").Required(false)).
			Writes(repository.SchemaDefinition{}).
			Returns(200, "OK", repository.SchemaDefinition{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(404, "Schema Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.PUT("/schemas/{schema_name}").
			Filter(auth).
			To(handler.UpdateSchema).
			Doc("Update a schema, creating a new minor version").
			Metadata(restfulspec.KeyOpenAPITags, []string{"schemas"}).
			Param(ws.PathParameter("schema_name", "Name of the schema").DataType("string")).
			Reads(repository.SchemaUpdate{}).
			Writes(repository.SchemaDefinition{}).
			Returns(200, "OK", repository.SchemaDefinition{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(404, "Schema Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.DELETE("/schemas/{schema_name}").
			Filter(auth).
			To(handler.DeleteSchema).
			Doc("Delete a schema and every version of it").
			Metadata(restfulspec.KeyOpenAPITags, []string{"schemas"}).
			Param(ws.PathParameter("schema_name", "Name of the schema").DataType("string")).
			Writes(DeleteResponse{}).
			Returns(200, "OK", DeleteResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(404, "Schema Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/schemas/{schema_name}/versions").
			Filter(auth).
			To(handler.SchemaVersions).
			Doc("Version history of a schema").
			Metadata(restfulspec.KeyOpenAPITags, []string{"schemas"}).
			Param(ws.PathParameter("schema_name", "Name of the schema").DataType("string")).
			Writes(VersionHistoryResponse{}).
			Returns(200, "OK", VersionHistoryResponse{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(404, "Schema Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/schemas/{schema_name}/versions/{version}").
			Filter(auth).
			To(handler.GetSchemaVersion).
			Doc("One specific schema version").
			Metadata(restfulspec.KeyOpenAPITags, []string{"schemas"}).
			Param(ws.PathParameter("schema_name", "Name of the schema").DataType("string")).
			Param(ws.PathParameter("version", "Schema version").DataType("string")).
			Writes(repository.SchemaDefinition{}).
			Returns(200, "OK", repository.SchemaDefinition{}).
			Returns(401, "Unauthorized", middleware.ErrorResponse{}).
			Returns(404, "Version Not Found", middleware.ErrorResponse{}))

	container.Add(ws)
}
