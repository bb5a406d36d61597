package api

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// CapabilitiesResponse describes what the service can validate, so clients
// can discover supported types and constraints instead of hardcoding them.
type CapabilitiesResponse struct {
	Service           string               `json:"service"`
	Version           string               `json:"version"`
	SupportedFormats  map[string][]string  `json:"supported_formats"`
	ValidationTypes   []string             `json:"validation_types"`
	ValidationLevels  []string             `json:"validation_levels"`
	SchemaConstraints map[string][]string  `json:"schema_constraints"`
	SemanticProvider  SemanticProviderInfo `json:"semantic_provider"`
	Examples          map[string]any       `json:"examples"`
}

type SemanticProviderInfo struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider,omitempty"`
}

type SchemaListResponse struct {
	Schemas []SchemaSummary `json:"schemas"`
	Count   int             `json:"count"`
}

type SchemaSummary struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	CurrentVersion string   `json:"current_version"`
	Versions       []string `json:"versions"`
}

type VersionHistoryResponse struct {
	Name           string   `json:"name"`
	CurrentVersion string   `json:"current_version"`
	Versions       []string `json:"versions"`
}

type DeleteResponse struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}
