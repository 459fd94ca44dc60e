package gemini

const (
	// DefaultModel is the default Gemini chat model
	DefaultModel = "gemini-2.5-flash"

	// DefaultEmbedModel is the default Gemini embedding model
	DefaultEmbedModel = "text-embedding-004"

	// RoleUser and RoleModel are the Gemini content roles
	RoleUser  = "user"
	RoleModel = "model"
)
