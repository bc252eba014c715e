package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E020-E029)
	// ============================================

	"E020": {
		Category:   CategoryConfig,
		Message:    "No such channel",
		Suggestion: "Open the channel before emitting on it or unsubscribing from it",
	},
	"E021": {
		Category:   CategoryConfig,
		Message:    "Mount target not found",
		Suggestion: "Pass an existing node or a selector such as \"#app\" that matches one",
	},
	"E022": {
		Category: CategoryConfig,
		Message:  "Invalid work unit",
	},
	"E023": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check that weft.json is valid JSON",
	},
	"E024": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"E025": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create weft.json or run without --config to use defaults",
	},

	// ============================================
	// Evaluation Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategoryEvaluation,
		Message:  "Render function panicked",
	},
	"E031": {
		Category: CategoryEvaluation,
		Message:  "Unsupported element type",
	},

	// ============================================
	// Reconciliation Errors (E040-E049)
	// ============================================

	"E040": {
		Category: CategoryReconciliation,
		Message:  "Stale mediator notification",
	},
	"E041": {
		Category: CategoryReconciliation,
		Message:  "Fiber has no host ancestor",
	},

	// ============================================
	// CLI Errors (E060-E069)
	// ============================================

	"E060": {
		Category: CategoryCLI,
		Message:  "Unknown demo scenario",
	},
	"E061": {
		Category: CategoryCLI,
		Message:  "Inspector server failed",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
