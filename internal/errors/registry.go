package errors

// Registered error codes.
const (
	CodeInvalidTrigger   = "T001"
	CodeTemplateNotFound = "T002"
	CodeInvalidConfig    = "T003"
	CodeTemplateLoad     = "T004"

	CodeProtocolDecode = "T010"
	CodeUnknownTarget  = "T011"

	CodeConfigLoad     = "T020"
	CodeConfigNotFound = "T021"

	CodeInvalidFlag = "T030"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (T001-T009)
	// ============================================

	CodeInvalidTrigger: {
		Category: CategoryRender,
		Message:  "Invalid trigger",
		Detail:   "The trigger reference does not resolve to an element in the document.",
	},
	CodeTemplateNotFound: {
		Category: CategoryRender,
		Message:  "Template not found",
		Detail:   "The named template is not registered with the template store.",
	},
	CodeInvalidConfig: {
		Category: CategoryConfig,
		Message:  "Invalid tooltip configuration",
		Detail:   "A tooltip configuration field has a value outside its allowed range.",
	},
	CodeTemplateLoad: {
		Category: CategoryRender,
		Message:  "Template load failed",
		Detail:   "A template source could not be read or decoded.",
	},

	// ============================================
	// Protocol Errors (T010-T019)
	// ============================================

	CodeProtocolDecode: {
		Category: CategoryProtocol,
		Message:  "Invalid frame",
		Detail:   "The client sent a frame that could not be decoded.",
	},
	CodeUnknownTarget: {
		Category: CategoryProtocol,
		Message:  "Unknown event target",
		Detail:   "The event names an element that is not present in the session document.",
	},

	// ============================================
	// Configuration Errors (T020-T029)
	// ============================================

	CodeConfigLoad: {
		Category: CategoryConfig,
		Message:  "Configuration load failed",
		Detail:   "The configuration file could not be read or parsed.",
	},
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No tooltip.json was found in the directory or any parent directory.",
	},

	// ============================================
	// CLI Errors (T030-T039)
	// ============================================

	CodeInvalidFlag: {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
		Detail:   "A command-line flag has a value that cannot be used.",
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
