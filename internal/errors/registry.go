package errors

import "sort"

// Registered codes referenced from code.
const (
	CodeCycle          = "R001"
	CodeComputeFailure = "R002"
	CodeDisposed       = "R003"
	CodeForeignNode    = "R004"
	CodeEffectStorm    = "R005"
	CodeInternal       = "R099"

	CodeConfigRead     = "R100"
	CodeConfigParse    = "R101"
	CodeConfigInvalid  = "R102"
	CodeUnknownCommand = "R110"
	CodeUnknownDemo    = "R111"
	CodeUnknownCode    = "R112"
	CodeServe          = "R113"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (R001-R099)
	// ============================================

	CodeCycle: {
		Category:   CategoryRuntime,
		Message:    "Cyclic dependency",
		Detail:     "A computed value read itself, directly or through other computed values, while it was being evaluated. The nodes involved are left dirty and retry on their next read.",
		Suggestion: "Break the loop by reading one side with Peek or Untrack.",
	},
	CodeComputeFailure: {
		Category: CategoryRuntime,
		Message:  "Compute function failed",
		Detail:   "A computed function, effect body, cleanup or watcher callback panicked. A failed computed keeps its previous value and is evaluated again on its next read; a failed effect runs again when one of its dependencies changes.",
	},
	CodeDisposed: {
		Category:   CategoryRuntime,
		Message:    "Node disposed",
		Detail:     "A computed value was read after Dispose was called on it.",
		Suggestion: "Dispose consumers before the values they read.",
	},
	CodeForeignNode: {
		Category:   CategoryRuntime,
		Message:    "Node belongs to another runtime",
		Detail:     "Nodes can only interact with nodes created by the same Runtime.",
		Suggestion: "Create every node of one graph against a single Runtime.",
	},
	CodeEffectStorm: {
		Category:   CategoryRuntime,
		Message:    "Effect run budget exceeded",
		Detail:     "A single flush ran more effects than the runtime allows. This usually means effects keep writing state that re-triggers themselves or each other. The pending queue was dropped.",
		Suggestion: "Guard the write so it stops once the value settles, or raise runtime.max_effect_runs.",
	},
	CodeInternal: {
		Category: CategoryRuntime,
		Message:  "Unexpected failure",
		Detail:   "The operation failed with an error that has no registered code.",
	},

	// ============================================
	// Config Errors (R100-R109)
	// ============================================

	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "Cannot read config file",
		Detail:   "The configuration file exists but could not be read.",
	},
	CodeConfigParse: {
		Category:   CategoryConfig,
		Message:    "Invalid config file",
		Detail:     "The configuration file is not valid JSON or YAML.",
		Suggestion: "Run the file through a JSON or YAML linter to find the syntax error.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range.",
	},

	// ============================================
	// CLI Errors (R110-R199)
	// ============================================

	CodeUnknownCommand: {
		Category:   CategoryCLI,
		Message:    "Unknown command",
		Suggestion: "Run 'reactive --help' to see the available commands.",
	},
	CodeUnknownDemo: {
		Category:   CategoryCLI,
		Message:    "Unknown demo scenario",
		Suggestion: "Run 'reactive demo --list' to see the available scenarios.",
	},
	CodeUnknownCode: {
		Category:   CategoryCLI,
		Message:    "Unknown error code",
		Suggestion: "Run 'reactive explain --list' to see the registered codes.",
	},
	CodeServe: {
		Category: CategoryCLI,
		Message:  "Inspector server failed",
		Detail:   "The inspector could not listen on the configured address.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
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

// Explain returns the error for a registered code, or the unknown-code
// error when code is not registered.
func Explain(code string) (*Error, error) {
	if _, ok := registry[code]; !ok {
		return nil, New(CodeUnknownCode).WithCause(code)
	}
	return New(code), nil
}
