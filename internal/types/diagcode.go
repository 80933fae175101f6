package types

// Diagnostic codes emitted by the parser, resolver, and loader.
// Centralizing these prevents silent breakage from typos in string literals.

// Parser diagnostic codes.
const (
	DiagParseError        = "parse-error"
	DiagInvalidIdentifier = "invalid-identifier"
	DiagExportOnModule    = "export-on-module"
	DiagUnknownKey        = "unknown-key"
)

// Resolver diagnostic codes.
const (
	DiagDuplicateDeclaration  = "duplicate-declaration"
	DiagUnknownModule         = "unknown-module"
	DiagUnknownType           = "unknown-type"
	DiagExpectedModuleGotType = "expected-module-got-type"
	DiagExpectedTypeGotModule = "expected-type-got-module"
	DiagUnitNotFound          = "unit-not-found"
	DiagCyclicAlias           = "cyclic-alias"
	DiagCyclicReference       = "cyclic-reference"
	DiagMalformedDeclaration  = "malformed-declaration"
	DiagAliasEmpty            = "alias-empty"
	DiagRequireUnused         = "require-unused"
)

// Loader diagnostic codes.
const (
	DiagCyclicRequire = "cyclic-require"
	DiagUnitNameClash = "unit-name-clash"
)

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		// Parser
		{Code: DiagParseError, Phase: "parser"},
		{Code: DiagInvalidIdentifier, Phase: "parser"},
		{Code: DiagExportOnModule, Phase: "parser"},
		{Code: DiagUnknownKey, Phase: "parser"},
		// Resolver
		{Code: DiagDuplicateDeclaration, Phase: "resolver"},
		{Code: DiagUnknownModule, Phase: "resolver"},
		{Code: DiagUnknownType, Phase: "resolver"},
		{Code: DiagExpectedModuleGotType, Phase: "resolver"},
		{Code: DiagExpectedTypeGotModule, Phase: "resolver"},
		{Code: DiagUnitNotFound, Phase: "resolver"},
		{Code: DiagCyclicAlias, Phase: "resolver"},
		{Code: DiagCyclicReference, Phase: "resolver"},
		{Code: DiagMalformedDeclaration, Phase: "resolver"},
		{Code: DiagAliasEmpty, Phase: "resolver"},
		{Code: DiagRequireUnused, Phase: "resolver"},
		// Loader
		{Code: DiagCyclicRequire, Phase: "loader"},
		{Code: DiagUnitNameClash, Phase: "loader"},
	}
}

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}
