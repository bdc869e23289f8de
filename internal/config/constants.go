// Package config holds interpreter-wide constants, mirroring the
// teacher's practice of keeping build/version/extension settings as a
// small standalone package rather than scattering magic values.
package config

// Version is the current language/runtime version.
var Version = "0.1.0"

// SourceFileExt is the canonical source extension for this language.
const SourceFileExt = ".rcn"

// SourceFileExtensions lists all recognized source extensions.
var SourceFileExtensions = []string{".rcn", ".raccoon"}

// ModuleScheme is the only import-specifier scheme honored by the core
// module loader (spec §6.3); anything else raises at import time.
const ModuleScheme = "std:"

// DefaultMaxRecursionDepth is the default call-stack ceiling (spec §4.1,
// "Recursion guard").
const DefaultMaxRecursionDepth = 200

// EpsilonFloat is the tolerance used for float-literal pattern matching
// (spec §4.1, "Pattern matching").
const EpsilonFloat = 1e-9
