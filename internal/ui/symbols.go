package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Check passed / action applied
	SymbolFail     = "✗" // Check failed
	SymbolComplete = "●" // On
	SymbolPending  = "○" // Off
)
