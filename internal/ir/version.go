package ir

// Version constants for the data model and engine.
const (
	// IRVersion is the transcript schema version.
	IRVersion = "1"

	// EngineVersion is the herald engine version.
	EngineVersion = "0.1.0"
)
