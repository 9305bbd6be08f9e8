package config

const SourceFileExt = ".tourte"

// AsmFileExt is appended to the source name when no output path is given.
const AsmFileExt = ".asm"

// ConfigFileNames are searched for, in order, in each directory.
var ConfigFileNames = []string{"tourte.yaml", "tourte.yml"}

// Version is mixed into cache keys, so a new release never reuses old listings.
const Version = "0.3.0"

// Colour modes for diagnostics.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	DefaultCachePath = ".tourte-cache.db"
	DefaultMaxSteps  = 1_000_000
)

// Names the language gives special meaning to.
const (
	PrintFuncName = "print"
	InputFuncName = "input"
	RangeFuncName = "range"
)
