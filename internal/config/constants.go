package config

// Version of the gradual tool. Fixtures declare the version they target and
// are rejected when it is newer than this.
const Version = "v0.3.0"

// FixtureFileName is the fixture looked up when none is given on the
// command line.
const FixtureFileName = "gradual.yaml"

// FixtureFileExtensions are all recognized fixture file extensions
var FixtureFileExtensions = []string{".yaml", ".yml"}

// IsTestMode indicates if the program is running in test mode.
// Set once at startup; disables colour and makes run ids deterministic.
var IsTestMode = false

// DefaultWorkers bounds concurrent query evaluation when the fixture does
// not say otherwise.
const DefaultWorkers = 8

// Built-in class names
const (
	BasicObjectClassName = "BasicObject"
	ObjectClassName      = "Object"
	ModuleClassName      = "Module"
	ClassClassName       = "Class"
	NilClassName         = "NilClass"
	TrueClassName        = "TrueClass"
	FalseClassName       = "FalseClass"
	NumericClassName     = "Numeric"
	IntegerClassName     = "Integer"
	FloatClassName       = "Float"
	StringClassName      = "String"
	SymbolClassName      = "Symbol"
	ArrayClassName       = "Array"
	HashClassName        = "Hash"
)

// Built-in module names
const (
	KernelModuleName     = "Kernel"
	ComparableModuleName = "Comparable"
)

// SingletonSuffix marks a singleton class in type expressions and names.
const SingletonSuffix = ".singleton"

// Type expression keywords
const (
	DynamicKeyword = "dynamic"
	TopKeyword     = "top"
	BottomKeyword  = "bottom"
	NilKeyword     = "nil"
	TrueKeyword    = "true"
	FalseKeyword   = "false"
	SingletonWord  = "singleton"
)
