package providers

// ProgramCache stores compiled expression programs keyed by expression
// strings, letting engines skip recompilation across fetches.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}
