// Package providers ships the standard configuration sources consumed by a
// go-config manager: YAML files, environment variables, fixed in-memory
// sections, and computed sections whose entries are expressions evaluated
// by a pluggable engine.
//
// Every source implements config.Provider. The manager stays
// source-agnostic; anything that can produce a config.Section
// asynchronously can sit alongside these.
package providers
