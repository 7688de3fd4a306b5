// Package config aggregates configuration from multiple asynchronous
// providers into a single merged snapshot, resolves dotted key paths
// against it, and binds strongly typed option structs with best-effort
// type coercion.
//
// A Manager owns the snapshot. Providers are fetched concurrently and
// deduplicated by name, so any number of concurrent Load callers share one
// fetch per provider. Sections merge shallowly in the reverse of
// registration order: the first-registered provider wins key collisions.
//
//	manager, err := config.New([]config.Provider{
//		providers.Env("env", "APP_"),
//		providers.File("file", "app.yaml"),
//	})
//	if err != nil {
//		// ...
//	}
//	if _, err := manager.Load(ctx, false); err != nil {
//		// every provider failure surfaces here
//	}
//	port := manager.GetValue("server.port")
//	opts := config.Bind(manager, func() *ServerOptions {
//		return &ServerOptions{Port: 8080}
//	})
package config
