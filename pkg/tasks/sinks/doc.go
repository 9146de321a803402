/*
Package sinks provides ready-made log-event sinks for a task registry.

A sink receives every lifecycle event a registry emits. The package bridges
the registry's sink contract to common destinations:

	reg := registry.New()

	// Structured logging through any slog handler
	reg.AddSink(sinks.NewSlog(slog.Default()))

	// Tinted, human-readable console output
	reg.AddSink(sinks.NewConsole(os.Stderr))

	// JSON events published to a redis channel
	reg.AddSink(sinks.NewRedis(sinks.RedisConfig{Client: client}))

Per the registry's contract, sinks never fail the fan-out: publish and write
errors are dropped.
*/
package sinks
