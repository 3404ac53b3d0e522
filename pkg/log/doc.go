/*
Package log provides structured logging for the JIMM operator using zerolog.

Call Init once at startup, then log through Logger directly or derive a
child logger:

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	logger := log.WithComponent("reconciler")
	logger.Info().Str("status", "active").Msg("workload converged")

WithTrigger derives a logger carrying the trigger kind and instance id,
used by the dispatch middleware to tag every line of a handler run.
*/
package log
