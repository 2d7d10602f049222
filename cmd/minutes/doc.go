// Package main hosts the minutes CLI and TUI entrypoint.
//
// Every remote operation of the meeting assistant is reachable both from the
// full-screen TUI and as a plain subcommand suitable for scripts. Commands
// share one lazily built context holding the configuration, the logger, the
// session store and the service client.
package main
