// Package app provides the application context for awg-setup.
// It allows dependency injection for testing.
package app

import (
	"github.com/iDenSorta/amneziawg-setup/internal/engine"
	"github.com/iDenSorta/amneziawg-setup/internal/port"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

// App holds the application dependencies
type App struct {
	// Engine is the container engine used to run the service
	Engine engine.Engine

	// Ports lists host sockets for port allocation
	Ports port.Lister

	// Executor runs host commands (firewall, socket table)
	Executor system.CommandExecutor

	// FS is the filesystem used for config artifacts and state
	FS system.FileSystem
}

// Option is a function that configures the App
type Option func(*App)

// WithEngine sets a custom container engine
func WithEngine(e engine.Engine) Option {
	return func(a *App) {
		a.Engine = e
	}
}

// WithPorts sets a custom port lister
func WithPorts(l port.Lister) Option {
	return func(a *App) {
		a.Ports = l
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithFS sets a custom filesystem
func WithFS(fsys system.FileSystem) Option {
	return func(a *App) {
		a.FS = fsys
	}
}

// New creates a new App with the given options.
// Unset dependencies fall back to the real host implementations.
func New(opts ...Option) *App {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Executor == nil {
		app.Executor = system.DefaultExecutor()
	}
	if app.FS == nil {
		app.FS = system.DefaultFS()
	}
	if app.Engine == nil {
		app.Engine = engine.NewDockerEngine(app.Executor)
	}
	if app.Ports == nil {
		app.Ports = &port.SocketTable{Exec: app.Executor}
	}

	return app
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
