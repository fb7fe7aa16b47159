// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle (load a model, evaluate
// it, validate the result, persist the exported dataset), decoupled from any
// specific entrypoint like a CLI.
package app
