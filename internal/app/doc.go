// Package app contains the core application logic. It defines the main App
// struct, its immutable configuration, and the sequential
// validate → merge → dispatch → classify lifecycle, decoupled from any
// specific entrypoint like a CLI.
package app
