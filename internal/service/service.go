// Package service sits between the handlers/CLI and the repositories.
//
// Handlers hand it bound requests; it calls repositories, logs writes and
// assembles the composite views (the lineup report).
package service
