// Package handler is the HTTP layer of the concerts API.
//
// Every endpoint is a typed function run through Handle, which binds and
// validates the request, calls the service layer and writes the JSON
// response with logging and New Relic attributes around it.
package handler
