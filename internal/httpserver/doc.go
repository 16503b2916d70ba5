// Package httpserver wraps net/http.Server for the health endpoint.
package httpserver
