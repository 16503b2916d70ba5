// Package handler implements the probe endpoint polled by the load balancer.
// It runs one bounded upstream check per request and always answers 200,
// reporting the upstream state in the body.
package handler
