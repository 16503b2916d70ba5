// Package config loads the health server configuration from the process
// environment, with an optional .env file and config.yaml underneath it.
// It defines the listen and upstream ports, the upstream probe timeout and
// the logging settings.
package config
