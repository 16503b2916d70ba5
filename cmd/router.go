package main

import (
	"net/http"
)

func setupRouter(probeHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /ping", probeHandler)

	return mux
}
