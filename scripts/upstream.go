//go:build ignore

// Upstream is a stand-in for the inference server, used to exercise the
// health server locally.
//
// Usage:
//
//	go run upstream.go -port 11434 -mode ok
//	go run upstream.go -port 11434 -mode degraded
//	go run upstream.go -port 11434 -mode hang
//
// Modes: ok answers 200, degraded answers 503, hang accepts the request and
// never answers.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
)

func main() {
	port := flag.Int("port", 11434, "port to listen on")
	mode := flag.String("mode", "ok", "response mode: ok, degraded or hang")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("request: method=%s path=%s from=%s mode=%s", r.Method, r.URL.Path, r.RemoteAddr, *mode)

		switch *mode {
		case "degraded":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "hang":
			<-r.Context().Done()
		default:
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ollama is running"))
		}
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("starting fake upstream on %s (mode=%s)", addr, *mode)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
