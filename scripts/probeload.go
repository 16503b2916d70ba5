//go:build ignore

// Probeload fires concurrent probes at the health server and reports latency
// percentiles and the distribution of upstream states.
//
// Usage:
//
//	go run probeload.go -url http://localhost:8080/ping -concurrency 50 -requests 500
//	go run probeload.go -concurrency 20 -requests 20 -out summary.json
//
// With the fake upstream in hang mode every probe should still return 200 in
// roughly the probe timeout, independent of concurrency.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"
)

type pingResponse struct {
	Status string `json:"status"`
	Ollama string `json:"ollama"`
}

type summary struct {
	Total       int            `json:"total"`
	Failures    int            `json:"failures"`
	Elapsed     string         `json:"elapsed"`
	StatusCodes map[int]int    `json:"status_codes"`
	Upstream    map[string]int `json:"upstream"`
	P50         string         `json:"p50"`
	P90         string         `json:"p90"`
	P99         string         `json:"p99"`
	Max         string         `json:"max"`
}

func main() {
	var (
		url         = flag.String("url", "http://localhost:8080/ping", "Target URL")
		concurrency = flag.Int("concurrency", 10, "Number of concurrent workers")
		requests    = flag.Int("requests", 100, "Total number of probes to send")
		timeoutSec  = flag.Int("timeout", 10, "Per-request timeout in seconds")
		outJSON     = flag.String("out", "", "Write JSON summary to this file (optional)")
	)
	flag.Parse()

	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}

	jobs := make(chan struct{})
	var wg sync.WaitGroup
	var mu sync.Mutex

	sum := summary{
		StatusCodes: make(map[int]int),
		Upstream:    make(map[string]int),
	}
	var latencies []time.Duration

	start := time.Now()
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				t0 := time.Now()
				resp, err := client.Get(*url)
				lat := time.Since(t0)

				var body pingResponse
				code := 0
				if err == nil {
					code = resp.StatusCode
					_ = json.NewDecoder(resp.Body).Decode(&body)
					resp.Body.Close()
				}

				mu.Lock()
				sum.Total++
				latencies = append(latencies, lat)
				if err != nil {
					sum.Failures++
				} else {
					sum.StatusCodes[code]++
					sum.Upstream[body.Ollama]++
				}
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < *requests; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()

	sum.Elapsed = time.Since(start).String()

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	sum.P50 = percentile(latencies, 0.50).String()
	sum.P90 = percentile(latencies, 0.90).String()
	sum.P99 = percentile(latencies, 0.99).String()
	if len(latencies) > 0 {
		sum.Max = latencies[len(latencies)-1].String()
	}

	out, _ := json.MarshalIndent(sum, "", "  ")
	fmt.Println(string(out))

	if *outJSON != "" {
		if err := os.WriteFile(*outJSON, out, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "write summary: %v\n", err)
			os.Exit(1)
		}
	}

	if sum.Failures > 0 {
		os.Exit(1)
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
