// Package healthcheck probes the co-located upstream service over loopback.
// A Checker owns a pooled HTTP client for the process lifetime and classifies
// each bounded HEAD request into a Status.
package healthcheck
