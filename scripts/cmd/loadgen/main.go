package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

var (
	targetURL  = flag.String("url", "http://localhost:8080", "Server URL to target")
	probeURL   = flag.String("probe", "http://localhost:8085", "Probe/readiness URL")
	origin     = flag.String("origin", "http://localhost:3000", "Origin header sent with every submission")
	numClients = flag.Int("clients", 10, "Number of concurrent workers")
	rps        = flag.Int("rps", 20, "Requests per second per worker")
	distinct   = flag.Int("ips", 5, "Distinct client IPs to spoof via X-Real-IP")
	duration   = flag.Duration("duration", 30*time.Second, "Test duration")
	verbose    = flag.Bool("verbose", false, "Verbose output")
)

type RequestStats struct {
	total       int64
	accepted    int64
	limited     int64
	rejected    int64
	unavailable int64
	failed      int64
	latency     int64
}

var (
	stats      = &RequestStats{}
	httpClient = &http.Client{Timeout: 10 * time.Second}

	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
	}

	subjects = []string{"Project inquiry", "Hello there", "Collaboration", "Job opportunity"}
)

func randomElement(slice []string) string {
	return slice[rand.Intn(len(slice))]
}

func submission() []byte {
	body, _ := json.Marshal(map[string]string{
		"name":    fmt.Sprintf("Load Tester %d", rand.Intn(1000)),
		"email":   fmt.Sprintf("tester%d@example.com", rand.Intn(1000)),
		"subject": randomElement(subjects),
		"message": "This is a synthetic submission generated by the load test.",
	})
	return body
}

func makeRequest() {
	atomic.AddInt64(&stats.total, 1)

	req, _ := http.NewRequest(http.MethodPost, *targetURL+"/api/contact", bytes.NewReader(submission()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", *origin)
	req.Header.Set("User-Agent", randomElement(userAgents))
	req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.0.%d", rand.Intn(*distinct)+1))

	start := time.Now()
	resp, err := httpClient.Do(req)
	atomic.AddInt64(&stats.latency, time.Since(start).Milliseconds())

	if err != nil {
		atomic.AddInt64(&stats.failed, 1)
		if *verbose {
			log.Printf("[ERROR] Request failed: %v", err)
		}
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		atomic.AddInt64(&stats.accepted, 1)
	case resp.StatusCode == http.StatusTooManyRequests:
		atomic.AddInt64(&stats.limited, 1)
	case resp.StatusCode == http.StatusServiceUnavailable:
		atomic.AddInt64(&stats.unavailable, 1)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		atomic.AddInt64(&stats.rejected, 1)
	default:
		atomic.AddInt64(&stats.failed, 1)
	}

	if *verbose {
		log.Printf("[%d] ip=%s remaining=%s reset=%s", resp.StatusCode,
			req.Header.Get("X-Real-IP"),
			resp.Header.Get("X-RateLimit-Remaining"),
			resp.Header.Get("X-RateLimit-Reset"))
	}
}

func runClient(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(*rps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			makeRequest()
		}
	}
}

func percent(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func printStats(elapsed time.Duration) {
	total := atomic.LoadInt64(&stats.total)

	fmt.Println("\nLoad Test Results")
	fmt.Printf("Total Requests:     %d\n", total)
	fmt.Printf("Accepted (200):     %d (%.1f%%)\n", stats.accepted, percent(stats.accepted, total))
	fmt.Printf("Rate limited (429): %d (%.1f%%)\n", stats.limited, percent(stats.limited, total))
	fmt.Printf("Maintenance (503):  %d (%.1f%%)\n", stats.unavailable, percent(stats.unavailable, total))
	fmt.Printf("Rejected (4xx):     %d (%.1f%%)\n", stats.rejected, percent(stats.rejected, total))
	fmt.Printf("Failed:             %d (%.1f%%)\n", stats.failed, percent(stats.failed, total))

	if total > 0 {
		fmt.Printf("Average Latency:    %dms\n", stats.latency/total)
		fmt.Printf("Throughput:         %.2f req/s\n", float64(total)/elapsed.Seconds())
	}
}

func main() {
	flag.Parse()

	if *rps <= 0 || *distinct <= 0 {
		log.Fatal("rps and ips must be positive")
	}

	log.Printf("Starting load test against %s/api/contact", *targetURL)
	log.Printf("Workers: %d, RPS per worker: %d, spoofed IPs: %d, duration: %v",
		*numClients, *rps, *distinct, *duration)

	resp, err := http.Get(*probeURL + "/ready")
	if err != nil {
		log.Fatalf("Cannot reach probe at %s: %v", *probeURL, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Server not ready: status %d", resp.StatusCode)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	stop := make(chan struct{})
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < *numClients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runClient(stop)
		}()
	}

	select {
	case <-time.After(*duration):
		log.Println("Test duration completed")
	case sig := <-sigChan:
		log.Printf("Received signal: %v, stopping test", sig)
	}
	close(stop)

	wg.Wait()
	printStats(time.Since(start))
}
