// Package main - agitator
// Load generator for the game server: many concurrent websocket clients
// spamming harmless commands and timing the round trip to their results.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/MRamiBalles/PropertyIdle/internal/engine"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/network"
)

// Config for the agitator
type Config struct {
	ServerURL      string
	NumClients     int
	ActionInterval time.Duration
	TestDuration   time.Duration
	ResultsPath    string
}

// Stats tracks performance metrics
type Stats struct {
	MessagesSent     int64
	MessagesReceived int64
	Applied          int64
	Rejected         int64
	Errors           int64
	Latencies        []time.Duration
	mu               sync.Mutex
}

func (s *Stats) observe(d time.Duration) {
	s.mu.Lock()
	s.Latencies = append(s.Latencies, d)
	s.mu.Unlock()
}

// Commands that never change the portfolio, so a load test can run against
// a real save without wrecking it.
var commandMakers = []func(r *rand.Rand) network.CommandRequest{
	func(*rand.Rand) network.CommandRequest {
		return request(engine.TogglePause{}, nil)
	},
	func(r *rand.Rand) network.CommandRequest {
		speeds := []game.Speed{game.SpeedSlow, game.SpeedNormal, game.SpeedFast}
		return request(engine.SetSpeed{}, engine.SetSpeed{Speed: speeds[r.Intn(len(speeds))]})
	},
	func(r *rand.Rand) network.CommandRequest {
		return request(engine.SetDefaultRentMarkup{}, engine.SetDefaultRentMarkup{Markup: 1 + r.Intn(10)})
	},
	func(*rand.Rand) network.CommandRequest {
		return request(engine.DismissBalanceSheetModal{}, nil)
	},
}

func request(cmd engine.Command, args interface{}) network.CommandRequest {
	req := network.CommandRequest{RequestID: uuid.NewString(), Command: cmd.CommandName()}
	if args != nil {
		raw, _ := json.Marshal(args)
		req.Args = raw
	}
	return req
}

func main() {
	var config Config
	rootCmd := &cobra.Command{
		Use:   "agitator",
		Short: "Stress test a running game server over websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(config)
		},
	}
	flags := rootCmd.Flags()
	flags.StringVar(&config.ServerURL, "url", "ws://localhost:8080/ws", "WebSocket server URL")
	flags.IntVar(&config.NumClients, "clients", 50, "Number of concurrent clients")
	flags.DurationVar(&config.ActionInterval, "interval", 100*time.Millisecond, "Command interval per client")
	flags.DurationVar(&config.TestDuration, "duration", 60*time.Second, "Test duration")
	flags.StringVar(&config.ResultsPath, "out", "stress_test_results.json", "Where to write the JSON results")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(config Config) error {
	if _, err := url.Parse(config.ServerURL); err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}

	fmt.Println("=========================================")
	fmt.Println("AGITATOR - websocket stress test")
	fmt.Println("=========================================")
	fmt.Printf("Server:   %s\n", config.ServerURL)
	fmt.Printf("Clients:  %d\n", config.NumClients)
	fmt.Printf("Interval: %v\n", config.ActionInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)

	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		select {
		case <-sigChan:
			fmt.Println("\nInterrupt received, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	stats := runStressTest(ctx, config)
	return printResults(stats, config)
}

func runStressTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup
	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)

		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}
	fmt.Printf("All %d clients started\n\n", config.NumClients)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Printf("Progress: sent=%d recv=%d errors=%d\n",
					atomic.LoadInt64(&stats.MessagesSent),
					atomic.LoadInt64(&stats.MessagesReceived),
					atomic.LoadInt64(&stats.Errors))
			}
		}
	}()

	wg.Wait()
	return stats
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client %d: connection failed: %v\n", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	var pendingMu sync.Mutex
	pending := make(map[string]time.Time)

	go func() {
		for {
			var msg network.ServerMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			atomic.AddInt64(&stats.MessagesReceived, 1)

			switch msg.Type {
			case network.MessageResult:
				if msg.Result != nil && msg.Result.Applied {
					atomic.AddInt64(&stats.Applied, 1)
				} else {
					atomic.AddInt64(&stats.Rejected, 1)
				}
			case network.MessageError:
				atomic.AddInt64(&stats.Errors, 1)
			default:
				continue
			}

			pendingMu.Lock()
			sent, ok := pending[msg.RequestID]
			delete(pending, msg.RequestID)
			pendingMu.Unlock()
			if ok {
				stats.observe(time.Since(sent))
			}
		}
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(clientID)))
	ticker := time.NewTicker(config.ActionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return
		case <-ticker.C:
			req := commandMakers[rng.Intn(len(commandMakers))](rng)

			pendingMu.Lock()
			pending[req.RequestID] = time.Now()
			pendingMu.Unlock()

			if err := conn.WriteJSON(req); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				return
			}
			atomic.AddInt64(&stats.MessagesSent, 1)
		}
	}
}

func printResults(stats *Stats, config Config) error {
	sent := atomic.LoadInt64(&stats.MessagesSent)
	recv := atomic.LoadInt64(&stats.MessagesReceived)
	errs := atomic.LoadInt64(&stats.Errors)
	throughput := float64(sent) / config.TestDuration.Seconds()

	fmt.Println("\n=========================================")
	fmt.Println("STRESS TEST RESULTS")
	fmt.Println("=========================================")
	fmt.Printf("Messages Sent:     %d\n", sent)
	fmt.Printf("Messages Received: %d\n", recv)
	fmt.Printf("Applied/Rejected:  %d/%d\n", atomic.LoadInt64(&stats.Applied), atomic.LoadInt64(&stats.Rejected))
	fmt.Printf("Errors:            %d\n", errs)
	fmt.Printf("Error Rate:        %.2f%%\n", float64(errs)/float64(sent+1)*100)
	fmt.Printf("Throughput:        %.2f msg/sec\n", throughput)

	stats.mu.Lock()
	latencies := append([]time.Duration(nil), stats.Latencies...)
	stats.mu.Unlock()

	results := map[string]interface{}{
		"messages_sent":      sent,
		"messages_received":  recv,
		"errors":             errs,
		"throughput_per_sec": throughput,
		"config": map[string]interface{}{
			"clients":  config.NumClients,
			"interval": config.ActionInterval.String(),
			"duration": config.TestDuration.String(),
		},
	}

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		p50 := latencies[len(latencies)/2]
		p99 := latencies[len(latencies)*99/100]
		fmt.Printf("\nRound trip:\n  Min: %v\n  P50: %v\n  P99: %v\n  Max: %v\n",
			latencies[0], p50, p99, latencies[len(latencies)-1])
		results["latency_p50_ms"] = float64(p50.Microseconds()) / 1000
		results["latency_p99_ms"] = float64(p99.Microseconds()) / 1000
	}

	// Rejections are expected (commands arrive faster than the rate limit).
	fmt.Println("\n-----------------------------------------")
	switch {
	case errs == 0:
		fmt.Println("PASSED: server handled the load")
	case float64(errs)/float64(sent+1) < 0.05:
		fmt.Println("WARNING: some errors detected")
	default:
		fmt.Println("FAILED: high error rate")
	}

	jsonData, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(config.ResultsPath, jsonData, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	fmt.Printf("Results saved to %s\n", config.ResultsPath)
	return nil
}
