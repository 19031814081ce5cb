// Package telemetry sends anonymous, opt-out usage events to PostHog.
package telemetry

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
	"github.com/posthog/posthog-go"

	"github.com/meza/lcov-summary/internal/environment"
)

const (
	disableEnvVar = "DO_NOT_TRACK"
	endpoint      = "https://eu.i.posthog.com"
)

type Client interface {
	io.Closer
	Enqueue(posthog.Message) error
}

type CommandTelemetry struct {
	Command string                 `json:"command"`
	Success bool                   `json:"success"`
	Error   error                  `json:"error,omitempty"`
	Extra   map[string]interface{} `json:"extra,omitempty"`
}

var (
	mu        sync.Mutex
	client    Client
	machineID string

	machineIDProvider = machineid.ID
	clientBuilder     = newPosthogClient
)

func newPosthogClient(apiKey, endpoint string) (Client, error) {
	return posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
}

// Init prepares the client. Telemetry stays off when DO_NOT_TRACK is set or
// the build carries no API key.
func Init() {
	mu.Lock()
	defer mu.Unlock()

	if client != nil || disabled() {
		return
	}

	apiKey := environment.PosthogAPIKey()
	if apiKey == "" || strings.HasPrefix(apiKey, "REPL_") {
		return
	}

	built, err := clientBuilder(apiKey, endpoint)
	if err != nil || built == nil {
		return
	}

	client = built
	machineID = resolveMachineID()
}

func disabled() bool {
	value, present := os.LookupEnv(disableEnvVar)
	return present && value != "" && value != "0" && value != "false"
}

func resolveMachineID() string {
	if envMachineID, ok := os.LookupEnv("MACHINE_ID"); ok {
		return envMachineID
	}

	id, err := machineIDProvider()
	if err != nil {
		return "unknown"
	}
	return id
}

func Capture(event string, properties map[string]interface{}) {
	if event == "" {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if client == nil {
		return
	}

	_ = client.Enqueue(posthog.Capture{
		Event:      event,
		DistinctId: machineID,
		Properties: properties,
	})
}

func CaptureCommand(command CommandTelemetry) {
	properties := map[string]interface{}{
		"type":    "command",
		"success": command.Success,
		"version": environment.AppVersion(),
	}

	if command.Error != nil {
		properties["error"] = command.Error.Error()
	}

	if command.Extra != nil {
		properties["extra"] = command.Extra
	}

	Capture(command.Command, properties)
}

// Shutdown flushes queued events, giving up when ctx is done.
func Shutdown(ctx context.Context) {
	mu.Lock()
	current := client
	client = nil
	mu.Unlock()

	if current == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		_ = current.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Reset clears the client and restores the default providers (tests only).
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	client = nil
	machineID = ""
	machineIDProvider = machineid.ID
	clientBuilder = newPosthogClient
}
