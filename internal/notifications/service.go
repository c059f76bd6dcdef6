package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"luamaker/internal/config"
)

const userAgent = "luamaker/0.1.0"

// RunSummary carries the fields shown in a completion notice.
type RunSummary struct {
	AppID     string
	Name      string
	Mode      string
	Depots    int
	Manifests int
	OutputDir string
	Elapsed   time.Duration
}

// Service defines the notification surface exposed to the workflow.
type Service interface {
	NotifyRunCompleted(ctx context.Context, run RunSummary) error
	NotifyRunFailed(ctx context.Context, appID string, err error) error
	TestNotification(ctx context.Context) error
	Enabled() bool
}

// NewService builds a notification service backed by ntfy when configured.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Enabled() bool { return true }

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, run RunSummary) error {
	label := strings.TrimSpace(run.Name)
	if label == "" {
		label = "app " + run.AppID
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]: %d depot(s), %d manifest(s)", label, run.AppID, run.Depots, run.Manifests)
	if run.Mode != "" && run.Mode != "generated" {
		fmt.Fprintf(&b, " (%s)", run.Mode)
	}
	if run.OutputDir != "" {
		fmt.Fprintf(&b, "\nOutput: %s", run.OutputDir)
	}
	if run.Elapsed > 0 {
		fmt.Fprintf(&b, "\nTook %s", run.Elapsed.Round(time.Millisecond))
	}
	return n.send(ctx, payload{
		title:   "luamaker - Lua ready",
		message: b.String(),
		tags:    []string{"luamaker", "generate", "completed"},
	})
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, appID string, err error) error {
	var b strings.Builder
	b.WriteString("Run failed")
	if appID = strings.TrimSpace(appID); appID != "" {
		b.WriteString(" for app ")
		b.WriteString(appID)
	}
	b.WriteString(": ")
	if err != nil {
		b.WriteString(strings.TrimSpace(err.Error()))
	} else {
		b.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "luamaker - Error",
		message:  b.String(),
		tags:     []string{"luamaker", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "luamaker - Test",
		message:  "Notification system test",
		tags:     []string{"luamaker", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunCompleted(context.Context, RunSummary) error { return nil }
func (noopService) NotifyRunFailed(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error               { return nil }
func (noopService) Enabled() bool                                        { return false }
