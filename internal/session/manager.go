package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/lettersync/cli/internal/errors"
	"github.com/lettersync/cli/internal/interfaces"
)

// gatewayImage is the template gateway image started in local mode. It wraps
// a headless browser driving the letter administration pages and exposes the
// letter and render endpoints over HTTP.
const gatewayImage = "lettersync/gateway:latest"

// Manager implements the Session interface. In local mode it owns a Docker
// container running the gateway; in remote mode it only health-checks an
// already running gateway. Either way the connected session is a single
// stateful connection: callers must not issue concurrent requests against it.
type Manager struct {
	config       interfaces.GatewayConfig
	dockerClient *client.Client
	httpClient   *http.Client
	baseURL      string
}

// NewManager creates a session manager for the configured gateway. The Docker
// client is only needed in local mode.
func NewManager(config interfaces.GatewayConfig) (*Manager, error) {
	var dockerClient *client.Client
	if config.Mode == interfaces.ModeLocal {
		var err error
		dockerClient, err = client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			return nil, errors.NewSessionError("failed to create Docker client", err)
		}
	}

	return &Manager{
		config:       config,
		dockerClient: dockerClient,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// BaseURL returns the gateway base URL. Empty until Connect succeeds.
func (m *Manager) BaseURL() string {
	return m.baseURL
}

// Connect establishes the session. In local mode the gateway container is
// started first if it is not already running and healthy.
func (m *Manager) Connect(ctx context.Context) error {
	if m.config.Mode == interfaces.ModeRemote {
		baseURL := strings.TrimSuffix(m.config.URL, "/")
		if err := m.healthCheck(ctx, baseURL+"/actuator/health"); err != nil {
			return errors.NewSessionError(fmt.Sprintf("gateway at %s is not reachable", baseURL), err)
		}
		m.baseURL = baseURL
		return nil
	}

	if err := m.ensureContainer(ctx); err != nil {
		return err
	}
	m.baseURL = fmt.Sprintf("http://localhost:%d", m.config.Port)
	return nil
}

// Restart tears the session down and re-establishes it.
func (m *Manager) Restart(ctx context.Context) error {
	if m.config.Mode == interfaces.ModeLocal {
		// Remove the container outright; ensureContainer recreates it.
		_ = m.dockerClient.ContainerRemove(ctx, m.config.DockerContainer, container.RemoveOptions{Force: true})
	}
	m.baseURL = ""
	return m.Connect(ctx)
}

// Close closes the Docker client connection. The gateway container is left
// running so the next invocation connects quickly.
func (m *Manager) Close() error {
	if m.dockerClient != nil {
		return m.dockerClient.Close()
	}
	return nil
}

// Status queries the current state of the gateway. In remote mode there is no
// container to inspect, so the health endpoint alone decides.
func (m *Manager) Status(ctx context.Context) (interfaces.SessionStatus, error) {
	status := interfaces.SessionStatus{
		ContainerName: m.config.DockerContainer,
	}

	if m.config.Mode == interfaces.ModeRemote {
		baseURL := strings.TrimSuffix(m.config.URL, "/")
		if err := m.healthCheck(ctx, baseURL+"/actuator/health"); err == nil {
			status.Running = true
			status.Healthy = true
		}
		return status, nil
	}

	containerJSON, err := m.dockerClient.ContainerInspect(ctx, m.config.DockerContainer)
	if err != nil {
		if client.IsErrNotFound(err) {
			return status, nil
		}
		return status, errors.NewSessionError("failed to inspect gateway container", err)
	}

	status.Running = containerJSON.State.Running

	if status.Running {
		if bindings, ok := containerJSON.NetworkSettings.Ports["8080/tcp"]; ok && len(bindings) > 0 {
			healthURL := fmt.Sprintf("http://localhost:%s/actuator/health", bindings[0].HostPort)
			if err := m.healthCheck(ctx, healthURL); err == nil {
				status.Healthy = true
			}
		}
	}

	return status, nil
}

// ensureContainer makes sure the gateway container is running and healthy,
// creating it from the image if needed.
func (m *Manager) ensureContainer(ctx context.Context) error {
	status, err := m.Status(ctx)
	if err != nil {
		return err
	}

	if status.Running && status.Healthy {
		return nil
	}

	if !status.Running {
		_ = m.dockerClient.ContainerRemove(ctx, m.config.DockerContainer, container.RemoveOptions{Force: true})
	}

	return m.start(ctx)
}

// start creates and starts the gateway container, then waits for health.
func (m *Manager) start(ctx context.Context) error {
	if err := m.pullImageIfNeeded(ctx, gatewayImage); err != nil {
		return errors.NewSessionError(fmt.Sprintf("failed to pull gateway image %s", gatewayImage), err)
	}

	hostPort := fmt.Sprintf("%d", m.config.Port)
	containerPort := "8080/tcp"
	portBindings := nat.PortMap{
		nat.Port(containerPort): []nat.PortBinding{
			{
				HostIP:   "0.0.0.0",
				HostPort: hostPort,
			},
		},
	}

	containerConfig := &container.Config{
		Image: gatewayImage,
		ExposedPorts: nat.PortSet{
			nat.Port(containerPort): struct{}{},
		},
	}

	hostConfig := &container.HostConfig{
		PortBindings: portBindings,
		AutoRemove:   false,
	}

	resp, err := m.dockerClient.ContainerCreate(
		ctx,
		containerConfig,
		hostConfig,
		nil,
		nil,
		m.config.DockerContainer,
	)
	if err != nil {
		return errors.NewSessionError("failed to create gateway container", err)
	}

	if err := m.dockerClient.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = m.dockerClient.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return errors.NewSessionError("failed to start gateway container", err)
	}

	healthURL := fmt.Sprintf("http://localhost:%d/actuator/health", m.config.Port)
	if err := m.waitForHealth(ctx, healthURL); err != nil {
		_ = m.dockerClient.ContainerStop(ctx, resp.ID, container.StopOptions{})
		_ = m.dockerClient.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return errors.NewSessionError("gateway failed health check", err)
	}

	return nil
}

// healthCheck performs a health check on the given endpoint
func (m *Manager) healthCheck(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// pullImageIfNeeded pulls the gateway image if it doesn't exist locally
func (m *Manager) pullImageIfNeeded(ctx context.Context, imageName string) error {
	_, _, err := m.dockerClient.ImageInspectWithRaw(ctx, imageName)
	if err == nil {
		return nil
	}

	reader, err := m.dockerClient.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()

	// Wait for pull to complete
	_, err = io.Copy(io.Discard, reader)
	return err
}

// waitForHealth waits for the health check to pass with exponential backoff
func (m *Manager) waitForHealth(ctx context.Context, healthURL string) error {
	maxAttempts := 10
	baseDelay := 500 * time.Millisecond
	maxDelay := 5 * time.Second

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := m.healthCheck(ctx, healthURL); err == nil {
			return nil
		}

		delay := baseDelay * time.Duration(1<<uint(attempt))
		if delay > maxDelay {
			delay = maxDelay
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("health check failed after %d attempts", maxAttempts)
}
