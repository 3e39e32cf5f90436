package health

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const dockerPSFormat = "{{.Names}}\t{{.Status}}"

// ContainerLister reports container health by name.
type ContainerLister interface {
	Containers(ctx context.Context) (map[string]bool, error)
}

// DockerCLI lists containers through `docker ps`.
type DockerCLI struct {
	Binary string // defaults to "docker"
}

func (d DockerCLI) Containers(ctx context.Context) (map[string]bool, error) {
	bin := d.Binary
	if bin == "" {
		bin = "docker"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "ps", "--format", dockerPSFormat)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("docker ps failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return ParseDockerPS(stdout.String()), nil
}

// ParseDockerPS reads "name<TAB>status" lines. A container is healthy when
// its status mentions "healthy" and not "unhealthy".
func ParseDockerPS(out string) map[string]bool {
	status := make(map[string]bool)
	for line := range strings.Lines(out) {
		name, state, ok := strings.Cut(strings.TrimRight(line, "\r\n"), "\t")
		if !ok || name == "" {
			continue
		}
		s := strings.ToLower(state)
		status[strings.ReplaceAll(name, "/", "")] = strings.Contains(s, "healthy") && !strings.Contains(s, "unhealthy")
	}
	return status
}
