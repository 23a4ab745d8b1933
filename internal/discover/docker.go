package discover

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/swarm"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
)

const elementsPerSource = 200

// dockerSource lists hosts from a docker or podman engine.
type dockerSource struct {
	host string
	cli  *client.Client
}

// NewDockerSource connects to the engine at host and checks it answers.
func NewDockerSource(ctx context.Context, host string) (Source, error) {
	opts := []client.Opt{
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating docker client for %q: %w", host, err)
	}

	if _, err := cli.Info(ctx); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("error getting docker/podman server info for %q: %w", host, err)
	}

	return &dockerSource{host: host, cli: cli}, nil
}

func (d *dockerSource) Name() string {
	return d.host
}

func (d *dockerSource) Hosts(ctx context.Context) ([]string, error) {
	containers, err := d.cli.ContainerList(ctx, types.ContainerListOptions{
		Limit:   elementsPerSource,
		Filters: filters.Args{},
	})
	if err != nil {
		return nil, fmt.Errorf("error listing docker/podman containers: %w", err)
	}

	hosts := containerHosts(containers)

	services, err := d.cli.ServiceList(ctx, types.ServiceListOptions{})
	if err != nil && !errdefs.IsNotFound(err) && !errdefs.IsUnavailable(err) {
		return nil, fmt.Errorf("error listing docker/podman services: %w", err)
	}

	return append(hosts, serviceHosts(services)...), nil
}

func (d *dockerSource) Close() error {
	return d.cli.Close()
}

// containerHosts returns name:port for every published port of every container name.
func containerHosts(containers []types.Container) []string {
	var hosts []string

	for _, container := range containers {
		for _, name := range container.Names {
			if len(name) > 0 && name[0] == '/' {
				name = name[1:]
			}
			for _, port := range container.Ports {
				if port.PublicPort == 0 {
					continue
				}
				hosts = append(hosts, fmt.Sprintf("%s:%d", name, port.PublicPort))
			}
		}
	}

	return hosts
}

// serviceHosts returns name:port for every published swarm service port.
func serviceHosts(services []swarm.Service) []string {
	var hosts []string

	for _, service := range services {
		for _, port := range service.Endpoint.Ports {
			if port.PublishedPort == 0 {
				continue
			}
			hosts = append(hosts, fmt.Sprintf("%s:%d", service.Spec.Name, port.PublishedPort))
		}
	}

	return hosts
}
