package pihole_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/pigroup/pkg/piholesdk"
)

/*
 * End-to-end tests against a real Pi-hole v6 container. They need Docker and
 * are skipped unless PIGROUP_E2E=1.
 */

const (
	defaultImage  = "pihole/pihole:latest"
	adminPassword = "e2e-password"
)

func TestMain(m *testing.M) {
	if os.Getenv("PIGROUP_E2E") != "1" {
		fmt.Fprintln(os.Stdout, "skipping Pi-hole e2e tests, set PIGROUP_E2E=1 to run them")
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// setupPihole starts a Pi-hole container and returns its web server base URL.
func setupPihole(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	image := os.Getenv("PIGROUP_E2E_IMAGE")
	if image == "" {
		image = defaultImage
	}

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"80/tcp"},
		Env: map[string]string{
			"FTLCONF_webserver_api_password": adminPassword,
			"FTLCONF_dns_upstreams":          "127.0.0.1#5353",
			"TZ":                             "UTC",
		},
		WaitingFor: wait.ForHTTP("/api/info/login").
			WithPort("80/tcp").
			WithStartupTimeout(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	mappedPort, err := container.MappedPort(ctx, "80")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// seed creates a group and a client through the API and returns their ids.
func seed(t *testing.T, baseURL, groupName, clientAddr, clientComment string) (groupID, clientID uint) {
	t.Helper()
	ctx := context.Background()

	c := piholesdk.NewClient(baseURL)
	_, err := c.Authenticate(ctx, adminPassword)
	require.NoError(t, err)
	defer func() { _ = c.EndSession(ctx) }()

	groups, err := c.CreateGroup(ctx, piholesdk.GroupRequest{Name: groupName, Enabled: true})
	require.NoError(t, err)
	require.Len(t, groups.Groups, 1)

	clients, err := c.CreateClient(ctx, piholesdk.CreateClientRequest{
		Client:  clientAddr,
		Comment: clientComment,
		Groups:  []uint{0},
	})
	require.NoError(t, err)
	require.Len(t, clients.Clients, 1)

	return groups.Groups[0].ID, clients.Clients[0].ID
}

// clientGroups reads a client's group ids back from the server.
func clientGroups(t *testing.T, baseURL string, id uint) []uint {
	t.Helper()
	ctx := context.Background()

	c := piholesdk.NewClient(baseURL)
	_, err := c.Authenticate(ctx, adminPassword)
	require.NoError(t, err)
	defer func() { _ = c.EndSession(ctx) }()

	resp, err := c.GetClient(ctx, id)
	require.NoError(t, err)
	require.Len(t, resp.Clients, 1)
	return resp.Clients[0].Groups
}
