package cmd

import (
	"bytes"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func useCatalog(t *testing.T) *testutil.CatalogServer {
	t.Helper()
	cs := testutil.NewCatalogServer(t)
	t.Chdir(t.TempDir())
	t.Setenv("APP_CATALOG_BASE_URL", cs.URL)
	t.Setenv("APP_RATE_LIMIT_REQUESTS_PER_SECOND", "0")
	return cs
}

func TestRootCommand_Flags(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"config", "log-level", "log-format"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
	for _, name := range []string{"serve", "search", "episodes", "version"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("Expected %s subcommand, got %v (%v)", name, c, err)
		}
	}
}

func TestServeCommand_Flags(t *testing.T) {
	serve, _, err := NewRootCmd().Find([]string{"serve"})
	if err != nil {
		t.Fatalf("Find serve: %v", err)
	}
	if serve.Flags().Lookup("host") == nil || serve.Flags().Lookup("port") == nil {
		t.Error("Expected --host and --port flags on serve")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	port := lis.Addr().(*net.TCPAddr).Port
	lis.Close()
	return port
}

func TestServeCommand_GRPCPortBusy(t *testing.T) {
	t.Chdir(t.TempDir())

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer busy.Close()

	webPort := freePort(t)
	t.Setenv("APP_SERVER_ADDRESS", "127.0.0.1")
	t.Setenv("APP_SERVER_PORT", strconv.Itoa(webPort))
	t.Setenv("APP_GRPC_ENABLED", "true")
	t.Setenv("APP_GRPC_PORT", strconv.Itoa(busy.Addr().(*net.TCPAddr).Port))

	_, err = execute(t, "serve")
	if err == nil || !strings.Contains(err.Error(), "listen on") {
		t.Fatalf("Expected a gRPC listen error, got %v", err)
	}

	// the web server must not have been started
	lis, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(webPort))
	if err != nil {
		t.Fatalf("Expected web port %d to be free after the failed start: %v", webPort, err)
	}
	lis.Close()
}

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version --short: %v", err)
	}
	if strings.TrimSpace(out) != "v"+Version {
		t.Errorf("Expected v%s, got %q", Version, out)
	}

	out, err = execute(t, "version", "--short=false")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "ShowFinder") || !strings.Contains(out, "Go Version:") {
		t.Errorf("Expected detailed version output, got %q", out)
	}
}

func TestSearchCommand(t *testing.T) {
	cs := useCatalog(t)
	cs.SetSearch(testutil.GenerateSearchJSON([]testutil.ShowOptions{
		{ID: 139, Name: "Girls", ImageURL: "https://static.tvmaze.com/139.jpg"},
		{ID: 525, Name: "Gilmore Girls"},
	}))

	out, err := execute(t, "search", "gilmore", "girls")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	calls := cs.Calls()
	if len(calls) != 1 || calls[0].Query != "gilmore girls" {
		t.Fatalf("Expected one search for 'gilmore girls', got %+v", calls)
	}
	for _, want := range []string{"139", "Girls", "525", "Gilmore Girls", "https://tinyurl.com/tv-missing", "2 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestSearchCommand_RequiresTerm(t *testing.T) {
	useCatalog(t)

	if _, err := execute(t, "search"); err == nil {
		t.Fatal("Expected error without a search term")
	}
}

func TestEpisodesCommand(t *testing.T) {
	cs := useCatalog(t)
	cs.SetEpisodes("7", testutil.GenerateEpisodesJSON([]models.Episode{
		{ID: 1, Name: "Pilot", Season: 1, Number: 1},
		{ID: 2, Name: "Second", Season: 1, Number: 2},
	}))

	out, err := execute(t, "episodes", "7")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	if !strings.Contains(out, "Pilot (1, 1)") || !strings.Contains(out, "Second (1, 2)") {
		t.Errorf("Expected episode labels in output:\n%s", out)
	}
}

func TestEpisodesCommand_Errors(t *testing.T) {
	cs := useCatalog(t)

	if _, err := execute(t, "episodes", "abc"); err == nil {
		t.Error("Expected error for a non-numeric show id")
	}
	if len(cs.Calls()) != 0 {
		t.Error("Expected no catalog call for a non-numeric show id")
	}
	if _, err := execute(t, "episodes", "404"); err == nil {
		t.Error("Expected error for an unknown show")
	}
}
