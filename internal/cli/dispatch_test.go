package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"clickup/internal/cli"
	"clickup/internal/commands"
	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/service"
	"clickup/internal/testutil"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CLICKUP_API_TOKEN", "CLICKUP_TOKEN",
		"CLICKUP_CLIENT_ID", "CLICKUP_OAUTH_CLIENT_ID",
		"CLICKUP_CLIENT_SECRET", "CLICKUP_OAUTH_CLIENT_SECRET",
	} {
		t.Setenv(name, "")
	}
}

func runDispatcher(t *testing.T, svc service.Service, args []string) (stdout, stderr string, code int) {
	t.Helper()
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestRun_NoArgsShowsHelp(t *testing.T) {
	stdout, _, code := runDispatcher(t, nil, nil)

	if code != exitcode.Success {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Errorf("expected usage output:\n%s", stdout)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	_, stderr, code := runDispatcher(t, nil, []string{"frobnicate"})

	if code != exitcode.Error {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stderr, "unknown command: frobnicate") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestRun_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := runDispatcher(t, nil, []string{"--json", "task"})

	if code != exitcode.Error {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stderr, "unknown command: --json") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	_, stderr, code := runDispatcher(t, nil, []string{"version", "--bogus"})

	if code != exitcode.Error {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stderr, "unknown flag: -bogus") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestRun_NeedsAuthWithoutCredentials(t *testing.T) {
	clearCredentialEnv(t)

	_, stderr, code := runDispatcher(t, testutil.NewFakeService(), []string{"task", "list", "--config", t.TempDir()})

	if code != exitcode.Error {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stderr, "no credentials configured") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestRun_DispatchesWithCredentials(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("CLICKUP_API_TOKEN", "pk_test")

	svc := testutil.NewFakeService()
	svc.AddTask("list1", service.Task{ID: "t1", Name: "Visible"})

	stdout, stderr, code := runDispatcher(t, svc, []string{"task", "list", "--list-id", "list1", "--config", t.TempDir()})

	if code != exitcode.Success {
		t.Fatalf("exit code %d, stderr: %q", code, stderr)
	}
	if !strings.Contains(stdout, "Visible") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestRun_AliasResolution(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("CLICKUP_API_TOKEN", "pk_test")

	_, stderr, code := runDispatcher(t, testutil.NewFakeService(), []string{"tasks", "--config", t.TempDir()})

	// "tasks" aliases the task command, which then complains about the
	// missing action rather than an unknown command.
	if code != exitcode.Error {
		t.Fatalf("exit code %d", code)
	}
	if strings.Contains(stderr, "unknown command") {
		t.Errorf("alias should resolve, got: %q", stderr)
	}
	if !strings.Contains(stderr, "usage: clickup task") {
		t.Errorf("expected task usage, got: %q", stderr)
	}
}

func TestRun_VersionNeedsNoCredentials(t *testing.T) {
	clearCredentialEnv(t)

	stdout, _, code := runDispatcher(t, nil, []string{"version", "--config", t.TempDir()})

	if code != exitcode.Success {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout, "clickup") {
		t.Errorf("unexpected output: %q", stdout)
	}
}
