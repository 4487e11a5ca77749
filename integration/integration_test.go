// Package integration provides end-to-end tests for the autoreview and audit
// binaries using mock assistant and forge CLIs.
//
// The tests build each binary, put shell-script stand-ins for claude and gh
// first on PATH, and run against a throwaway git repository whose origin is a
// local bare repository. The audit tests point the reasoning client at an
// httptest server through OPENAI_BASE_URL.
package integration

import (
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths and state for integration test execution.
type testEnv struct {
	bin      string // Path to the built binary
	mockDir  string // Directory containing mock CLI scripts
	repoDir  string // Temporary git repo for test execution
	origPath string
	extraEnv []string
}

// setupTestEnv builds the binary for pkg and creates a repo with a pushed main branch.
func setupTestEnv(t *testing.T, pkg string) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rootDir := findRepoRoot(t)
	bin := filepath.Join(t.TempDir(), filepath.Base(pkg))
	build := exec.Command("go", "build", "-o", bin, pkg)
	build.Dir = rootDir
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("failed to build %s: %v\n%s", pkg, err, out)
	}

	mockDir := filepath.Join(t.TempDir(), "mocks")
	if err := os.MkdirAll(mockDir, 0755); err != nil {
		t.Fatal(err)
	}

	return &testEnv{
		bin:      bin,
		mockDir:  mockDir,
		repoDir:  createTestRepo(t),
		origPath: os.Getenv("PATH"),
	}
}

func (e *testEnv) environ() []string {
	env := []string{"PATH=" + e.mockDir + ":" + e.origPath}
	for _, v := range os.Environ() {
		// Keep the host's settings from leaking into the run.
		if strings.HasPrefix(v, "PATH=") || strings.HasPrefix(v, "AUTOREVIEW_") ||
			strings.HasPrefix(v, "TG_") || strings.HasSuffix(strings.SplitN(v, "=", 2)[0], "_API_KEY") ||
			strings.HasPrefix(v, "OPENAI_BASE_URL=") {
			continue
		}
		env = append(env, v)
	}
	return append(env, e.extraEnv...)
}

// run executes the binary with the given args and returns stdout, stderr, and exit code.
func (e *testEnv) run(args ...string) (stdout, stderr string, exitCode int) {
	cmd := exec.Command(e.bin, args...)
	cmd.Dir = e.repoDir
	cmd.Env = e.environ()

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}
	return outBuf.String(), errBuf.String(), exitCode
}

// findRepoRoot walks up to find the go.mod file.
func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find repo root (no go.mod)")
		}
		dir = parent
	}
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// createTestRepo creates a repo on branch main with one commit pushed to a bare origin.
func createTestRepo(t *testing.T) string {
	t.Helper()
	origin := t.TempDir()
	git(t, origin, "init", "-q", "--bare")

	dir := t.TempDir()
	git(t, dir, "init", "-q")
	git(t, dir, "checkout", "-q", "-b", "main")
	git(t, dir, "config", "user.email", "test@test.com")
	git(t, dir, "config", "user.name", "Test")

	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("auto_review.log\n.auto_review.lock\n"), 0644); err != nil {
		t.Fatal(err)
	}
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-q", "-m", "initial")
	git(t, dir, "remote", "add", "origin", origin)
	git(t, dir, "push", "-q", "-u", "origin", "main")

	return dir
}

func writeMock(t *testing.T, dir, name, script string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
}

// writeMockGH prints a pull request URL for `gh pr create` and succeeds otherwise.
func writeMockGH(t *testing.T, dir string) {
	writeMock(t, dir, "gh", `if [ "$1" = "pr" ] && [ "$2" = "create" ]; then
  echo "https://github.com/acme/widgets/pull/7"
fi
exit 0
`)
}

// mockClaudeCommits commits a change for improvement prompts and answers
// reviewer prompts with reviewVerdict.
func mockClaudeCommits(reviewVerdict string) string {
	return `prompt=$(cat)
case "$prompt" in
  *"You are a code reviewer"*)
    echo "` + reviewVerdict + `"
    exit 0
    ;;
esac
echo "// improved" >> main.go
git add main.go
git commit -q -m "fix: improve main"
echo "Fixed one bug in main.go"
`
}

func TestAutoreview_Help(t *testing.T) {
	env := setupTestEnv(t, "./cmd/autoreview")

	stdout, stderr, code := env.run("--help")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	for _, want := range []string{"Execution:", "--once", "--northstar", "config"} {
		if !strings.Contains(stdout+stderr, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestAutoreview_ListModes(t *testing.T) {
	env := setupTestEnv(t, "./cmd/autoreview")

	stdout, _, code := env.run("--list-modes")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "accessibility") {
		t.Errorf("listing missing accessibility mode:\n%s", stdout)
	}
}

func TestAutoreview_RequiresSchedule(t *testing.T) {
	env := setupTestEnv(t, "./cmd/autoreview")

	_, stderr, code := env.run("-m", "fix_bugs")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "specify --once, --interval, or --cron") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestAutoreview_ConfigSubcommands(t *testing.T) {
	env := setupTestEnv(t, "./cmd/autoreview")

	if _, stderr, code := env.run("config", "init"); code != 0 {
		t.Fatalf("config init exit = %d: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(env.repoDir, ".autoreview.yaml")); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if stdout, stderr, code := env.run("config", "validate"); code != 0 {
		t.Fatalf("config validate exit = %d: %s%s", code, stdout, stderr)
	}
	stdout, _, code := env.run("config", "show")
	if code != 0 || !strings.Contains(stdout, "base_branch: main") {
		t.Errorf("config show exit = %d:\n%s", code, stdout)
	}
}

func TestAutoreview_OnceApproved(t *testing.T) {
	env := setupTestEnv(t, "./cmd/autoreview")
	writeMockGH(t, env.mockDir)
	writeMock(t, env.mockDir, "claude", mockClaudeCommits("APPROVED - looks good"))

	stdout, stderr, code := env.run("--once", "-m", "fix_bugs")
	if code != 0 {
		t.Fatalf("exit code = %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}

	for _, want := range []string{
		"Selected modes: Fix Bugs",
		"Created change request: https://github.com/acme/widgets/pull/7",
		"ready for manual merge",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}

	// The session leaves the tree on base with the work on a pushed branch.
	if branch := git(t, env.repoDir, "rev-parse", "--abbrev-ref", "HEAD"); branch != "main" {
		t.Errorf("current branch = %q, want main", branch)
	}
	if heads := git(t, env.repoDir, "ls-remote", "--heads", "origin"); !strings.Contains(heads, "refs/heads/auto-fix-bugs/") {
		t.Errorf("expected an auto-fix-bugs branch on origin, got:\n%s", heads)
	}

	logData, err := os.ReadFile(filepath.Join(env.repoDir, "auto_review.log"))
	if err != nil {
		t.Fatalf("run log not written: %v", err)
	}
	if !strings.Contains(string(logData), "Starting review cycle") {
		t.Errorf("run log missing session start:\n%s", logData)
	}
	if _, err := os.Stat(filepath.Join(env.repoDir, ".auto_review.lock")); !os.IsNotExist(err) {
		t.Errorf("lock file should be removed after the run, stat err = %v", err)
	}
}

func TestAutoreview_OnceNoChanges(t *testing.T) {
	env := setupTestEnv(t, "./cmd/autoreview")
	writeMockGH(t, env.mockDir)
	writeMock(t, env.mockDir, "claude", "cat > /dev/null\necho 'Nothing to fix.'\n")

	stdout, stderr, code := env.run("--once", "-m", "cleanup")
	if code != 0 {
		t.Fatalf("exit code = %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "nothing to open a change request for") {
		t.Errorf("stdout:\n%s", stdout)
	}
}

func TestAutoreview_OnceAssistantFails(t *testing.T) {
	env := setupTestEnv(t, "./cmd/autoreview")
	writeMockGH(t, env.mockDir)
	writeMock(t, env.mockDir, "claude", "cat > /dev/null\necho 'rate limited' >&2\nexit 3\n")

	stdout, stderr, code := env.run("--once", "-m", "fix_bugs")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "Review cycle ended (failed)") {
		t.Errorf("stdout:\n%s", stdout)
	}
}

func TestAutoreview_PromptFile(t *testing.T) {
	env := setupTestEnv(t, "./cmd/autoreview")
	writeMockGH(t, env.mockDir)
	writeMock(t, env.mockDir, "claude", mockClaudeCommits("APPROVED"))

	promptPath := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(promptPath, []byte("Rename things."), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := env.run("--once", "--prompt-file", promptPath)
	if code != 0 {
		t.Fatalf("exit code = %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "Using custom prompt from file") {
		t.Errorf("stdout:\n%s", stdout)
	}
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		body := `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` +
			jsonString(content) + `}}]}`
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func jsonString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func TestAudit_MissingKey(t *testing.T) {
	env := setupTestEnv(t, "./cmd/audit")

	_, stderr, code := env.run(".")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "OPENAI_API_KEY environment variable not set") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestAudit_NoIssues(t *testing.T) {
	env := setupTestEnv(t, "./cmd/audit")
	srv := chatServer(t, "ISSUES_FOUND: NO\nSUMMARY: Clean.")
	env.extraEnv = []string{"OPENAI_API_KEY=sk-test", "OPENAI_BASE_URL=" + srv.URL + "/"}

	stdout, stderr, code := env.run(".", "--ai-model", "gpt-4o")
	if code != 0 {
		t.Fatalf("exit code = %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "No issues found! Code looks good.") {
		t.Errorf("stdout:\n%s", stdout)
	}
}

func TestAudit_RunsAssistant(t *testing.T) {
	env := setupTestEnv(t, "./cmd/audit")
	srv := chatServer(t, "ISSUES_FOUND: YES\nCONTINUE: YES\nINSTRUCTIONS_FOR_CLAUDE:\nAdd a comment to main.go.")
	env.extraEnv = []string{"OPENAI_API_KEY=sk-test", "OPENAI_BASE_URL=" + srv.URL + "/"}
	writeMock(t, env.mockDir, "claude", "cat > instructions.txt\necho 'Added the comment.'\n")

	stdout, stderr, code := env.run(".", "--ai-model", "gpt-4o")
	if code != 0 {
		t.Fatalf("exit code = %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	got, err := os.ReadFile(filepath.Join(env.repoDir, "instructions.txt"))
	if err != nil {
		t.Fatalf("assistant did not run: %v", err)
	}
	if !strings.Contains(string(got), "Add a comment to main.go.") {
		t.Errorf("assistant received %q", got)
	}
	if !strings.Contains(stdout, "Added the comment.") || !strings.Contains(stdout, "Iteration 1 complete") {
		t.Errorf("stdout:\n%s", stdout)
	}
}
