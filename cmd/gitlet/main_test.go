package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/gitlet/pkg/repo"
)

// runGitlet executes one command line in the current directory and returns
// its stdout.
func runGitlet(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runGitletStreams(t, args...)
	return out, err
}

func runGitletStreams(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runGitlet(t, args...)
	if err != nil {
		t.Fatalf("gitlet %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func writeRepoFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func readRepoFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

// initRepoDir creates a repository in a temp dir and changes into it.
func initRepoDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	mustRun(t, "init")
	return dir
}

func TestCLI_CommitAndLog(t *testing.T) {
	dir := initRepoDir(t)

	writeRepoFile(t, dir, "wug.txt", "wug\n")
	mustRun(t, "add", "wug.txt")
	mustRun(t, "commit", "add wug")

	out := mustRun(t, "log")
	entries := strings.Split(strings.TrimSpace(out), "===\n")
	if len(entries) != 3 { // leading empty split + two commits
		t.Fatalf("log output has %d sections:\n%s", len(entries)-1, out)
	}
	if !strings.Contains(entries[1], "\nadd wug\n") {
		t.Fatalf("newest entry = %q, want message 'add wug'", entries[1])
	}
	if !strings.Contains(entries[2], "Date: Thu Jan 01 00:00:00 1970 +0000\ninitial commit") {
		t.Fatalf("root entry = %q", entries[2])
	}

	global := mustRun(t, "global-log")
	if strings.Count(global, "===\n") != 2 {
		t.Fatalf("global-log output:\n%s", global)
	}

	found := mustRun(t, "find", "add wug")
	if !strings.Contains(entries[1], "commit "+strings.TrimSpace(found)) {
		t.Fatalf("find printed %q, not the logged commit", found)
	}
}

func TestCLI_Status(t *testing.T) {
	dir := initRepoDir(t)

	writeRepoFile(t, dir, "a.txt", "a")
	writeRepoFile(t, dir, "b.txt", "b")
	mustRun(t, "add", "a.txt", "b.txt")
	mustRun(t, "commit", "two files")
	mustRun(t, "branch", "other")

	mustRun(t, "rm", "b.txt")
	writeRepoFile(t, dir, "c.txt", "c")
	mustRun(t, "add", "c.txt")
	writeRepoFile(t, dir, "a.txt", "changed")
	writeRepoFile(t, dir, "junk.txt", "junk")

	want := `=== Branches ===
*master
other

=== Staged Files ===
c.txt

=== Removed Files ===
b.txt

=== Modifications Not Staged For Commit ===
a.txt (modified)

=== Untracked Files ===
junk.txt

`
	if got := mustRun(t, "status"); got != want {
		t.Fatalf("status output:\n%s\nwant:\n%s", got, want)
	}
}

func TestCLI_CheckoutForms(t *testing.T) {
	dir := initRepoDir(t)

	writeRepoFile(t, dir, "f.txt", "v1\n")
	mustRun(t, "add", "f.txt")
	mustRun(t, "commit", "v1")
	first := strings.TrimSpace(mustRun(t, "find", "v1"))

	writeRepoFile(t, dir, "f.txt", "v2\n")
	mustRun(t, "add", "f.txt")
	mustRun(t, "commit", "v2")

	writeRepoFile(t, dir, "f.txt", "scratch\n")
	mustRun(t, "checkout", "--", "f.txt")
	if got := readRepoFile(t, dir, "f.txt"); got != "v2\n" {
		t.Fatalf("checkout -- f.txt gave %q", got)
	}

	mustRun(t, "checkout", first[:8], "--", "f.txt")
	if got := readRepoFile(t, dir, "f.txt"); got != "v1\n" {
		t.Fatalf("checkout <commit> -- f.txt gave %q", got)
	}

	mustRun(t, "branch", "side")
	mustRun(t, "checkout", "side")
	if got := mustRun(t, "branch"); got != "  master\n* side\n" {
		t.Fatalf("branch listing = %q", got)
	}

	if _, err := runGitlet(t, "checkout", first, "f.txt"); err == nil || errorMessage(err) != "Incorrect operands." {
		t.Fatalf("checkout without dash error = %v", err)
	}
}

func TestCLI_MergeConflict(t *testing.T) {
	dir := initRepoDir(t)

	writeRepoFile(t, dir, "f", "1")
	mustRun(t, "add", "f")
	mustRun(t, "commit", "base")
	mustRun(t, "branch", "other")

	writeRepoFile(t, dir, "f", "2")
	mustRun(t, "add", "f")
	mustRun(t, "commit", "master f")

	mustRun(t, "checkout", "other")
	writeRepoFile(t, dir, "f", "3")
	mustRun(t, "add", "f")
	mustRun(t, "commit", "other f")
	mustRun(t, "checkout", "master")

	out, stderr, err := runGitletStreams(t, "merge", "other")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out != "Encountered a merge conflict.\n" {
		t.Fatalf("merge output = %q", out)
	}
	if stderr != "" {
		t.Fatalf("merge wrote to stderr at default log level: %q", stderr)
	}
	if got := readRepoFile(t, dir, "f"); got != "<<<<<<< HEAD\n2\n=======\n3\n>>>>>>>\n" {
		t.Fatalf("f = %q", got)
	}
	logOut := mustRun(t, "log", "-n", "1")
	if !strings.Contains(logOut, "Merge: ") || !strings.Contains(logOut, "Merged other into master.") {
		t.Fatalf("log after merge:\n%s", logOut)
	}

	if got := mustRun(t, "merge", "other"); got != "Given branch is an ancestor of the current branch.\n" {
		t.Fatalf("second merge output = %q", got)
	}
}

func TestCLI_MergeFastForward(t *testing.T) {
	dir := initRepoDir(t)

	mustRun(t, "branch", "ahead")
	mustRun(t, "checkout", "ahead")
	writeRepoFile(t, dir, "f", "new")
	mustRun(t, "add", "f")
	mustRun(t, "commit", "ahead")
	mustRun(t, "checkout", "master")

	if got := mustRun(t, "merge", "ahead"); got != "Current branch fast-forwarded.\n" {
		t.Fatalf("merge output = %q", got)
	}
	if got := readRepoFile(t, dir, "f"); got != "new" {
		t.Fatalf("f = %q", got)
	}
}

func TestCLI_ErrorMessages(t *testing.T) {
	dir := initRepoDir(t)
	writeRepoFile(t, dir, "loose.txt", "x")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"init"}, "A Gitlet version-control system already exists in the current directory."},
		{[]string{"commit", "nothing"}, "No changes added to the commit."},
		{[]string{"commit"}, "Please enter a commit message."},
		{[]string{"add", "missing.txt"}, "File does not exist."},
		{[]string{"rm", "loose.txt"}, "No reason to remove the file."},
		{[]string{"checkout", "nope"}, "No such branch exists."},
		{[]string{"checkout", "master"}, "No need to checkout the current branch."},
		{[]string{"checkout", "--", "loose.txt"}, "File does not exist in that commit."},
		{[]string{"checkout", "0000000", "--", "loose.txt"}, "No commit with that id exists."},
		{[]string{"reset", "0000000"}, "No commit with that id exists."},
		{[]string{"branch", "master"}, "A branch with that name already exists."},
		{[]string{"rm-branch", "nope"}, "A branch with that name does not exist."},
		{[]string{"rm-branch", "master"}, "Cannot remove the current branch."},
		{[]string{"merge", "nope"}, "A branch with that name does not exist."},
		{[]string{"merge", "master"}, "Cannot merge a branch with itself."},
		{[]string{"find", "no such message"}, "Found no commit with that message."},
	}
	for _, tc := range tests {
		t.Run(strings.Join(tc.args, "_"), func(t *testing.T) {
			_, err := runGitlet(t, tc.args...)
			if err == nil {
				t.Fatalf("gitlet %v succeeded", tc.args)
			}
			if got := errorMessage(err); got != tc.want {
				t.Fatalf("message = %q, want %q (err: %v)", got, tc.want, err)
			}
		})
	}
}

func TestCLI_NotInRepository(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := runGitlet(t, "status")
	if got := errorMessage(err); got != "Not in an initialized Gitlet directory." {
		t.Fatalf("message = %q", got)
	}
}

func TestCLI_UntrackedFileInTheWay(t *testing.T) {
	dir := initRepoDir(t)

	mustRun(t, "branch", "other")
	mustRun(t, "checkout", "other")
	writeRepoFile(t, dir, "f", "tracked on other")
	mustRun(t, "add", "f")
	mustRun(t, "commit", "other f")
	mustRun(t, "checkout", "master")

	writeRepoFile(t, dir, "f", "mine")
	_, err := runGitlet(t, "checkout", "other")
	if got := errorMessage(err); got != "There is an untracked file in the way; delete it, or add and commit it first." {
		t.Fatalf("message = %q", got)
	}
	if got := readRepoFile(t, dir, "f"); got != "mine" {
		t.Fatalf("f = %q", got)
	}
}

func TestCLI_InitOptions(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	mustRun(t, "init", "--hash", "blake2b", "--compress", "--branch", "trunk")

	r, err := repo.Open(dir, repo.Options{})
	if err != nil {
		t.Fatalf("repo.Open: %v", err)
	}
	if r.Config.Core.Hash != "blake2b" || r.Config.Storage.Compression != "zstd" {
		t.Fatalf("config = %+v", r.Config)
	}
	if got := mustRun(t, "branch"); got != "* trunk\n" {
		t.Fatalf("branch listing = %q", got)
	}
	if got := mustRun(t, "version"); got != fmt.Sprintf("gitlet %s\n", version) {
		t.Fatalf("version = %q", got)
	}
}

func TestCLI_FailedInitLeavesNoRepository(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if _, err := runGitlet(t, "init", "--hash", "md5"); err == nil {
		t.Fatal("init --hash md5 succeeded")
	}
	if _, err := os.Stat(filepath.Join(dir, ".gitlet")); !os.IsNotExist(err) {
		t.Fatalf(".gitlet after failed init: %v", err)
	}

	mustRun(t, "init")
	if got := mustRun(t, "branch"); got != "* master\n" {
		t.Fatalf("branch listing = %q", got)
	}
}
