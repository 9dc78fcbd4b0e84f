package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskmgr/internal/commands"
	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
	"taskmgr/internal/storage"
	"taskmgr/internal/store"
	"taskmgr/internal/testutil"
)

const seedActive = `[{"id":"a-1","title":"Buy milk","description":"2%","completed":false},` +
	`{"id":"a-2","title":"Call mom","description":"Sunday","completed":false}]`

const seedCompleted = `[{"id":"c-1","title":"File taxes","description":"before April","completed":true}]`

// seeded returns fake storage holding two active and one completed task.
func seeded() *testutil.FakeStorage {
	fake := testutil.NewFakeStorage()
	fake.Put("activeTasks", seedActive)
	fake.Put("completedTasks", seedCompleted)
	return fake
}

// newStore opens a store over fake with sequential ids id-1, id-2, ...
func newStore(t *testing.T, fake *testutil.FakeStorage) *store.Store {
	t.Helper()
	n := 0
	return store.New(context.Background(), storage.NewAdapter(fake, 0),
		store.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

// runCommand is a helper to run a command against svc.
func runCommand(t *testing.T, cmd commands.Command, svc service.Service, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expectCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskmgr 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	expectCode(t, code, exitcode.Success)
	for _, want := range []string{"Usage:", "taskmgr add", "--storage"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_ActiveTasks(t *testing.T) {
	svc := newStore(t, seeded())

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "   1  Buy milk\n      2%\n   2  Call mom\n      Sunday\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_CompletedTasks(t *testing.T) {
	svc := newStore(t, seeded())

	cmd := &commands.ListCmd{}
	cmd.SetCompleted(true)
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, code, exitcode.Success)
	expected := "  c1  File taxes\n      before April\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	svc := newStore(t, testutil.NewFakeStorage())

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)
	expectCode(t, code, exitcode.Success)
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}

	// Quiet mode should suppress "no tasks found"
	stdout, _, _ = runCommand(t, &commands.ListCmd{}, svc, nil, true)
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_CorruptStorageListsEmpty(t *testing.T) {
	fake := testutil.NewFakeStorage()
	fake.Put("activeTasks", "{not json")
	svc := newStore(t, fake)

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	expectCode(t, code, exitcode.Success)
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_UnexpectedArg(t *testing.T) {
	svc := newStore(t, seeded())

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, []string{"work"}, false)

	expectCode(t, code, exitcode.UserError)
	if stderr != "error: unexpected argument: work\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for lists command
func TestListsCommand_Counts(t *testing.T) {
	svc := newStore(t, seeded())

	stdout, _, code := runCommand(t, &commands.ListsCmd{}, svc, nil, false)

	expectCode(t, code, exitcode.Success)
	expected := "Active     2\nCompleted  1\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListsCommand_All(t *testing.T) {
	svc := newStore(t, seeded())

	cmd := &commands.ListsCmd{}
	cmd.SetAll(true)
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, code, exitcode.Success)
	testutil.GoldenString(t, "lists_all", stdout)
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	fake := testutil.NewFakeStorage()
	svc := newStore(t, fake)

	cmd := &commands.AddCmd{}
	cmd.SetDescription("2%")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "milk"}, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	raw, _ := fake.Raw("activeTasks")
	want := `[{"id":"id-1","title":"Buy milk","description":"2%","completed":false}]`
	if raw != want {
		t.Errorf("expected stored %s, got %s", want, raw)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := newStore(t, testutil.NewFakeStorage())

	cmd := &commands.AddCmd{}
	cmd.SetDescription("d")
	stdout, _, code := runCommand(t, cmd, svc, []string{"t"}, true)

	expectCode(t, code, exitcode.Success)
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		desc       string
		wantStderr string
	}{
		{"no title", nil, "d", "error: title required\n"},
		{"blank title", []string{"  "}, "d", "error: title required\n"},
		{"no description", []string{"Buy milk"}, "", "error: description required\n"},
		{"blank description", []string{"Buy milk"}, " \t", "error: description required\n"},
		{"both blank", nil, "", "error: title required\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeStorage()
			svc := newStore(t, fake)

			cmd := &commands.AddCmd{}
			cmd.SetDescription(tt.desc)
			_, stderr, code := runCommand(t, cmd, svc, tt.args, false)

			expectCode(t, code, exitcode.UserError)
			if stderr != tt.wantStderr {
				t.Errorf("expected %q, got %q", tt.wantStderr, stderr)
			}
			if len(fake.Writes()) != 0 {
				t.Errorf("invalid input must not reach storage, got writes %v", fake.Writes())
			}
		})
	}
}

func TestAddCommand_WriteFailure(t *testing.T) {
	fake := testutil.NewFakeStorage()
	fake.SetErr["activeTasks"] = errors.New("disk full")
	svc := newStore(t, fake)

	cmd := &commands.AddCmd{}
	cmd.SetDescription("d")
	_, stderr, code := runCommand(t, cmd, svc, []string{"t"}, false)

	expectCode(t, code, exitcode.StorageError)
	if !strings.HasPrefix(stderr, "error: changes not saved: active: storage: write activeTasks: disk full") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for done command
func TestDoneCommand_ActiveToCompleted(t *testing.T) {
	fake := seeded()
	svc := newStore(t, fake)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"2"}, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" || stdout != "ok\n" {
		t.Errorf("unexpected output %q / %q", stdout, stderr)
	}
	completed := svc.Tasks(service.Completed)
	if len(completed) != 2 || completed[1].ID != "a-2" || !completed[1].Completed {
		t.Errorf("expected a-2 appended to completed, got %+v", completed)
	}
	if writes := fake.Writes(); len(writes) != 2 || writes[0] != "completedTasks" {
		t.Errorf("expected destination written first, got %v", writes)
	}
}

func TestDoneCommand_CompletedToActive(t *testing.T) {
	svc := newStore(t, seeded())

	_, _, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"c", "1"}, false)

	expectCode(t, code, exitcode.Success)
	active := svc.Tasks(service.Active)
	if len(active) != 3 || active[2].ID != "c-1" || active[2].Completed {
		t.Errorf("expected c-1 reopened at the end of active, got %+v", active)
	}
}

func TestDoneCommand_ByID(t *testing.T) {
	svc := newStore(t, seeded())

	_, _, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"a-1"}, false)

	expectCode(t, code, exitcode.Success)
	if got := svc.Tasks(service.Active); len(got) != 1 || got[0].ID != "a-2" {
		t.Errorf("expected a-1 toggled, active is %+v", got)
	}
}

func TestDoneCommand_UnknownIDIsNoop(t *testing.T) {
	fake := seeded()
	svc := newStore(t, fake)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"no-such-id"}, false)

	expectCode(t, code, exitcode.Success)
	if stdout != "ok\n" || stderr != "" {
		t.Errorf("unexpected output %q / %q", stdout, stderr)
	}
	if len(fake.Writes()) != 0 {
		t.Errorf("expected no writes, got %v", fake.Writes())
	}
}

func TestDoneCommand_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{"no ref", nil, "error: task reference required\n"},
		{"out of range", []string{"5"}, "error: task number out of range: 5\n"},
		{"zero", []string{"0"}, "error: task number out of range: 0\n"},
		{"completed out of range", []string{"c2"}, "error: task number out of range: c2\n"},
		{"bad separated", []string{"c", "x"}, "error: invalid task reference: c x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStore(t, seeded())

			_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, tt.args, false)

			expectCode(t, code, exitcode.UserError)
			if stderr != tt.wantStderr {
				t.Errorf("expected %q, got %q", tt.wantStderr, stderr)
			}
		})
	}
}

func TestDoneCommand_UnreadableStorageIsOutOfRange(t *testing.T) {
	fake := seeded()
	fake.GetErr["activeTasks"] = errors.New("permission denied")
	svc := newStore(t, fake)

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, false)

	expectCode(t, code, exitcode.UserError)
	if stderr != "error: task number out of range: 1\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(fake.Writes()) != 0 {
		t.Errorf("expected no writes, got %v", fake.Writes())
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	fake := seeded()
	svc := newStore(t, fake)

	stdout, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"c1"}, false)

	expectCode(t, code, exitcode.Success)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if raw, _ := fake.Raw("completedTasks"); raw != "[]" {
		t.Errorf("expected empty completed slot, got %s", raw)
	}
	if len(svc.Tasks(service.Active)) != 2 {
		t.Error("active tasks should be untouched")
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	svc := newStore(t, seeded())

	_, stderr, code := runCommand(t, &commands.RmCmd{}, svc, nil, false)

	expectCode(t, code, exitcode.UserError)
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestAddDoneRm_Scenario(t *testing.T) {
	fake := testutil.NewFakeStorage()
	svc := newStore(t, fake)

	add := &commands.AddCmd{}
	add.SetDescription("2%")
	steps := []struct {
		cmd  commands.Command
		args []string
	}{
		{add, []string{"Buy milk"}},
		{&commands.DoneCmd{}, []string{"1"}},
		{&commands.RmCmd{}, []string{"c1"}},
	}
	for _, step := range steps {
		if _, stderr, code := runCommand(t, step.cmd, svc, step.args, true); code != exitcode.Success {
			t.Fatalf("%s %v: exit %d: %s", step.cmd.Name(), step.args, code, stderr)
		}
	}

	for _, key := range []string{"activeTasks", "completedTasks"} {
		if raw, _ := fake.Raw(key); raw != "[]" {
			t.Errorf("expected %s to be [], got %s", key, raw)
		}
	}
}

// Tests for export and import commands
func TestExportCommand_JSON(t *testing.T) {
	fake := testutil.NewFakeStorage()
	fake.Put("activeTasks", `[{"id":"a-1","title":"Buy milk","description":"2%","completed":false}]`)
	svc := newStore(t, fake)

	stdout, _, code := runCommand(t, &commands.ExportCmd{}, svc, nil, false)

	expectCode(t, code, exitcode.Success)
	testutil.GoldenString(t, "export_json", stdout)
}

func TestExportImport_RoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml", "cbor"} {
		t.Run(format, func(t *testing.T) {
			src := newStore(t, seeded())
			path := filepath.Join(t.TempDir(), "snapshot."+format)

			export := &commands.ExportCmd{}
			export.SetFormat(format)
			export.SetOutput(path)
			if _, stderr, code := runCommand(t, export, src, nil, true); code != exitcode.Success {
				t.Fatalf("export: exit %d: %s", code, stderr)
			}

			dstFake := testutil.NewFakeStorage()
			dst := newStore(t, dstFake)
			stdout, stderr, code := runCommand(t, &commands.ImportCmd{}, dst, []string{path}, false)
			expectCode(t, code, exitcode.Success)
			if stdout != "ok\n" {
				t.Errorf("unexpected output %q / %q", stdout, stderr)
			}

			if raw, _ := dstFake.Raw("activeTasks"); raw != seedActive {
				t.Errorf("active slot mismatch:\n%s", raw)
			}
			if raw, _ := dstFake.Raw("completedTasks"); raw != seedCompleted {
				t.Errorf("completed slot mismatch:\n%s", raw)
			}
		})
	}
}

func TestImportCommand_InvalidSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.json")
	data := `{"activeTasks":[{"id":"x","title":"a","description":"b"}],` +
		`"completedTasks":[{"id":"x","title":"a","description":"b","completed":true}]}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	fake := testutil.NewFakeStorage()
	svc := newStore(t, fake)

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, []string{path}, false)

	expectCode(t, code, exitcode.UserError)
	if !strings.Contains(stderr, "duplicate id x") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(fake.Writes()) != 0 {
		t.Errorf("rejected snapshot must not be written, got %v", fake.Writes())
	}
}

func TestImportCommand_Errors(t *testing.T) {
	svc := newStore(t, testutil.NewFakeStorage())

	_, stderr, code := runCommand(t, &commands.ImportCmd{}, svc, nil, false)
	expectCode(t, code, exitcode.UserError)
	if stderr != "error: snapshot file required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	cmd := &commands.ImportCmd{}
	cmd.SetFormat("xml")
	_, stderr, code = runCommand(t, cmd, svc, []string{"x.xml"}, false)
	expectCode(t, code, exitcode.UserError)
	if stderr != "error: unknown format: xml\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for stats command
func TestStatsCommand(t *testing.T) {
	fake := seeded()
	fake.GetErr["completedTasks"] = errors.New("permission denied")
	svc := newStore(t, fake)

	add := &commands.AddCmd{}
	add.SetDescription("d")
	runCommand(t, add, svc, []string{"t"}, true)

	stdout, _, code := runCommand(t, &commands.StatsCmd{}, svc, nil, false)

	expectCode(t, code, exitcode.Success)
	for _, want := range []string{
		`taskmgr_operations_total{operation="add",result="ok"} 1`,
		`taskmgr_storage_errors_total{collection="completed",kind="read"} 1`,
		`taskmgr_tasks{collection="active"} 3`,
		`taskmgr_tasks{collection="completed"} 0`,
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stats output should contain %q:\n%s", want, stdout)
		}
	}
}
