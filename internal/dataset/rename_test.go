package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRenameSequential(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"beach.jpg":  "beach",
		"alpine.png": "alpine",
		"cliff.jpeg": "cliff",
		"notes.txt":  "keep me",
	})

	count, err := RenameSequential(dir, "dog")
	if err != nil {
		t.Fatalf("RenameSequential failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	want := []string{"dog1.png", "dog2.jpg", "dog3.jpeg", "notes.txt"}
	if got := listNames(t, dir); !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}

	// Content follows the sorted source order: alpine.png -> dog1.png.
	data, err := os.ReadFile(filepath.Join(dir, "dog1.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "alpine" {
		t.Errorf("dog1.png content = %q, want %q", data, "alpine")
	}
}

func TestRenameSequential_OverlappingNames(t *testing.T) {
	// Lexical order is 1, 10, 2: the old and new names overlap, which
	// clobbers files unless renames go through a temporary phase.
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"1.jpg":  "one",
		"10.jpg": "ten",
		"2.jpg":  "two",
	})

	count, err := RenameSequential(dir, "")
	if err != nil {
		t.Fatalf("RenameSequential failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	want := map[string]string{
		"1.jpg": "one",
		"2.jpg": "ten",
		"3.jpg": "two",
	}
	for name, content := range want {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if string(data) != content {
			t.Errorf("%s content = %q, want %q", name, data, content)
		}
	}
}

func TestRenameSequential_MissingDir(t *testing.T) {
	if _, err := RenameSequential(filepath.Join(t.TempDir(), "missing"), ""); err == nil {
		t.Error("expected error for missing directory")
	}
}
