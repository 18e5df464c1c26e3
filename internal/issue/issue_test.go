// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	if NoToolchainFoundId != 1 {
		t.Errorf("NoToolchainFoundId = %d, want 1", NoToolchainFoundId)
	}
	if PermissionDeniedId != 14 {
		t.Errorf("PermissionDeniedId = %d, want 14", PermissionDeniedId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{NoToolchainFoundId, false, "No C compiler found"},
		{UnknownToolchainId, false, "Unknown compiler"},
		{ToolchainUnavailableId, false, "Compiler not found in PATH"},
		{MSVCBootstrapFailedId, false, "Developer Command Prompt for VS"},
		{NoSourcesFoundId, false, "No source files found"},
		{CompilationFailedId, false, "Compilation failed"},
		{ArchiveCreationFailedId, false, "static library"},
		{LibraryMissingId, false, "Library not built"},
		{NoTestSourcesFoundId, false, "No test sources found"},
		{LinkFailedId, false, "Linking the test executable failed"},
		{TestsFailedId, false, "Tests failed"},
		{UnknownCommandId, false, "Unknown command"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{PermissionDeniedId, false, "Permission denied"},
		{Id(9999), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}
			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.mdMsg), tt.contains) {
				t.Errorf("Get(%d) message should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestCatalog_Complete(t *testing.T) {
	for id := NoToolchainFoundId; id <= PermissionDeniedId; id++ {
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}

	rendered, err := Get(MSVCBootstrapFailedId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "## See also:") || !strings.Contains(rendered, "learn.microsoft.com") {
		t.Errorf("Render() should append links, got %q", rendered)
	}

	plain, err := Get(LibraryMissingId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(plain, "See also") {
		t.Error("Render() without links should not add a See also section")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for id := NoToolchainFoundId; id <= PermissionDeniedId; id++ {
		if _, err := Get(id).Render("notty"); err != nil {
			t.Errorf("Issue %d failed to render: %v", id, err)
		}
	}
}
