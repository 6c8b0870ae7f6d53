package cli

import (
	"testing"

	"github.com/restclient-go/restclient/restclient"
)

func TestParseFormFields(t *testing.T) {
	tests := []struct {
		name      string
		fields    []string
		expectErr bool
		check     func(t *testing.T, form map[string]restclient.FormField)
	}{
		{
			name:   "Text field",
			fields: []string{"name=alice"},
			check: func(t *testing.T, form map[string]restclient.FormField) {
				if form["name"].IsFile() || form["name"].Value() != "alice" {
					t.Errorf("Expected text field alice, got %+v", form["name"])
				}
			},
		},
		{
			name:   "File field",
			fields: []string{"report=@/tmp/report.txt"},
			check: func(t *testing.T, form map[string]restclient.FormField) {
				if !form["report"].IsFile() || form["report"].Value() != "/tmp/report.txt" {
					t.Errorf("Expected file field, got %+v", form["report"])
				}
			},
		},
		{
			name:   "Value containing equals",
			fields: []string{"query=a=b"},
			check: func(t *testing.T, form map[string]restclient.FormField) {
				if form["query"].Value() != "a=b" {
					t.Errorf("Expected a=b, got %q", form["query"].Value())
				}
			},
		},
		{
			name:      "Missing separator",
			fields:    []string{"bare"},
			expectErr: true,
		},
		{
			name:      "Empty name",
			fields:    []string{"=value"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, err := parseFormFields(tt.fields)
			if tt.expectErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, form)
		})
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	expected := []string{"get", "post", "put", "delete", "bench"}
	for _, name := range expected {
		found := false
		for _, cmd := range RootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}
