package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		configYAML string
		want       Config
	}{
		{
			name: "full config",
			configYAML: `
breakDepth: 2
size: L
listen: 127.0.0.1:8080
codeBlockToImageCommand: silicon -o {{output}}
defaults:
  - if: size == "S"
    size: S
`,
			want: Config{
				BreakDepth:              2,
				Size:                    "L",
				Listen:                  "127.0.0.1:8080",
				CodeBlockToImageCommand: "silicon -o {{output}}",
				Defaults: []DefaultCondition{
					{If: `size == "S"`, Size: "S"},
				},
			},
		},
		{
			name:       "empty config",
			configYAML: "",
			want:       Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", tmpDir)
			configHomePath = ""
			t.Cleanup(func() {
				configHomePath = ""
			})

			dir := filepath.Join(tmpDir, "podium")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(tt.configYAML), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			if cfg.BreakDepth != tt.want.BreakDepth {
				t.Errorf("BreakDepth = %d, want %d", cfg.BreakDepth, tt.want.BreakDepth)
			}
			if cfg.Size != tt.want.Size {
				t.Errorf("Size = %q, want %q", cfg.Size, tt.want.Size)
			}
			if cfg.Listen != tt.want.Listen {
				t.Errorf("Listen = %q, want %q", cfg.Listen, tt.want.Listen)
			}
			if cfg.CodeBlockToImageCommand != tt.want.CodeBlockToImageCommand {
				t.Errorf("CodeBlockToImageCommand = %q, want %q", cfg.CodeBlockToImageCommand, tt.want.CodeBlockToImageCommand)
			}
			if len(cfg.Defaults) != len(tt.want.Defaults) {
				t.Fatalf("Defaults = %d entries, want %d", len(cfg.Defaults), len(tt.want.Defaults))
			}
			for i, d := range cfg.Defaults {
				if d != tt.want.Defaults[i] {
					t.Errorf("Defaults[%d] = %+v, want %+v", i, d, tt.want.Defaults[i])
				}
			}
		})
	}
}

func TestLoadMissingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configHomePath = ""
	t.Cleanup(func() {
		configHomePath = ""
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BreakDepth != 0 || cfg.Size != "" {
		t.Errorf("want zero config, got %+v", cfg)
	}
}

func TestLoadProfile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configHomePath = ""
	t.Cleanup(func() {
		configHomePath = ""
	})

	dir := filepath.Join(tmpDir, "podium")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("size: S\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config-talk.yml"), []byte("size: L\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("talk")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Size != "L" {
		t.Errorf("want profile config to win, got size %q", cfg.Size)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Size != "S" {
		t.Errorf("want base config, got size %q", cfg.Size)
	}
}

func TestResolve(t *testing.T) {
	cfg := &Config{
		BreakDepth: 1,
		Size:       "M",
		Defaults: []DefaultCondition{
			{If: `kind == "talk"`, BreakDepth: 2},
			{If: `size == "L"`, Size: "L"},
			{If: `kind == "talk" && size == "L"`, BreakDepth: 3},
		},
	}
	tests := []struct {
		name      string
		meta      map[string]any
		wantDepth int
		wantSize  string
	}{
		{
			name:      "no metadata keeps top-level settings",
			meta:      nil,
			wantDepth: 1,
			wantSize:  "M",
		},
		{
			name:      "single condition",
			meta:      map[string]any{"kind": "talk"},
			wantDepth: 2,
			wantSize:  "M",
		},
		{
			name:      "later matching condition wins",
			meta:      map[string]any{"kind": "talk", "size": "L"},
			wantDepth: 3,
			wantSize:  "L",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			depth, size, err := cfg.Resolve(tt.meta)
			if err != nil {
				t.Fatal(err)
			}
			if depth != tt.wantDepth {
				t.Errorf("breakDepth = %d, want %d", depth, tt.wantDepth)
			}
			if size != tt.wantSize {
				t.Errorf("size = %q, want %q", size, tt.wantSize)
			}
		})
	}
}

func TestResolveFallbackDepth(t *testing.T) {
	cfg := &Config{}
	depth, size, err := cfg.Resolve(nil)
	if err != nil {
		t.Fatal(err)
	}
	if depth != 1 {
		t.Errorf("want fallback depth 1, got %d", depth)
	}
	if size != "" {
		t.Errorf("want empty size, got %q", size)
	}
}

func TestResolveBadCondition(t *testing.T) {
	cfg := &Config{
		Defaults: []DefaultCondition{
			{If: `kind ==`, BreakDepth: 2},
		},
	}
	if _, _, err := cfg.Resolve(map[string]any{"kind": "talk"}); err == nil {
		t.Error("want error for malformed condition")
	}
}
