package log

import (
	"bytes"
	"os"
	"testing"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, "json"},
		{FormatText, "text"},
		{Format(999), "text"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.String(); got != tt.want {
				t.Errorf("Format.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{" json ", FormatJSON},
		{"text", FormatText},
		{"console", FormatText},
		{"", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputWriter(t *testing.T) {
	var buf bytes.Buffer
	if NewOutput(&buf).Writer() != &buf {
		t.Error("NewOutput did not return the correct writer")
	}
	if (Output{}).Writer() != os.Stderr {
		t.Error("zero Output should write to stderr")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Level != LevelWarn {
		t.Errorf("DefaultConfig.Level = %v, want %v", config.Level, LevelWarn)
	}
	if config.Format != FormatText {
		t.Errorf("DefaultConfig.Format = %v, want %v", config.Format, FormatText)
	}
	if config.Output.Writer() != os.Stderr {
		t.Error("DefaultConfig.Output should be stderr")
	}
}

func TestServerConfig(t *testing.T) {
	config := ServerConfig()

	if config.Level != LevelInfo || config.Format != FormatJSON {
		t.Errorf("ServerConfig = %+v, want INFO/json", config)
	}
	if config.Component != "server" {
		t.Errorf("ServerConfig.Component = %q", config.Component)
	}
}
