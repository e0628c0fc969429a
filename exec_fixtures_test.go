package graft

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type execFixture struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Stdin  string `yaml:"stdin"`
	Output string `yaml:"output"`
}

func loadFixtures(t *testing.T) []execFixture {
	t.Helper()
	data, err := os.ReadFile("testdata/fixtures.yaml")
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}
	var fixtures []execFixture
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		t.Fatalf("decoding fixtures: %v", err)
	}
	if len(fixtures) == 0 {
		t.Fatal("no fixtures loaded")
	}
	return fixtures
}

func TestExecFixtures(t *testing.T) {
	for _, fx := range loadFixtures(t) {
		t.Run(fx.Name, func(t *testing.T) {
			out := &bytes.Buffer{}
			interp := New(&Config{
				Input:       strings.NewReader(fx.Stdin),
				Output:      out,
				ShowPrompts: false,
			})

			if err := interp.RunSource(fx.Source); err != nil {
				t.Fatalf("run failed: %v", err)
			}

			if got := out.String(); got != fx.Output {
				t.Errorf("output mismatch\n got: %q\nwant: %q", got, fx.Output)
			}
		})
	}
}
