package docs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fenced code blocks with one of these info strings are executed by TestCodeBlocks.
//
//   - "bash setup" starts a scenario in a new empty folder,
//   - "bash run" runs commands and records their output,
//   - "console check" compares the recorded output, spaces trimmed,
//   - "bash check" runs commands that must succeed.
const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	consoleCheck = "console check"
	bashCheck    = "bash check"
)

// listedTopics returns the topics of the "* name: description" lines of readme.md.
func listedTopics(t *testing.T) []string {
	t.Helper()
	content, err := os.ReadFile(Index + ".md")
	if err != nil {
		t.Fatalf("failed to read the index: %v", err)
	}
	re := regexp.MustCompile(`(?m)^\*\s+([^:]+):`)
	var topics []string
	for _, m := range re.FindAllStringSubmatch(string(content), -1) {
		topics = append(topics, strings.TrimSpace(m[1]))
	}
	return topics
}

func TestTopics(t *testing.T) {
	listed := listedTopics(t)
	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("GetTopic(%q) error = %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in %s.md", topic, Index)
		}
	}
}

func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	var scenarios []string
	for _, file := range files {
		if len(parseBlocks(t, file)) > 0 {
			scenarios = append(scenarios, file)
		}
	}
	if len(scenarios) == 0 {
		return
	}

	tlg := buildTlg(t, t.TempDir())
	env := append(os.Environ(), fmt.Sprintf("PATH=%s%c%s", filepath.Dir(tlg), os.PathListSeparator, os.Getenv("PATH")))
	for _, file := range scenarios {
		t.Run(file, func(t *testing.T) {
			r := &runner{env: env, dir: t.TempDir()}
			for _, b := range parseBlocks(t, file) {
				r.run(t, b)
			}
		})
	}
}

// block is an executable fenced code block.
type block struct {
	kind    string
	content string
	file    string
	line    int
}

func (b *block) String() string { return fmt.Sprintf("%s:%d: %s", b.file, b.line, b.kind) }

// buildTlg builds the tlg executable in tmp and returns its path.
func buildTlg(t *testing.T, tmp string) string {
	t.Helper()
	output := filepath.Join(tmp, "tlg")
	cmd := exec.Command("go", "build", "-o", output, "../tlg/")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build tlg: %v\n%s", err, out)
	}
	return output
}

// parseBlocks returns the executable blocks of a markdown file, in order.
func parseBlocks(t *testing.T, file string) []*block {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}

	var blocks []*block
	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(fcb.Info.Segment.Value(content))
		switch kind {
		case bashSetup, bashRun, consoleCheck, bashCheck:
		default:
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(content))
		}
		blocks = append(blocks, &block{
			kind:    kind,
			content: b.String(),
			file:    file,
			line:    bytes.Count(content[:fcb.Info.Segment.Start], []byte{'\n'}) + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// runner executes the blocks of a file in sequence.
type runner struct {
	env    []string
	dir    string
	output string // of the last "bash run"
}

func (r *runner) run(t *testing.T, b *block) {
	t.Helper()
	if b.kind == consoleCheck {
		got := strings.TrimSpace(strings.ReplaceAll(r.output, "\t", "        "))
		if want := strings.TrimSpace(b.content); got != want {
			t.Errorf("%v: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q", b, got, want, got, want)
		}
		return
	}
	if b.kind == bashSetup {
		r.dir = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+b.content)
	cmd.Dir = r.dir
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()
	if b.kind == bashRun {
		r.output = string(output)
	}
	if err == nil {
		return
	}
	if b.kind == bashCheck {
		t.Errorf("%v failed: %v with output:\n%s", b, err, output)
		return
	}
	t.Fatalf("%v failed: %v with output:\n%s", b, err, output)
}
