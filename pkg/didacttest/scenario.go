package didacttest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/go-didact/didact/pkg/element"
	"github.com/go-didact/didact/pkg/host"
)

// Scenario is a YAML-described render sequence: each step renders a
// tree or clicks a node, then checks the container markup. Scenarios
// cover host trees declaratively; the one stateful construct is the
// built-in counter node, which exercises the hook store through clicks.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one action plus its expected outcome.
type Step struct {
	// Render, when set, renders the described tree.
	Render *ScenarioNode `yaml:"render,omitempty"`
	// Click, when set, dispatches a click on the first node with this
	// tag.
	Click string `yaml:"click,omitempty"`
	// Expect is the expected container OuterHTML after the step.
	Expect string `yaml:"expect"`
}

// ScenarioNode describes one element in a scenario tree.
type ScenarioNode struct {
	// Tag is the host tag, or "counter" for the built-in stateful
	// counter component.
	Tag string `yaml:"tag"`
	// Text, when set, adds a text child.
	Text string `yaml:"text,omitempty"`
	// Start is the counter's initial value.
	Start int `yaml:"start,omitempty"`
	// Props are plain string attributes.
	Props    map[string]string `yaml:"props,omitempty"`
	Children []ScenarioNode    `yaml:"children,omitempty"`
}

// counterTag marks the scenario node rendered as a stateful component.
const counterTag = "counter"

// scenarioCounter is the built-in component scenarios can instantiate:
// an h1 showing "Count: n" that increments on click.
func scenarioCounter(ctx element.BuildContext, props element.Props) element.Element {
	state, enqueue := ctx.Hook(props["start"])
	count := state.(int)
	return element.New("h1", element.Props{
		"onClick": func(host.Event) {
			enqueue(func(old any) any { return old.(int) + 1 })
		},
	}, fmt.Sprintf("Count: %d", count))
}

func (n ScenarioNode) element() element.Element {
	if n.Tag == counterTag {
		return element.New(element.ComponentFunc(scenarioCounter), element.Props{"start": n.Start})
	}
	props := element.Props{}
	for k, v := range n.Props {
		props[k] = v
	}
	children := make([]any, 0, len(n.Children)+1)
	if n.Text != "" {
		children = append(children, n.Text)
	}
	for _, child := range n.Children {
		children = append(children, child.element())
	}
	return element.New(n.Tag, props, children...)
}

// LoadScenario parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	return &sc, nil
}

// RunScenario executes a scenario against a fresh tester.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	ts := NewTester(t)
	for i, step := range sc.Steps {
		switch {
		case step.Render != nil:
			ts.Render(step.Render.element())
		case step.Click != "":
			node := ts.FindByTag(step.Click)
			if node == nil {
				t.Fatalf("step %d: no %q node to click", i, step.Click)
			}
			ts.Click(node)
		default:
			t.Fatalf("step %d: no action", i)
		}
		if got := ts.OuterHTML(); got != step.Expect {
			t.Errorf("step %d: container = %s\nwant %s", i, got, step.Expect)
		}
	}
}

// RunScenarioDir runs every *.yaml scenario under dir as a subtest.
func RunScenarioDir(t *testing.T, dir string) {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no scenarios in %s", dir)
	}
	for _, path := range paths {
		sc, err := LoadScenario(path)
		if err != nil {
			t.Fatal(err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}
