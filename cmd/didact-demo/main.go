// Command didact-demo renders the classic hello-world tree and a
// stateful counter into an in-memory document on the production
// scheduling loop, printing the committed markup after each step. With a
// debug port configured it also serves the fiber tree over HTTP.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/go-didact/didact/pkg/debug"
	"github.com/go-didact/didact/pkg/didact"
	"github.com/go-didact/didact/pkg/host"
	"github.com/go-didact/didact/pkg/memdom"
)

// config is the demo's YAML configuration.
type config struct {
	// Clicks is how many counter clicks to simulate.
	Clicks int `yaml:"clicks"`
	// DebugPort, when non-zero, serves /tree, /stats and /health on
	// 127.0.0.1:<port> until interrupted. Use -1 for an ephemeral port.
	DebugPort int `yaml:"debugPort"`
}

func loadConfig(path string) (config, error) {
	cfg := config{Clicks: 2}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func counter(ctx didact.BuildContext, props didact.Props) didact.Element {
	count, setCount := didact.UseState(ctx, 1)
	return didact.CreateElement("h1", didact.Props{
		"onClick": func(host.Event) {
			setCount(func(c int) int { return c + 1 })
		},
	}, fmt.Sprintf("Count: %d", count))
}

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	container := memdom.NewRoot("root")
	app := didact.NewApp(memdom.NewDocument(), container)
	defer app.Stop()

	show := func(label string) {
		done := make(chan struct{})
		app.Dispatch(func() {
			fmt.Printf("%s: %s\n", label, container.OuterHTML())
			close(done)
		})
		<-done
	}

	app.Render(didact.CreateElement("div", nil,
		didact.CreateElement("h1", nil, "Hello World"),
		didact.CreateElement("h2", didact.Props{"style": "text-align:right"}, "from Didact"),
	))
	app.WaitIdle()
	show("hello")

	app.Render(didact.CreateElement(didact.ComponentFunc(counter), nil))
	app.WaitIdle()
	show("counter")

	for i := 0; i < cfg.Clicks; i++ {
		done := make(chan struct{})
		app.Dispatch(func() {
			container.Children()[0].DispatchEvent("click", nil)
			close(done)
		})
		<-done
		app.WaitIdle()
		show(fmt.Sprintf("click %d", i+1))
	}

	stats := app.Renderer().Stats()
	fmt.Printf("renders=%d commits=%d units=%d\n",
		stats.RendersStarted, stats.Commits, stats.UnitsOfWork)

	if cfg.DebugPort != 0 {
		port := cfg.DebugPort
		if port < 0 {
			port = 0
		}
		srv := debug.NewServer(app.Renderer(), app.Dispatch)
		actual, err := srv.Start(port)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer srv.Stop()
		fmt.Printf("debug server on http://127.0.0.1:%d (ctrl-c to exit)\n", actual)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	}
}
