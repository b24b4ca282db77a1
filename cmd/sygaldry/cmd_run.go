package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	clibind "github.com/sygaldry-dmi/sygaldry/pkg/cli"
	"github.com/sygaldry-dmi/sygaldry/pkg/outputlog"
	"github.com/sygaldry-dmi/sygaldry/pkg/oscnet"
	"github.com/sygaldry-dmi/sygaldry/pkg/runtime"
	"github.com/sygaldry-dmi/sygaldry/pkg/session"
	"github.com/sygaldry-dmi/sygaldry/pkg/tree"
	"github.com/sygaldry-dmi/sygaldry/pkg/util"
)

// Instrument is the demo assembly: the component body plus every binding.
// Binding order matters: session storage first so restored values are in
// place before the OSC server reads its connection endpoints.
type Instrument struct {
	Session *session.Storage
	Demo    *DemoComponent
	Cli     *clibind.Cli
	Osc     *oscnet.Server
	Log     *outputlog.Logger
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo instrument",
	Long: `Run the demo instrument until interrupted.

The instrument tree is the demo mirror component plus the CLI, OSC,
session-storage and output-logger bindings. The CLI reads stdin when it
is a terminal; OSC ports come from the config file or session storage.

Examples:
  sygaldry run
  sygaldry run -c instrument.yaml
  sygaldry run --ticks 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstrument(cmd)
	},
}

var tickLimit int

func init() {
	runCmd.Flags().IntVar(&tickLimit, "ticks", 0, "stop after N ticks (0 = run until interrupted)")
}

func runInstrument(cmd *cobra.Command) error {
	var reader clibind.Reader
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		reader = clibind.NewStdinReader()
	} else {
		reader = clibind.NewStringReader("")
	}

	var backend session.Backend
	switch {
	case app.config.Session.RedisAddr != "":
		key := app.config.Session.RedisKey
		if key == "" {
			key = "sygaldry:session"
		}
		rb := session.NewRedisBackend(app.config.Session.RedisAddr, key)
		defer rb.Close()
		backend = rb
	case app.config.Session.File != "":
		backend = session.NewFileBackend(app.config.Session.File)
	default:
		backend = session.NewFileBackend(app.settings.GetSessionFile())
	}

	oscServer := oscnet.NewServer()
	if app.config.OSC.SrcPort != "" {
		oscServer.Inputs.SrcPort.Set(app.config.OSC.SrcPort)
	}
	if app.config.OSC.DstPort != "" {
		oscServer.Inputs.DstPort.Set(app.config.OSC.DstPort)
	}
	if app.config.OSC.DstAddr != "" {
		oscServer.Inputs.DstAddr.Set(app.config.OSC.DstAddr)
	}

	inst := &Instrument{
		Session: session.NewStorage(backend),
		Demo:    NewDemoComponent(),
		Cli:     clibind.New(reader, os.Stdout),
		Osc:     oscServer,
		Log:     outputlog.New(os.Stdout),
	}

	tr, err := tree.New(inst)
	if err != nil {
		return err
	}
	rt, err := runtime.New(tr)
	if err != nil {
		return err
	}
	rt.Init()

	if oscServer.Outputs.ServerRunning.Value() == 1 {
		fmt.Printf("%s OSC on port %s\n", clibind.Green("listening:"), oscServer.Inputs.SrcPort.Value())
	} else {
		fmt.Printf("%s OSC server is down\n", clibind.Red("error:"))
	}

	interval := app.config.TickIntervalMS
	if interval == 0 {
		interval = app.settings.GetTickIntervalMS()
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Millisecond)
	defer ticker.Stop()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	util.WithComponent("host").Infof("instrument running, tick interval %dms", interval)
	ticks := 0
	for {
		select {
		case <-sigs:
			fmt.Println("\nshutting down")
			return nil
		case <-ticker.C:
			rt.Tick()
			ticks++
			if tickLimit > 0 && ticks >= tickLimit {
				return nil
			}
		}
	}
}
