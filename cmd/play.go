package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warehouse-sim/warehouse-sim/internal/history"
	"github.com/warehouse-sim/warehouse-sim/internal/notify"
	"github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/host"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

var (
	playMode    string // picking or stocking
	playStyle   string // guided or free
	traceLevel  string // none or commands
	stepMs      int64  // simulated ms per wall-clock tick
	saveHistory bool
)

// playOptions carries per-run choices into playSession.
type playOptions struct {
	UserID     string
	Mode       sim.TaskMode
	Style      sim.PlayStyle
	TraceLevel trace.TraceLevel
	Step       time.Duration
	Ticks      <-chan time.Time // nil uses a wall-clock ticker
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an interactive forklift session on the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !sim.IsValidTaskMode(playMode) {
			return fmt.Errorf("unknown --mode %q; valid: picking, stocking", playMode)
		}
		if !sim.IsValidPlayStyle(playStyle) {
			return fmt.Errorf("unknown --style %q; valid: guided, free", playStyle)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("unknown --trace %q; valid: none, commands", traceLevel)
		}
		st, err := resolveSettings()
		if err != nil {
			return err
		}

		var sinks []host.Sink
		if url := viper.GetString("nats-url"); url != "" {
			pub, err := notify.NewNATSPublisher(url)
			if err != nil {
				return err
			}
			defer pub.Close()
			sinks = append(sinks, notify.NoticeSink{Publisher: pub})
			logrus.Infof("Publishing notices to %s on %s", url, notify.NoticeTopic)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		out := cmd.OutOrStdout()
		rec, tr, err := playSession(ctx, st, playOptions{
			UserID:     viper.GetString("user"),
			Mode:       sim.TaskMode(playMode),
			Style:      sim.PlayStyle(playStyle),
			TraceLevel: trace.TraceLevel(traceLevel),
			Step:       time.Duration(stepMs) * time.Millisecond,
		}, cmd.InOrStdin(), out, sinks...)
		if err != nil {
			return err
		}

		renderRecord(out, rec)
		if tr.Enabled() {
			renderTraceSummary(out, trace.Summarize(tr))
		}
		if saveHistory {
			db, err := history.Open(viper.GetString("history-db"))
			if err != nil {
				return err
			}
			defer db.Close()
			if _, err := (history.Store{DB: db}).Save(context.Background(), *rec); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved session %s\n", rec.ID)
		}
		return nil
	},
}

// playSession hosts one session fed by line input from in. It returns when
// the player finishes, input ends, or ctx is done.
func playSession(ctx context.Context, st settings, opts playOptions, in io.Reader, w io.Writer, sinks ...host.Sink) (*sim.FinishedSession, *trace.SessionTrace, error) {
	engine, err := sim.NewEngine(st.Config, st.Key, sim.NewRecorder())
	if err != nil {
		return nil, nil, err
	}
	s, err := engine.NewSession(st.Layout, sim.SessionSpec{UserID: opts.UserID, Mode: opts.Mode, Style: opts.Style})
	if err != nil {
		return nil, nil, err
	}
	out := &syncWriter{w: w}
	tr := trace.NewSessionTrace(opts.TraceLevel, s.ID)

	fmt.Fprintln(out, inputHelp)
	fmt.Fprint(out, renderBoard(s))
	renderOrder(out, s)

	r := host.NewRunner(engine, s, append([]host.Sink{boardSink(out)}, sinks...)...)
	r.Trace = tr
	r.Step = opts.Step
	r.Ticks = opts.Ticks

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	cmds := make(chan sim.Command)
	go readCommands(runCtx, in, out, cmds)

	rec, err := r.Run(runCtx, cmds)
	if errors.Is(err, context.Canceled) && rec != nil {
		err = nil
	}
	return rec, tr, err
}

// readCommands parses lines from in onto cmds and closes cmds at end of input.
func readCommands(ctx context.Context, in io.Reader, out io.Writer, cmds chan<- sim.Command) {
	defer close(cmds)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		parsed, err := parseLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		for _, c := range parsed {
			select {
			case cmds <- c:
			case <-ctx.Done():
				return
			}
		}
	}
}

// boardSink prints rejections, notices and the board after player commands.
func boardSink(out io.Writer) host.Sink {
	return host.SinkFunc(func(cmd sim.Command, res sim.Result, s *sim.Session) {
		if !res.OK {
			fmt.Fprintf(out, "x %s: %s (%s)\n", cmd, res.Reason, res.Detail)
			return
		}
		for _, n := range res.Notices {
			if line := describeNotice(n); line != "" {
				fmt.Fprintln(out, line)
			}
		}
		switch cmd.Kind {
		case sim.CommandAdvanceClock, sim.CommandFinish:
			return
		}
		fmt.Fprint(out, renderBoard(s))
		fmt.Fprintln(out, renderStatus(s))
		if cmd.Kind == sim.CommandInteract || cmd.Kind == sim.CommandDispatch || cmd.Kind == sim.CommandContinue {
			renderOrder(out, s)
		}
	})
}

func describeNotice(n sim.Notice) string {
	switch n.Kind {
	case sim.NoticeTurned, sim.NoticeMoved:
		return ""
	case sim.NoticeDispatched:
		return fmt.Sprintf("dispatched %d item(s)", n.Count)
	case sim.NoticeOrderComplete:
		return fmt.Sprintf("round %d complete: c for a new order, q to finish", n.Round)
	case sim.NoticeNewOrder:
		return fmt.Sprintf("round %d: %d new task(s)", n.Round, n.Count)
	case sim.NoticeFinished:
		return "session finished"
	}
	return fmt.Sprintf("%s: %s (%s)", n.Kind, n.ProductName, n.ProductID)
}

func renderTraceSummary(out io.Writer, summary *trace.TraceSummary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetTitle("Commands")
	tw.AppendHeader(table.Row{"Outcome", "Count"})
	tw.AppendRow(table.Row{"accepted", summary.AcceptedCount})
	tw.AppendRow(table.Row{"rejected", summary.RejectedCount})
	reasons := make([]string, 0, len(summary.RejectionReasons))
	for reason := range summary.RejectionReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		tw.AppendRow(table.Row{"  " + reason, summary.RejectionReasons[reason]})
	}
	tw.Render()
}

// syncWriter serialises writes from the input reader and the runner.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func init() {
	playCmd.Flags().StringVar(&playMode, "mode", string(sim.ModePicking), "Task mode (picking, stocking)")
	playCmd.Flags().StringVar(&playStyle, "style", string(sim.StyleGuided), "Play style (guided, free)")
	playCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelCommands), "Command trace level (none, commands)")
	playCmd.Flags().Int64Var(&stepMs, "step-ms", host.DefaultStep.Milliseconds(), "Simulated milliseconds per wall-clock tick")
	playCmd.Flags().BoolVar(&saveHistory, "save", true, "Record the finished session in the history database")
}
