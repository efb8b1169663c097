// Package shell provides an interactive readline console for driving a
// transposition table by hand: sizing it, storing and probing entries,
// replaying principal variations, and watching occupancy under churn.
package shell

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/rkalyankumar/Stockfish/config"
	"github.com/rkalyankumar/Stockfish/ttable"
)

// ShellController owns one table and one readline session.
type ShellController struct {
	l     *readline.Instance
	out   io.Writer
	table *ttable.Table
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mttshell>\033[0m ",
		HistoryFile:     "/tmp/ttshell_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}

	table := &ttable.Table{}
	if frac := cfg.MemoryFraction(); frac > 0 {
		table.SetSizeFraction(frac)
	} else {
		table.SetSize(cfg.TableSizeMB())
	}
	return &ShellController{l: l, out: l.Stderr(), table: table}
}

// Loop reads commands until exit or EOF.
func (sc *ShellController) Loop() {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields, err := shellquote.Split(line)
		if err != nil {
			showMessage("error: "+err.Error(), sc.out)
			continue
		}
		if sc.execute(fields) {
			break
		}
	}
	log.Debug().Msg("leaving shell loop")
}
