package shell

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/rkalyankumar/Stockfish/ttable"
)

const bignum = 1<<63 - 2

const helpText = `Commands:
  size <mb>                           resize the table (4-4096 MB)
  fraction <f>                        size the table from a fraction of system memory
  clear                               zero every slot
  newsearch                           start a new search episode
  store <sig> <val> <bound> <depth> [move]
                                      record an entry; bound is one of
                                      none|exact|lower|upper|static
  probe <sig>                         look a signature up
  pv <sig> <move> [move...]           reinsert a principal variation from sig
  churn <n>                           store n random entries, report occupancy
  hashfull                            occupancy estimate in permille
  stats                               capacity and probe/hit counters
  help                                this message
  exit                                leave the shell`

// execute runs one tokenized command and reports whether the loop should end.
func (sc *ShellController) execute(fields []string) bool {
	cmd, args := fields[0], fields[1:]
	var err error
	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		showMessage(helpText, sc.out)
	case "size":
		err = sc.resize(args)
	case "fraction":
		err = sc.resizeFraction(args)
	case "clear":
		sc.table.Clear()
		showMessage("table cleared", sc.out)
	case "newsearch":
		sc.table.NewSearch()
		showMessage("new search episode", sc.out)
	case "store":
		err = sc.store(args)
	case "probe":
		err = sc.probe(args)
	case "pv":
		err = sc.insertPV(args)
	case "churn":
		err = sc.churn(args)
	case "hashfull":
		showMessage(fmt.Sprintf("hashfull %d", sc.table.Full()), sc.out)
	case "stats":
		probes, hits := sc.table.Stats()
		showMessage(fmt.Sprintf("clusters %d, entries %d, probes %d, hits %d",
			sc.table.NumClusters(), sc.table.Capacity(), probes, hits), sc.out)
	default:
		err = fmt.Errorf("unknown command %q; try help", cmd)
	}
	if err != nil {
		showMessage("error: "+err.Error(), sc.out)
	}
	return false
}

func (sc *ShellController) resize(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: size <mb>")
	}
	mb, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	sc.table.SetSize(mb)
	showMessage(fmt.Sprintf("table sized to %d clusters (%d entries)",
		sc.table.NumClusters(), sc.table.Capacity()), sc.out)
	return nil
}

func (sc *ShellController) resizeFraction(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: fraction <f>")
	}
	f, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return err
	}
	if f <= 0 || f >= 1 {
		return errors.New("fraction must be in (0, 1)")
	}
	sc.table.SetSizeFraction(f)
	showMessage(fmt.Sprintf("table sized to %d clusters (%d entries)",
		sc.table.NumClusters(), sc.table.Capacity()), sc.out)
	return nil
}

func (sc *ShellController) store(args []string) error {
	if len(args) < 4 || len(args) > 5 {
		return errors.New("usage: store <sig> <val> <bound> <depth> [move]")
	}
	sig, err := parseSignature(args[0])
	if err != nil {
		return err
	}
	val, err := strconv.ParseInt(args[1], 10, 16)
	if err != nil {
		return err
	}
	bound, err := parseBound(args[2])
	if err != nil {
		return err
	}
	depth, err := strconv.ParseInt(args[3], 10, 16)
	if err != nil {
		return err
	}
	move := ttable.NoMove
	if len(args) == 5 {
		m, err := strconv.ParseUint(args[4], 10, 32)
		if err != nil {
			return err
		}
		move = ttable.Move(m)
	}
	sc.table.Store(sig, ttable.Value(val), bound,
		ttable.Depth(depth)*ttable.OnePly, move)
	showMessage("stored", sc.out)
	return nil
}

func (sc *ShellController) probe(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: probe <sig>")
	}
	sig, err := parseSignature(args[0])
	if err != nil {
		return err
	}
	e, ok := sc.table.Probe(sig)
	showMessage(lo.Ternary(ok,
		fmt.Sprintf("hit: value=%d bound=%s depth=%d move=%d gen=%d",
			e.Value(), e.Bound(), e.Depth(), e.Move(), e.Generation()),
		"miss"), sc.out)
	return nil
}

func (sc *ShellController) insertPV(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: pv <sig> <move> [move...]")
	}
	sig, err := parseSignature(args[0])
	if err != nil {
		return err
	}
	pv := make([]ttable.Move, 0, len(args)-1)
	for _, a := range args[1:] {
		m, err := strconv.ParseUint(a, 10, 32)
		if err != nil {
			return err
		}
		pv = append(pv, ttable.Move(m))
	}

	start := demoPosition{key: sig}
	sc.table.InsertPV(start, pv)

	// Echo the visited signatures so they can be probed afterwards.
	var b strings.Builder
	p := ttable.Position(start)
	for _, m := range pv {
		if m == ttable.NoMove {
			break
		}
		fmt.Fprintf(&b, "%#x -> ", p.Signature())
		p = p.Advance(m)
	}
	b.WriteString("...")
	showMessage("reinserted along "+b.String(), sc.out)
	return nil
}

func (sc *ShellController) churn(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: churn <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	if n <= 0 {
		return errors.New("churn count must be positive")
	}

	keys := lo.RepeatBy(n, func(int) uint64 { return frand.Uint64n(bignum) + 1 })
	start := time.Now()
	for _, k := range keys {
		sc.table.Store(k, ttable.Value(frand.Intn(2000)-1000), ttable.BoundExact,
			ttable.Depth(frand.Intn(30))*ttable.OnePly, ttable.Move(frand.Intn(1<<20)+1))
	}
	elapsed := time.Since(start)
	showMessage(fmt.Sprintf("stored %d random entries in %v, hashfull %d",
		n, elapsed, sc.table.Full()), sc.out)
	return nil
}

func parseSignature(s string) (uint64, error) {
	// Accept decimal or 0x-prefixed hex. Signature 0 means "empty slot"
	// and is out of contract for store/probe.
	sig, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}
	if sig == 0 {
		return 0, errors.New("signature 0 is reserved for empty slots")
	}
	return sig, nil
}

func parseBound(s string) (ttable.Bound, error) {
	switch strings.ToLower(s) {
	case "none":
		return ttable.BoundNone, nil
	case "exact":
		return ttable.BoundExact, nil
	case "lower":
		return ttable.BoundLower, nil
	case "upper":
		return ttable.BoundUpper, nil
	case "static", "staticeval":
		return ttable.BoundStaticEval, nil
	}
	return 0, fmt.Errorf("unknown bound %q", s)
}

// demoPosition chains signatures by hashing the current signature with the
// move, standing in for a real game position when replaying a PV by hand.
type demoPosition struct {
	key uint64
}

func (p demoPosition) Signature() uint64 { return p.key }

func (p demoPosition) Advance(m ttable.Move) ttable.Position {
	var b [12]byte
	binary.LittleEndian.PutUint64(b[:8], p.key)
	binary.LittleEndian.PutUint32(b[8:], uint32(m))
	return demoPosition{key: xxhash.Sum64(b[:])}
}
