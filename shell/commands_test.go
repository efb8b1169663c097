package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkalyankumar/Stockfish/ttable"
)

func testController() (*ShellController, *bytes.Buffer) {
	table := &ttable.Table{}
	table.SetSize(ttable.MinSizeMB)
	buf := &bytes.Buffer{}
	return &ShellController{out: buf, table: table}, buf
}

func TestStoreAndProbeCommands(t *testing.T) {
	sc, buf := testController()

	done := sc.execute([]string{"store", "0xdeadbeef", "42", "exact", "7", "1234"})
	assert.False(t, done)
	assert.Contains(t, buf.String(), "stored")

	buf.Reset()
	sc.execute([]string{"probe", "0xdeadbeef"})
	out := buf.String()
	assert.Contains(t, out, "hit")
	assert.Contains(t, out, "value=42")
	assert.Contains(t, out, "bound=exact")
	assert.Contains(t, out, "move=1234")

	buf.Reset()
	sc.execute([]string{"probe", "0xcafe"})
	assert.Contains(t, buf.String(), "miss")
}

func TestProbeZeroSignatureRejected(t *testing.T) {
	sc, buf := testController()
	sc.execute([]string{"probe", "0"})
	assert.Contains(t, buf.String(), "error")
}

func TestUnknownCommand(t *testing.T) {
	sc, buf := testController()
	sc.execute([]string{"frobnicate"})
	assert.Contains(t, buf.String(), "unknown command")
}

func TestExitCommand(t *testing.T) {
	sc, _ := testController()
	assert.True(t, sc.execute([]string{"exit"}))
	assert.True(t, sc.execute([]string{"quit"}))
}

func TestChurnReportsHashfull(t *testing.T) {
	sc, buf := testController()

	sc.execute([]string{"churn", "200000"})
	out := buf.String()
	require.Contains(t, out, "hashfull")
	assert.NotContains(t, out, "error")

	buf.Reset()
	sc.execute([]string{"newsearch"})
	buf.Reset()
	sc.execute([]string{"hashfull"})
	assert.Equal(t, "hashfull 0", strings.TrimSpace(buf.String()))
}

func TestPVCommand(t *testing.T) {
	sc, buf := testController()

	sc.execute([]string{"pv", "0x12345", "9", "10"})
	assert.Contains(t, buf.String(), "reinserted")

	buf.Reset()
	sc.execute([]string{"probe", "0x12345"})
	assert.Contains(t, buf.String(), "move=9")
}

func TestParseBound(t *testing.T) {
	for name, want := range map[string]ttable.Bound{
		"none":   ttable.BoundNone,
		"exact":  ttable.BoundExact,
		"lower":  ttable.BoundLower,
		"upper":  ttable.BoundUpper,
		"static": ttable.BoundStaticEval,
		"EXACT":  ttable.BoundExact,
	} {
		got, err := parseBound(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := parseBound("sideways")
	assert.Error(t, err)
}
