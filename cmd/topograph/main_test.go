package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersTopo = `# orders
exchange e1 orders direct
queue q1 orders.q messages=12 consumers=2 health=95
bind e1 -> q1 : order.created
bind e1 -> missing.q : order.lost
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRenderSample(t *testing.T) {
	out, err := run(t, "render", "--select", "ex-orders")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `<svg xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, out, `transform="translate(0 0) scale(1)"`)
	// The lowest sample queue ends at y 900, past the default 800 canvas.
	assert.Contains(t, out, `viewBox="0 0 1000 920"`)
}

func TestRenderFlags(t *testing.T) {
	path := writeFile(t, "orders.topo", ordersTopo)
	dst := filepath.Join(t.TempDir(), "out.svg")

	_, err := run(t, "render", path, "--zoom-steps", "2", "--pan-x", "30", "--pan-y", "-10", "--no-labels", "-o", dst)
	require.NoError(t, err)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	svg := string(b)
	assert.Contains(t, svg, `transform="translate(30 -10) scale(1.4)"`)
	assert.NotContains(t, svg, "<text")
	assert.Contains(t, svg, `data-node="q1"`)
}

func TestRenderFilter(t *testing.T) {
	path := writeFile(t, "orders.topo", ordersTopo)

	out, err := run(t, "render", path, "--filter", "exchange")
	require.NoError(t, err)
	assert.Contains(t, out, `data-node="e1"`)
	assert.NotContains(t, out, `data-node="q1"`)
	assert.NotContains(t, out, `class="edge"`)

	_, err = run(t, "render", path, "--filter", "bogus")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	path := writeFile(t, "orders.topo", ordersTopo)

	out, err := run(t, "inspect", path, "--unresolved")
	require.NoError(t, err)
	assert.Contains(t, out, "1 exchanges, 1 queues, 1 edges")
	assert.Contains(t, out, "(200, 120)")
	assert.Contains(t, out, "health 95 (healthy)")
	assert.Contains(t, out, "order.created")
	assert.Contains(t, out, "b2 e1 -> missing.q: destination not found")
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "ok.json", `{"exchanges":[{"id":"e1","name":"orders","type":"direct"}],"queues":[],"bindings":[]}`)
	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 exchanges, 0 queues, 0 bindings")

	badDoc := writeFile(t, "bad.json", `{"exchanges":[{"id":"e1","name":"orders","type":"x-mystery"}],"queues":[{"id":"q1","name":"q","healthScore":140}]}`)
	out, err = run(t, "validate", badDoc)
	require.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "/exchanges/0/type")
	assert.Contains(t, out, "/queues/0/healthScore")

	_, err = run(t, "validate")
	assert.Error(t, err)
}

type closeFailer struct {
	bytes.Buffer
	err error
}

func (c *closeFailer) Close() error { return c.err }

func TestCloseAfterReportsCloseError(t *testing.T) {
	errDisk := errors.New("disk full")
	errWrite := errors.New("write failed")

	out := &closeFailer{err: errDisk}
	err := closeAfter(out, func(w io.Writer) error {
		_, err := io.WriteString(w, "<svg/>")
		return err
	})
	require.ErrorIs(t, err, errDisk)
	assert.Equal(t, "<svg/>", out.String())

	err = closeAfter(&closeFailer{err: errDisk}, func(io.Writer) error { return errWrite })
	assert.ErrorIs(t, err, errWrite)
	assert.NotErrorIs(t, err, errDisk)

	assert.NoError(t, closeAfter(&closeFailer{}, func(io.Writer) error { return nil }))
}

func TestRenderOutputDirMissing(t *testing.T) {
	_, err := run(t, "render", "-o", filepath.Join(t.TempDir(), "no", "such", "out.svg"))
	assert.Error(t, err)
}
