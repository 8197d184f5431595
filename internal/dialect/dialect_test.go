package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalDialectPermitsSleepForever(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.Permits(Normal, "receive_wait_forever"))
	assert.False(t, r.Permits(Normal, "send"))
}

func TestUnknownDialectPermitsNothing(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Permits("actor", "spawn"))
}

func TestLoadMergesCustomDialect(t *testing.T) {
	r, err := Load([]byte(`
dialects:
  - name: actor
    extensions:
      - name: spawn
        dyn: true
        min_args: 1
      - name: send
        dyn: false
        min_args: 2
`))
	assert.NoError(t, err)

	assert.True(t, r.Permits("actor", "spawn"))
	assert.True(t, r.Permits("actor", "send"))
	assert.False(t, r.Permits("actor", "receive"))

	// NORMAL is still present and unaffected by a loaded file.
	assert.True(t, r.Permits(Normal, "receive_wait_forever"))

	d, ok := r.Lookup("actor")
	assert.True(t, ok)
	ext, ok := d.Lookup("spawn")
	assert.True(t, ok)
	assert.True(t, ext.Dyn)
	assert.Equal(t, 1, ext.MinArgs)
}

func TestLoadRejectsRedefiningNormal(t *testing.T) {
	_, err := Load([]byte(`
dialects:
  - name: normal
    extensions: []
`))
	assert.Error(t, err)
}
