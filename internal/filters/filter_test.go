package filters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mork-export/internal/morkdb"
)

type recordingFilter struct {
	name  string
	order int
	log   *[]string
	err   error
}

func (f recordingFilter) Name() string { return f.name }
func (f recordingFilter) Order() int   { return f.order }
func (f recordingFilter) Process(*morkdb.Database, *Options) error {
	*f.log = append(*f.log, f.name)
	return f.err
}

func TestPipeline_RunsInOrder(t *testing.T) {
	var log []string
	p := &Pipeline{}
	p.Add(recordingFilter{name: "third", order: 30, log: &log})
	p.Add(recordingFilter{name: "first", order: 10, log: &log})
	p.Add(recordingFilter{name: "second", order: 20, log: &log})

	require.NoError(t, p.Run(morkdb.NewDatabase(), &Options{}))
	assert.Equal(t, []string{"first", "second", "third"}, log)
}

func TestPipeline_StopsOnError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	p := &Pipeline{}
	p.Add(recordingFilter{name: "ok", order: 1, log: &log})
	p.Add(recordingFilter{name: "bad", order: 2, log: &log, err: boom})
	p.Add(recordingFilter{name: "never", order: 3, log: &log})

	err := p.Run(morkdb.NewDatabase(), &Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "filter bad")
	assert.Equal(t, []string{"ok", "bad"}, log)
}

func TestOptions_Defaults(t *testing.T) {
	o := &Options{}
	assert.Equal(t, "Mon Jan _2 15:04:05 2006", o.layout())

	o.TimeFormat = "2006-01-02"
	assert.Equal(t, "2006-01-02", o.layout())
}
