package instrument_test

import (
	"testing"
	"time"

	"github.com/jt828/perf-metrics/internal/instrument"
	"github.com/stretchr/testify/assert"
)

func TestStats_Sub(t *testing.T) {
	prev := instrument.Stats{
		Get:    instrument.OpStats{Count: 1, Bytes: 10, Time: time.Millisecond},
		Errors: 1,
		Import: instrument.ImportStats{Imports: 1, WriteTime: time.Second},
	}
	cur := instrument.Stats{
		Get:    instrument.OpStats{Count: 3, Bytes: 30, Time: 3 * time.Millisecond},
		Put:    instrument.OpStats{Count: 1, Bytes: 7},
		Errors: 1,
		Import: instrument.ImportStats{Imports: 2, WriteTime: 3 * time.Second},
	}

	d := cur.Sub(prev)

	assert.Equal(t, instrument.OpStats{Count: 2, Bytes: 20, Time: 2 * time.Millisecond}, d.Get)
	assert.Equal(t, instrument.OpStats{Count: 1, Bytes: 7}, d.Put)
	assert.Zero(t, d.Errors)
	assert.Equal(t, instrument.ImportStats{Imports: 1, WriteTime: 2 * time.Second}, d.Import)
	assert.False(t, d.IsZero())
	assert.True(t, cur.Sub(cur).IsZero())
}
