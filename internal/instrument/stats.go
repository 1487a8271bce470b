package instrument

import "time"

// OpStats is the accumulated cost of one kind of repository call.
type OpStats struct {
	Count uint64
	Bytes uint64
	Time  time.Duration
}

func (s OpStats) Sub(prev OpStats) OpStats {
	return OpStats{
		Count: s.Count - prev.Count,
		Bytes: s.Bytes - prev.Bytes,
		Time:  s.Time - prev.Time,
	}
}

// ImportStats totals every finished import.
type ImportStats struct {
	Imports    uint64
	Blobs      uint64
	Bytes      uint64
	WriteTime  time.Duration
	CommitTime time.Duration
}

func (s ImportStats) Sub(prev ImportStats) ImportStats {
	return ImportStats{
		Imports:    s.Imports - prev.Imports,
		Blobs:      s.Blobs - prev.Blobs,
		Bytes:      s.Bytes - prev.Bytes,
		WriteTime:  s.WriteTime - prev.WriteTime,
		CommitTime: s.CommitTime - prev.CommitTime,
	}
}

// Stats is a point-in-time copy of a Recorder.
type Stats struct {
	Get    OpStats
	Put    OpStats
	Delete OpStats
	Errors uint64
	Import ImportStats
}

// Sub returns the growth since prev. Snapshots of one Recorder never shrink.
func (s Stats) Sub(prev Stats) Stats {
	return Stats{
		Get:    s.Get.Sub(prev.Get),
		Put:    s.Put.Sub(prev.Put),
		Delete: s.Delete.Sub(prev.Delete),
		Errors: s.Errors - prev.Errors,
		Import: s.Import.Sub(prev.Import),
	}
}

func (s Stats) IsZero() bool {
	return s == Stats{}
}
