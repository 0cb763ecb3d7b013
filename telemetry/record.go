// Package telemetry records per-frame traces of scenario runs and summarises
// batches of runs.
package telemetry

import (
	"strings"

	"github.com/milk9111/evostage/driver"
	"github.com/milk9111/evostage/scenario"
)

// FrameRecord is one row of trace.csv.
type FrameRecord struct {
	Run            int     `csv:"run"`
	Frame          uint64  `csv:"frame"`
	Stage          int     `csv:"stage"`
	Target         int     `csv:"target"`
	Evolving       bool    `csv:"evolving"`
	Timer          int     `csv:"timer"`
	DamageReceived float32 `csv:"damage_received"`
	HitsLanded     int     `csv:"hits_landed"`
	DamageNeeded   float32 `csv:"damage_needed"`
	HitsNeeded     int     `csv:"hits_needed"`
	HoldAuto       bool    `csv:"hold_auto"`
	Charge         string  `csv:"charge"`
	Icons          string  `csv:"icons"`
	Phase          string  `csv:"phase"`
	Loops          string  `csv:"loops"`
	Effects        string  `csv:"effects"`
	Sounds         string  `csv:"sounds"`
}

// RecordFrom flattens a snapshot into a trace row.
func RecordFrom(run int, frame uint64, s driver.Snapshot) FrameRecord {
	return FrameRecord{
		Run:            run,
		Frame:          frame,
		Stage:          s.Stage,
		Target:         s.Target,
		Evolving:       s.Evolving,
		Timer:          s.Timer,
		DamageReceived: s.DamageReceived,
		HitsLanded:     s.HitsLanded,
		DamageNeeded:   s.DamageNeeded,
		HitsNeeded:     s.HitsNeeded,
		HoldAuto:       s.HoldAuto,
		Charge:         s.Charge,
		Icons:          strings.Join(s.Icons, "|"),
		Phase:          s.Phase,
		Loops:          strings.Join(s.Loops, "|"),
		Effects:        strings.Join(s.Effects, "|"),
		Sounds:         strings.Join(s.Sounds, "|"),
	}
}

// RunRecord is one row of runs.csv.
type RunRecord struct {
	Run            int    `csv:"run"`
	Seed           uint64 `csv:"seed"`
	Scenario       string `csv:"scenario"`
	Frames         uint64 `csv:"frames"`
	Completed      bool   `csv:"completed"`
	Stage          int    `csv:"stage"`
	Evolutions     int    `csv:"evolutions"`
	Cancels        int    `csv:"cancels"`
	Resets         int    `csv:"resets"`
	Icons          int    `csv:"icons"`
	FirstEvolution uint64 `csv:"first_evolution"`
}

func RunFrom(run int, seed uint64, res scenario.Result) RunRecord {
	return RunRecord{
		Run:            run,
		Seed:           seed,
		Scenario:       res.Name,
		Frames:         res.Frames,
		Completed:      res.Completed,
		Stage:          res.Stage,
		Evolutions:     res.Evolutions,
		Cancels:        res.Cancels,
		Resets:         res.Resets,
		Icons:          res.Icons,
		FirstEvolution: res.FirstEvolution,
	}
}
