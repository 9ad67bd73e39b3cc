package trainer

import (
	"context"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/state"
)

// Checkpoint is the materialized training state written every
// checkpointFreq rounds. It flattens the accumulated derivation history
// into one snapshot; restoring from it reproduces the exact numerical
// state of that round boundary.
type Checkpoint struct {
	RunID     string      `cbor:"1,keyasint"`
	Round     int         `cbor:"2,keyasint"`
	Model     model.Model `cbor:"3,keyasint"`
	Averaged  model.Model `cbor:"4,keyasint"`
	PrimalW   [][]float64 `cbor:"5,keyasint"`
	PrimalEll []float64   `cbor:"6,keyasint"`
}

func (t *trainer[X, Y]) checkpoint(ctx context.Context, round int, m, avg model.Model, st *state.Store[Y]) error {
	if t.opts.checkpoints == nil {
		return nil
	}

	cp := Checkpoint{
		RunID:     t.opts.runID,
		Round:     round,
		Model:     m,
		Averaged:  avg,
		PrimalW:   make([][]float64, st.Len()),
		PrimalEll: make([]float64, st.Len()),
	}
	for i := 0; i < st.Len(); i++ {
		p := st.Primal(i)
		cp.PrimalW[i] = p.W.Dense()
		cp.PrimalEll[i] = p.Ell
	}

	data, err := cbor.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	key := fmt.Sprintf("runs/%s/checkpoints/%08d", t.opts.runID, round)

	return t.opts.checkpoints.Put(ctx, key, data)
}

// LoadCheckpoint decodes a checkpoint previously written by the trainer.
func LoadCheckpoint(data []byte) (Checkpoint, error) {
	var cp Checkpoint
	if err := cbor.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, fmt.Errorf("failed to decode checkpoint: %w", err)
	}

	return cp, nil
}
