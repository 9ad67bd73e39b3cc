package trainer

import (
	"fmt"

	"github.com/structlearn/structlearn/evaluator"
)

func (t *trainer[X, Y]) writeLogHeader() {
	if t.opts.logWriter == nil {
		return
	}

	fmt.Fprintf(t.opts.logWriter,
		"%6s %10s %20s %12s %12s %12s %10s %10s %12s %12s %10s %10s %8s\n",
		"round", "elapsed_s", "wall_time",
		"primal", "dual", "gap",
		"train_err", "test_err", "train_loss", "test_loss",
		"w_norm", "step_norm", "cos")
}

func (t *trainer[X, Y]) writeLogRow(ev evaluator.RoundEvaluation) {
	if t.opts.logWriter == nil {
		return
	}

	fmt.Fprintf(t.opts.logWriter,
		"%6d %10.3f %20s %12.6g %12.6g %12.6g %10.4f %10.4f %12.6g %12.6g %10.4g %10.4g %8.4f\n",
		ev.Round, ev.Elapsed, ev.WallTime.Format("2006-01-02T15:04:05"),
		ev.Primal, ev.Dual, ev.Gap,
		ev.TrainError, ev.TestError, ev.TrainLoss, ev.TestLoss,
		ev.WeightNorm, ev.StepNorm, ev.Cosine)
}
