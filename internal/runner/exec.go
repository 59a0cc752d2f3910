package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/vk/hpogrid/internal/config"
)

// ExecTrialFunc returns a TrialFunc that delegates each trial to an external
// command: the trial document is written to the command's stdin as JSON, and
// the command is expected to print a flat JSON object of metric values to
// stdout. This is the bridge to whatever framework actually trains and
// evaluates the model.
func ExecTrialFunc(command string, args ...string) TrialFunc {
	return func(ctx context.Context, trial *config.Trial) (map[string]float64, error) {
		doc, err := json.Marshal(trial.Document())
		if err != nil {
			return nil, fmt.Errorf("failed to serialize trial %s: %w", trial.ID(), err)
		}

		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Stdin = bytes.NewReader(doc)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if stderr.Len() > 0 {
				return nil, fmt.Errorf("trial command failed: %w: %s", err, stderr.String())
			}
			return nil, fmt.Errorf("trial command failed: %w", err)
		}

		var metrics map[string]float64
		if err := json.Unmarshal(stdout.Bytes(), &metrics); err != nil {
			return nil, fmt.Errorf("trial command produced invalid metrics output: %w", err)
		}
		return metrics, nil
	}
}
