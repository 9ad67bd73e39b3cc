package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/structlearn/structlearn"
	"github.com/structlearn/structlearn/trainer"
)

// NewInitCmd interactively builds a training configuration file.
func NewInitCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a training config",
		Long:  `Interactively create a training configuration file.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := structlearn.DefaultConfig()

			lambda := fmt.Sprintf("%g", cfg.Training.Lambda)
			partitions := strconv.Itoa(cfg.Training.Partitions)
			rounds := strconv.Itoa(cfg.Stopping.Rounds)
			fraction := fmt.Sprintf("%g", cfg.Sampling.Fraction)
			cacheSize := strconv.Itoa(cfg.Training.CacheSize)

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Regularization constant (lambda)").
						Value(&lambda).
						Validate(validFloat),
					huh.NewInput().
						Title("Number of partitions").
						Value(&partitions).
						Validate(validInt),
					huh.NewSelect[string]().
						Title("Stopping criterion").
						Options(
							huh.NewOption("Round limit", trainer.StopRounds),
							huh.NewOption("Time limit", trainer.StopTime),
							huh.NewOption("Duality-gap threshold", trainer.StopGap),
						).
						Value(&cfg.Stopping.Criterion),
					huh.NewInput().
						Title("Round limit").
						Value(&rounds).
						Validate(validInt),
				),
				huh.NewGroup(
					huh.NewInput().
						Title("Sampling fraction per round").
						Value(&fraction).
						Validate(validFloat),
					huh.NewConfirm().
						Title("Use line search?").
						Value(&cfg.Training.LineSearch),
					huh.NewConfirm().
						Title("Track weighted-average model?").
						Value(&cfg.Training.Averaging),
					huh.NewConfirm().
						Title("Cache oracle results?").
						Value(&cfg.Training.UseCache),
					huh.NewInput().
						Title("Oracle cache size").
						Value(&cacheSize).
						Validate(validInt),
				),
			)

			if err := form.Run(); err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			cfg.Training.Lambda, _ = strconv.ParseFloat(lambda, 64)
			cfg.Training.Partitions, _ = strconv.Atoi(partitions)
			cfg.Stopping.Rounds, _ = strconv.Atoi(rounds)
			cfg.Sampling.Fraction, _ = strconv.ParseFloat(fraction, 64)
			cfg.Training.CacheSize, _ = strconv.Atoi(cacheSize)

			if err := cfg.Save(output); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logOKCmd(*cmd, "wrote "+output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "structlearn.toml", "path of the config file to write")

	return cmd
}

func validFloat(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("not a number: %s", s)
	}

	return nil
}

func validInt(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("not an integer: %s", s)
	}

	return nil
}
