package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/structlearn/structlearn/cli"
	"github.com/structlearn/structlearn/pkg/sdk"
)

func main() {
	sdkConf := sdk.Config{
		TrainerURL:      cli.DefTrainerURL,
		TLSVerification: cli.DefTLSVerification,
	}

	rootCmd := &cobra.Command{
		Use:   "structlearn [train|init|report]",
		Short: "Distributed structured-output trainer",
		Long: `structlearn trains structured-output predictors at scale with a
distributed block-coordinate Frank-Wolfe optimizer.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			s := sdk.NewSDK(sdkConf)
			cli.SetSDK(s)
		},
	}

	var configPath string
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Run a training job",
		Long:  `Run a training job from a TOML configuration file.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := startTrainer(cmd.Context(), configPath); err != nil {
				cmd.PrintErrf("failed to run training: %s\n", err.Error())
			}
		},
	}
	trainCmd.Flags().StringVarP(&configPath, "config", "c", "structlearn.toml", "training configuration file")

	rootCmd.AddCommand(trainCmd, cli.NewInitCmd(), cli.NewReportCmd())

	rootCmd.PersistentFlags().StringVarP(
		&sdkConf.TrainerURL,
		"trainer-url",
		"t",
		sdkConf.TrainerURL,
		"Trainer status API URL",
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("failed to execute command: %s", err.Error())
	}
}
