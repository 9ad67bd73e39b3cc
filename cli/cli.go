// Package cli implements the structlearn command-line commands.
package cli

import (
	"github.com/fatih/color"
	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"github.com/structlearn/structlearn/pkg/sdk"
)

var (
	// DefTLSVerification disables TLS verification against local trainers.
	DefTLSVerification = false
	// DefTrainerURL is the default trainer status API address.
	DefTrainerURL = "http://localhost:7070"
)

var tsdk sdk.SDK

// SetSDK sets the trainer SDK instance used by the report commands.
func SetSDK(s sdk.SDK) {
	tsdk = s
}

func logJSONCmd(cmd cobra.Command, v any) {
	data, err := prettyjson.Marshal(v)
	if err != nil {
		logErrorCmd(cmd, err)

		return
	}
	cmd.Println(string(data))
}

func logErrorCmd(cmd cobra.Command, err error) {
	boldRed := color.New(color.FgRed, color.Bold)
	cmd.PrintErrln(boldRed.Sprint("error:"), err.Error())
}

func logUsageCmd(cmd cobra.Command, usage string) {
	boldYellow := color.New(color.FgYellow, color.Bold)
	cmd.Println(boldYellow.Sprint("usage:"), usage)
}

func logOKCmd(cmd cobra.Command, msg string) {
	boldGreen := color.New(color.FgGreen, color.Bold)
	cmd.Println(boldGreen.Sprint("ok:"), msg)
}
