package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookcast/internal/tts"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the available TTS voices",
	Run: func(cmd *cobra.Command, args []string) {
		for _, v := range tts.NewOpenAIClient(tts.OpenAIConfig{}).ListVoices() {
			fmt.Printf("%-10s %s\n", v.ID, v.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(voicesCmd)
}
