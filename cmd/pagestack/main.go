package main

import "github.com/spf13/cobra"

var mainCMD = &cobra.Command{
	Use:   "pagestack",
	Short: "Scan images into text and PDF",
	Long:  "Picks images, runs text recognition over every one of them and exports all pages as a single multi page PDF document.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	mainCMD.AddCommand(runCMD)
	mainCMD.AddCommand(serveCMD)
}

func main() {
	if err := mainCMD.Execute(); err != nil {
		panic(err)
	}
}
