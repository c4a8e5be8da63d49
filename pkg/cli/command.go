package cli

import (
	"github.com/urfave/cli/v3"
)

func NewCommand() *cli.Command {
	flags := append(DefineFlags(),
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
			Value: false,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose logging",
			Value: false,
		},
	)

	return &cli.Command{
		Name:    "actq",
		Usage:   "GitHub Actions queue report generator",
		Version: "0.1.0",
		Description: `actq fetches workflow runs and jobs for a repository, infers why queued
runs are stuck, and writes JSON/CSV/HTML reports.

By default, the repository is detected from the origin remote of the
current directory. Use --owner/--repo to target another repository.`,
		Flags:  flags,
		Action: RunReport,
	}
}
