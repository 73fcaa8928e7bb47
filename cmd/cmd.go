// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles configuration and database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the local database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles the OAuth2 authorization flow.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize with Spotify and print an access token",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "listen",
				Usage: "Capture the redirect with a local callback server instead of pasting the URL (plain HTTP, so a localhost https redirect_uri is downgraded to http)",
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL without opening a browser",
			},
		},
		Action: r.Auth,
	}
}

// fetchCommand runs the full history, features, merge, and export sequence.
func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch recent plays and audio features, then export the merged dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "token",
				Usage: "Use an existing access token instead of running the authorization flow",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Number of recent plays to request (provider max 50)",
			},
			&cli.BoolFlag{
				Name:  "listen",
				Usage: "Capture the authorization redirect with a local callback server (plain HTTP, so a localhost https redirect_uri is downgraded to http)",
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL without opening a browser",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Record the run and its merged dataset in the local database",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the run summary as JSON",
			},
		},
		Action: r.Fetch,
	}
}

// browseCommand launches the TUI over a saved run.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"ui"},
		Usage:   "Browse the most recent saved run interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "run",
				Usage: "Run ID to browse (defaults to the most recent run)",
			},
		},
		Action: r.Browse,
	}
}
