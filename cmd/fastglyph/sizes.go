package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/bodgit/fastglyph/sizes"
	"github.com/urfave/cli/v2"
)

// open returns stdin for "-" or no file
func open(file string) (io.ReadCloser, error) {
	if file == "" || file == "-" {
		return ioutil.NopCloser(os.Stdin), nil
	}
	return os.Open(file)
}

func readStats(file string) ([]sizes.Record, error) {
	f, err := open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sizes.ReadStats(f)
}

func readExamples(file string) ([]sizes.Example, error) {
	f, err := open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sizes.ReadExamples(f)
}

func readSheet(file string) (*sizes.Sheet, error) {
	f, err := open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sizes.ReadSheet(f)
}

func dialectNames() string {
	names := make([]string, 0, len(sizes.Dialects))
	for name := range sizes.Dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func sizesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sizes",
		Usage: "Report code and data sizes of example programs",
		Subcommands: []*cli.Command{
			{
				Name:        "stats",
				Usage:       "Extract sizes from a build log",
				Description: "Reads standard input if no file is given.",
				ArgsUsage:   "[LOG]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dialect",
						Value: sizes.AVRSize.Name,
						Usage: "build tool that wrote the log, one of " + dialectNames(),
					},
				},
				Action: func(c *cli.Context) error {
					d, ok := sizes.Dialects[c.String("dialect")]
					if !ok {
						return cli.NewExitError(fmt.Errorf("unknown dialect %q", c.String("dialect")), 1)
					}

					f, err := open(c.Args().First())
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					defer f.Close()

					records, err := sizes.ParseLog(f, d)
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					if err := sizes.WriteStats(c.App.Writer, records); err != nil {
						return cli.NewExitError(err, 1)
					}

					return nil
				},
			},
			{
				Name:        "import",
				Usage:       "Record the sizes for a target in the database",
				Description: "Any sizes previously recorded for the target are replaced.",
				ArgsUsage:   "TARGET STATS",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}

					records, err := readStats(c.Args().Get(1))
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					db, err := sizes.Open(c.String("db"))
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					defer db.Close()

					if err := db.Import(c.Args().First(), records); err != nil {
						return cli.NewExitError(err, 1)
					}

					newLogger(c).Printf("Imported %d examples for \"%s\"\n", len(records), c.Args().First())

					return nil
				},
			},
			{
				Name:        "sheet",
				Usage:       "Combine the sizes of several targets",
				Description: "Sizes are read from TARGET=STATS pairs, or from the database for every target recorded if there are none.",
				ArgsUsage:   "EXAMPLES [TARGET=STATS...]",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}

					examples, err := readExamples(c.Args().First())
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					var (
						targets []string
						lookup  sizes.Lookup
					)

					if pairs := c.Args().Tail(); len(pairs) > 0 {
						stats := make(map[string][]sizes.Record, len(pairs))
						for _, pair := range pairs {
							kv := strings.SplitN(pair, "=", 2)
							if len(kv) != 2 {
								return cli.NewExitError(fmt.Errorf("expected TARGET=STATS, got %q", pair), 1)
							}
							records, err := readStats(kv[1])
							if err != nil {
								return cli.NewExitError(err, 1)
							}
							targets = append(targets, kv[0])
							stats[kv[0]] = records
						}
						lookup = sizes.StatsLookup(stats)
					} else {
						db, err := sizes.Open(c.String("db"))
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer db.Close()

						if targets, err = db.Targets(); err != nil {
							return cli.NewExitError(err, 1)
						}
						lookup = db.Lookup
					}

					if err := sizes.WriteSheet(c.App.Writer, examples, targets, lookup); err != nil {
						return cli.NewExitError(err, 1)
					}

					return nil
				},
			},
			{
				Name:      "compare",
				Usage:     "Compare two size sheets",
				ArgsUsage: "EXAMPLES OLD NEW",
				Action: func(c *cli.Context) error {
					if c.NArg() < 3 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}

					examples, err := readExamples(c.Args().First())
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					old, err := readSheet(c.Args().Get(1))
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					cur, err := readSheet(c.Args().Get(2))
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					if err := sizes.WriteComparison(c.App.Writer, examples, old, cur); err != nil {
						return cli.NewExitError(err, 1)
					}

					return nil
				},
			},
			{
				Name:        "tables",
				Usage:       "Generate HTML size tables for the documentation",
				Description: "Each line of CONFIG is a tag followed by label and example pairs.",
				ArgsUsage:   "CONFIG STATS...",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}

					f, err := open(c.Args().First())
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					defer f.Close()

					tables, err := sizes.ReadTables(f)
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					var records []sizes.Record
					for _, file := range c.Args().Tail() {
						r, err := readStats(file)
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						records = append(records, r...)
					}

					if err := sizes.WriteTables(c.App.Writer, tables, records); err != nil {
						return cli.NewExitError(err, 1)
					}

					return nil
				},
			},
		},
	}
}
