package main

import (
	"context"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/fastglyph"
	"github.com/bodgit/fastglyph/codegen"
	"github.com/urfave/cli/v2"
)

const defaultDB = "sizes.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newSession(c *cli.Context) *fastglyph.Session {
	return fastglyph.New(newLogger(c))
}

// baseName is the file name without directory or extension
func baseName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

// targetFlags choose where generated code goes and what it is called
func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Value:   ".",
			Usage:   "write generated code to `DIRECTORY`",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "override the generated class or array name",
		},
		&cli.StringFlag{
			Name:  "filename",
			Usage: "override the root name of the generated files",
		},
	}
}

func codeFlags(library bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "horizontal",
			Usage: "use a horizontal pixel layout",
		},
	}
	if !library {
		return flags
	}
	return append(flags,
		&cli.BoolFlag{
			Name:  "library",
			Usage: "generate a header and source pair for the FastArduino library",
		},
		&cli.StringFlag{
			Name:  "namespace",
			Value: codegen.DefaultNamespace,
			Usage: "namespace of library fonts",
		},
		&cli.StringFlag{
			Name:  "include",
			Value: codegen.DefaultInclude,
			Usage: "Font class header included by library fonts",
		},
		&cli.StringFlag{
			Name:  "copyright",
			Usage: "prepend the contents of `FILE` to library fonts",
		},
	)
}

func exportOptions(c *cli.Context) (codegen.Options, error) {
	o := codegen.Options{
		Name:      c.String("name"),
		Filename:  c.String("filename"),
		Namespace: c.String("namespace"),
		Include:   c.String("include"),
		Vertical:  !c.Bool("horizontal"),
		Library:   c.Bool("library"),
	}
	if file := c.String("copyright"); file != "" {
		b, err := ioutil.ReadFile(file)
		if err != nil {
			return o, err
		}
		o.Copyright = string(b)
	}
	return o, nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "fastglyph"
	app.Usage = "FastArduino font and bitmap utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"FASTGLYPH_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to size history database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		fontCommand(),
		bitmapCommand(),
		{
			Name:        "export-all",
			Usage:       "Generate code for every font and bitmap in a directory tree",
			Description: "Each file is exported next to itself and named after it. Incomplete fonts are skipped.",
			ArgsUsage:   "DIRECTORY",
			Flags:       codeFlags(true),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				o, err := exportOptions(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := newSession(c).ExportTree(context.Background(), c.Args().First(), o); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		sizesCommand(),
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
