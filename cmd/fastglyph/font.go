package main

import (
	"fmt"
	"os"

	"github.com/bodgit/fastglyph"
	"github.com/bodgit/fastglyph/font"
	"github.com/urfave/cli/v2"
	xfont "golang.org/x/image/font"
)

// fontAction loads the font named by the first argument, runs f and saves
// the font back if f reports it changed
func fontAction(nargs int, f func(*cli.Context, *fastglyph.Session, *font.State) (bool, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < nargs {
			cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
		}

		session := newSession(c)
		file := c.Args().First()

		state, err := session.LoadFont(file)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		changed, err := f(c, session, state)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		if changed {
			if err := session.SaveFont(state, file); err != nil {
				return cli.NewExitError(err, 1)
			}
		}

		return nil
	}
}

func sizeFlags(width, height int) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "width",
			Aliases: []string{"W"},
			Value:   width,
			Usage:   "width in pixels",
		},
		&cli.IntFlag{
			Name:    "height",
			Aliases: []string{"H"},
			Value:   height,
			Usage:   "height in pixels",
		},
	}
}

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "first",
			Value: ' ',
			Usage: "first character code",
		},
		&cli.IntFlag{
			Name:  "last",
			Value: '~',
			Usage: "last character code",
		},
	}
}

func fontCommand() *cli.Command {
	return &cli.Command{
		Name:  "font",
		Usage: "Create, edit and export fonts",
		Subcommands: []*cli.Command{
			{
				Name:      "new",
				Usage:     "Create a blank font",
				ArgsUsage: "FILE",
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "font name, defaults to the file name",
					},
				}, sizeFlags(8, 8)...), rangeFlags()...),
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}

					file := c.Args().First()
					name := c.String("name")
					if name == "" {
						name = baseName(file)
					}

					state, err := font.New(name, c.Int("width"), c.Int("height"), c.Int("first"), c.Int("last"))
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					if err := newSession(c).SaveFont(state, file); err != nil {
						return cli.NewExitError(err, 1)
					}

					return nil
				},
			},
			{
				Name:        "resize",
				Usage:       "Change the glyph size",
				Description: "Glyphs are padded or truncated at the bottom and right.",
				ArgsUsage:   "FILE",
				Flags:       sizeFlags(8, 8),
				Action: fontAction(1, func(c *cli.Context, _ *fastglyph.Session, state *font.State) (bool, error) {
					return true, state.UpdateSize(c.Int("width"), c.Int("height"))
				}),
			},
			{
				Name:        "range",
				Usage:       "Change the range of character codes",
				Description: "Glyphs for codes kept in the new range are preserved.",
				ArgsUsage:   "FILE",
				Flags:       rangeFlags(),
				Action: fontAction(1, func(c *cli.Context, _ *fastglyph.Session, state *font.State) (bool, error) {
					return true, state.UpdateRange(c.Int("first"), c.Int("last"))
				}),
			},
			{
				Name:        "import",
				Usage:       "Import glyphs drawn as text",
				Description: "Each line holds the character, then the pixels of one row between brackets, X for a set pixel.",
				ArgsUsage:   "FILE TEXTFILE",
				Action: fontAction(2, func(c *cli.Context, _ *fastglyph.Session, state *font.State) (bool, error) {
					f, err := os.Open(c.Args().Get(1))
					if err != nil {
						return false, err
					}
					defer f.Close()

					glyphs, err := font.DecodeText(f)
					if err != nil {
						return false, err
					}

					return true, state.Import(glyphs)
				}),
			},
			{
				Name:        "seed",
				Usage:       "Draw glyphs from an existing bitmap font",
				Description: "Uses the built-in 7x13 face unless a BDF font is given.",
				ArgsUsage:   "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "bdf",
						Usage: "draw glyphs from BDF font `FILE`",
					},
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "replace glyphs already drawn",
					},
				},
				Action: fontAction(1, func(c *cli.Context, _ *fastglyph.Session, state *font.State) (bool, error) {
					face := font.Builtin()
					if file := c.String("bdf"); file != "" {
						var err error
						if face, err = font.LoadBDF(file); err != nil {
							return false, err
						}
					}
					return seed(c, state, face)
				}),
			},
			{
				Name:      "show",
				Usage:     "Print every drawn glyph as text",
				ArgsUsage: "FILE",
				Action: fontAction(1, func(c *cli.Context, _ *fastglyph.Session, state *font.State) (bool, error) {
					if err := state.EncodeText(c.App.Writer); err != nil {
						return false, err
					}
					if missing := state.Missing(); len(missing) > 0 {
						fmt.Fprintf(c.App.ErrWriter, "%d of %d glyphs not drawn\n", len(missing), state.Len())
					}
					return false, nil
				}),
			},
			{
				Name:      "export",
				Usage:     "Generate C++ code for a font",
				ArgsUsage: "FILE",
				Flags:     append(targetFlags(), codeFlags(true)...),
				Action: fontAction(1, func(c *cli.Context, session *fastglyph.Session, state *font.State) (bool, error) {
					o, err := exportOptions(c)
					if err != nil {
						return false, err
					}
					_, err = session.ExportFont(state, c.String("dir"), o)
					return false, err
				}),
			},
		},
	}
}

func seed(c *cli.Context, state *font.State, face xfont.Face) (bool, error) {
	n, err := state.Render(face, c.Bool("overwrite"))
	if err != nil {
		return false, err
	}
	newLogger(c).Printf("Drew %d glyphs\n", n)
	return n > 0, nil
}
