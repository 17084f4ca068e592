package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/bodgit/fastglyph"
	"github.com/bodgit/fastglyph/bitmap"
	"github.com/urfave/cli/v2"
)

func bitmapAction(nargs int, f func(*cli.Context, *fastglyph.Session, *bitmap.State) (bool, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < nargs {
			cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
		}

		session := newSession(c)
		file := c.Args().First()

		state, err := session.LoadBitmap(file)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		changed, err := f(c, session, state)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		if changed {
			if err := session.SaveBitmap(state, file); err != nil {
				return cli.NewExitError(err, 1)
			}
		}

		return nil
	}
}

func decodeImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	return m, err
}

func bitmapCommand() *cli.Command {
	nameFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:  "name",
			Usage: "bitmap name, defaults to the file name",
		}
	}

	return &cli.Command{
		Name:  "bitmap",
		Usage: "Create, edit and export bitmaps",
		Subcommands: []*cli.Command{
			{
				Name:      "new",
				Usage:     "Create a blank bitmap",
				ArgsUsage: "FILE",
				Flags:     append([]cli.Flag{nameFlag()}, sizeFlags(bitmap.DefaultSize, bitmap.DefaultSize)...),
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}

					file := c.Args().First()
					name := c.String("name")
					if name == "" {
						name = baseName(file)
					}

					state, err := bitmap.New(name, c.Int("width"), c.Int("height"))
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					if err := newSession(c).SaveBitmap(state, file); err != nil {
						return cli.NewExitError(err, 1)
					}

					return nil
				},
			},
			{
				Name:        "resize",
				Usage:       "Change the bitmap size",
				Description: "The bitmap is padded or truncated at the bottom and right.",
				ArgsUsage:   "FILE",
				Flags:       sizeFlags(bitmap.DefaultSize, bitmap.DefaultSize),
				Action: bitmapAction(1, func(c *cli.Context, _ *fastglyph.Session, state *bitmap.State) (bool, error) {
					return true, state.UpdateSize(c.Int("width"), c.Int("height"))
				}),
			},
			{
				Name:        "import",
				Usage:       "Create a bitmap from an image",
				Description: "GIF, JPEG and PNG images are supported. Images with more than two colors are reduced to two, the darker becomes the set pixel.",
				ArgsUsage:   "FILE IMAGE",
				Flags:       []cli.Flag{nameFlag()},
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
					}

					file := c.Args().First()
					name := c.String("name")
					if name == "" {
						name = baseName(file)
					}

					m, err := decodeImage(c.Args().Get(1))
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					state, err := bitmap.FromImage(name, m)
					if err != nil {
						return cli.NewExitError(err, 1)
					}

					if err := newSession(c).SaveBitmap(state, file); err != nil {
						return cli.NewExitError(err, 1)
					}

					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Print the bitmap as text",
				ArgsUsage: "FILE",
				Action: bitmapAction(1, func(c *cli.Context, _ *fastglyph.Session, state *bitmap.State) (bool, error) {
					_, err := fmt.Fprint(c.App.Writer, state.Grid)
					return false, err
				}),
			},
			{
				Name:      "preview",
				Usage:     "Write the bitmap as a PNG image",
				ArgsUsage: "FILE PNG",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "scale",
						Value: 8,
						Usage: "size in pixels of each bitmap pixel",
					},
				},
				Action: bitmapAction(2, func(c *cli.Context, _ *fastglyph.Session, state *bitmap.State) (bool, error) {
					f, err := os.Create(c.Args().Get(1))
					if err != nil {
						return false, err
					}

					if err := fastglyph.WritePreview(f, state.Grid, c.Int("scale")); err != nil {
						f.Close()
						return false, err
					}

					return false, f.Close()
				}),
			},
			{
				Name:      "export",
				Usage:     "Generate C++ code for a bitmap",
				ArgsUsage: "FILE",
				Flags:     append(targetFlags(), codeFlags(false)...),
				Action: bitmapAction(1, func(c *cli.Context, session *fastglyph.Session, state *bitmap.State) (bool, error) {
					o, err := exportOptions(c)
					if err != nil {
						return false, err
					}
					_, err = session.ExportBitmap(state, c.String("dir"), o)
					return false, err
				}),
			},
		},
	}
}
