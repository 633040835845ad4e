// Command imsinfo prints the layout and the acquisition metadata of Imaris 3 TIFF files.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mdouchement/imstiff"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func main() {
	configPath := flag.String("config", "imstiff.toml", "TOML configuration file")
	format := flag.String("format", "text", "Output format: text or yaml")
	planes := flag.Bool("planes", false, "List the planes")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := imstiff.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err = cfg.Logging.SetLogger(); err != nil {
		log.Fatal(err)
	}

	failed := run(flag.Args(), cfg, *format, *planes)
	imstiff.ShutdownLogger()
	if failed > 0 {
		os.Exit(1)
	}
}

// run prints every file and returns the number of failures.
func run(names []string, cfg *imstiff.Config, format string, planes bool) (failed int) {
	for _, name := range names {
		if err := info(os.Stdout, name, cfg, format, planes); err != nil {
			log.Printf("%s: %v", name, err)
			failed++
		}
	}
	return
}

func info(w io.Writer, name string, cfg *imstiff.Config, format string, planes bool) error {
	if !imstiff.IsThisType(name) {
		return errors.Errorf("not a .%s file", imstiff.Suffix)
	}

	rd, err := imstiff.Open(name, cfg)
	if err != nil {
		return err
	}
	defer rd.Close()

	switch format {
	case "text":
		return dumpText(w, rd, planes)
	case "yaml":
		return dumpYAML(w, rd)
	default:
		return errors.Errorf("unknown format %q", format)
	}
}

func dumpText(w io.Writer, rd *imstiff.Reader, planes bool) error {
	dims := rd.Dimensions()
	md := rd.Metadata()

	fmt.Fprintf(w, "%s (%s)\n", rd.ID(), imstiff.FormatName)
	fmt.Fprintf(w, "Dimensions: %dx%d, Z=%d C=%d T=%d\n", dims.SizeX, dims.SizeY, dims.SizeZ, dims.SizeC, dims.SizeT)
	fmt.Fprintf(w, "Image count: %d\n", dims.ImageCount)
	fmt.Fprintf(w, "Dimension order: %s\n", dims.DimensionOrder)
	fmt.Fprintf(w, "Pixel type: %s\n", dims.PixelType)
	fmt.Fprintf(w, "RGB: %t, interleaved: %t\n", dims.RGB, dims.Interleaved)

	if md.Image.Description != nil {
		fmt.Fprintf(w, "Description: %s\n", *md.Image.Description)
	}
	if md.Image.AcquiredDate != nil {
		fmt.Fprintf(w, "Acquired: %s\n", *md.Image.AcquiredDate)
	}
	for i, c := range md.Channels {
		fmt.Fprintf(w, "- Channel %d\n", i)
		if c.Name != nil {
			fmt.Fprintf(w, "  Name: %s\n", *c.Name)
		}
		if c.EmissionWavelength != nil {
			fmt.Fprintf(w, "  Emission: %d nm\n", *c.EmissionWavelength)
		}
		if c.ExcitationWavelength != nil {
			fmt.Fprintf(w, "  Excitation: %d nm\n", *c.ExcitationWavelength)
		}
	}

	if planes {
		fmt.Fprintln(w, "Planes:")
		for no := 0; no < rd.PlaneCount(); no++ {
			p, err := rd.Plane(no)
			if err != nil {
				return err
			}
			z, c, t, err := dims.ZCT(no)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %4d z=%d c=%d t=%d offset=%d size=%s\n",
				no, z, c, t, p.TileOffsets()[0], humanize.Bytes(uint64(p.TileByteCounts()[0])))
		}
	}

	fmt.Fprintln(w, "Metadata:")
	for _, kv := range md.GlobalEntries() {
		fmt.Fprintf(w, "  %s = %s\n", kv.Key, kv.Value)
	}
	return nil
}

type report struct {
	File     string             `yaml:"file"`
	Format   string             `yaml:"format"`
	Metadata *imstiff.Store     `yaml:"metadata"`
	Global   []imstiff.KeyValue `yaml:"global,omitempty"`
}

func dumpYAML(w io.Writer, rd *imstiff.Reader) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()

	err := enc.Encode(report{
		File:     rd.ID(),
		Format:   imstiff.FormatName,
		Metadata: rd.Metadata(),
		Global:   rd.Metadata().GlobalEntries(),
	})
	return errors.Wrap(err, "could not encode yaml")
}
