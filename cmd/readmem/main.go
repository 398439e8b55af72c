package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"remotemem/hexdump"
	"remotemem/process"
	"remotemem/procmem"
)

func main() {
	app := &cli.App{
		Name:  "readmem",
		Usage: "read a range of another process' memory and hexdump it",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "pid",
				Usage:    "target process id",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "addr",
				Usage:    "virtual address in the target (0x-prefixed hex or decimal)",
				Required: true,
			},
			&cli.UintFlag{
				Name:  "size",
				Usage: "number of bytes to read",
				Value: 64,
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "plain output",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "readmem:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	addr, err := strconv.ParseUint(c.String("addr"), 0, 64)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", c.String("addr"), err)
	}

	h, err := procmem.Open(process.ProcessID(c.Int("pid")))
	if err != nil {
		return err
	}
	defer h.Close()

	mem, err := procmem.ReadMemory(h, process.ProcessMemoryAddress(addr), process.ProcessMemorySize(c.Uint("size")))
	if err != nil {
		return err
	}

	options := hexdump.DefaultOptions()
	options.StartOffset = addr
	options.Color = !c.Bool("no-color")
	fmt.Print(hexdump.Dump(mem, options))
	return nil
}
