package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/armv8-emulator/assembler"
	"github.com/lookbusy1344/armv8-emulator/config"
	"github.com/lookbusy1344/armv8-emulator/loader"
	"github.com/lookbusy1344/armv8-emulator/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:           "armv8",
		Short:         "AArch64-subset assembler and emulator",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(assembleCommand(cfg), emulateCommand(cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionString() string {
	if Commit != "unknown" {
		return fmt.Sprintf("%s (%s)", Version, Commit)
	}
	return Version
}

// assembleCommand translates an assembly source into a binary image
func assembleCommand(cfg *config.Config) *cobra.Command {
	printSymbols := cfg.Assembler.PrintSymbols

	cmd := &cobra.Command{
		Use:   "assemble <in.s> <out.bin>",
		Short: "Assemble a source file into a little-endian binary image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0]) // #nosec G304 -- user-specified source file
			if err != nil {
				return err
			}

			out, err := os.Create(args[1]) // #nosec G304 -- user-specified output path
			if err != nil {
				return err
			}

			asm := assembler.New(args[0])
			if err := asm.Assemble(string(src), out); err != nil {
				_ = out.Close()
				_ = os.Remove(args[1])
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}

			if printSymbols {
				asm.Symbols().Dump(os.Stdout)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printSymbols, "print-symbols", printSymbols, "Print the symbol table after assembly")
	return cmd
}

// emulateCommand runs a binary image to halt and dumps the final state
func emulateCommand(cfg *config.Config) *cobra.Command {
	maxSteps := cfg.Emulator.MaxSteps

	cmd := &cobra.Command{
		Use:   "emulate <in.bin> [out.txt]",
		Short: "Run a binary image and dump the final machine state",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			machine := vm.NewMachine()
			if _, err := loader.LoadImageFile(machine, args[0]); err != nil {
				return err
			}

			if err := machine.Run(maxSteps); err != nil {
				// A rejected instruction is fatal: the state goes to the
				// error stream before exiting
				fmt.Fprintf(os.Stderr, "Error: %v\nState Dump:\n", err)
				_ = machine.Dump(os.Stderr)
				os.Exit(1)
			}

			out := os.Stdout
			outPath := cfg.Emulator.OutputFile
			if len(args) == 2 {
				outPath = args[1]
			}
			if outPath != "" {
				f, err := os.Create(outPath) // #nosec G304 -- user-specified output path
				if err != nil {
					return err
				}
				defer func() {
					if cerr := f.Close(); cerr != nil {
						fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", cerr)
					}
				}()
				out = f
			}

			return machine.Dump(out)
		},
	}

	cmd.Flags().Uint64Var(&maxSteps, "max-steps", maxSteps, "Maximum emulation steps before aborting (0 = unlimited)")
	return cmd
}
