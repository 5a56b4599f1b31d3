// Copyright (c) 2024 SUSE LLC
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License version 3 as
// published by the Free Software Foundation.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/canonical/go-flags"

	"golang.org/x/term"

	cmdpkg "github.com/openSUSE/sdbootutil-sub000/cmd"
	"github.com/openSUSE/sdbootutil-sub000/internals/boot"
	"github.com/openSUSE/sdbootutil-sub000/internals/config"
	"github.com/openSUSE/sdbootutil-sub000/internals/logger"
	"github.com/openSUSE/sdbootutil-sub000/internals/system"
)

var (
	// Standard streams, redirected for testing.
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
	// set to logger.Panicf in testing
	noticef = logger.Noticef
)

const logPrefix = "[sdbootutil] "

type options struct {
	Version     func()  `long:"version"`
	Snapshot    *uint64 `short:"s" long:"snapshot"`
	ESPPath     string  `short:"p" long:"esp-path"`
	Arch        string  `short:"a" long:"arch"`
	EntryToken  string  `short:"t" long:"entry-token"`
	Image       string  `short:"i" long:"image"`
	NoVariables bool    `short:"n" long:"no-variables"`
	Verbose     func()  `short:"v" long:"verbose"`
}

var optionsData options

// ErrExtraArgs is returned if extra arguments to a command are found
var ErrExtraArgs = fmt.Errorf("too many arguments for command")

// CmdInfo holds information needed by the CLI to execute commands and
// populate entries in the help manual.
type CmdInfo struct {
	// Name of the command
	Name string

	// Summary is a single-line help string that will be displayed
	// in the full help manual (i.e. help --all)
	Summary string

	// Description contains exhaustive documentation about the command,
	// that will be reflected in the specific help manual for the command.
	Description string

	// ArgsHelp (optional) contains help about the command-line arguments
	// (including options) supported by the command.
	//
	//  map[string]string{
	//      "--long-option": "my very long option",
	//      "-v": "verbose output",
	//      "<snapshot>": "named positional argument"
	//  }
	ArgsHelp map[string]string

	// New is a function that creates a new instance of the command.
	New func(opts *CmdOptions) flags.Commander

	// Whether to pass all arguments after the first non-option as remaining
	// command line arguments. This is equivalent to strict POSIX processing.
	PassAfterNonOption bool
}

// CmdOptions exposes state made accessible during command execution.
type CmdOptions struct {
	Parser *flags.Parser
	Runner system.Runner
}

// commands holds information about all the commands.
var commands []*CmdInfo

// AddCommand replaces parser.addCommand() in a way that is compatible
// with re-constructing a pristine parser.
func AddCommand(info *CmdInfo) {
	commands = append(commands, info)
}

func lintDesc(cmdName, optName, desc, origDesc string) {
	if len(optName) == 0 {
		logger.Panicf("option on %q has no name", cmdName)
	}
	if len(origDesc) != 0 {
		logger.Panicf("description of %s's %q of %q set from tag", cmdName, optName, origDesc)
	}
	if len(desc) > 0 {
		// decode the first rune instead of converting all of desc into []rune
		r, _ := utf8.DecodeRuneInString(desc)
		// note IsLower != !IsUpper for runes with no upper/lower.
		if unicode.IsLower(r) && !strings.HasPrefix(desc, cmdName) {
			noticef("description of %s's %q is lowercase: %q", cmdName, optName, desc)
		}
	}
}

func lintArg(cmdName, optName, desc, origDesc string) {
	lintDesc(cmdName, optName, desc, origDesc)
	if len(optName) > 0 && optName[0] == '<' && optName[len(optName)-1] == '>' {
		return
	}
	noticef("argument %q's %q should begin with < and end with >", cmdName, optName)
}

const longSdbootutilDescription = `
sdbootutil manages the systemd-boot or GRUB2 bootloader of a btrfs snapshot
based system: it detects the bootloader shipped in a snapshot, reports its
version, and installs or updates the images on the EFI system partition.
`

// Parser creates and populates a fresh parser.
// Since commands have local state a fresh parser is required to isolate tests
// from each other.
func Parser(run system.Runner) *flags.Parser {
	optionsData = options{}
	optionsData.Version = func() {
		fmt.Fprintln(Stdout, cmdpkg.Version)
		panic(&exitStatus{0})
	}
	optionsData.Verbose = func() {
		logger.SetLogger(logger.NewDebug(Stderr, logPrefix))
	}
	flagopts := flags.Options(flags.PassDoubleDash)
	parser := flags.NewParser(&optionsData, flagopts)
	parser.ShortDescription = "Tool to manage the bootloader"
	parser.LongDescription = longSdbootutilDescription
	// hide the unhelpful "[OPTIONS]" from help output
	parser.Usage = ""
	for name, desc := range map[string]string{
		"version":      "Print the version and exit",
		"snapshot":     "Use the given snapshot instead of the running one",
		"esp-path":     "Mount point of the EFI system partition",
		"arch":         "EFI firmware architecture, e.g. x64 or aa64",
		"entry-token":  "Entry token mode (auto, machine-id, os-id, os-image) or a literal token",
		"image":        "Inspect the given bootloader image instead of detecting one",
		"no-variables": "Do not register the bootloader in the EFI boot manager",
		"verbose":      "Enable verbose debug output",
	} {
		opt := parser.FindOptionByLongName(name)
		if opt == nil {
			logger.Panicf("cannot find option %q", name)
		}
		opt.Description = desc
	}
	parser.FindOptionByLongName("version").Hidden = true
	// add --help like what go-flags would do for us, but hidden
	addHelp(parser)

	for _, c := range commands {
		obj := c.New(&CmdOptions{Parser: parser, Runner: run})
		cmd, err := parser.AddCommand(c.Name, c.Summary, strings.TrimSpace(c.Description), obj)
		if err != nil {
			logger.Panicf("cannot add command %q: %v", c.Name, err)
		}
		cmd.PassAfterNonOption = c.PassAfterNonOption

		for _, opt := range cmd.Options() {
			name := "--" + opt.LongName
			if opt.LongName == "" {
				name = "-" + string(opt.ShortName)
			}
			desc := c.ArgsHelp[name]
			lintDesc(c.Name, name, desc, opt.Description)
			if desc != "" {
				opt.Description = desc
			}
		}
		for _, arg := range cmd.Args() {
			desc := c.ArgsHelp[arg.Name]
			lintArg(c.Name, arg.Name, desc, arg.Description)
			arg.Description = desc
		}
	}
	return parser
}

var (
	isStdoutTTY = term.IsTerminal(1)
	osExit      = os.Exit
)

// exitStatus can be used in panic(&exitStatus{code}) to cause the main
// function to exit with a given exit code, for the rare cases when you
// want to return an exit code other than 0 or 1, or when an error return
// is not possible.
type exitStatus struct {
	code int
}

func (e *exitStatus) Error() string {
	return fmt.Sprintf("internal error: exitStatus{%d} being handled as normal error", e.code)
}

// RunMain parses the command line and executes the selected command.
func RunMain() error {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(*exitStatus); ok {
				osExit(e.code)
			}
			panic(v)
		}
	}()

	logger.SetLogger(logger.New(os.Stderr, logPrefix))

	parser := Parser(system.NewRunner())
	xtra, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok {
			switch e.Type {
			case flags.ErrCommandRequired:
				printShortHelp()
				return nil
			case flags.ErrHelp:
				parser.WriteHelp(Stdout)
				return nil
			case flags.ErrUnknownCommand:
				sub := os.Args[1]
				sug := cmdpkg.ProgramName + " help"
				if len(xtra) > 0 {
					sub = xtra[0]
					if x := parser.Command.Active; x != nil && x.Name != "help" {
						sug = cmdpkg.ProgramName + " help " + x.Name
					}
				}
				return fmt.Errorf("unknown command %q, see '%s'.", sub, sug)
			}
		}
		return err
	}
	return nil
}

// bootContext carries the facts shared by every bootloader command,
// resolved from bootctl, the configuration file and the global options.
type bootContext struct {
	mgr          *boot.Manager
	env          *boot.Env
	snapshot     *uint64
	rootSnapshot *uint64
	image        string
}

// prepareBootContext probes the system and merges the probed values with
// the configuration file and the command line, later wins. With needDst
// set the vendor directory on the ESP is resolved as well, which requires
// a detectable bootloader.
func prepareBootContext(run system.Runner, needDst bool) (*bootContext, error) {
	override := os.Getenv("SDBOOTUTIL_ROOT")
	cfg, err := config.Load(config.Path())
	if err != nil {
		return nil, err
	}
	info, err := system.Bootctl(run, override)
	if err != nil {
		return nil, err
	}
	env := &boot.Env{
		FirmwareArch: info.FirmwareArch,
		BootRoot:     info.BootRoot,
		EntryToken:   info.EntryToken,
		Shimdir:      boot.DefaultShimdir(),
		NoVariables:  optionsData.NoVariables,
		Override:     override,
	}
	if cfg.ESPPath != "" {
		env.BootRoot = cfg.ESPPath
	}
	if cfg.Arch != "" {
		env.FirmwareArch = cfg.Arch
	}
	if cfg.Shimdir != "" {
		env.Shimdir = cfg.Shimdir
	}
	if optionsData.ESPPath != "" {
		env.BootRoot = optionsData.ESPPath
	}
	if optionsData.Arch != "" {
		env.FirmwareArch = optionsData.Arch
	}

	var rootSnapshot *uint64
	snapshotted, err := system.IsSnapshotted(run, override)
	if err != nil {
		return nil, err
	}
	if snapshotted {
		rootInfo, err := system.RootSnapshotInfo(run, override)
		if err != nil {
			return nil, err
		}
		id := rootInfo.ID
		rootSnapshot = &id
	}
	snapshot := optionsData.Snapshot
	if snapshot == nil {
		snapshot = rootSnapshot
	}

	mode := optionsData.EntryToken
	if mode == "" {
		mode = cfg.EntryToken
	}
	if mode != "" {
		root := boot.SnapshotRoot(snapshot, override)
		transactional, err := system.IsTransactional(run, override)
		if err != nil {
			return nil, err
		}
		// both are optional inputs, SettleEntryToken checks what the
		// requested mode actually needs
		machineID, _ := system.ReadMachineID(root, snapshot, transactional, override)
		release, _ := system.ReadOSRelease(root)
		token, err := system.SettleEntryToken(root, mode, machineID, release)
		if err != nil {
			return nil, err
		}
		env.EntryToken = token
	}

	if needDst {
		dst, err := boot.DetermineBootDst(snapshot, env.FirmwareArch, override)
		if err != nil {
			return nil, err
		}
		env.BootDst = dst
	}

	return &bootContext{
		mgr:          boot.NewManager(run),
		env:          env,
		snapshot:     snapshot,
		rootSnapshot: rootSnapshot,
		image:        optionsData.Image,
	}, nil
}

// ensureRoot refuses to run commands that write to the ESP as an
// unprivileged user. A path override skips the check, nothing system-wide
// is touched then.
func ensureRoot(override string) error {
	if override != "" {
		return nil
	}
	if os.Geteuid() != 0 {
		return errors.New("this command must be run as root")
	}
	return nil
}
