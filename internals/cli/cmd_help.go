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
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/canonical/go-flags"

	cmdpkg "github.com/openSUSE/sdbootutil-sub000/cmd"
)

const cmdHelpSummary = "Show help about a command"
const cmdHelpDescription = `
The help command displays information about commands.
`

type cmdHelp struct {
	parser *flags.Parser

	All        bool `long:"all"`
	Positional struct {
		Subs []string `positional-arg-name:"<command>"`
	} `positional-args:"yes"`
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "help",
		Summary:     cmdHelpSummary,
		Description: cmdHelpDescription,
		ArgsHelp: map[string]string{
			"--all":     "Show a short summary of all commands",
			"<command>": "Command to show help for",
		},
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdHelp{parser: opts.Parser}
		},
	})
}

// addHelp adds --help like what go-flags would do for us, but hidden
func addHelp(parser *flags.Parser) error {
	var help struct {
		ShowHelp func() error `short:"h" long:"help"`
	}
	help.ShowHelp = func() error {
		// this function is called via --help (or -h). In that
		// case, parser.Command.Active should be the command
		// on which help is being requested (like "sdbootutil foo
		// --help", active is foo), or nil in the toplevel.
		if parser.Command.Active == nil {
			// this means *either* a bare 'sdbootutil --help',
			// *or* 'sdbootutil --help command'
			//
			// If we return nil in the first case go-flags
			// will throw up an ErrCommandRequired on its
			// own, but in the second case it'll go on to
			// run the command, which is very unexpected.
			//
			// So we force the ErrCommandRequired here.

			// toplevel --help gets handled via ErrCommandRequired
			return &flags.Error{Type: flags.ErrCommandRequired}
		}
		// not toplevel, so ask for regular help
		return &flags.Error{Type: flags.ErrHelp}
	}
	hlpgrp, err := parser.AddGroup("Help Options", "", &help)
	if err != nil {
		return err
	}
	hlpgrp.Hidden = true
	hlp := parser.FindOptionByLongName("help")
	hlp.Description = "Show this help message"
	hlp.Hidden = true

	return nil
}

func (cmd cmdHelp) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	if cmd.All {
		if len(cmd.Positional.Subs) > 0 {
			return fmt.Errorf("help accepts a command, or '--all', but not both.")
		}
		printLongHelp(cmd.parser)
		return nil
	}

	var subcmd = cmd.parser.Command
	for _, subname := range cmd.Positional.Subs {
		subcmd = subcmd.Find(subname)
		if subcmd == nil {
			sug := cmdpkg.ProgramName + " help"
			if x := cmd.parser.Command.Active; x != nil && x.Name != "help" {
				sug = cmdpkg.ProgramName + " help " + x.Name
			}
			return fmt.Errorf("unknown command %q, see '%s'.", subname, sug)
		}
		// this makes "sdbootutil help foo" work the same as "sdbootutil foo --help"
		cmd.parser.Command.Active = subcmd
	}
	if subcmd != cmd.parser.Command {
		return &flags.Error{Type: flags.ErrHelp}
	}
	return &flags.Error{Type: flags.ErrCommandRequired}
}

type HelpCategory struct {
	Label       string
	Description string
	Commands    []string
}

// HelpCategories helps us by grouping commands
var HelpCategories = []HelpCategory{{
	Label:       "Queries",
	Description: "inspect the bootloader state",
	Commands:    []string{"bootloader", "is-installed", "needs-update"},
}, {
	Label:       "Actions",
	Description: "install and update the bootloader",
	Commands:    []string{"install", "update", "force-update"},
}, {
	Label:       "Info",
	Description: "help and version information",
	Commands:    []string{"help", "version"},
}}

var (
	helpHeader = strings.TrimSpace(`
sdbootutil manages the bootloader of a btrfs snapshot based system.
`)
	helpUsage           = "Usage: sdbootutil <command> [<options>...]"
	helpCategoriesIntro = "Commands can be classified as follows:"

	helpFooter = strings.TrimSpace(`
Set the SDBOOTUTIL_CONFIG environment variable to override the configuration
file (which defaults to /etc/sdbootutil/config.yaml). Set SDBOOTUTIL_ROOT to
operate on an alternative file system root instead of the live system.
`)

	helpAllFooter   = "For more information about a command, run 'sdbootutil help <command>'."
	helpShortFooter = "For a short summary of all commands, run 'sdbootutil help --all'."
)

func printHelpHeader() {
	fmt.Fprintln(Stdout, helpHeader)
	fmt.Fprintln(Stdout)
	fmt.Fprintln(Stdout, helpUsage)
	fmt.Fprintln(Stdout)
	fmt.Fprintln(Stdout, helpCategoriesIntro)
}

func printHelpAllFooter() {
	fmt.Fprintln(Stdout)
	fmt.Fprintln(Stdout, helpFooter)
	fmt.Fprintln(Stdout)
	fmt.Fprintln(Stdout, helpAllFooter)
}

func printHelpFooter() {
	printHelpAllFooter()
	fmt.Fprintln(Stdout, helpShortFooter)
}

// this is called when the Execute returns a flags.Error with ErrCommandRequired
func printShortHelp() {
	printHelpHeader()
	fmt.Fprintln(Stdout)
	maxLen := 0
	for _, categ := range HelpCategories {
		if l := utf8.RuneCountInString(categ.Label); l > maxLen {
			maxLen = l
		}
	}
	for _, categ := range HelpCategories {
		fmt.Fprintf(Stdout, "%*s: %s\n", maxLen+2, categ.Label, strings.Join(categ.Commands, ", "))
	}
	printHelpFooter()
}

// this is "sdbootutil help --all"
func printLongHelp(parser *flags.Parser) {
	printHelpHeader()
	maxLen := 0
	for _, categ := range HelpCategories {
		for _, command := range categ.Commands {
			if l := len(command); l > maxLen {
				maxLen = l
			}
		}
	}

	// flags doesn't have a LookupCommand?
	commands := parser.Commands()
	cmdLookup := make(map[string]*flags.Command, len(commands))
	for _, cmd := range commands {
		cmdLookup[cmd.Name] = cmd
	}

	for _, categ := range HelpCategories {
		fmt.Fprintln(Stdout)
		fmt.Fprintf(Stdout, "  %s (%s):\n", categ.Label, categ.Description)
		for _, name := range categ.Commands {
			cmd := cmdLookup[name]
			if cmd == nil {
				fmt.Fprintf(Stderr, "??? Cannot find command %q mentioned in help categories, please report!\n", name)
			} else {
				fmt.Fprintf(Stdout, "    %*s  %s\n", -maxLen, name, cmd.ShortDescription)
			}
		}
	}
	printHelpAllFooter()
}
