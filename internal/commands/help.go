package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for feelog",
	Long:  `Display detailed help for all feelog commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(out io.Writer) {
	fmt.Fprint(out, `
███████╗███████╗███████╗██╗      ██████╗  ██████╗
██╔════╝██╔════╝██╔════╝██║     ██╔═══██╗██╔════╝
█████╗  █████╗  █████╗  ██║     ██║   ██║██║  ███╗
██╔══╝  ██╔══╝  ██╔══╝  ██║     ██║   ██║██║   ██║
██║     ███████╗███████╗███████╗╚██████╔╝╚██████╔╝
╚═╝     ╚══════╝╚══════╝╚══════╝ ╚═════╝  ╚═════╝

feelog - a terminal emotion journal

ACCOUNT:

  register                Create an account and log in
    --email, --name, --password   (prompted when omitted)
  login                   Log in
    --email, --password
  logout                  Forget the stored session
  whoami                  Show the logged-in account and token expiry

WRITING:

  write [day] [text...]   Write or extend the entry for a day (default today)
    -g, --grateful        What you are grateful for
    -s, --sad             What made you sad
    -a, --angry           What made you angry
    -n, --notes           Anything else
    -m, --mood            1-5 or great|good|ok|bad|awful
    -i, --interactive     Open the entry form

    Smart syntax:
      #grateful #sad #angry #notes   Field for the text (default notes)
      mood:great                     Mood of the day
      on:yesterday                   Day of the entry

    Example:
      feelog write "Long walk with Ana #grateful mood:great"

    Logged out, entries are kept as local drafts.

  edit <day>              Edit an entry (form, or the same flags as write)
  rm <day|id>             Delete an entry
    -y, --yes             Skip confirmation

READING:

  show [day]              Show the entry for a day
  ls                      List entries, newest first
    --limit, --offset     Paging
    -f, --filter          Only entries containing this text
    --json                JSON output
  search [query]          Search entry text
    --from, --to          Date range
  calendar [month]        Month view with the mood of each day
    --no-ui               Print the grid only

    Keys:
      ←/→/↑/↓       Move the selected day
      [ / ]         Previous / next month
      enter         Show the day's entry
      e             Write the selected day
      t             Jump to today
      esc/q         Quit

  stats                   Weekly, monthly and overall mood statistics
    --month               Month for the monthly figures

DRAFTS:

  drafts                  List local drafts
  push                    Upload drafts after logging in

  version                 Print version information
  help                    Show this help

Days: today, yesterday, 3 days ago, monday, 15/03/2024, 2024-03-15
Global flags: --config <file>, -v/--verbose

`)
}
