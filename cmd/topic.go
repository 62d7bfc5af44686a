package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tradelog/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the tradelog guides" }
func (*topicCmd) Usage() string {
	return `tlg topic [ledger|capital|returns|import|config|*]...

Print the guides on the monthly ledger, the capital edits, the returns, the trade
import and the configuration. Without topic, print the overview; * prints them all.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}

	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return fail("%v", err)
	}
	printMarkdown(doc)

	return subcommands.ExitSuccess
}
