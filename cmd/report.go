package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/finrep"
	"github.com/etnz/finrep/date"
	"github.com/etnz/finrep/renderer"
	"github.com/etnz/finrep/session"
	"github.com/google/subcommands"
)

type reportCmd struct {
	kind string
	user string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "asks for a report step by step" }
func (*reportCmd) Usage() string {
	return `finrep report [-kind main|year|month] [<currency> [<year> [<month>]]]

  Asks for the report currency, then the year and month when needed, and
  displays the balance and costs of the period.
  Answers given as arguments are used first, the rest is read from stdin.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "month", "Report kind: main, year or month")
	f.StringVar(&c.user, "user", os.Getenv("USER"), "Conversation owner")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := session.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing kind: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		store := session.NewStore(a.currencies, session.DefaultTTL)
		req, err := converse(store, c.user, kind, f.Args(), os.Stdin, os.Stderr)
		if err != nil {
			return err
		}
		md, err := a.report(ctx, req)
		if err != nil {
			return err
		}
		printMarkdown(md)
		return nil
	})
}

// converse runs a conversation for user, answering with args then the lines
// of in. Prompts and invalid answers are written to out.
func converse(store *session.Store, user string, kind session.Kind, args []string, in io.Reader, out io.Writer) (session.Request, error) {
	defer store.End(user)
	st := store.Begin(user, kind)
	lines := bufio.NewScanner(in)
	for st.Step != session.Done {
		var answer string
		if len(args) > 0 {
			answer, args = args[0], args[1:]
		} else {
			fmt.Fprintf(out, "%s? ", st.Step)
			if !lines.Scan() {
				return session.Request{}, errors.Join(errors.New("conversation interrupted"), lines.Err())
			}
			answer = lines.Text()
		}
		next, err := store.Advance(user, answer)
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
		}
		st = next
	}
	req, _ := st.Request()
	return req, nil
}

// report renders the balance and costs of the requested period.
func (a *app) report(ctx context.Context, req session.Request) (string, error) {
	records, err := a.records()
	if err != nil {
		return "", err
	}
	if req.Kind != session.Main {
		var in []finrep.ValuedRecord
		for _, r := range records {
			if req.Range.Contains(r.Date) {
				in = append(in, r)
			}
		}
		records = in
	}
	if len(records) == 0 {
		return "", fmt.Errorf("no record for the %s report", req.Kind)
	}

	months, err := a.system.Balance(ctx, records, req.Currency)
	if err != nil {
		return "", err
	}
	r := req.Range
	if req.Kind == session.Main {
		r.From, r.To = records[0].Date, records[0].Date
		for _, rec := range records {
			r.From, r.To = date.Min(r.From, rec.Date), date.Max(r.To, rec.Date)
		}
	}
	costs, err := a.system.Costs(ctx, records, req.Currency, r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(renderer.BalanceMarkdown(months, req.Currency))
	b.WriteString("\n")
	b.WriteString(renderer.CostsMarkdown(costs, r))
	return b.String(), nil
}
