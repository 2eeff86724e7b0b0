package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chamber122/chamber122-backend/internal/adminsync"
	"github.com/chamber122/chamber122-backend/pkg/enums"
)

var errUnknownCommand = errors.New("unknown command")

// options are the one-shot command arguments taken from flags.
type options struct {
	Cmd     string
	ID      string
	Reason  string
	Kind    string
	Subject string
	Message string
	Search  string
	Status  string
}

// runCommand executes one admin command against syncer and writes the JSON
// result to out. The long-running "run" command is handled by main.
func runCommand(ctx context.Context, syncer *adminsync.Syncer, opts options, out io.Writer) error {
	var (
		result any
		err    error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Cmd)) {
	case "once", "import":
		result, err = syncer.Import(ctx)
	case "list":
		filter := adminsync.UserFilter{Search: opts.Search}
		if opts.Status != "" {
			status, perr := enums.ParseAccountStatus(opts.Status)
			if perr != nil {
				return perr
			}
			filter.Status = status
		}
		result, err = syncer.ListUsers(ctx, filter)
	case "stats":
		result, err = syncer.Stats(ctx)
	case "documents":
		if err := requireID(opts); err != nil {
			return err
		}
		result, err = syncer.DocumentsFor(ctx, opts.ID)
	case "messages":
		if err := requireID(opts); err != nil {
			return err
		}
		result, err = syncer.MessagesFor(ctx, opts.ID)
	case "approve":
		if err := requireID(opts); err != nil {
			return err
		}
		result, err = syncer.Approve(ctx, opts.ID)
	case "reject":
		if err := requireID(opts); err != nil {
			return err
		}
		result, err = syncer.Reject(ctx, opts.ID, opts.Reason)
	case "suspend":
		if err := requireID(opts); err != nil {
			return err
		}
		result, err = syncer.Suspend(ctx, opts.ID, opts.Reason)
	case "unsuspend":
		if err := requireID(opts); err != nil {
			return err
		}
		result, err = syncer.Unsuspend(ctx, opts.ID)
	case "unapprove":
		if err := requireID(opts); err != nil {
			return err
		}
		result, err = syncer.Unapprove(ctx, opts.ID)
	case "needs-fix":
		if err := requireID(opts); err != nil {
			return err
		}
		kind, perr := enums.ParseDocumentKind(opts.Kind)
		if perr != nil {
			return fmt.Errorf("%w: %q", adminsync.ErrInvalidDocKind, opts.Kind)
		}
		result, err = syncer.ReportDocumentIssue(ctx, opts.ID, kind, opts.Subject, opts.Message)
	case "delete":
		if err := requireID(opts); err != nil {
			return err
		}
		result, err = syncer.Delete(ctx, opts.ID)
	case "prune-demo":
		var removed int
		removed, err = syncer.PruneDemoAccounts(ctx)
		result = map[string]int{"removed": removed}
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, opts.Cmd)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func requireID(opts options) error {
	if strings.TrimSpace(opts.ID) == "" {
		return fmt.Errorf("-id is required for %s", opts.Cmd)
	}
	return nil
}
