package app

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/vk/contentgraph/internal/session"
	"github.com/vk/contentgraph/internal/statestore"

	"github.com/vk/contentgraph/internal/inmemorystate"
	"github.com/vk/contentgraph/internal/redisstate"
)

// Run executes the main application logic: open the state backend, build a
// session, parse the configured document, and print the resulting id map
// and issues.
func (a *App) Run(ctx context.Context) error {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.")

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	sess, err := session.New(ctx, a.registry, store)
	if err != nil {
		return fmt.Errorf("failed to build session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(ctx); cerr != nil {
			a.logger.Warn("Session close failed.", "error", cerr)
		}
	}()

	src, err := os.ReadFile(a.config.DocPath)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", a.config.DocPath, err)
	}
	if err := sess.LoadDocument(ctx, src, a.config.DocPath); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	a.printSummary(sess)
	a.logger.Debug("App.Run method finished.")
	return nil
}

// openStore builds the state store selected by the config.
func (a *App) openStore(ctx context.Context) (statestore.Store, error) {
	switch a.config.Backend {
	case BackendRedis:
		a.logger.Debug("Opening Redis state backend.", "addr", a.config.RedisAddr)
		store, err := redisstate.New(ctx, a.config.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis backend: %w", err)
		}
		return store, nil
	default:
		return inmemorystate.New(), nil
	}
}

// printSummary writes the parsed id map, per-node tags, and any soft issues
// to the app's output writer.
func (a *App) printSummary(sess *session.Session) {
	doc := sess.Document()

	tags := sess.Registry().Names()
	sort.Strings(tags)
	fmt.Fprintf(a.outW, "registered tags: %v\n", tags)
	fmt.Fprintf(a.outW, "nodes: %d\n", len(doc.Entries))

	for _, id := range doc.Order {
		e := doc.Entries[id]
		fmt.Fprintf(a.outW, "  %s <%s> (%s)\n", id, e.Tag, e.Provenance)
	}

	if len(doc.Issues) > 0 {
		fmt.Fprintf(a.outW, "issues: %d\n", len(doc.Issues))
		for _, issue := range doc.Issues {
			fmt.Fprintf(a.outW, "  %s: %s\n", issue.Provenance, issue.Message)
		}
	}
}
