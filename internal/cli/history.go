package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/rileyhilliard/fbdash/internal/store"
	"github.com/rileyhilliard/fbdash/internal/ui"
)

// historyCommand lists or clears the saved series history. It fails while
// 'fbdash run' holds the database.
func historyCommand(w io.Writer, action string) error {
	log := logger.NewEnvLogger("[history]")
	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	st, err := store.Open(store.Options{
		Dir:    cfg.History.Dir,
		MaxAge: cfg.History.MaxAge,
		Logger: log,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	return manageHistory(w, st, cfg.History.Dir, action)
}

func manageHistory(w io.Writer, st *store.Store, dir, action string) error {
	names, err := st.Names()
	if err != nil {
		return err
	}
	sort.Strings(names)

	switch action {
	case "", "list":
		if len(names) == 0 {
			fmt.Fprintf(w, "%s No saved history %s\n", ui.SymbolPending, ui.Muted("("+dir+")"))
			return nil
		}
		fmt.Fprintf(w, "Saved history %s\n", ui.Muted("("+dir+")"))
		for _, name := range names {
			fmt.Fprintf(w, "  %s %s\n", ui.SymbolComplete, name)
		}
	case "clear":
		for _, name := range names {
			if err := st.Delete(name); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s Cleared %d series\n", ui.SymbolSuccess, len(names))
	default:
		return errors.New(errors.ErrConfig,
			"Unknown history action: "+action,
			"Use one of: list, clear")
	}
	return nil
}
