package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lrucache/internal/cache"
	"lrucache/internal/logging"
)

// ErrBadScript is wrapped by every replay parse error.
var ErrBadScript = errors.New("bad replay script")

// arity is the number of fields (command included) each replay command takes.
var arity = map[string]int{
	"put":   3,
	"get":   2,
	"peek":  2,
	"del":   2,
	"keys":  1,
	"stats": 1,
	"clear": 1,
}

// NewReplayCmd creates the replay command.
func NewReplayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [file|-]",
		Short: "Run an operation script against a string cache",
		Long: `Run an operation script against a string-to-string cache sized by --capacity.

One command per line; blank lines and lines starting with # are ignored:
  put <key> <value>   insert or overwrite, promotes key
  get <key>           read, promotes key on hit
  peek <key>          read without promotion
  del <key>           remove key
  keys                list keys, most recently used first
  stats               print hit/miss/eviction counters
  clear               remove every entry

The script is read from the named file, or from stdin when the argument is
omitted or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open script: %w", err)
				}
				defer f.Close()
				in = f
			}

			r, err := newReplayer(app, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := r.run(cmd.Context(), in); err != nil {
				return err
			}
			return app.logMetrics()
		},
	}
}

// replayer executes script lines against one cache.
type replayer struct {
	cache   *cache.LRU[string, string]
	out     io.Writer
	evicted []string // keys evicted by the current put
}

func newReplayer(app *App, out io.Writer) (*replayer, error) {
	r := &replayer{out: out}

	c, err := cache.New(app.Config.Cache.Capacity, evictionLogger(app.Logger, func(k, _ string) {
		r.evicted = append(r.evicted, k)
	}))
	if err != nil {
		return nil, err
	}
	if err := app.register("replay", c); err != nil {
		return nil, err
	}
	r.cache = c
	return r, nil
}

func (r *replayer) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		fields, err := parseLine(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if fields == nil {
			continue
		}
		if err := r.exec(fields); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	logging.FromContext(ctx).Debug().Int("lines", lineNo).Int("entries", r.cache.Len()).Msg("replay finished")
	return nil
}

// parseLine splits a script line into fields and checks command arity.
// Blank and comment lines yield nil.
func parseLine(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	fields := strings.Fields(line)
	fields[0] = strings.ToLower(fields[0])
	want, ok := arity[fields[0]]
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", ErrBadScript, fields[0])
	}
	if len(fields) != want {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrBadScript, fields[0], want-1, len(fields)-1)
	}
	return fields, nil
}

func (r *replayer) exec(fields []string) error {
	var err error
	switch fields[0] {
	case "put":
		r.evicted = r.evicted[:0]
		r.cache.Put(fields[1], fields[2])
		if len(r.evicted) > 0 {
			_, err = fmt.Fprintf(r.out, "put %s (evicted %s)\n", fields[1], strings.Join(r.evicted, " "))
		} else {
			_, err = fmt.Fprintf(r.out, "put %s\n", fields[1])
		}
	case "get":
		v, ok := r.cache.Get(fields[1])
		err = r.printLookup("get", fields[1], v, ok)
	case "peek":
		v, ok := r.cache.Peek(fields[1])
		err = r.printLookup("peek", fields[1], v, ok)
	case "del":
		_, err = fmt.Fprintf(r.out, "del %s -> %t\n", fields[1], r.cache.Delete(fields[1]))
	case "keys":
		_, err = fmt.Fprintf(r.out, "keys -> [%s]\n", strings.Join(r.cache.Keys(), " "))
	case "stats":
		s := r.cache.Stats()
		_, err = fmt.Fprintf(r.out, "stats -> hits=%d misses=%d evictions=%d len=%d cap=%d\n",
			s.Hits, s.Misses, s.Evictions, s.Len, s.Capacity)
	case "clear":
		r.cache.Clear()
		_, err = fmt.Fprintln(r.out, "clear")
	}
	return err
}

func (r *replayer) printLookup(op, key, value string, ok bool) error {
	if !ok {
		_, err := fmt.Fprintf(r.out, "%s %s -> absent\n", op, key)
		return err
	}
	_, err := fmt.Fprintf(r.out, "%s %s -> %s\n", op, key, value)
	return err
}
